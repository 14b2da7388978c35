// Package memory provides an in-process Storage backend. It does not
// survive a restart and is used for tests and session-only wishlists.
package memory

import (
	"context"
	"sync"

	"github.com/agentstation/wishlist/pkg/errors"
)

// Store is a map-backed Storage. Read and write failures can be injected
// to exercise degraded paths.
type Store struct {
	mu       sync.RWMutex
	data     map[string]string
	readErr  error
	writeErr error
	sets     int
	closed   bool
}

// Option configures a Store.
type Option func(*Store)

// WithData seeds the store.
func WithData(data map[string]string) Option {
	return func(s *Store) {
		for k, v := range data {
			s.data[k] = v
		}
	}
}

// WithFailingReads makes every Get return err.
func WithFailingReads(err error) Option {
	return func(s *Store) {
		s.readErr = err
	}
}

// WithFailingWrites makes every Set and Delete return err.
func WithFailingWrites(err error) Option {
	return func(s *Store) {
		s.writeErr = err
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{data: make(map[string]string)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements storage.Storage
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, errors.WrapIO("get", key, errors.ErrClosed)
	}
	if s.readErr != nil {
		return "", false, errors.WrapIO("get", key, s.readErr)
	}
	v, ok := s.data[key]
	return v, ok, nil
}

// Set implements storage.Storage
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.WrapIO("set", key, errors.ErrClosed)
	}
	if s.writeErr != nil {
		return errors.WrapIO("set", key, s.writeErr)
	}
	s.data[key] = value
	s.sets++
	return nil
}

// Delete implements storage.Storage
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.WrapIO("delete", key, errors.ErrClosed)
	}
	if s.writeErr != nil {
		return errors.WrapIO("delete", key, s.writeErr)
	}
	delete(s.data, key)
	return nil
}

// SetFailures replaces the injected read and write errors. Pass nil to
// restore normal behavior.
func (s *Store) SetFailures(readErr, writeErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = readErr
	s.writeErr = writeErr
}

// Writes returns the number of successful Set calls.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets
}

// Snapshot returns a copy of the stored entries.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Close marks the store closed. Later calls fail with errors.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
