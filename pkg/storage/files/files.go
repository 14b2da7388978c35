// Package files provides a Storage backend that keeps each key in its own
// file under a directory. Writes go to a temporary file that is renamed
// over the target, so a failed write leaves the previous value intact.
package files

import (
	"context"
	"io/fs"
	"net/url"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/agentstation/wishlist/pkg/constants"
	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/storage"
)

const fileExt = ".json"

// Option is a function that configures a Store
type Option func(*config) error

// config is the configuration for a Store
type config struct {
	fs       afero.Fs
	readOnly bool
}

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(cfg *config) error {
		if fsys == nil {
			return errors.NewConfigError("files", "filesystem cannot be nil", nil)
		}
		cfg.fs = fsys
		return nil
	}
}

// WithReadOnly rejects Set and Delete.
func WithReadOnly(readOnly bool) Option {
	return func(cfg *config) error {
		cfg.readOnly = readOnly
		return nil
	}
}

// Store is a directory-backed Storage.
type Store struct {
	fs       afero.Fs
	dir      string
	readOnly bool
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.NewConfigError("files", "directory is required", nil)
	}

	cfg := &config{fs: afero.NewOsFs()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if !cfg.readOnly {
		if err := cfg.fs.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}

	return &Store{fs: cfg.fs, dir: dir, readOnly: cfg.readOnly}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string {
	return s.dir
}

// path maps a key to a file name. Keys are escaped so they cannot leave
// the directory.
func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+fileExt)
}

// Get implements storage.Storage
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	data, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.WrapIO("get", s.path(key), err)
	}
	return string(data), true, nil
}

// Set implements storage.Storage
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.writable("set", key); err != nil {
		return err
	}
	if err := storage.ValidateKey(key); err != nil {
		return err
	}

	target := s.path(key)
	tmp, err := afero.TempFile(s.fs, s.dir, ".tmp-*")
	if err != nil {
		return errors.WrapIO("set", target, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return errors.WrapIO("set", target, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return errors.WrapIO("set", target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return errors.WrapIO("set", target, err)
	}
	if err := s.fs.Chmod(tmpName, constants.FilePermissions); err != nil {
		_ = s.fs.Remove(tmpName)
		return errors.WrapIO("set", target, err)
	}
	if err := s.fs.Rename(tmpName, target); err != nil {
		_ = s.fs.Remove(tmpName)
		return errors.WrapIO("set", target, err)
	}
	return nil
}

// Delete implements storage.Storage
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.writable("delete", key); err != nil {
		return err
	}
	err := s.fs.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.WrapIO("delete", s.path(key), err)
	}
	return nil
}

func (s *Store) writable(op, key string) error {
	if s.readOnly {
		return errors.NewResourceError(op, "key", key, errors.New("storage is read-only"))
	}
	return nil
}
