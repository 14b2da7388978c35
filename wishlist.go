// Package wishlist is a favorites store for storefront catalog items.
//
// A Store holds an ordered, deduplicated collection of items, applies
// ADD, REMOVE and LOAD actions through the pure transition function in
// pkg/collection, and keeps a durable copy in a storage.Storage: the stored
// entry is read once at startup and rewritten after every dispatch.
// Storage problems never reach consumers; they are logged and the store
// carries on with its in-memory state.
package wishlist

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/agentstation/wishlist/pkg/collection"
	"github.com/agentstation/wishlist/pkg/items"
	"github.com/agentstation/wishlist/pkg/logging"
	"github.com/agentstation/wishlist/pkg/storage/memory"
)

// Store manages a wishlist with persistence and change notification.
type Store interface {
	// State returns the current snapshot. Snapshots are immutable; a new
	// pointer means the wishlist changed.
	State() *collection.Collection

	// Dispatch applies an action, persists the result and notifies
	// subscribers before returning. Listeners and hooks run on the
	// dispatching goroutine and must not call Dispatch themselves.
	Dispatch(action collection.Action)

	// Subscribe registers a listener called whenever the snapshot changes.
	// The returned function removes it.
	Subscribe(fn Listener) (unsubscribe func())

	// Add dispatches collection.Add for item and reports whether it was
	// added. An item already on the wishlist is left as it is.
	Add(item items.Item) bool

	// Remove dispatches collection.Remove for id and reports whether an
	// item was removed.
	Remove(id string) bool

	// Contains reports whether id is on the wishlist
	Contains(id string) bool

	// Hydrate loads the stored wishlist. Only the first call does any work.
	Hydrate(ctx context.Context)

	// Hydrated is closed once the startup load has settled
	Hydrated() <-chan struct{}

	// OnItemAdded registers a callback for when items are added
	OnItemAdded(ItemAddedHook)

	// OnItemRemoved registers a callback for when items are removed
	OnItemRemoved(ItemRemovedHook)

	// OnLoaded registers a callback for when the wishlist is replaced
	OnLoaded(LoadedHook)

	// Stats returns dispatch, persistence and hydration counters
	Stats() Stats

	// Close stops the background writer, flushing queued snapshots.
	// The storage backend is left open.
	Close() error
}

// Listener receives the snapshots around a change.
type Listener func(prev, next *collection.Collection)

// origin tells consumer dispatches apart from the startup load.
type origin int

const (
	fromConsumer origin = iota
	fromHydration
)

// store is the internal implementation of the Store interface
type store struct {
	// dispatchMu serializes transitions, persistence and notification
	dispatchMu sync.Mutex
	state      atomic.Pointer[collection.Collection]
	touched    bool // a consumer action changed state
	closed     bool

	config    *config
	logger    *zerolog.Logger
	persister *persister
	counters  *counters

	hydrateOnce sync.Once
	hydrated    chan struct{}

	*hooks
	subs *subscribers
}

// New creates a Store with the given options. Unless WithAsyncHydration or
// WithoutHydration is set, the stored wishlist is loaded before New returns.
func New(opts ...Option) (Store, error) {
	cfg := newDefaultConfig()
	if err := cfg.apply(opts...); err != nil {
		return nil, err
	}
	if cfg.storage == nil {
		cfg.storage = memory.New()
	}
	if cfg.logger == nil {
		cfg.logger = logging.Default()
	}

	logger := cfg.logger.With().
		Str("component", "wishlist").
		Str("storage_key", cfg.key).
		Logger()

	s := &store{
		config:   cfg,
		logger:   &logger,
		counters: &counters{hydration: HydrationPending},
		hydrated: make(chan struct{}),
		hooks:    newHooks(),
		subs:     newSubscribers(),
	}
	s.state.Store(collection.New(cfg.initial...))
	s.persister = newPersister(cfg, s.logger, s.counters)

	switch {
	case !cfg.hydrate:
		s.hydrateOnce.Do(func() {
			s.counters.setHydration(HydrationSkipped)
			close(s.hydrated)
		})
	case cfg.asyncHydrate:
		go s.Hydrate(context.Background())
	default:
		s.Hydrate(context.Background())
	}

	return s, nil
}

// State returns the current snapshot
func (s *store) State() *collection.Collection {
	return s.state.Load()
}

// Dispatch applies a consumer action
func (s *store) Dispatch(action collection.Action) {
	s.dispatch(action, fromConsumer)
}

// Add dispatches collection.Add for item
func (s *store) Add(item items.Item) bool {
	_, changed := s.dispatch(collection.Add{Item: item}, fromConsumer)
	return changed
}

// Remove dispatches collection.Remove for id
func (s *store) Remove(id string) bool {
	_, changed := s.dispatch(collection.Remove{ID: id}, fromConsumer)
	return changed
}

// Contains reports whether id is on the wishlist
func (s *store) Contains(id string) bool {
	return s.State().Contains(id)
}

// dispatch runs one transition. applied is false when the action was a
// startup load that lost the race against a consumer change.
func (s *store) dispatch(action collection.Action, from origin) (applied, changed bool) {
	if action == nil {
		return true, false
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	if from == fromHydration && s.touched {
		return false, false
	}

	prev := s.state.Load()
	next := collection.Reduce(prev, action)
	changed = next != prev

	if from == fromConsumer && changed {
		s.touched = true
	}
	s.state.Store(next)
	s.counters.recordDispatch(action.Type(), changed)

	s.logger.Debug().
		Str("action", action.Type().String()).
		Bool("changed", changed).
		Int("items", next.Len()).
		Msg("Dispatched")

	// Until the stored entry has been read, a no-op would overwrite it with
	// an empty list.
	if changed || s.isHydrated() {
		s.persister.save(next)
	}

	if changed {
		s.subs.notify(prev, next)
		s.hooks.trigger(action.Type(), prev, next)
	}
	return true, changed
}

// Subscribe registers a listener for snapshot changes
func (s *store) Subscribe(fn Listener) func() {
	return s.subs.add(fn)
}

// Hydrated is closed once the startup load has settled
func (s *store) Hydrated() <-chan struct{} {
	return s.hydrated
}

func (s *store) isHydrated() bool {
	select {
	case <-s.hydrated:
		return true
	default:
		return false
	}
}

// Stats returns a snapshot of the store counters
func (s *store) Stats() Stats {
	st := s.counters.snapshot()
	st.Items = s.State().Len()
	st.Subscribers = s.subs.len()
	return st
}

// Close stops the background writer. Later dispatches still update the
// in-memory wishlist but are not persisted.
func (s *store) Close() error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.persister.close()
	return nil
}
