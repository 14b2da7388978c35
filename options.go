package wishlist

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/wishlist/pkg/constants"
	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/items"
	"github.com/agentstation/wishlist/pkg/storage"
)

// Option is a function that configures a Store
type Option func(*config) error

// config holds the settings a Store is built from
type config struct {
	storage        storage.Storage
	key            string
	logger         *zerolog.Logger
	hydrate        bool
	asyncHydrate   bool
	hydrateTimeout time.Duration
	persistQueue   int // 0 means write inline
	persistTimeout time.Duration
	initial        []items.Item
}

func newDefaultConfig() *config {
	return &config{
		key:            storage.DefaultKey,
		hydrate:        true,
		hydrateTimeout: constants.DefaultTimeout,
		persistTimeout: constants.DefaultTimeout,
	}
}

// WithStorage sets the durable store. Without it the wishlist lives in
// memory for the lifetime of the process.
func WithStorage(s storage.Storage) Option {
	return func(c *config) error {
		if s == nil {
			return errors.NewConfigError("wishlist", "storage cannot be nil", nil)
		}
		c.storage = s
		return nil
	}
}

// WithKey sets the durable entry the wishlist is read from and written to.
func WithKey(key string) Option {
	return func(c *config) error {
		if err := storage.ValidateKey(key); err != nil {
			return errors.NewConfigError("wishlist", "invalid storage key", err)
		}
		c.key = key
		return nil
	}
}

// WithLogger sets the logger. Defaults to logging.Default().
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithAsyncHydration makes New return immediately and load the stored
// wishlist in the background. Use Store.Hydrated to wait for it.
//
// A consumer Add, Remove or Load that changes the wishlist before the load
// finishes wins, and the stored snapshot is discarded. A duplicate Add or a
// Remove of an absent id changes nothing and does not discard it.
func WithAsyncHydration() Option {
	return func(c *config) error {
		c.asyncHydrate = true
		return nil
	}
}

// WithoutHydration skips reading the stored wishlist. The store starts
// empty and the first change overwrites the stored entry.
func WithoutHydration() Option {
	return func(c *config) error {
		c.hydrate = false
		return nil
	}
}

// WithHydrationTimeout bounds the initial storage read.
func WithHydrationTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.NewConfigError("wishlist", "hydration timeout must be positive", nil)
		}
		c.hydrateTimeout = d
		return nil
	}
}

// WithAsyncPersistence moves storage writes to a background writer with a
// queue of the given size. When the queue is full a snapshot is dropped;
// the next change writes the full wishlist again.
func WithAsyncPersistence(queueSize int) Option {
	return func(c *config) error {
		if queueSize <= 0 {
			queueSize = constants.PersistQueueSize
		}
		c.persistQueue = queueSize
		return nil
	}
}

// WithPersistTimeout bounds each storage write.
func WithPersistTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.NewConfigError("wishlist", "persist timeout must be positive", nil)
		}
		c.persistTimeout = d
		return nil
	}
}

// WithInitialItems sets the items the store starts with. They are not
// written anywhere until the first change, and a stored wishlist found by
// hydration replaces them.
func WithInitialItems(list ...items.Item) Option {
	return func(c *config) error {
		c.initial = make([]items.Item, len(list))
		for i, it := range list {
			c.initial[i] = it.Clone()
		}
		return nil
	}
}

// apply applies the given options to the config
func (c *config) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}
