// Package app provides the application context and dependency management
// for the wishlist CLI. It centralizes configuration, logging, and the
// lifecycle of the wishlist store and its storage backend.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/wishlist"
	"github.com/agentstation/wishlist/cmd/application"
	"github.com/agentstation/wishlist/internal/catalog"
	"github.com/agentstation/wishlist/internal/cmd/output"
	"github.com/agentstation/wishlist/internal/server"
	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/storage"
)

// App represents the wishlist application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// lazily created, then owned until Shutdown
	mu            sync.Mutex
	store         wishlist.Store
	storageCloser io.Closer
	catalog       *catalog.Catalog

	// out receives command output; nil means stdout
	out io.Writer

	// storageFactory is replaced in tests
	storageFactory func(*Config) (storage.Storage, io.Closer, error)
}

var _ application.Application = (*App)(nil)

// Option configures an App.
type Option func(*App) error

// WithConfig replaces the loaded configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		if cfg == nil {
			return errors.NewConfigError("app", "config cannot be nil", nil)
		}
		a.config = cfg
		logger := NewLogger(cfg)
		a.logger = &logger
		return nil
	}
}

// WithStorage makes the app use s instead of opening the configured
// backend. The app does not close it.
func WithStorage(s storage.Storage) Option {
	return func(a *App) error {
		a.storageFactory = func(*Config) (storage.Storage, io.Closer, error) {
			return s, nopCloser{}, nil
		}
		return nil
	}
}

// WithOutput sends command output to w.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

// WithLogger replaces the configured logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version:        version,
		commit:         commit,
		date:           date,
		builtBy:        builtBy,
		storageFactory: openStorage,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the requested output format, or the one detected
// from the terminal.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Wishlist returns the wishlist store, opening storage and loading the
// saved wishlist on first use.
func (a *App) Wishlist() (wishlist.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store, nil
	}

	backend, closer, err := a.storageFactory(a.config)
	if err != nil {
		return nil, errors.WrapResource("open", "storage", string(a.config.StorageDriver), err)
	}

	store, err := wishlist.New(
		wishlist.WithStorage(backend),
		wishlist.WithKey(a.config.StorageKey),
		wishlist.WithLogger(a.logger),
	)
	if err != nil {
		_ = closer.Close()
		return nil, errors.WrapResource("create", "wishlist", "", err)
	}

	a.logger.Debug().
		Str("driver", string(a.config.StorageDriver)).
		Int("items", store.State().Len()).
		Msg("Wishlist ready")

	a.store = store
	a.storageCloser = closer
	return store, nil
}

// Catalog returns the catalog, loading it on first use.
func (a *App) Catalog() (*catalog.Catalog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalog != nil {
		return a.catalog, nil
	}
	cat, err := catalog.Load(a.config.CatalogPath)
	if err != nil {
		return nil, errors.WrapResource("load", "catalog", a.config.CatalogPath, err)
	}
	a.catalog = cat
	return cat, nil
}

// ServerConfig returns the HTTP server configuration derived from the app
// configuration.
func (a *App) ServerConfig() server.Config {
	cfg := server.DefaultConfig()
	if a.config.ServerHost != "" {
		cfg.Host = a.config.ServerHost
	}
	if a.config.ServerPort != 0 {
		cfg.Port = a.config.ServerPort
	}
	return cfg
}

// Shutdown flushes the wishlist and closes the storage backend. It is safe
// to call more than once.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	store, closer := a.store, a.storageCloser
	a.store, a.storageCloser = nil, nil
	a.mu.Unlock()

	if store == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		err := store.Close()
		if cerr := closer.Close(); err == nil {
			err = cerr
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
