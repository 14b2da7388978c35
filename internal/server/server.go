// Package server provides the HTTP server for the wishlist API: REST
// endpoints for the wishlist and catalog, live change streams over
// WebSocket and SSE, and Prometheus metrics.
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/wishlist"
	"github.com/agentstation/wishlist/cmd/application"
	"github.com/agentstation/wishlist/internal/server/cache"
	"github.com/agentstation/wishlist/internal/server/events"
	"github.com/agentstation/wishlist/internal/server/events/adapters"
	"github.com/agentstation/wishlist/internal/server/sse"
	ws "github.com/agentstation/wishlist/internal/server/websocket"
	"github.com/agentstation/wishlist/pkg/collection"
	"github.com/agentstation/wishlist/pkg/constants"
	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/items"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            application.Application
	store          wishlist.Store
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	metrics        *Metrics
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	startTime      time.Time
}

// New creates a new server instance with the given configuration. It
// obtains the wishlist from app and wires its hooks to the event broker.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	defaults := DefaultConfig()
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = defaults.PathPrefix
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if cfg.MaxRequestBody == 0 {
		cfg.MaxRequestBody = defaults.MaxRequestBody
	}

	store, err := app.Wishlist()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.NewConfigError("server", "application has no wishlist", errors.ErrInvalidInput)
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	var metrics *Metrics
	if cfg.MetricsEnabled {
		metrics = NewMetrics(store)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		app:            app,
		store:          store,
		cache:          cache.New(cfg.CacheTTL, constants.CacheCleanupInterval),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		metrics:        metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	s.connectHooks()
	logger.Debug().Msg("Server instance created")
	return s, nil
}

// connectHooks publishes wishlist changes to the broker.
func (s *Server) connectHooks() {
	s.store.OnItemAdded(func(item items.Item) {
		s.broker.Publish(events.ItemAdded, map[string]any{"item": item})
		s.logger.Debug().Str("item_id", item.ID).Msg("Item added event published")
	})

	s.store.OnItemRemoved(func(item items.Item) {
		s.broker.Publish(events.ItemRemoved, map[string]any{"item": item})
		s.logger.Debug().Str("item_id", item.ID).Msg("Item removed event published")
	})

	s.store.OnLoaded(func(state *collection.Collection) {
		s.broker.Publish(events.WishlistLoaded, map[string]any{
			"items": state.Items(),
			"count": state.Len(),
		})
		s.logger.Debug().Int("count", state.Len()).Msg("Wishlist loaded event published")
	})
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	for _, run := range []func(context.Context){s.broker.Run, s.wsHub.Run, s.sseBroadcaster.Run} {
		s.wg.Add(1)
		go func(run func(context.Context)) {
			defer s.wg.Done()
			run(s.ctx)
		}(run)
	}
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// HTTPServer returns an http.Server for Handler with the configured
// timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts the HTTP server
// and the background services down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := s.HTTPServer()
	s.Start()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", httpServer.Addr).Msg("Starting wishlist API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			_ = s.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("Shutting down HTTP server")
	httpErr := httpServer.Shutdown(shutdownCtx)
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return httpErr
}

// Shutdown stops the background services and waits for them to exit or
// for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Background services shut down")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// SSEBroadcaster returns the SSE broadcaster.
func (s *Server) SSEBroadcaster() *sse.Broadcaster {
	return s.sseBroadcaster
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
