package server

import (
	"net/http"

	"github.com/agentstation/wishlist/internal/server/handlers"
	"github.com/agentstation/wishlist/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.app,
		s.cache,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
	)

	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	// Wishlist
	mux.HandleFunc("GET "+prefix+"/wishlist", h.HandleGetWishlist)
	mux.HandleFunc("POST "+prefix+"/wishlist/items", h.HandleAddItem)
	mux.HandleFunc("GET "+prefix+"/wishlist/items/{id}", h.HandleGetWishlistItem)
	mux.HandleFunc("DELETE "+prefix+"/wishlist/items/{id}", h.HandleRemoveItem)

	// Catalog
	mux.HandleFunc("GET "+prefix+"/catalog", h.HandleListCatalog)
	mux.HandleFunc("GET "+prefix+"/catalog/categories", h.HandleCategories)
	mux.HandleFunc("GET "+prefix+"/catalog/{id}", h.HandleGetCatalogItem)

	// Real-time
	mux.HandleFunc("GET "+prefix+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc("GET "+prefix+"/updates/stream", h.HandleSSE)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(mux *http.ServeMux) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}

	if s.config.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(s.config.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = s.config.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	chain = append(chain, middleware.MaxBodySize(s.config.MaxRequestBody))

	if s.metrics != nil {
		chain = append(chain, middleware.Observe(s.metrics, func(r *http.Request) string {
			if _, pattern := mux.Handler(r); pattern != "" {
				return pattern
			}
			return "unmatched"
		}))
	}

	return middleware.Chain(chain...)(mux)
}
