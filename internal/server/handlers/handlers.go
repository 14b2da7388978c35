// Package handlers provides HTTP request handlers for the wishlist API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/wishlist/cmd/application"
	"github.com/agentstation/wishlist/internal/server/cache"
	"github.com/agentstation/wishlist/internal/server/response"
	"github.com/agentstation/wishlist/internal/server/sse"
	ws "github.com/agentstation/wishlist/internal/server/websocket"
	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/logging"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app            application.Application
	cache          *cache.Cache
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
}

// New creates a new Handlers instance.
func New(
	app application.Application,
	cache *cache.Cache,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		app:            app,
		cache:          cache,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
	}
}

// decodeBody decodes a JSON request body into dst and writes the error
// response itself when it fails.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.PayloadTooLarge(w, tooLarge.Limit)
		return false
	}
	logging.FromContext(r.Context()).Debug().Err(err).Msg("Rejected request body")
	response.ErrorFromType(w, errors.NewParseError("json", "request body", err.Error(), err))
	return false
}
