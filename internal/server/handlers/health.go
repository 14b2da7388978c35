package handlers

import (
	"net/http"

	"github.com/agentstation/wishlist/internal/server/response"
)

// HandleHealth handles GET /api/v1/health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "wishlist-api",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /api/v1/ready. The server is ready once the
// wishlist's startup load has settled, whatever its outcome.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	store, err := h.app.Wishlist()
	if err != nil {
		response.ServiceUnavailable(w, "Wishlist not available")
		return
	}

	select {
	case <-store.Hydrated():
	default:
		response.ServiceUnavailable(w, "Wishlist is still loading")
		return
	}

	stats := store.Stats()
	response.OK(w, map[string]any{
		"status":            "ready",
		"hydration":         stats.Hydration,
		"items":             stats.Items,
		"cache":             h.cache.GetStats(),
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
