package handlers

import (
	"net/http"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	ws "github.com/agentstation/wishlist/internal/server/websocket"
)

// HandleWebSocket handles WebSocket connections at /api/v1/updates/ws.
// The new client is greeted with client.connected before it receives any
// broadcast.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(uuid.NewString(), h.wsHub, conn)
	client.Greet(ws.Message{
		ID:        uuid.NewString(),
		Type:      "client.connected",
		Timestamp: utc.Now(),
		Data: map[string]any{
			"client_id": client.ID(),
			"message":   "Connected to wishlist updates",
		},
	})
	h.wsHub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// HandleSSE handles Server-Sent Events at /api/v1/updates/stream.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
