package websocket

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wishlist/pkg/logging"
)

func runHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub, cancel
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestHubBroadcast(t *testing.T) {
	hub, _ := runHub(t)

	clients := []*Client{NewClient("a", hub, nil), NewClient("b", hub, nil)}
	for _, c := range clients {
		hub.Register(c)
	}
	waitClients(t, hub, 2)

	hub.Broadcast(Message{Type: "item.added", Timestamp: utc.Now(), Data: map[string]any{"id": "p1"}})

	for _, c := range clients {
		select {
		case msg := <-c.send:
			assert.Equal(t, "item.added", msg.Type)
		case <-time.After(time.Second):
			t.Fatalf("client %s did not receive the message", c.ID())
		}
	}
}

func TestHubMessageOrdering(t *testing.T) {
	hub, _ := runHub(t)
	client := NewClient("ordered", hub, nil)
	hub.Register(client)
	waitClients(t, hub, 1)

	for i := 0; i < 20; i++ {
		hub.Broadcast(Message{Type: fmt.Sprintf("msg-%d", i)})
	}
	for i := 0; i < 20; i++ {
		select {
		case msg := <-client.send:
			assert.Equal(t, fmt.Sprintf("msg-%d", i), msg.Type)
		case <-time.After(time.Second):
			t.Fatalf("message %d not received", i)
		}
	}
}

func TestHubGreetComesFirst(t *testing.T) {
	hub, _ := runHub(t)
	client := NewClient("new", hub, nil)
	client.Greet(Message{Type: "client.connected"})
	hub.Register(client)
	waitClients(t, hub, 1)
	hub.Broadcast(Message{Type: "item.added"})

	assert.Equal(t, "client.connected", (<-client.send).Type)
	assert.Equal(t, "item.added", (<-client.send).Type)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub, _ := runHub(t)
	client := NewClient("slow", hub, nil)
	hub.Register(client)
	waitClients(t, hub, 1)

	for i := 0; i <= cap(client.send); i++ {
		hub.broadcast <- Message{Type: "flood"}
	}
	waitClients(t, hub, 0)
}

func TestHubShutdown(t *testing.T) {
	hub, cancel := runHub(t)
	client := NewClient("c", hub, nil)
	hub.Register(client)
	waitClients(t, hub, 1)

	cancel()
	waitClients(t, hub, 0)

	_, open := <-client.send
	assert.False(t, open)
}

func TestHubUnregister(t *testing.T) {
	hub, _ := runHub(t)
	client := NewClient("c", hub, nil)
	hub.Register(client)
	waitClients(t, hub, 1)

	hub.unregister <- client
	hub.unregister <- client
	waitClients(t, hub, 0)
}
