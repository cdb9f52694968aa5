// Package hub fans a server→client message out to every connected chat
// client, honoring a configurable backpressure policy when a client's
// outbound queue is full.
package hub

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kstaniek/go-chippy-chat/internal/logging"
	"github.com/kstaniek/go-chippy-chat/internal/metrics"
	"github.com/kstaniek/go-chippy-chat/protocol"
)

// BackpressurePolicy governs what the hub does when a client's Out channel
// is full.
type BackpressurePolicy int

const (
	// PolicyDrop silently discards the message for that one slow client.
	PolicyDrop BackpressurePolicy = iota
	// PolicyKick disconnects the slow client instead.
	PolicyKick
)

// Client is a hub-registered chat connection's outbound side. ID is set
// once the connection has introduced itself; the zero uuid.UUID means not
// yet introduced.
type Client struct {
	ID        uuid.UUID
	Out       chan protocol.ToClientMessage
	Closed    chan struct{}
	closeOnce sync.Once
}

// Close signals the client is closed; idempotent.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.Closed) })
}

// Hub tracks every connected client and broadcasts to them.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	OutBufSize int
	Policy     BackpressurePolicy
}

// New creates an empty Hub with default settings.
func New() *Hub { return &Hub{clients: make(map[*Client]struct{})} }

// Add registers a client with the hub.
func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	prev := len(h.clients)
	h.clients[c] = struct{}{}
	cur := len(h.clients)
	h.mu.Unlock()
	metrics.SetHubClients(cur)
	if prev == 0 && cur == 1 {
		logging.L().Info("clients_first_connected")
	}
}

// Remove unregisters a client; safe to call multiple times.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	_, existed := h.clients[c]
	if existed {
		delete(h.clients, c)
	}
	cur := len(h.clients)
	h.mu.Unlock()
	select {
	case <-c.Closed:
	default:
		c.Close()
	}
	metrics.SetHubClients(cur)
	if existed && cur == 0 {
		logging.L().Info("clients_last_disconnected")
	}
}

// Broadcast sends msg to every connected client, honoring Policy for any
// client whose Out channel is full.
func (h *Hub) Broadcast(msg protocol.ToClientMessage) {
	clients := h.Snapshot()
	metrics.SetBroadcastFanout(len(clients))
	for _, c := range clients {
		select {
		case c.Out <- msg:
		default:
			if h.Policy == PolicyKick {
				metrics.IncHubKick()
				c.Close() // the writer goroutine exits; the server Removes on disconnect.
			} else {
				metrics.IncHubDrop()
			}
		}
	}
}

// Admin broadcasts an AdminMsg with the given content, the shape used for
// join/leave notices and other server-injected announcements.
func (h *Hub) Admin(content string) { h.Broadcast(protocol.AdminMsg(content)) }

// Unicast sends msg to a single client, honoring Policy the same way
// Broadcast does.
func (h *Hub) Unicast(c *Client, msg protocol.ToClientMessage) {
	select {
	case c.Out <- msg:
	default:
		if h.Policy == PolicyKick {
			metrics.IncHubKick()
			c.Close()
		} else {
			metrics.IncHubDrop()
		}
	}
}

// Snapshot returns a slice copy of the currently connected clients.
func (h *Hub) Snapshot() []*Client {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	return clients
}

// Count returns the number of active clients.
func (h *Hub) Count() int { h.mu.RLock(); n := len(h.clients); h.mu.RUnlock(); return n }
