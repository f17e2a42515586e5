package sse

import (
	"path/filepath"
	"sync"

	"github.com/kbukum/extkit/logger"
)

// Client is a connected SSE client. Ids are "<topic>:<unique>", so a
// pattern such as "editor.themes:*" addresses every subscriber of a topic.
type Client struct {
	id     string
	events chan Event
}

// NewClient creates a client with a buffered event channel.
func NewClient(id string) *Client {
	return &Client{id: id, events: make(chan Event, 64)}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string { return c.id }

// Events returns the channel the client reads events from.
func (c *Client) Events() <-chan Event { return c.events }

// Send queues ev. It returns false, dropping the event, when the client is
// too slow to keep up.
func (c *Client) Send(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

func (c *Client) close() { close(c.events) }

type message struct {
	pattern string
	event   Event
}

// Hub routes events to registered clients. Run drives it; every method is
// safe to call before Run or after Stop.
type Hub struct {
	log *logger.Logger

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}

	mu       sync.RWMutex
	stopOnce sync.Once
}

var _ Broadcaster = (*Hub)(nil)

// NewHub creates a stopped hub. A nil log uses the "sse" logger.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Get("sse")
	}
	return &Hub{
		log:        log,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It returns after Stop, closing every client.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("Client registered", logger.Fields("client_id", client.id, "clients", n))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("Client unregistered", logger.Fields("client_id", client.id, "clients", n))

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Stop makes Run return. Safe to call multiple times.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.close()
		delete(h.clients, id)
	}
}

// Register adds a client. It returns false when the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToPattern queues ev for every client whose id matches pattern
// (filepath.Match syntax). It never blocks: when the queue is full the
// event is dropped.
func (h *Hub) BroadcastToPattern(pattern string, ev Event) {
	select {
	case h.broadcast <- message{pattern: pattern, event: ev}:
	default:
		h.log.Warn("Broadcast queue full, dropping event", logger.Fields("pattern", pattern, "type", ev.Type))
	}
}

func (h *Hub) deliver(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, client := range h.clients {
		matched, err := filepath.Match(msg.pattern, id)
		if err != nil {
			h.log.Error("Bad broadcast pattern", logger.Fields("pattern", msg.pattern, "error", err.Error()))
			return
		}
		if matched && !client.Send(msg.event) {
			h.log.Warn("Client too slow, dropping event", logger.Fields("client_id", id))
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ClientIDs returns the ids of the connected clients.
func (h *Hub) ClientIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}
