// Package live pushes layout change notifications to connected browsers
// over websockets. Clients still poll; a message only tells them to poll
// now.
package live

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"factoryfloor/internal/layout"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	queueSize  = 64
)

// Message is what every client receives after a committed layout change.
type Message struct {
	Type    string `json:"type"`
	Op      string `json:"op"`
	Project string `json:"project"`
	By      string `json:"by"`
}

type client struct {
	conn     *websocket.Conn
	username string
	writeMu  sync.Mutex
}

func (c *client) write(fn func() error) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return fn()
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	queue   chan Message
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		queue:   make(chan Message, queueSize),
		log:     log,
	}
}

// LayoutChanged queues a notification. It never blocks the mutating
// request; when the queue is full the event is dropped.
func (h *Hub) LayoutChanged(ev layout.Event) {
	msg := Message{Type: "layout_changed", Op: ev.Op, Project: ev.Project, By: ev.Actor}
	select {
	case h.queue <- msg:
	default:
		h.log.Warn("live queue full, dropping layout event", zap.String("op", ev.Op), zap.String("project", ev.Project))
	}
}

// Run delivers queued messages until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.queue:
			h.Broadcast(msg)
		}
	}
}

// Broadcast writes msg to every client. A client whose write fails is
// dropped.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(func() error { return c.conn.WriteJSON(msg) }); err != nil {
			h.log.Debug("dropping live client", zap.String("username", c.username), zap.Error(err))
			h.unregister(c)
		}
	}
}

func (h *Hub) register(conn *websocket.Conn, username string) *client {
	c := &client{conn: conn, username: username}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}
