// Package websocket pushes dataset lifecycle events to connected dashboards.
package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// Config holds keep-alive settings for client connections.
type Config struct {
	PingInterval time.Duration
	PongWait     time.Duration
}

// Hub maintains the set of active clients and fans events out to all of them.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan domain.DatasetEvent
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// mu protects clients
	mu sync.RWMutex

	cfg    Config
	logger *slog.Logger
}

var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(cfg Config, logger *slog.Logger) *Hub {
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60 * time.Second
	}
	if cfg.PingInterval <= 0 || cfg.PingInterval >= cfg.PongWait {
		cfg.PingInterval = (cfg.PongWait * 9) / 10
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan domain.DatasetEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		cfg:        cfg,
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast queues an event for every connected client. Events are dropped
// when the queue is full.
func (h *Hub) Broadcast(event domain.DatasetEvent) error {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"dataset_id", event.DatasetID,
		)
	}
	return nil
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// disconnects every client. It must run in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Register hands a client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. Safe to call after the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client registered",
		"client_id", client.ID,
		"total_connections", total,
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if !ok {
		return
	}
	client.CloseSend()
	h.logger.Info("client unregistered", "client_id", client.ID)
}

func (h *Hub) broadcastEvent(event domain.DatasetEvent) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"dataset_id", event.DatasetID,
		"client_count", len(clients),
	)

	for _, client := range clients {
		if !client.enqueue(event) {
			h.logger.Warn("client send buffer full, unregistering", "client_id", client.ID)
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]bool)
	h.mu.Unlock()

	for client := range clients {
		client.CloseSend()
	}
	h.logger.Info("websocket hub stopped", "disconnected", len(clients))
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
