// Package websocket streams rendered layout frames to connected viewers
// and feeds their pan/zoom/hover interactions back to the visualization.
package websocket

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Interaction is a viewer input event received over the socket.
type Interaction struct {
	Type   string  `json:"type"` // hover, pan, zoom, reset
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Factor float64 `json:"factor"`
}

// InteractionHandler consumes viewer interactions
type InteractionHandler interface {
	HandleInteraction(cmd Interaction)
}

// Hub maintains the set of connected viewers and fans frames out to all
// of them. Every viewer sees the same shared visualization.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	frames     chan []byte

	handler InteractionHandler

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	framesSent    int64
	framesDropped int64
}

// NewHub creates a hub. The interaction handler may be nil, in which case
// viewer input is ignored.
func NewHub(handler InteractionHandler, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		frames:     make(chan []byte, 64),
		handler:    handler,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

// SendFrame queues a rendered frame for every viewer. A full queue drops
// the frame; the next tick supersedes it anyway.
func (h *Hub) SendFrame(frame []byte) {
	select {
	case h.frames <- frame:
	default:
		h.mu.Lock()
		h.framesDropped++
		h.mu.Unlock()
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("hub shutting down")
			h.closeAll()
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case frame := <-h.frames:
			h.broadcast(frame)

		case <-ticker.C:
			h.logger.Debug("hub status",
				zap.Int("viewers", h.ClientCount()),
				zap.Int64("framesSent", h.framesSent))
		}
	}
}

// Stop shuts down the hub and closes every connection
func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("viewer connected",
		zap.String("connectionID", client.id),
		zap.Int("viewers", n))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("viewer disconnected",
		zap.String("connectionID", client.id),
		zap.Int("viewers", n))
}

func (h *Hub) broadcast(frame []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- frame:
			h.mu.Lock()
			h.framesSent++
			h.mu.Unlock()
		default:
			// Slow viewer; drop the connection rather than the stream.
			h.logger.Warn("closing slow viewer", zap.String("connectionID", client.id))
			go func(c *Client) {
				h.unregister <- c
				c.conn.Close()
			}(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		client.conn.Close()
		delete(h.clients, client)
	}
}

// handleInteraction forwards one viewer input to the handler
func (h *Hub) handleInteraction(cmd Interaction) {
	if h.handler != nil {
		h.handler.HandleInteraction(cmd)
	}
}

// ClientCount returns the number of connected viewers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
