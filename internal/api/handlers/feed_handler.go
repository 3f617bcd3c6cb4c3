package handlers

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/culture-explorer/backend/internal/corpus"
	"github.com/culture-explorer/backend/internal/metrics"
	"github.com/culture-explorer/backend/pkg/logger"
)

type feedMessage struct {
	Type      string         `json:"type"`
	Timestamp int64          `json:"timestamp"`
	Record    *corpus.Record `json:"record,omitempty"`
}

// FeedHub pushes accepted contributions to connected websocket clients so
// the community gallery updates without polling. Slow or dead clients are
// dropped on write failure.
type FeedHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewFeedHub() *FeedHub {
	return &FeedHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// HandleConnection is the fiber websocket entrypoint. The read loop exists
// only to detect the client going away; inbound messages are discarded.
func (h *FeedHub) HandleConnection(c *websocket.Conn) {
	h.register(c)
	defer h.unregister(c)

	welcome := feedMessage{
		Type:      "connected",
		Timestamp: time.Now().Unix(),
	}
	if err := c.WriteJSON(welcome); err != nil {
		return
	}

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// NotifyAccepted broadcasts a freshly accepted record to every client.
func (h *FeedHub) NotifyAccepted(rec corpus.Record) {
	msg := feedMessage{
		Type:      "entry_accepted",
		Timestamp: time.Now().Unix(),
		Record:    &rec,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug("Dropping dead feed client", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
			metrics.FeedClients.Dec()
		}
	}
}

func (h *FeedHub) register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	metrics.FeedClients.Inc()
}

func (h *FeedHub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		metrics.FeedClients.Dec()
	}
	h.mu.Unlock()
	c.Close()
}
