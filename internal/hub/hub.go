// Package hub fans dashboard events out over Server-Sent Events.
//
// Each event becomes one SSE frame with an id, an event name and a JSON data
// line. A stream opened with ?domain=<id> only receives events scoped to that
// domain plus unscoped ones such as catalog reloads.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KeepAlive is the interval between comment frames on idle streams
const KeepAlive = 30 * time.Second

// Message is one event to broadcast
type Message struct {
	Name   string // SSE event name; empty sends an unnamed "message" event
	Domain string // Scope; empty reaches every client
	Data   any
}

type frame struct {
	domain string
	data   []byte
}

type client struct {
	id     string
	domain string
	frames chan []byte
}

func (c *client) wants(f frame) bool {
	return c.domain == "" || f.domain == "" || c.domain == f.domain
}

// Hub manages SSE client connections
type Hub struct {
	mu         sync.RWMutex
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan Message
	done       chan struct{}
	seq        uint64
	logger     *zap.Logger
	keepAlive  time.Duration
}

// New creates a new Hub
func New(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Message, 256),
		done:       make(chan struct{}),
		logger:     logger,
		keepAlive:  KeepAlive,
	}
}

// Run starts the hub's event loop and blocks until ctx is done. On return
// every client stream is closed.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.frames)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("sse client connected",
				zap.String("client", c.id),
				zap.String("domain", c.domain),
				zap.Int("total", n))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.frames)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("sse client disconnected", zap.String("client", c.id), zap.Int("total", n))

		case m := <-h.broadcast:
			h.seq++
			f, err := encode(h.seq, m)
			if err != nil {
				h.logger.Error("failed to encode event", zap.String("event", m.Name), zap.Error(err))
				continue
			}

			h.mu.RLock()
			for c := range h.clients {
				if !c.wants(f) {
					continue
				}
				select {
				case c.frames <- f.data:
				default:
					h.logger.Warn("sse client is slow, skipping event", zap.String("client", c.id))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// encode renders m as an SSE frame
func encode(id uint64, m Message) (frame, error) {
	data, err := json.Marshal(m.Data)
	if err != nil {
		return frame{}, err
	}

	var b bytes.Buffer
	b.WriteString("id: ")
	b.WriteString(strconv.FormatUint(id, 10))
	b.WriteByte('\n')
	if m.Name != "" {
		b.WriteString("event: ")
		b.WriteString(m.Name)
		b.WriteByte('\n')
	}
	b.WriteString("data: ")
	b.Write(data)
	b.WriteString("\n\n")

	return frame{domain: m.Domain, data: b.Bytes()}, nil
}

// Broadcast queues m for every interested client. It never blocks; when the
// queue is full the message is dropped.
func (h *Hub) Broadcast(m Message) {
	select {
	case h.broadcast <- m:
	default:
		h.logger.Warn("broadcast channel full, dropping event", zap.String("event", m.Name))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles SSE connections
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	c := &client{
		id:     uuid.NewString(),
		domain: r.URL.Query().Get("domain"),
		frames: make(chan []byte, 64),
	}

	select {
	case h.register <- c:
	case <-h.done:
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	case <-r.Context().Done():
		return
	}

	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.frames:
			if !ok {
				return
			}
			if _, err := w.Write(data); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
