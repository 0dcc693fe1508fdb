package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxStreamConns = 8
	streamBuffer   = 64
	writeTimeout   = 5 * time.Second
	readTimeout    = 60 * time.Second
)

// StreamMessage is one websocket frame. Hello carries the current snapshot;
// result frames carry a command outcome and the step it completed at.
type StreamMessage struct {
	Type     string    `json:"type"` // "hello", "result", "end"
	Run      int       `json:"run"`
	Step     int       `json:"step"`
	Result   any       `json:"result,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Hub fans stream messages out to connected clients. A client that falls
// behind loses messages rather than stalling the simulation.
type Hub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[chan []byte]struct{})}
}

func (h *Hub) subscribe() (chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) >= maxStreamConns {
		return nil, false
	}
	ch := make(chan []byte, streamBuffer)
	h.clients[ch] = struct{}{}
	return ch, true
}

func (h *Hub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, ch)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every client.
func (h *Hub) Broadcast(msg StreamMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("stream encode failed", "type", msg.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- b:
		default:
			// Slow client; drop.
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // read-only observer
}

// handleStream upgrades to a websocket, greets with the current snapshot and
// then forwards every broadcast until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ch, ok := s.hub.subscribe()
	if !ok {
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}
	defer s.hub.unsubscribe(ch)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	snap := s.Snapshot()
	hello, _ := json.Marshal(StreamMessage{Type: "hello", Run: snap.Run, Step: snap.Step, Snapshot: snap})
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		return
	}
	slog.Info("stream client connected", "remote", clientIP(r), "clients", s.hub.Count())

	// Reader: the client sends nothing useful, but reading detects close.
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(readTimeout / 2)
	defer ping.Stop()

	for {
		select {
		case b := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-done:
			slog.Info("stream client disconnected", "remote", clientIP(r))
			return
		case <-r.Context().Done():
			return
		}
	}
}
