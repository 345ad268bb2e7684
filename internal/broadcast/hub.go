// Package broadcast fans engine events out to websocket subscribers. It is
// the push-notification collaborator: the engine publishes committed events
// and never waits on a slow consumer.
package broadcast

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"auction-engine/internal/events"
	"auction-engine/utils"
)

const (
	subscriberBuffer = 256
	writeWait        = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub implements engine.Broadcaster over a set of websocket connections.
type Hub struct {
	mu          sync.Mutex
	subscribers map[int]chan events.Envelope
	nextID      int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[int]chan events.Envelope)}
}

// Publish delivers an envelope to every subscriber. A subscriber whose
// buffer is full is evicted rather than blocking the engine.
func (h *Hub) Publish(ev events.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			close(ch)
			delete(h.subscribers, id)
			utils.Warn("evicted slow broadcast subscriber", map[string]any{"subscriber_id": id})
		}
	}
}

// Subscribe registers a new consumer and returns its event channel plus a
// cancel func. The channel is closed on cancel or eviction.
func (h *Hub) Subscribe() (<-chan events.Envelope, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan events.Envelope, subscriberBuffer)
	h.subscribers[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(c)
		}
	}
	return ch, cancel
}

// SubscriberCount reports the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// ServeWS upgrades an HTTP request and streams events to the connection
// until the client disconnects or falls too far behind.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Warn("websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}
	defer conn.Close()

	ch, cancel := h.Subscribe()
	defer cancel()

	// Drain inbound frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for ev := range ch {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}
