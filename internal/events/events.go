package events

import (
	"encoding/json"
	"sync"
	"time"
)

// Event types published on the hub.
const (
	TypePing            = "ping"
	TypeSearchCompleted = "search_completed"
	TypeBookmarkSaved   = "bookmark_saved"
	TypeBookmarkUpdated = "bookmark_updated"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type SearchCompletedData struct {
	Count      int   `json:"count"`
	DurationMS int64 `json:"duration_ms"`
}

type BookmarkData struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

// Hub fans serialized events out to SSE subscribers. A subscriber that
// cannot keep up drops events rather than block the publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, 10)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

// Marshal builds the serialized v1 event envelope.
func Marshal(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	b, _ := json.Marshal(Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	})
	return string(b)
}

// Publish serializes one event and hands it to every subscriber.
func (h *Hub) Publish(reqID, typ string, data any) {
	msg := Marshal(reqID, typ, data)

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
			// drop if slow
		}
	}
}
