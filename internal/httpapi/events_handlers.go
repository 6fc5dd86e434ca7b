package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"isdjobs-api/internal/events"
)

type EventsHandler struct {
	Hub *events.Hub

	// HeartbeatInterval spaces the keepalive pings; zero means the
	// 30 second default. Tests shrink it.
	HeartbeatInterval time.Duration
}

func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported")
		return
	}

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	interval := h.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	// Ping as a proper event envelope so clients can treat every
	// frame uniformly.
	reqID := RequestIDFrom(r.Context())
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", events.Marshal(reqID, events.TypePing, nil))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", events.Marshal(reqID, events.TypePing, nil))
			flusher.Flush()
		case msg := <-ch:
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
