package sse

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kbukum/extkit/logger"
)

// KeepAliveInterval is the period of the comment lines that keep idle
// connections open through proxies.
var KeepAliveInterval = 30 * time.Second

// ServeSSE streams the events of a new client with the given id until the
// request context ends or the hub stops. connected is sent as the data of
// the initial "connected" event.
func ServeSSE(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string, connected []byte) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Streams outlive the server's WriteTimeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		hub.log.Debug("Could not disable write deadline", logger.Fields("client_id", clientID, "error", err.Error()))
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	client := NewClient(clientID)
	if !hub.Register(client) {
		http.Error(w, "event stream closed", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	writeEvent(w, Event{Type: EventTypeConnected, Data: connected})
	flusher.Flush()

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-client.Events():
			if !ok {
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
		case <-keepAlive.C:
			_, _ = fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, ev Event) {
	typ := ev.Type
	if typ == "" {
		typ = EventTypeMessage
	}
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", typ, ev.Data)
}
