package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/perflens/perflens/internal/loadrun"
)

// SSEWriter writes load-run lifecycle events to an http.ResponseWriter as
// Server-Sent Events. Call Init once before writing any events to set the
// required headers.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSEWriter wrapping the given ResponseWriter.
// The ResponseWriter must implement http.Flusher for streaming to work; if
// it does not, writes will still succeed but may be buffered.
func NewSSEWriter(w http.ResponseWriter) *SSEWriter {
	f, _ := w.(http.Flusher)
	return &SSEWriter{
		w:       w,
		flusher: f,
	}
}

// Init sets the SSE response headers and flushes them to the client. Call
// this exactly once before the first WriteEvent call.
func (sw *SSEWriter) Init() {
	h := sw.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
}

// WriteEvent writes one lifecycle event in SSE format, using the lifecycle
// name as the SSE event name:
//
//	event: {name}\n
//	data: {json}\n\n
//
// The connection is flushed after each event so subscribers see it
// immediately.
func (sw *SSEWriter) WriteEvent(ev loadrun.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("sse: marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(sw.w, "event: %s\ndata: %s\n\n", ev.Name, data); err != nil {
		return fmt.Errorf("sse: write event: %w", err)
	}
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
	return nil
}
