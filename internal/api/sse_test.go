package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perflens/perflens/internal/loadrun"
)

func TestSSEWriter_WritesNamedEvents(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewSSEWriter(rec)
	w.Init()

	events := []loadrun.Event{
		{Name: loadrun.EventStarting, Key: "proj-1"},
		{Name: loadrun.EventStarted, Key: "proj-1"},
		{Name: loadrun.EventCompleted, Key: "proj-1", Output: "done"},
	}
	for _, ev := range events {
		require.NoError(t, w.WriteEvent(ev))
	}

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))

	body := rec.Body.String()
	frames := strings.Split(strings.TrimSuffix(body, "\n\n"), "\n\n")
	require.Len(t, frames, 3)

	for i, frame := range frames {
		lines := strings.SplitN(frame, "\n", 2)
		require.Len(t, lines, 2)
		assert.Equal(t, "event: "+events[i].Name, lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "data: {"), "data line must carry JSON, got: %s", lines[1])
	}
}
