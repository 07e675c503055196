// Package loadrun orchestrates load-generation runs against monitored
// application instances: at most one live run per instance key, lifecycle
// published as events.
package loadrun

import (
	"encoding/json"
	"fmt"
)

// State is the lifecycle state of a run. States move strictly forward:
// Starting, Running, then exactly one of Completed, Failed, Cancelled.
type State string

const (
	StateStarting  State = "starting"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Event names published on the bus.
const (
	EventStarting  = "starting"
	EventStarted   = "started"
	EventCompleted = "completed"
	EventError     = "loadrunError"
	EventCancelled = "cancelled"
)

// Event is one lifecycle notification. Terminal events carry the worker's
// accumulated output.
type Event struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Output      string `json:"output,omitempty"`
	ErrorOutput string `json:"errorOutput,omitempty"`
}

// Options is the request payload for a run. The orchestrator treats it as
// opaque except for the target URL, which must be present; the full raw
// payload is handed to the worker unchanged.
type Options struct {
	URL     string
	Payload []byte
}

// ParseOptions decodes a raw start payload, extracting the target URL and
// keeping the payload verbatim for the worker.
func ParseOptions(raw []byte) (Options, error) {
	var fields struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Options{}, fmt.Errorf("loadrun: decode options: %w", err)
	}
	payload := make([]byte, len(raw))
	copy(payload, raw)
	return Options{URL: fields.URL, Payload: payload}, nil
}

// Run is one live load-generation run. It is owned exclusively by the
// orchestrator and removed from the registry the instant a terminal state is
// reached; its fields are mutated only under the registry lock.
type Run struct {
	Key     string
	Options Options
	State   State

	worker Worker
}
