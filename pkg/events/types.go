package events

import "encoding/json"

// Event names published by the checker.
const (
	CheckState    = "check.state"
	CheckProgress = "check.progress"
	CheckDone     = "check.done"
	CheckFailed   = "check.failed"
)

// Event is a generic SSE event from the daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// CheckStateEvent is the typed payload for check.state.
type CheckStateEvent struct {
	From string `json:"from"`
	To   string `json:"to"`
	Ts   int64  `json:"ts"`
}

// CheckProgressEvent is the typed payload for check.progress. Percent
// is a coarse milestone for progress display, not a measure of work.
type CheckProgressEvent struct {
	Percent int   `json:"percent"`
	Ts      int64 `json:"ts"`
}

// CheckFailedEvent is the typed payload for check.failed.
type CheckFailedEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Ts      int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified type T.
// If Data is empty, it returns the zero value of T with a nil error.
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
