package stream

import (
	"time"

	"github.com/temirov/codedoc/internal/types"
)

// SchemaVersion is stamped on every event so JSON consumers can detect changes.
const SchemaVersion = 1

type EventKind string

const (
	EventKindStart    EventKind = "start"
	EventKindState    EventKind = "state"
	EventKindLog      EventKind = "log"
	EventKindProgress EventKind = "progress"
	EventKindError    EventKind = "error"
	EventKindDone     EventKind = "done"
)

const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Event is one notification from a running scan. Exactly one payload field is
// set, matching Kind; start events carry only Path.
type Event struct {
	Version   int       `json:"version"`
	Kind      EventKind `json:"kind"`
	Path      string    `json:"path,omitempty"`
	EmittedAt time.Time `json:"emittedAt,omitempty"`

	State    types.ScanState   `json:"state,omitempty"`
	Message  *LogEvent         `json:"message,omitempty"`
	Progress *ProgressEvent    `json:"progress,omitempty"`
	Err      *ErrorEvent       `json:"error,omitempty"`
	Result   *types.ScanResult `json:"result,omitempty"`
}

type LogEvent struct {
	Level   string `json:"level,omitempty"`
	Message string `json:"message"`
}

// ProgressEvent reports Handled of Total files as an integer Percent in 0..100.
type ProgressEvent struct {
	Percent int `json:"percent"`
	Handled int `json:"handled"`
	Total   int `json:"total"`
}

type ErrorEvent struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}
