// Package output presents scan events to a terminal or to machine consumers.
package output

import (
	"github.com/temirov/codedoc/internal/services/stream"
)

// StreamRenderer consumes scan events in order. Flush is called once after the
// last event.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}
