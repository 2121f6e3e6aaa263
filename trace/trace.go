// Package trace emits fire-and-forget session telemetry events.
// Events are best-effort: emission never blocks the caller and never
// fails a session.
package trace

import "log"

// Sink receives telemetry events. The default sink logs them.
type Sink interface {
	Event(name string)
}

type logSink struct{}

func (logSink) Event(name string) { log.Printf("trace: %s", name) }

var sink Sink = logSink{}

// SetSink replaces the telemetry sink. Pass nil to restore the
// log-backed default.
func SetSink(s Sink) {
	if s == nil {
		s = logSink{}
	}
	sink = s
}

// BoundsToolActivated records a bounds-selection session start.
func BoundsToolActivated() { go sink.Event("BoundsToolActivated") }

// MeasureToolActivated records a measurement session start.
func MeasureToolActivated() { go sink.Event("MeasureToolActivated") }
