// Package haptic delivers short tactile confirmations for overlay gestures.
// Feedback is strictly best-effort: when the host has no usable backend the
// engine silently does nothing.
package haptic

import "log"

// Event identifies a feedback trigger.
type Event string

const (
	// EventLockToggle fires when the overlay transform lock changes state.
	EventLockToggle Event = "lock-toggle"
	// EventReset fires when a double tap returns the overlay to its
	// default placement.
	EventReset Event = "reset"
)

// Engine dispatches feedback events to the platform backend. Events are
// disabled until enabled explicitly, mirroring how configuration opts
// individual triggers in.
type Engine struct {
	enabled map[Event]bool
}

// New creates an Engine with every event disabled.
func New() *Engine {
	return &Engine{enabled: make(map[Event]bool)}
}

// Enable toggles feedback for the provided event.
func (e *Engine) Enable(event Event, enabled bool) {
	if e == nil {
		return
	}
	if e.enabled == nil {
		e.enabled = make(map[Event]bool)
	}
	e.enabled[event] = enabled
}

// Trigger emits the event when it is enabled. Backend failures are logged
// and otherwise ignored.
func (e *Engine) Trigger(event Event) {
	if !e.enabledFor(event) {
		return
	}
	if err := triggerFn(event); err != nil {
		log.Printf("haptic %s: %v", event, err)
	}
}

func (e *Engine) enabledFor(event Event) bool {
	if e == nil || e.enabled == nil {
		return false
	}
	return e.enabled[event]
}

// triggerFn is swapped in tests.
var triggerFn = platformTrigger
