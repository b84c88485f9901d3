package render

import (
	"sync"
	"time"
)

// Loop is the continuous redraw cycle. Started once at startup, it requests
// a frame from the scheduler, invokes the frame callback (which sends a
// paint event into the window's event loop), and immediately re-requests.
// Start is idempotent; the loop is never stopped during normal operation,
// Stop exists for shutdown and tests.
type Loop struct {
	mu      sync.Mutex
	sched   FrameScheduler
	onFrame func(time.Time)
	running bool
	pending uint64
}

// NewLoop creates a loop that invokes onFrame once per scheduled frame.
func NewLoop(sched FrameScheduler, onFrame func(time.Time)) *Loop {
	return &Loop{sched: sched, onFrame: onFrame}
}

// Start begins the redraw cycle. Calling Start while running is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.pending = l.sched.RequestFrame(l.frame)
	l.mu.Unlock()
}

// Stop cancels the in-flight frame request and halts the cycle.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.running = false
	l.sched.CancelFrame(l.pending)
}

// Running reports whether the cycle is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *Loop) frame(t time.Time) {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	l.onFrame(t)

	l.mu.Lock()
	if l.running {
		l.pending = l.sched.RequestFrame(l.frame)
	}
	l.mu.Unlock()
}
