package render

import (
	"sync"
	"time"
)

// FrameScheduler hands out one-shot frame callbacks, the moral equivalent of
// requestAnimationFrame/cancelAnimationFrame. Implementations may invoke
// callbacks on their own goroutine; callbacks must therefore be cheap and
// thread-safe (the loop only forwards a wake-up event to the window).
type FrameScheduler interface {
	RequestFrame(fn func(time.Time)) uint64
	CancelFrame(id uint64)
}

// TickerScheduler fires pending frame requests on a fixed interval,
// approximating the display refresh rate.
type TickerScheduler struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]func(time.Time)
	done    chan struct{}
	once    sync.Once
}

// NewTickerScheduler starts a scheduler ticking at the given interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	s := &TickerScheduler{
		pending: make(map[uint64]func(time.Time)),
		done:    make(chan struct{}),
	}
	go s.run(interval)
	return s
}

func (s *TickerScheduler) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case t := <-ticker.C:
			s.fire(t)
		case <-s.done:
			return
		}
	}
}

// fire drains the pending requests and invokes them outside the lock, so a
// callback may immediately request the next frame.
func (s *TickerScheduler) fire(t time.Time) {
	s.mu.Lock()
	fns := make([]func(time.Time), 0, len(s.pending))
	for id, fn := range s.pending {
		fns = append(fns, fn)
		delete(s.pending, id)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(t)
	}
}

// RequestFrame registers fn to run on the next tick.
func (s *TickerScheduler) RequestFrame(fn func(time.Time)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending[s.next] = fn
	return s.next
}

// CancelFrame drops a pending request. Unknown ids are ignored.
func (s *TickerScheduler) CancelFrame(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Stop shuts the ticking goroutine down. Pending requests never fire.
func (s *TickerScheduler) Stop() {
	s.once.Do(func() { close(s.done) })
}

// ManualScheduler is a FrameScheduler driven by an explicit clock, for
// deterministic tests.
type ManualScheduler struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]func(time.Time)
}

// NewManualScheduler returns an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[uint64]func(time.Time))}
}

// RequestFrame registers fn for the next Step.
func (s *ManualScheduler) RequestFrame(fn func(time.Time)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending[s.next] = fn
	return s.next
}

// CancelFrame drops a pending request.
func (s *ManualScheduler) CancelFrame(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Step fires every pending request with the given frame time and reports how
// many ran. Requests made during Step wait for the next Step.
func (s *ManualScheduler) Step(t time.Time) int {
	s.mu.Lock()
	fns := make([]func(time.Time), 0, len(s.pending))
	for id, fn := range s.pending {
		fns = append(fns, fn)
		delete(s.pending, id)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(t)
	}
	return len(fns)
}

// Pending reports how many frame requests are waiting.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
