// Package gesture turns raw multi-touch events into overlay transform
// mutations: one-finger pan, two-finger pinch zoom anchored at the pinch
// midpoint, and double-tap reset. The recognizer is re-evaluated on every
// begin/move/end and keeps only ephemeral per-gesture state; everything
// durable lives in the overlay transform.
package gesture

import (
	"math"
	"time"

	"golang.org/x/mobile/event/touch"

	"github.com/example/tracelens/internal/overlay"
	"github.com/example/tracelens/internal/viewport"
)

const (
	// doubleTapWindow is the maximum delay between two touch-starts that
	// still counts as a double tap.
	doubleTapWindow = 300 * time.Millisecond
	// doubleTapMaxDistSq is the squared distance (logical pixels) between
	// the two touch-starts, i.e. a 30 px radius.
	doubleTapMaxDistSq = 900
	// minPinchDistance floors the initial inter-finger distance so the
	// scale ratio never divides by zero.
	minPinchDistance = 1
)

// Point is a position in logical viewport pixels.
type Point struct {
	X, Y float64
}

func distSq(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// panSession snapshots the state at a one-finger touch-start.
type panSession struct {
	start  Point // pointer position at touch-start
	origin Point // overlay center at touch-start
}

// pinchSession snapshots the state when the second finger lands. Every move
// recomputes from this fixed snapshot rather than incrementally, so the point
// under the fingers cannot drift as the gesture progresses.
type pinchSession struct {
	startDist  float64
	startScale float64
	midpoint   Point // midpoint of the two fingers at gesture start
	origin     Point // overlay center at gesture start
}

// Recognizer converts touch events into transform mutations.
type Recognizer struct {
	transform *overlay.Transform
	metrics   func() viewport.Metrics
	now       func() time.Time
	onReset   func()

	points []trackedPoint
	pan    *panSession
	pinch  *pinchSession

	lastTapAt  time.Time
	lastTapPos Point
	hasLastTap bool
}

type trackedPoint struct {
	seq touch.Sequence
	pos Point
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithClock replaces the double-tap clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Recognizer) { r.now = now }
}

// WithResetHandler registers a callback fired after a double-tap reset, used
// for transient confirmations and haptics.
func WithResetHandler(fn func()) Option {
	return func(r *Recognizer) { r.onReset = fn }
}

// New creates a recognizer mutating the given transform. metrics supplies the
// current viewport for reset centering.
func New(t *overlay.Transform, metrics func() viewport.Metrics, opts ...Option) *Recognizer {
	r := &Recognizer{
		transform: t,
		metrics:   metrics,
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Active returns the number of touch points currently tracked.
func (r *Recognizer) Active() int { return len(r.points) }

// Touch feeds one touch event through the state machine.
func (r *Recognizer) Touch(e touch.Event) {
	p := Point{X: float64(e.X), Y: float64(e.Y)}
	switch e.Type {
	case touch.TypeBegin:
		r.begin(e.Sequence, p)
	case touch.TypeMove:
		r.move(e.Sequence, p)
	case touch.TypeEnd:
		r.end(e.Sequence)
	}
}

func (r *Recognizer) begin(seq touch.Sequence, p Point) {
	if r.indexOf(seq) >= 0 {
		return // duplicate begin for a live sequence
	}
	r.points = append(r.points, trackedPoint{seq: seq, pos: p})

	switch len(r.points) {
	case 1:
		if r.detectDoubleTap(p) {
			return
		}
		if !r.transform.Locked() {
			x, y := r.transform.Center()
			r.pan = &panSession{start: p, origin: Point{X: x, Y: y}}
		}
	case 2:
		r.pan = nil
		if r.transform.Locked() {
			return
		}
		a, b := r.points[0].pos, r.points[1].pos
		d := math.Hypot(a.X-b.X, a.Y-b.Y)
		if d < minPinchDistance {
			d = minPinchDistance
		}
		x, y := r.transform.Center()
		r.pinch = &pinchSession{
			startDist:  d,
			startScale: r.transform.Scale(),
			midpoint:   Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2},
			origin:     Point{X: x, Y: y},
		}
	}
	// A third finger is tracked but never drives a gesture.
}

// detectDoubleTap runs the last-tap bookkeeping on a single-finger
// touch-start and reports whether a reset fired. A locked overlay keeps the
// bookkeeping (so unlock followed by a quick second tap still resets) but
// never resets: the lock invariant treats the double tap as a gesture.
func (r *Recognizer) detectDoubleTap(p Point) bool {
	now := r.now()
	isDouble := r.hasLastTap &&
		now.Sub(r.lastTapAt) < doubleTapWindow &&
		distSq(p, r.lastTapPos) < doubleTapMaxDistSq
	if isDouble && !r.transform.Locked() {
		m := r.metrics()
		r.transform.Reset(m.Width, m.Height)
		// Drop the reference so a third tap cannot re-trigger.
		r.hasLastTap = false
		r.pan = nil
		if r.onReset != nil {
			r.onReset()
		}
		return true
	}
	r.lastTapAt = now
	r.lastTapPos = p
	r.hasLastTap = true
	return false
}

func (r *Recognizer) move(seq touch.Sequence, p Point) {
	i := r.indexOf(seq)
	if i < 0 {
		return
	}
	r.points[i].pos = p

	switch {
	case r.pinch != nil && len(r.points) >= 2:
		r.pinchMove()
	case r.pan != nil && len(r.points) == 1:
		r.transform.TranslateTo(
			r.pan.origin.X+(p.X-r.pan.start.X),
			r.pan.origin.Y+(p.Y-r.pan.start.Y),
		)
	}
}

// pinchMove recomputes scale and position from the pinch-start snapshot. The
// world point that sat under the original midpoint is pinned under the
// current midpoint: world = (mid0 - origin) / s0, pos = mid1 - world*s1.
func (r *Recognizer) pinchMove() {
	s := r.pinch
	a, b := r.points[0].pos, r.points[1].pos
	d := math.Hypot(a.X-b.X, a.Y-b.Y)

	newScale := d / s.startDist * s.startScale
	if newScale < overlay.MinScale {
		newScale = overlay.MinScale
	}
	if newScale > overlay.MaxScale {
		newScale = overlay.MaxScale
	}

	worldX := (s.midpoint.X - s.origin.X) / s.startScale
	worldY := (s.midpoint.Y - s.origin.Y) / s.startScale
	mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}

	r.transform.SetScale(newScale)
	r.transform.TranslateTo(mid.X-worldX*newScale, mid.Y-worldY*newScale)
}

func (r *Recognizer) end(seq touch.Sequence) {
	i := r.indexOf(seq)
	if i < 0 {
		return
	}
	r.points = append(r.points[:i], r.points[i+1:]...)
	if len(r.points) < 2 {
		r.pinch = nil
	}
	if len(r.points) == 0 {
		r.pan = nil
	}
}

func (r *Recognizer) indexOf(seq touch.Sequence) int {
	for i, tp := range r.points {
		if tp.seq == seq {
			return i
		}
	}
	return -1
}
