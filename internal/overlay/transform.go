package overlay

// Scale limits for the traced image. Pinch, wheel and button zoom all clamp
// into this range.
const (
	MinScale = 0.1
	MaxScale = 8.0
)

// Placement is an immutable snapshot of the overlay transform, safe to hand
// to the compositor or a gesture session.
type Placement struct {
	Scale    float64
	X, Y     float64
	Rotation float64 // degrees, reserved; gestures never set it
	Locked   bool
}

// Transform holds the placement of the reference image in logical viewport
// coordinates. X and Y are the center of the scaled image. All mutation
// happens on the event-loop goroutine, so no locking is required.
type Transform struct {
	scale    float64
	x, y     float64
	rotation float64
	locked   bool
}

// New returns a transform at scale 1, positioned at the origin. Callers are
// expected to Reset it against a viewport before first use.
func New() *Transform {
	return &Transform{scale: 1}
}

// Placement returns the current state as a value snapshot.
func (t *Transform) Placement() Placement {
	return Placement{Scale: t.scale, X: t.x, Y: t.y, Rotation: t.rotation, Locked: t.locked}
}

// Reset re-centers the overlay in a viewport of the given logical size and
// restores scale 1. Rotation and the lock flag are left alone; reset is
// always allowed, locked or not.
func (t *Transform) Reset(width, height float64) {
	t.scale = 1
	t.x = width / 2
	t.y = height / 2
}

// SetScale clamps the new scale into [MinScale, MaxScale]. No-op when locked.
func (t *Transform) SetScale(scale float64) {
	if t.locked {
		return
	}
	t.scale = clampScale(scale)
}

// TranslateTo sets the overlay center absolutely. No-op when locked.
func (t *Transform) TranslateTo(x, y float64) {
	if t.locked {
		return
	}
	t.x = x
	t.y = y
}

// ZoomAt rescales the overlay while keeping the anchor point (ax, ay)
// stationary in image space. Used by wheel zoom and the zoom buttons; the
// pinch gesture does the equivalent math against its own start snapshot.
// No-op when locked; nothing is written until both scale and position are
// known, so a locked transform never sees a partial update.
func (t *Transform) ZoomAt(ax, ay, scale float64) {
	if t.locked {
		return
	}
	newScale := clampScale(scale)
	if t.scale != 0 {
		factor := newScale / t.scale
		t.x = ax - (ax-t.x)*factor
		t.y = ay - (ay-t.y)*factor
	}
	t.scale = newScale
}

// ToggleLock flips the lock flag and reports the new state. It never touches
// scale or position.
func (t *Transform) ToggleLock() bool {
	t.locked = !t.locked
	return t.locked
}

// Locked reports whether gesture and zoom-button mutation is disabled.
func (t *Transform) Locked() bool { return t.locked }

// Scale returns the current scale factor.
func (t *Transform) Scale() float64 { return t.scale }

// Center returns the overlay center in logical pixels.
func (t *Transform) Center() (x, y float64) { return t.x, t.y }

// Rotation returns the reserved rotation angle in degrees.
func (t *Transform) Rotation() float64 { return t.rotation }

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
