// Package app owns the interactive state of the tracing window: it routes
// window-system events to the gesture recognizer, keeps the HUD state, and
// composes frames for the render loop. All state is mutated on the event
// loop goroutine; the only concurrency is repaint requests posted back to
// the window.
package app

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/tracelens/internal/config"
	"github.com/example/tracelens/internal/effects"
	"github.com/example/tracelens/internal/gesture"
	"github.com/example/tracelens/internal/haptic"
	"github.com/example/tracelens/internal/ingest"
	"github.com/example/tracelens/internal/overlay"
	"github.com/example/tracelens/internal/render"
	"github.com/example/tracelens/internal/theme"
	"github.com/example/tracelens/internal/viewport"
)

const (
	messageDuration = 2 * time.Second
	zoomKeyStep     = 1.25
	zoomWheelStep   = 1.1
	filterStep      = 0.1
	minAdjust       = 0.2
	maxAdjust       = 3.0
)

// ConfigStore persists configuration changes made from the UI.
type ConfigStore interface {
	Save(*config.Config) error
}

// Options configures a Controller.
type Options struct {
	Config *config.Config
	Store  ConfigStore
	Theme  *theme.Theme
	Clock  func() time.Time
	// ImagePath, when set, is loaded at startup and reloaded with the N key.
	ImagePath string
}

// Controller holds all interactive state for one window.
type Controller struct {
	cfg   *config.Config
	store ConfigStore
	theme *theme.Theme

	transform *overlay.Transform
	sizer     viewport.Sizer
	gestures  *gesture.Recognizer
	images    *ingest.Loader
	pipeline  effects.Pipeline
	filters   effects.Settings
	comp      render.Compositor
	haptics   *haptic.Engine

	message      string
	messageUntil time.Time
	hudHidden    bool
	hintVisible  bool

	mouseDown bool
	imagePath string
	lastImage *ingest.Handle

	now     func() time.Time
	repaint func()
}

// New assembles a Controller from configuration.
func New(opts Options) *Controller {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	th := opts.Theme
	if th == nil {
		th = theme.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	c := &Controller{
		cfg:       cfg,
		store:     opts.Store,
		theme:     th,
		transform: overlay.New(),
		filters: effects.Settings{
			Brightness: cfg.Filters.Brightness,
			Contrast:   cfg.Filters.Contrast,
			Opacity:    effects.ClampOpacity(cfg.Filters.Opacity),
			Grayscale:  cfg.Filters.Grayscale,
			Invert:     cfg.Filters.Invert,
		},
		haptics:     haptic.New(),
		hintVisible: !cfg.Hints.StartupDismissed,
		imagePath:   opts.ImagePath,
		now:         now,
		repaint:     func() {},
	}
	c.comp = render.Compositor{Filter: &c.pipeline, Clear: th.Background}
	c.haptics.Enable(haptic.EventLockToggle, cfg.Haptics.LockToggle)
	c.haptics.Enable(haptic.EventReset, cfg.Haptics.Reset)
	c.gestures = gesture.New(c.transform, c.Metrics,
		gesture.WithClock(now),
		gesture.WithResetHandler(func() {
			c.haptics.Trigger(haptic.EventReset)
			c.showMessage("overlay reset")
		}))
	c.images = ingest.NewLoader(func() { c.repaint() })
	return c
}

// SetRepaint installs the callback used to request a new frame. It must be
// set before events are delivered.
func (c *Controller) SetRepaint(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	c.repaint = fn
}

// Images exposes the image loader for startup wiring.
func (c *Controller) Images() *ingest.Loader { return c.images }

// Metrics returns the current viewport metrics.
func (c *Controller) Metrics() viewport.Metrics { return c.sizer.Metrics() }

// Filters returns the active filter settings.
func (c *Controller) Filters() effects.Settings { return c.filters }

// Resize applies a window size change. Every usable geometry change resets
// the placement to the new center, so the overlay never drifts off-screen
// on rotation or window resize.
func (c *Controller) Resize(e size.Event) viewport.Metrics {
	m := c.sizer.Apply(e)
	if !m.Empty() {
		c.transform.Reset(m.Width, m.Height)
	}
	return m
}

// syncImage recenters the overlay when a newly loaded image becomes ready:
// loading an image, like changing to another one, starts the trace at scale 1
// in the middle of the viewport. Loads complete on decode goroutines, so the
// transition is observed here between frames rather than in the loader's
// callback.
func (c *Controller) syncImage(h *ingest.Handle, m viewport.Metrics) {
	if h == c.lastImage {
		return
	}
	c.lastImage = h
	if h == nil {
		return
	}
	if !m.Empty() {
		c.transform.Reset(m.Width, m.Height)
	}
	c.showMessage("image loaded")
}

// Touch feeds a pointer event to the gesture recognizer. HUD interactions
// (hint dismissal, unhiding, message dismissal) consume the touch before it
// can move the overlay.
func (c *Controller) Touch(e touch.Event) {
	if e.Type == touch.TypeBegin {
		if c.hintVisible {
			c.dismissHint()
			c.repaint()
			return
		}
		if c.hudHidden {
			c.hudHidden = false
			c.repaint()
			return
		}
		if c.messageActive() {
			c.messageUntil = time.Time{}
		}
	}
	m := c.Metrics()
	dpr := m.DPR
	if dpr <= 0 {
		dpr = 1
	}
	c.gestures.Touch(touch.Event{
		X:        e.X / float32(dpr),
		Y:        e.Y / float32(dpr),
		Sequence: e.Sequence,
		Type:     e.Type,
	})
	c.repaint()
}

// mouseSequence is the synthetic touch sequence used for pointer drags.
const mouseSequence touch.Sequence = 1 << 30

// Mouse translates pointer events into the touch vocabulary so desktop
// drags behave like single-finger gestures, and maps the wheel to zoom.
func (c *Controller) Mouse(e mouse.Event) {
	switch e.Button {
	case mouse.ButtonWheelUp, mouse.ButtonWheelDown:
		if e.Direction != mouse.DirPress && e.Direction != mouse.DirNone {
			return
		}
		m := c.Metrics()
		dpr := m.DPR
		if dpr <= 0 {
			dpr = 1
		}
		factor := zoomWheelStep
		if e.Button == mouse.ButtonWheelDown {
			factor = 1 / zoomWheelStep
		}
		c.transform.ZoomAt(float64(e.X)/dpr, float64(e.Y)/dpr, c.transform.Scale()*factor)
		c.repaint()
		return
	case mouse.ButtonLeft:
		switch e.Direction {
		case mouse.DirPress:
			c.mouseDown = true
			c.Touch(touch.Event{X: e.X, Y: e.Y, Sequence: mouseSequence, Type: touch.TypeBegin})
		case mouse.DirRelease:
			c.mouseDown = false
			c.Touch(touch.Event{X: e.X, Y: e.Y, Sequence: mouseSequence, Type: touch.TypeEnd})
		}
	case mouse.ButtonNone:
		if c.mouseDown && e.Direction == mouse.DirNone {
			c.Touch(touch.Event{X: e.X, Y: e.Y, Sequence: mouseSequence, Type: touch.TypeMove})
		}
	}
}

// Key handles a key press and reports whether the application should quit.
func (c *Controller) Key(e key.Event) (quit bool) {
	if e.Direction != key.DirPress {
		return false
	}
	if e.Code == key.CodeEscape {
		return true
	}
	if e.Modifiers&key.ModControl != 0 && (e.Rune == 'v' || e.Rune == 'V') {
		c.paste()
		return false
	}

	switch e.Rune {
	case 'q', 'Q':
		return true
	case '+', '=':
		c.zoomAtCenter(zoomKeyStep)
	case '-', '_':
		c.zoomAtCenter(1 / zoomKeyStep)
	case 'l', 'L':
		locked := c.transform.ToggleLock()
		c.haptics.Trigger(haptic.EventLockToggle)
		if locked {
			c.showMessage("overlay locked")
		} else {
			c.showMessage("overlay unlocked")
		}
	case 'r', 'R':
		m := c.Metrics()
		c.transform.Reset(m.Width, m.Height)
		c.showMessage("overlay reset")
	case 'h', 'H':
		c.hudHidden = !c.hudHidden
	case 'n', 'N':
		if c.imagePath == "" {
			c.showMessage("no image path to reload")
			break
		}
		c.images.LoadFile(c.imagePath)
		c.showMessage("loading image")
	case 'g', 'G':
		c.filters.Grayscale = !c.filters.Grayscale
		c.showMessage(onOff("grayscale", c.filters.Grayscale))
	case 'i', 'I':
		c.filters.Invert = !c.filters.Invert
		c.showMessage(onOff("invert", c.filters.Invert))
	case 'b':
		c.adjust(&c.filters.Brightness, -filterStep, "brightness")
	case 'B':
		c.adjust(&c.filters.Brightness, filterStep, "brightness")
	case 'c':
		c.adjust(&c.filters.Contrast, -filterStep, "contrast")
	case 'C':
		c.adjust(&c.filters.Contrast, filterStep, "contrast")
	case 'o':
		c.stepOpacity(-filterStep)
	case 'O':
		c.stepOpacity(filterStep)
	default:
		return false
	}
	c.repaint()
	return false
}

func (c *Controller) zoomAtCenter(factor float64) {
	x, y := c.Metrics().Center()
	c.transform.ZoomAt(x, y, c.transform.Scale()*factor)
}

func (c *Controller) adjust(v *float64, delta float64, name string) {
	n := *v + delta
	if n < minAdjust {
		n = minAdjust
	}
	if n > maxAdjust {
		n = maxAdjust
	}
	*v = n
	c.showMessage(fmt.Sprintf("%s %.1f", name, n))
}

func (c *Controller) stepOpacity(delta float64) {
	c.filters.Opacity = effects.ClampOpacity(c.filters.Opacity + delta)
	c.showMessage(fmt.Sprintf("opacity %d%%", int(c.filters.Opacity*100+0.5)))
}

func (c *Controller) paste() {
	if err := c.images.LoadClipboard(); err != nil {
		c.showMessage("clipboard has no image")
		return
	}
	c.showMessage("loading image")
}

func (c *Controller) dismissHint() {
	c.hintVisible = false
	c.cfg.Hints.StartupDismissed = true
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.cfg); err != nil {
		log.Printf("persist hint dismissal: %v", err)
	}
}

func (c *Controller) showMessage(msg string) {
	c.message = msg
	c.messageUntil = c.now().Add(messageDuration)
}

func (c *Controller) messageActive() bool {
	return c.message != "" && c.now().Before(c.messageUntil)
}

func onOff(name string, enabled bool) string {
	if enabled {
		return name + " on"
	}
	return name + " off"
}
