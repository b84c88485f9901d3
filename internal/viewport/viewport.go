// Package viewport tracks the logical size and device pixel ratio of the
// rendering surface. All gesture and transform math runs in logical pixels;
// only the compositor and the screen buffer ever see device pixels.
package viewport

import (
	"image"
	"math"

	"golang.org/x/mobile/event/size"
)

// Metrics describes the current viewport geometry.
type Metrics struct {
	Width  float64 // logical pixels
	Height float64
	DPR    float64 // device pixels per logical pixel, always > 0
}

// Center returns the viewport midpoint in logical pixels, the default
// overlay position.
func (m Metrics) Center() (x, y float64) {
	return m.Width / 2, m.Height / 2
}

// DeviceBounds returns the backing-buffer rectangle: logical size multiplied
// by the device pixel ratio, rounded to whole pixels.
func (m Metrics) DeviceBounds() image.Rectangle {
	w := int(math.Round(m.Width * m.DPR))
	h := int(math.Round(m.Height * m.DPR))
	return image.Rect(0, 0, w, h)
}

// DeviceRect maps a logical-pixel rectangle onto the backing buffer.
func (m Metrics) DeviceRect(x0, y0, x1, y1 float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x0*m.DPR)),
		int(math.Round(y0*m.DPR)),
		int(math.Round(x1*m.DPR)),
		int(math.Round(y1*m.DPR)),
	)
}

// Empty reports whether the viewport has no drawable area yet.
func (m Metrics) Empty() bool {
	return m.Width <= 0 || m.Height <= 0
}

// Sizer derives Metrics from window size events. It must be consulted before
// the first frame and on every resize or orientation change; the first
// usable geometry also decides where a transform reset centers the overlay.
type Sizer struct {
	m Metrics
}

// Apply recomputes the metrics from a size event and returns them. A missing
// or nonsense pixel ratio is floored to 1 so later divisions stay defined.
func (s *Sizer) Apply(e size.Event) Metrics {
	dpr := float64(e.PixelsPerPt)
	if dpr <= 0 {
		dpr = 1
	}
	w := float64(e.WidthPt)
	h := float64(e.HeightPt)
	if w <= 0 || h <= 0 {
		// Some drivers report no point geometry; fall back to raw pixels.
		w = float64(e.WidthPx) / dpr
		h = float64(e.HeightPx) / dpr
	}
	s.m = Metrics{Width: w, Height: h, DPR: dpr}
	return s.m
}

// Metrics returns the last applied metrics.
func (s *Sizer) Metrics() Metrics { return s.m }
