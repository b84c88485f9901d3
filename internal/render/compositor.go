// Package render paints the overlay onto the backing buffer and drives the
// continuous redraw cycle. Compositing happens in device pixels; all inputs
// (transform, viewport) arrive in logical pixels and are mapped through the
// device pixel ratio here.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/tracelens/internal/effects"
	"github.com/example/tracelens/internal/ingest"
	"github.com/example/tracelens/internal/overlay"
	"github.com/example/tracelens/internal/viewport"
)

// Filterer applies color filters to a source raster. The effects.Pipeline
// satisfies it; a nil Filterer models a backend without filter support, in
// which case color filters are silently skipped and only opacity applies.
type Filterer interface {
	Apply(src image.Image, s effects.Settings) image.Image
}

// Compositor draws one frame: background, then the overlay image under the
// current transform, filters and opacity.
type Compositor struct {
	// Filter applies the color filters; nil degrades to opacity-only.
	Filter Filterer
	// Scaler interpolates pixels; defaults to ApproxBiLinear.
	Scaler xdraw.Interpolator
	// Clear is the color the surface is wiped to before drawing, shown
	// wherever no camera frame covers it; nil means black.
	Clear color.Color
}

func (c *Compositor) scaler() xdraw.Interpolator {
	if c.Scaler != nil {
		return c.Scaler
	}
	return xdraw.ApproxBiLinear
}

// Compose clears dst and paints the frame. bg is the camera (or other)
// background frame and may be nil; h is the overlay image handle and may be
// nil, in which case the surface stays blank apart from the background.
func (c *Compositor) Compose(dst *image.RGBA, m viewport.Metrics, bg image.Image, h *ingest.Handle, p overlay.Placement, fs effects.Settings) {
	device := m.DeviceBounds()
	clear := image.Image(image.Black)
	if c.Clear != nil {
		clear = image.NewUniform(c.Clear)
	}
	draw.Draw(dst, dst.Bounds(), clear, image.Point{}, draw.Src)

	if bg != nil && !bg.Bounds().Empty() {
		c.scaler().Scale(dst, device, bg, bg.Bounds(), xdraw.Src, nil)
	}
	if h == nil {
		return
	}

	src := image.Image(h.Image)
	if c.Filter != nil && !fs.ColorNeutral() {
		src = c.Filter.Apply(src, fs)
	}

	op := effects.ClampOpacity(fs.Opacity)
	if op <= 0 {
		return
	}
	var opts *xdraw.Options
	if op < 1 {
		alpha := uint8(math.Round(op * 255))
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: alpha})}
	}

	if p.Rotation != 0 {
		c.scaler().Transform(dst, rotatedAff(m, h, p), src, src.Bounds(), xdraw.Over, opts)
		return
	}

	dw := float64(h.Width) * p.Scale
	dh := float64(h.Height) * p.Scale
	rect := m.DeviceRect(p.X-dw/2, p.Y-dh/2, p.X+dw/2, p.Y+dh/2)
	if rect.Empty() {
		return
	}
	c.scaler().Scale(dst, rect, src, src.Bounds(), xdraw.Over, opts)
}

// rotatedAff builds the source-to-device affine matrix for the rotation
// branch: center the source, scale, rotate, translate to the overlay center,
// then map logical to device pixels. Unreachable while gestures keep rotation
// at zero, but kept correct for when a rotation control lands.
func rotatedAff(m viewport.Metrics, h *ingest.Handle, p overlay.Placement) f64.Aff3 {
	rad := p.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	s := p.Scale
	hw := float64(h.Width) / 2
	hh := float64(h.Height) / 2
	return f64.Aff3{
		m.DPR * s * cos, m.DPR * -s * sin, m.DPR * (p.X - s*cos*hw + s*sin*hh),
		m.DPR * s * sin, m.DPR * s * cos, m.DPR * (p.Y - s*sin*hw - s*cos*hh),
	}
}
