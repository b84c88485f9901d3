// Package effects holds the render-time filter state for the overlay image:
// brightness, contrast, grayscale, invert and global opacity. Color filters
// are expensive per-pixel passes, so they are applied through a cache that
// only recomputes when the source or a color-relevant setting changes;
// opacity is cheap and applied at composite time instead.
package effects

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
)

// Settings is the filter state read by the render loop every frame and
// mutated only by UI controls on the event-loop goroutine.
type Settings struct {
	Brightness float64 // multiplier, 1.0 = unchanged
	Contrast   float64 // multiplier, 1.0 = unchanged
	Opacity    float64 // [0, 1]
	Grayscale  bool
	Invert     bool
}

// Defaults returns the initial filter state: neutral colors at 70% opacity.
func Defaults() Settings {
	return Settings{Brightness: 1, Contrast: 1, Opacity: 0.7}
}

// ColorNeutral reports whether the color filters would leave the image
// untouched, in which case the source raster can be drawn directly.
func (s Settings) ColorNeutral() bool {
	return s.Brightness == 1 && s.Contrast == 1 && !s.Grayscale && !s.Invert
}

// colorKey is the subset of Settings that invalidates the filtered raster.
type colorKey struct {
	brightness float64
	contrast   float64
	grayscale  bool
	invert     bool
}

func (s Settings) key() colorKey {
	return colorKey{s.Brightness, s.Contrast, s.Grayscale, s.Invert}
}

// ClampOpacity bounds an opacity value into [0, 1].
func ClampOpacity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Pipeline applies color filters to a source raster, caching the result.
// The zero value is ready to use.
type Pipeline struct {
	src image.Image
	key colorKey
	out image.Image
}

// Apply returns src with the color filters from s applied. Successive calls
// with the same source and settings return the cached raster. Opacity is
// intentionally ignored here; the compositor applies it per draw.
func (p *Pipeline) Apply(src image.Image, s Settings) image.Image {
	if src == nil {
		return nil
	}
	if s.ColorNeutral() {
		return src
	}
	if p.out != nil && p.src == src && p.key == s.key() {
		return p.out
	}
	out := filter(src, s)
	p.src = src
	p.key = s.key()
	p.out = out
	return out
}

// Invalidate drops the cached raster, forcing the next Apply to recompute.
func (p *Pipeline) Invalidate() {
	p.src = nil
	p.out = nil
}

func filter(src image.Image, s Settings) image.Image {
	out := src
	// bild expresses brightness/contrast as a signed change around zero.
	if s.Brightness != 1 {
		out = adjust.Brightness(out, s.Brightness-1)
	}
	if s.Contrast != 1 {
		out = adjust.Contrast(out, s.Contrast-1)
	}
	if s.Grayscale {
		out = effect.Grayscale(out)
	}
	if s.Invert {
		out = effect.Invert(out)
	}
	return out
}
