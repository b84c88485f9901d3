package effects

import (
	"image"
	"image/color"
	"testing"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(40 * x), G: 128, B: uint8(255 - 40*y), A: 255})
		}
	}
	return img
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.Brightness != 1 || s.Contrast != 1 {
		t.Errorf("default brightness/contrast = %v/%v, want 1/1", s.Brightness, s.Contrast)
	}
	if s.Opacity != 0.7 {
		t.Errorf("default opacity = %v, want 0.7", s.Opacity)
	}
	if s.Grayscale || s.Invert {
		t.Error("grayscale/invert should default to off")
	}
	if !s.ColorNeutral() {
		t.Error("defaults should be color neutral")
	}
}

func TestNeutralSettingsPassSourceThrough(t *testing.T) {
	var p Pipeline
	src := testImage()
	got := p.Apply(src, Defaults())
	if got != image.Image(src) {
		t.Error("neutral settings should return the source unchanged")
	}
}

func TestInvert(t *testing.T) {
	var p Pipeline
	src := testImage()
	s := Defaults()
	s.Invert = true
	out := p.Apply(src, s)
	r0, g0, b0, _ := src.At(1, 1).RGBA()
	r1, g1, b1, _ := out.At(1, 1).RGBA()
	if r1>>8 != 255-r0>>8 || g1>>8 != 255-g0>>8 || b1>>8 != 255-b0>>8 {
		t.Errorf("invert mismatch: src (%d %d %d), out (%d %d %d)",
			r0>>8, g0>>8, b0>>8, r1>>8, g1>>8, b1>>8)
	}
}

func TestGrayscaleFlattensChannels(t *testing.T) {
	var p Pipeline
	s := Defaults()
	s.Grayscale = true
	out := p.Apply(testImage(), s)
	r, g, b, _ := out.At(3, 0).RGBA()
	if r != g || g != b {
		t.Errorf("grayscale pixel has distinct channels: (%d %d %d)", r>>8, g>>8, b>>8)
	}
}

func TestApplyCachesUntilSettingsChange(t *testing.T) {
	var p Pipeline
	src := testImage()
	s := Defaults()
	s.Invert = true

	first := p.Apply(src, s)
	second := p.Apply(src, s)
	if first != second {
		t.Error("same source and settings should reuse the cached raster")
	}

	s.Grayscale = true
	third := p.Apply(src, s)
	if third == second {
		t.Error("changed settings should recompute the raster")
	}

	other := testImage()
	fourth := p.Apply(other, s)
	if fourth == third {
		t.Error("changed source should recompute the raster")
	}
}

func TestOpacityDoesNotInvalidateCache(t *testing.T) {
	var p Pipeline
	src := testImage()
	s := Defaults()
	s.Invert = true
	first := p.Apply(src, s)
	s.Opacity = 0.2
	second := p.Apply(src, s)
	if first != second {
		t.Error("opacity changes must not recompute the color-filter cache")
	}
}

func TestInvalidate(t *testing.T) {
	var p Pipeline
	src := testImage()
	s := Defaults()
	s.Invert = true
	first := p.Apply(src, s)
	p.Invalidate()
	second := p.Apply(src, s)
	if first == second {
		t.Error("Invalidate should force a recompute")
	}
}

func TestClampOpacity(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-0.5, 0}, {0, 0}, {0.7, 0.7}, {1, 1}, {1.3, 1},
	}
	for _, tt := range tests {
		if got := ClampOpacity(tt.in); got != tt.want {
			t.Errorf("ClampOpacity(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
