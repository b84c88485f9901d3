package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	xdraw "golang.org/x/image/draw"

	"github.com/example/tracelens/internal/effects"
	"github.com/example/tracelens/internal/ingest"
	"github.com/example/tracelens/internal/overlay"
	"github.com/example/tracelens/internal/viewport"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func redHandle(w, h int) *ingest.Handle {
	return &ingest.Handle{Image: solid(w, h, color.RGBA{255, 0, 0, 255}), Width: w, Height: h}
}

// crisp returns a compositor with nearest-neighbour sampling so tests can
// assert exact pixel values.
func crisp() *Compositor {
	return &Compositor{Filter: &effects.Pipeline{}, Scaler: xdraw.NearestNeighbor}
}

func rgbAt(img *image.RGBA, x, y int) (uint8, uint8, uint8) {
	c := img.RGBAAt(x, y)
	return c.R, c.G, c.B
}

func opaque(s effects.Settings) effects.Settings {
	s.Opacity = 1
	return s
}

func TestComposeBlankWithoutImage(t *testing.T) {
	m := viewport.Metrics{Width: 100, Height: 100, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	crisp().Compose(dst, m, nil, nil, overlay.Placement{Scale: 1}, effects.Defaults())
	for _, pt := range []image.Point{{0, 0}, {50, 50}, {99, 99}} {
		if r, g, b := rgbAt(dst, pt.X, pt.Y); r != 0 || g != 0 || b != 0 {
			t.Errorf("pixel %v = (%d %d %d), want cleared black", pt, r, g, b)
		}
	}
}

func TestComposeClearColor(t *testing.T) {
	m := viewport.Metrics{Width: 100, Height: 100, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	c := &Compositor{Scaler: xdraw.NearestNeighbor, Clear: color.RGBA{16, 16, 16, 255}}
	c.Compose(dst, m, nil, nil, overlay.Placement{Scale: 1}, effects.Defaults())
	for _, pt := range []image.Point{{0, 0}, {50, 50}, {99, 99}} {
		if r, g, b := rgbAt(dst, pt.X, pt.Y); r != 16 || g != 16 || b != 16 {
			t.Errorf("pixel %v = (%d %d %d), want theme clear color", pt, r, g, b)
		}
	}
}

func TestComposePlacement(t *testing.T) {
	m := viewport.Metrics{Width: 200, Height: 200, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	p := overlay.Placement{Scale: 1, X: 100, Y: 100}
	// 100x50 image centered at (100,100) covers (50,75)-(150,125).
	crisp().Compose(dst, m, nil, redHandle(100, 50), p, opaque(effects.Defaults()))

	inside := []image.Point{{100, 100}, {55, 80}, {145, 120}}
	for _, pt := range inside {
		if r, _, _ := rgbAt(dst, pt.X, pt.Y); r != 255 {
			t.Errorf("pixel %v red = %d, want 255", pt, r)
		}
	}
	outside := []image.Point{{45, 100}, {100, 70}, {100, 130}, {10, 10}}
	for _, pt := range outside {
		if r, _, _ := rgbAt(dst, pt.X, pt.Y); r != 0 {
			t.Errorf("pixel %v red = %d, want 0 (outside draw rect)", pt, r)
		}
	}
}

func TestComposeScaleGrowsDrawRect(t *testing.T) {
	m := viewport.Metrics{Width: 200, Height: 200, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	p := overlay.Placement{Scale: 2, X: 100, Y: 100}
	// 60x40 at scale 2 covers (40,60)-(160,140).
	crisp().Compose(dst, m, nil, redHandle(60, 40), p, opaque(effects.Defaults()))
	if r, _, _ := rgbAt(dst, 45, 100); r != 255 {
		t.Errorf("pixel inside scaled rect red = %d, want 255", r)
	}
	if r, _, _ := rgbAt(dst, 35, 100); r != 0 {
		t.Errorf("pixel outside scaled rect red = %d, want 0", r)
	}
}

func TestComposeOpacity(t *testing.T) {
	m := viewport.Metrics{Width: 100, Height: 100, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	p := overlay.Placement{Scale: 1, X: 50, Y: 50}
	s := effects.Defaults()
	s.Opacity = 0.5
	crisp().Compose(dst, m, nil, redHandle(40, 40), p, s)
	r, _, _ := rgbAt(dst, 50, 50)
	if r < 125 || r > 131 {
		t.Errorf("red at 50%% opacity over black = %d, want ~128", r)
	}
}

func TestComposeZeroOpacityDrawsNothing(t *testing.T) {
	m := viewport.Metrics{Width: 100, Height: 100, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	s := effects.Defaults()
	s.Opacity = 0
	crisp().Compose(dst, m, nil, redHandle(40, 40), overlay.Placement{Scale: 1, X: 50, Y: 50}, s)
	if r, _, _ := rgbAt(dst, 50, 50); r != 0 {
		t.Errorf("red = %d with zero opacity, want 0", r)
	}
}

func TestComposeFilterApplied(t *testing.T) {
	m := viewport.Metrics{Width: 100, Height: 100, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	s := opaque(effects.Defaults())
	s.Invert = true
	crisp().Compose(dst, m, nil, redHandle(40, 40), overlay.Placement{Scale: 1, X: 50, Y: 50}, s)
	r, g, b := rgbAt(dst, 50, 50)
	if r != 0 || g != 255 || b != 255 {
		t.Errorf("inverted red = (%d %d %d), want (0 255 255)", r, g, b)
	}
}

func TestComposeNilFilterDegradesToOpacityOnly(t *testing.T) {
	m := viewport.Metrics{Width: 100, Height: 100, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	c := &Compositor{Filter: nil, Scaler: xdraw.NearestNeighbor}
	s := effects.Defaults()
	s.Invert = true
	s.Opacity = 0.5
	c.Compose(dst, m, nil, redHandle(40, 40), overlay.Placement{Scale: 1, X: 50, Y: 50}, s)
	r, g, _ := rgbAt(dst, 50, 50)
	if r < 125 || r > 131 {
		t.Errorf("red = %d, want ~128: opacity must still apply", r)
	}
	if g != 0 {
		t.Errorf("green = %d, want 0: color filters must be skipped silently", g)
	}
}

func TestComposeDevicePixelRatio(t *testing.T) {
	m := viewport.Metrics{Width: 100, Height: 100, DPR: 2}
	dst := image.NewRGBA(m.DeviceBounds())
	if dst.Bounds() != image.Rect(0, 0, 200, 200) {
		t.Fatalf("device bounds = %v, want 200x200", dst.Bounds())
	}
	p := overlay.Placement{Scale: 1, X: 50, Y: 50}
	// 50x50 logical centered at (50,50) is (25,25)-(75,75) logical, which
	// lands at (50,50)-(150,150) in device pixels.
	crisp().Compose(dst, m, nil, redHandle(50, 50), p, opaque(effects.Defaults()))
	if r, _, _ := rgbAt(dst, 100, 100); r != 255 {
		t.Errorf("device center red = %d, want 255", r)
	}
	if r, _, _ := rgbAt(dst, 40, 40); r != 0 {
		t.Errorf("device (40,40) red = %d, want 0", r)
	}
}

func TestComposeBackground(t *testing.T) {
	m := viewport.Metrics{Width: 100, Height: 100, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	bg := solid(10, 10, color.RGBA{0, 0, 255, 255})
	crisp().Compose(dst, m, bg, nil, overlay.Placement{Scale: 1}, effects.Defaults())
	if _, _, b := rgbAt(dst, 50, 50); b != 255 {
		t.Errorf("background blue = %d, want 255 (scaled to full surface)", b)
	}
}

func TestComposeOverlayOverBackground(t *testing.T) {
	m := viewport.Metrics{Width: 100, Height: 100, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	bg := solid(10, 10, color.RGBA{0, 0, 255, 255})
	s := effects.Defaults() // 0.7 opacity
	crisp().Compose(dst, m, bg, redHandle(40, 40), overlay.Placement{Scale: 1, X: 50, Y: 50}, s)
	r, _, b := rgbAt(dst, 50, 50)
	if r == 0 || b == 0 {
		t.Errorf("center = red %d blue %d, want a blend of overlay and background", r, b)
	}
	if _, _, b := rgbAt(dst, 5, 5); b != 255 {
		t.Errorf("corner blue = %d, want pure background", b)
	}
}

func TestComposeRotationBranch(t *testing.T) {
	m := viewport.Metrics{Width: 200, Height: 200, DPR: 1}
	dst := image.NewRGBA(m.DeviceBounds())
	p := overlay.Placement{Scale: 1, X: 100, Y: 100, Rotation: 90}
	// A 100x50 image rotated 90 degrees about its center occupies
	// (75,50)-(125,150) instead of (50,75)-(150,125).
	crisp().Compose(dst, m, nil, redHandle(100, 50), p, opaque(effects.Defaults()))

	if r, _, _ := rgbAt(dst, 100, 60); r != 255 {
		t.Errorf("rotated pixel (100,60) red = %d, want 255", r)
	}
	if r, _, _ := rgbAt(dst, 100, 140); r != 255 {
		t.Errorf("rotated pixel (100,140) red = %d, want 255", r)
	}
	if r, _, _ := rgbAt(dst, 140, 100); r != 0 {
		t.Errorf("pixel (140,100) red = %d, want 0 (outside rotated rect)", r)
	}
	if r, _, _ := rgbAt(dst, 100, 100); r != 255 {
		t.Errorf("center red = %d, want 255", r)
	}
}
