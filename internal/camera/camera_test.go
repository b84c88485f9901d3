package camera

import (
	"image"
	"testing"
	"time"
)

func TestTestPatternFramesAdvance(t *testing.T) {
	p := NewTestPattern()
	base := time.Now()
	p.start = base
	p.now = func() time.Time { return base }
	first := p.Frame().(*image.RGBA)
	a := first.RGBAAt(0, 0)

	p.now = func() time.Time { return base.Add(500 * time.Millisecond) }
	second := p.Frame().(*image.RGBA)
	b := second.RGBAAt(0, 0)

	if a == b {
		t.Fatalf("pattern did not move: %v == %v", a, b)
	}
	if got := second.Bounds(); got != image.Rect(0, 0, patternW, patternH) {
		t.Fatalf("bounds = %v", got)
	}
}

func TestTestPatternOpaque(t *testing.T) {
	p := NewTestPattern()
	frame := p.Frame().(*image.RGBA)
	for _, pt := range []image.Point{{0, 0}, {patternW - 1, patternH - 1}, {patternW / 2, patternH / 2}} {
		if c := frame.RGBAAt(pt.X, pt.Y); c.A != 255 {
			t.Fatalf("pixel %v alpha = %d", pt, c.A)
		}
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
