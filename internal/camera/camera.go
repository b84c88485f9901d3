// Package camera is the boundary to the live camera feed the overlay is
// traced over. Acquisition is platform work behind the Feed interface; when
// no camera is available (no portal, permission denied, no streaming
// backend) the application simply renders without a background.
package camera

import (
	"errors"
	"image"
	"image/color"
	"time"
)

// ErrUnavailable reports that no camera feed can be provided on this
// platform or with the current permissions.
var ErrUnavailable = errors.New("camera unavailable")

// Feed supplies background frames to the render loop. Frame may return nil
// when no frame is ready yet; callers must tolerate that.
type Feed interface {
	Frame() image.Image
	Close() error
}

// Open acquires the platform camera feed. The error wraps ErrUnavailable
// whenever the application should fall back to camera-less operation.
func Open() (Feed, error) {
	return openPlatformFeed()
}

const (
	patternW = 320
	patternH = 240
)

// TestPattern is a synthetic moving-gradient feed used by the -camera=test
// flag and in tests, standing in for a real stream.
type TestPattern struct {
	start time.Time
	now   func() time.Time
	buf   *image.RGBA
}

// NewTestPattern returns a feed producing a slowly scrolling gradient.
func NewTestPattern() *TestPattern {
	return &TestPattern{start: time.Now(), now: time.Now, buf: image.NewRGBA(image.Rect(0, 0, patternW, patternH))}
}

// Frame renders the current pattern frame. The returned image is reused on
// the next call; the compositor consumes it within the same frame.
func (p *TestPattern) Frame() image.Image {
	shift := int(p.now().Sub(p.start) / (16 * time.Millisecond))
	for y := 0; y < patternH; y++ {
		for x := 0; x < patternW; x++ {
			v := uint8((x + y + shift) % 256)
			p.buf.SetRGBA(x, y, color.RGBA{R: v / 4, G: v / 2, B: v, A: 255})
		}
	}
	return p.buf
}

// Close implements Feed.
func (p *TestPattern) Close() error { return nil }
