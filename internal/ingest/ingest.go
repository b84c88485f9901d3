// Package ingest decodes reference images and hands ready-to-render handles
// to the rest of the application. Decoding runs off the event loop; results
// are published under a mutex and picked up by the next frame. Oversized
// images are downsampled before the handle becomes visible, so the render
// loop never observes a raster that is still being prepared.
package ingest

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/anthonynsimon/bild/transform"
	"golang.design/x/clipboard"
)

// MaxEdge bounds the longest edge of an ingested raster. Larger images are
// downsampled proportionally so per-frame compositing stays cheap.
const MaxEdge = 4096

// Handle is a decoded, render-ready raster with its natural dimensions.
// Read-only once published.
type Handle struct {
	Image  *image.RGBA
	Width  int
	Height int
}

// State describes the loader's progress.
type State int

const (
	StateIdle State = iota
	StatePending
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Loader decodes images asynchronously. Every load takes a generation
// number; a stale decode that finishes after a newer request started is
// discarded, so the newest selection always wins regardless of completion
// order.
type Loader struct {
	mu     sync.Mutex
	gen    uint64
	state  State
	handle *Handle
	err    error

	onChange func()
	decode   func([]byte) (image.Image, error)
}

// NewLoader creates a Loader. onChange, if non-nil, is invoked after every
// state transition (typically to wake the window for a repaint); it may be
// called from a decode goroutine and must not block.
func NewLoader(onChange func()) *Loader {
	return &Loader{
		onChange: onChange,
		decode:   decodeBytes,
	}
}

// Snapshot returns the current state, the ready handle (nil unless
// StateReady) and the failure error (nil unless StateFailed).
func (l *Loader) Snapshot() (State, *Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.handle, l.err
}

// Handle returns the ready handle, or nil while idle, pending or failed.
func (l *Loader) Handle() *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateReady {
		return nil
	}
	return l.handle
}

// LoadFile reads and decodes an image file asynchronously.
func (l *Loader) LoadFile(path string) {
	gen := l.begin()
	go func() {
		data, err := os.ReadFile(path)
		if err != nil {
			l.complete(gen, nil, fmt.Errorf("read %s: %w", path, err))
			return
		}
		l.finishDecode(gen, data)
	}()
}

// LoadBytes decodes an in-memory image asynchronously.
func (l *Loader) LoadBytes(data []byte) {
	gen := l.begin()
	go func() {
		l.finishDecode(gen, data)
	}()
}

// LoadClipboard pulls an image off the system clipboard. Returns an error
// immediately when the clipboard holds no image; decoding is asynchronous.
// clipboard.Init must have been called by the application.
func (l *Loader) LoadClipboard() error {
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return fmt.Errorf("clipboard holds no image")
	}
	l.LoadBytes(data)
	return nil
}

func (l *Loader) begin() uint64 {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.state = StatePending
	l.err = nil
	l.mu.Unlock()
	l.notify()
	return gen
}

func (l *Loader) finishDecode(gen uint64, data []byte) {
	img, err := l.decode(data)
	if err != nil {
		l.complete(gen, nil, fmt.Errorf("decode image: %w", err))
		return
	}
	l.complete(gen, Prepare(img), nil)
}

func (l *Loader) complete(gen uint64, h *Handle, err error) {
	l.mu.Lock()
	if gen != l.gen {
		// A newer load superseded this one while it was decoding.
		l.mu.Unlock()
		return
	}
	if err != nil {
		l.state = StateFailed
		l.handle = nil
		l.err = err
	} else {
		l.state = StateReady
		l.handle = h
		l.err = nil
	}
	l.mu.Unlock()
	l.notify()
}

func (l *Loader) notify() {
	if l.onChange != nil {
		l.onChange()
	}
}

func decodeBytes(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// Prepare converts a decoded image into a render-ready handle, downsampling
// so the longest edge is exactly MaxEdge when the source exceeds it.
func Prepare(img image.Image) *Handle {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	nw, nh := fit(w, h)
	if nw != w || nh != h {
		rgba := transform.Resize(img, nw, nh, transform.Lanczos)
		return &Handle{Image: rgba, Width: nw, Height: nh}
	}
	return &Handle{Image: toRGBA(img), Width: w, Height: h}
}

// fit returns the target dimensions: unchanged when the longest edge is
// within MaxEdge, otherwise scaled proportionally so the longest edge is
// exactly MaxEdge.
func fit(w, h int) (int, int) {
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= MaxEdge {
		return w, h
	}
	ratio := float64(MaxEdge) / float64(longest)
	nw := int(math.Round(float64(w) * ratio))
	nh := int(math.Round(float64(h) * ratio))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}
