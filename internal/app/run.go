package app

import (
	"image"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/tracelens/internal/camera"
	"github.com/example/tracelens/internal/render"
)

const frameInterval = time.Second / 60

// Run opens the window and services its event loop until quit. The camera
// feed may be nil, in which case frames are painted on demand instead of
// continuously.
func Run(s screen.Screen, c *Controller, feed camera.Feed) {
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  960,
		Height: 720,
		Title:  "TraceLens",
	})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	c.SetRepaint(func() { w.Send(paint.Event{}) })

	var loop *render.Loop
	if feed != nil {
		sched := render.NewTickerScheduler(frameInterval)
		defer sched.Stop()
		loop = render.NewLoop(sched, func(time.Time) { w.Send(paint.Event{}) })
		defer loop.Stop()
	}

	var buf screen.Buffer
	defer func() {
		if buf != nil {
			buf.Release()
		}
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			if loop != nil {
				// Pause camera frames while not visible.
				if e.To >= lifecycle.StageVisible {
					loop.Start()
				} else {
					loop.Stop()
				}
			}
		case size.Event:
			m := c.Resize(e)
			if buf != nil {
				buf.Release()
				buf = nil
			}
			device := m.DeviceBounds()
			if device.Empty() {
				continue
			}
			buf, err = s.NewBuffer(image.Point{device.Dx(), device.Dy()})
			if err != nil {
				log.Fatalf("new buffer: %v", err)
			}
			w.Send(paint.Event{})
		case paint.Event:
			if buf == nil {
				continue
			}
			var bg image.Image
			if feed != nil {
				bg = feed.Frame()
			}
			c.Render(buf.RGBA(), bg)
			w.Upload(image.Point{}, buf, buf.Bounds())
			w.Publish()
		case touch.Event:
			c.Touch(e)
		case mouse.Event:
			c.Mouse(e)
		case key.Event:
			if c.Key(e) {
				return
			}
		}
	}
}
