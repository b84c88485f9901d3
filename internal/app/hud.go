package app

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/tracelens/internal/ingest"
)

const (
	bannerHeight = 20
	textWidth    = 7 // basicfont.Face7x13 advance
)

// Render composes one frame into dst: camera background, transformed
// overlay, then HUD chrome on top.
func (c *Controller) Render(dst *image.RGBA, bg image.Image) {
	m := c.Metrics()
	state, handle, err := c.images.Snapshot()
	c.syncImage(handle, m)
	c.comp.Compose(dst, m, bg, handle, c.transform.Placement(), c.filters)
	if c.hudHidden {
		return
	}
	c.drawHUD(dst, state, err)
}

func (c *Controller) drawHUD(dst *image.RGBA, state ingest.State, loadErr error) {
	bounds := dst.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if c.transform.Locked() {
		bar := image.Rect(0, 0, width, bannerHeight)
		fillBox(dst, bar, c.theme.BannerBackground)
		drawString(dst, "overlay locked - press L to unlock", (width-34*textWidth)/2, 14, c.theme.BannerText)
	}

	switch state {
	case ingest.StateIdle:
		c.drawPrompt(dst, "no overlay image - press Ctrl+V to paste one")
	case ingest.StatePending:
		c.drawPrompt(dst, "loading image...")
	case ingest.StateFailed:
		msg := "image failed to load"
		if loadErr != nil {
			msg = "image failed to load: " + loadErr.Error()
		}
		c.drawPrompt(dst, msg)
	}

	if c.hintVisible {
		hint := "drag to move, pinch or scroll to zoom, double-tap to reset"
		box := centeredBox(width, height/4, len(hint))
		fillBox(dst, box, c.theme.PromptBackground)
		drawString(dst, hint, box.Min.X+8, box.Min.Y+20, c.theme.Foreground)
	}

	if c.messageActive() {
		box := centeredBox(width, height-40, len(c.message))
		fillBox(dst, box, c.theme.MessageBackground)
		drawString(dst, c.message, box.Min.X+8, box.Min.Y+20, c.theme.MessageText)
	}
}

func (c *Controller) drawPrompt(dst *image.RGBA, msg string) {
	bounds := dst.Bounds()
	box := centeredBox(bounds.Dx(), bounds.Dy()/2, len(msg))
	fillBox(dst, box, c.theme.PromptBackground)
	drawString(dst, msg, box.Min.X+8, box.Min.Y+20, c.theme.PromptText)
}

func centeredBox(width, centerY, textLen int) image.Rectangle {
	w := textLen*textWidth + 16
	return image.Rect((width-w)/2, centerY-16, (width+w)/2, centerY+16)
}

func fillBox(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	draw.Draw(dst, r, &image.Uniform{col}, image.Point{}, draw.Over)
}

func drawString(dst *image.RGBA, s string, x, y int, col color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{col},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
