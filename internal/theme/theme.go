package theme

import (
	"image/color"
)

// Theme defines the color palette for the on-screen HUD. The camera feed and
// overlay image are untouched by theming; only chrome drawn on top of them
// (messages, banners, the landing prompt) uses these colors.
type Theme struct {
	Name string

	// Surface shown where no camera frame is available.
	Background color.RGBA
	// Primary HUD text color.
	Foreground color.RGBA

	// Transient message box.
	MessageBackground color.RGBA
	MessageText       color.RGBA

	// Persistent banner shown while the overlay is locked.
	BannerBackground color.RGBA
	BannerText       color.RGBA

	// Landing prompt shown before an image is selected.
	PromptBackground color.RGBA
	PromptText       color.RGBA
}

// Default returns the built-in dark theme. HUD chrome sits over a live
// camera image, so the fallback palette is dark with bright text.
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{16, 16, 16, 255},
		Foreground:        color.RGBA{235, 235, 235, 255},
		MessageBackground: color.RGBA{32, 32, 32, 230},
		MessageText:       color.RGBA{235, 235, 235, 255},
		BannerBackground:  color.RGBA{128, 64, 0, 230},
		BannerText:        color.RGBA{255, 240, 220, 255},
		PromptBackground:  color.RGBA{24, 24, 24, 200},
		PromptText:        color.RGBA{200, 200, 200, 255},
	}
}
