package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/tracelens/internal/theme"
)

// Filters holds the startup values for the overlay image filters.
type Filters struct {
	Brightness float64
	Contrast   float64
	Opacity    float64
	Grayscale  bool
	Invert     bool
}

// Haptics holds the per-event haptic feedback switches.
type Haptics struct {
	LockToggle bool
	Reset      bool
}

// Hints holds one-time UI hint state persisted across runs.
type Hints struct {
	StartupDismissed bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	Filters Filters
	Haptics Haptics
	Hints   Hints
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Default
		Filters: Filters{
			Brightness: 1,
			Contrast:   1,
			Opacity:    0.7,
		},
		Haptics: Haptics{
			LockToggle: true,
			Reset:      true,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[filters]\n")
	fmt.Fprintf(&sb, "brightness = %g\n", c.Filters.Brightness)
	fmt.Fprintf(&sb, "contrast = %g\n", c.Filters.Contrast)
	fmt.Fprintf(&sb, "opacity = %g\n", c.Filters.Opacity)
	fmt.Fprintf(&sb, "grayscale = %v\n", c.Filters.Grayscale)
	fmt.Fprintf(&sb, "invert = %v\n", c.Filters.Invert)
	sb.WriteString("\n")

	sb.WriteString("[haptics]\n")
	fmt.Fprintf(&sb, "lock_toggle = %v\n", c.Haptics.LockToggle)
	fmt.Fprintf(&sb, "reset = %v\n", c.Haptics.Reset)
	sb.WriteString("\n")

	sb.WriteString("[hints]\n")
	fmt.Fprintf(&sb, "startup_dismissed = %v\n", c.Hints.StartupDismissed)
	sb.WriteString("\n")

	// Themes sections
	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		fmt.Fprintf(&sb, "Background: %s\n", toHex(t.Background))
		fmt.Fprintf(&sb, "Foreground: %s\n", toHex(t.Foreground))
		fmt.Fprintf(&sb, "MessageBackground: %s\n", toHex(t.MessageBackground))
		fmt.Fprintf(&sb, "MessageText: %s\n", toHex(t.MessageText))
		fmt.Fprintf(&sb, "BannerBackground: %s\n", toHex(t.BannerBackground))
		fmt.Fprintf(&sb, "BannerText: %s\n", toHex(t.BannerText))
		fmt.Fprintf(&sb, "PromptBackground: %s\n", toHex(t.PromptBackground))
		fmt.Fprintf(&sb, "PromptText: %s\n", toHex(t.PromptText))
		sb.WriteString("\n")
	}

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
