package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.design/x/clipboard"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/tracelens/internal/app"
	"github.com/example/tracelens/internal/camera"
	"github.com/example/tracelens/internal/config"
	"github.com/example/tracelens/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

func main() {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	fs := flag.NewFlagSet("tracelens", flag.ExitOnError)
	imagePath := fs.String("image", "", "overlay image to trace (png, jpeg, gif, webp, bmp or tiff)")
	cameraMode := fs.String("camera", "auto", "camera source: auto, off or test")
	configPath := fs.String("config", "", "configuration file to use instead of the default")
	themeName := fs.String("theme", "", "color theme to use (dark, light, a file path, or one from the config)")
	hapticLock := fs.Bool("haptic-lock", cfg.Haptics.LockToggle, "vibrate when the overlay lock is toggled")
	hapticReset := fs.Bool("haptic-reset", cfg.Haptics.Reset, "vibrate when a double tap resets the overlay")
	showVersion := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if *showVersion {
		fmt.Println(versionString())
		return
	}

	if *configPath != "" {
		loader = config.NewLoader(version, *configPath)
		if cfg, err = loader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
			cfg = config.New()
		}
	}
	cfg.Haptics.LockToggle = *hapticLock
	cfg.Haptics.Reset = *hapticReset

	t := resolveTheme(cfg, *themeName)

	var feed camera.Feed
	switch *cameraMode {
	case "off":
	case "test":
		feed = camera.NewTestPattern()
	case "auto":
		feed, err = camera.Open()
		if err != nil {
			if errors.Is(err, camera.ErrUnavailable) {
				log.Printf("camera: %v; continuing without a feed", err)
			} else {
				log.Printf("camera: %v", err)
			}
			feed = nil
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown -camera mode %q\n", *cameraMode)
		os.Exit(2)
	}
	if feed != nil {
		defer feed.Close()
	}

	controller := app.New(app.Options{
		Config:    cfg,
		Store:     loader,
		Theme:     t,
		ImagePath: *imagePath,
	})
	if *imagePath != "" {
		controller.Images().LoadFile(*imagePath)
	}

	driver.Main(func(s screen.Screen) {
		if err := clipboard.Init(); err != nil {
			log.Printf("clipboard init: %v", err)
		}
		app.Run(s, controller, feed)
	})
}

// resolveTheme picks the active theme. Precedence: CLI > Env > Config > Default.
func resolveTheme(cfg *config.Config, name string) *theme.Theme {
	if name == "" {
		name = os.Getenv("TRACELENS_THEME")
	}
	if name == "" {
		name = cfg.Theme
	}

	if cfgTheme, ok := cfg.Themes[name]; ok {
		return cfgTheme
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}
