// Command panorama opens a window showing an equirectangular image from inside a sphere.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/viewer"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	imagePath := flag.String("image", "", "equirectangular image to display")
	debug := flag.Bool("debug", false, "enable debug logging")
	profile := flag.Bool("profile", false, "log frame rate and memory statistics")
	vsync := flag.Bool("vsync", true, "pace frames to the display refresh rate")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Only flags given on the command line override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "image":
			cfg.Image = *imagePath
		case "debug":
			cfg.Logging.Debug = *debug
		case "profile":
			cfg.Profile = *profile
		case "vsync":
			cfg.Renderer.VSync = *vsync
		}
	})
	if cfg.Image == "" && flag.NArg() > 0 {
		cfg.Image = flag.Arg(0)
	}

	logger := common.NewDefaultLogger(cfg.Logging.Prefix, cfg.Logging.Debug)
	if cfg.LoadedFrom != "" {
		logger.Debugf("config loaded from %s", cfg.LoadedFrom)
	}
	if cfg.Image == "" {
		logger.Warnf("no image given, showing the fallback color")
	}

	if err := run(cfg, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger common.Logger) error {
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	v, err := viewer.NewViewer(
		viewer.WithConfig(cfg),
		viewer.WithViewport(win),
		viewer.WithInput(win),
		viewer.WithScheduler(win.Scheduler()),
		viewer.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	if err := v.Mount(); err != nil {
		return fmt.Errorf("failed to mount viewer: %w", err)
	}
	defer v.Unmount()

	win.ProcessMessages()
	return nil
}
