package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/platform/tui"
	"github.com/vovakirdan/collide/internal/registry"
)

var viewCmd = &cobra.Command{
	Use:   "view [scenario|scene.yaml]",
	Short: "Watch a world in the terminal",
	Long: `Run a scenario or a scene file in the interactive viewer. Without an
argument a menu lists the registered scenarios.

Controls:
  Arrows/WASD  - Move the probe circle
  +/-          - Grow or shrink the probe
  R            - Toggle the ray, [ and ] rotate it
  Space/P      - Pause, N steps while paused
  Shift+R      - Restart (scenarios use the next seed)
  Ctrl+S       - Save a snapshot to the database
  Esc/B        - Back to the menu
  Q/Ctrl+C     - Quit

Examples:
  collide view
  collide view rain --density dense
  collide view scene.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func runView(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger("collide")
	if err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()

	if len(args) == 0 {
		return tui.RunSession(tui.SessionOptions{
			Config: cfg,
			Store:  store,
			Logger: logger,
		}, width, height)
	}

	target := args[0]
	opts := tui.Options{
		Config: cfg,
		Store:  store,
		Logger: logger,
	}
	switch {
	case registry.Exists(target):
		opts.Title = target
		for _, info := range registry.List() {
			if info.ID == target {
				opts.Title = info.Title
			}
		}
		opts.Source = tui.ScenarioSource(target, cfg.Sim)
	case isSceneFile(target):
		opts.Title = filepath.Base(target)
		opts.Source = tui.FileSource(target)
	default:
		return fmt.Errorf("%q is neither a scenario nor a scene file (run 'collide list')", target)
	}

	return tui.Run(opts, width, height)
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
