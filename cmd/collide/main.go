// collide is a 2D collision detection toolkit for the terminal.
//
// Usage:
//
//	collide list                   - List registered scenarios
//	collide check <scene.yaml>     - Print every overlapping pair of a scene
//	collide cast <scene.yaml>      - Cast a ray across a scene
//	collide view [scenario|file]   - Watch a world in the terminal
//	collide serve                  - Start SSH server for remote viewing
//	collide bench <scenario>       - Benchmark seeded worlds in parallel
//	collide runs [scenario]        - Show stored benchmark runs
//	collide scenes save|list|show  - Manage stored scene snapshots
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.collide/config.yaml)
//	--db <path>         - Database path (default: ~/.collide/collide.db)
//	--log-level <level> - debug, info, warn or error (default: warn)
//	--density <preset>  - sparse, normal or dense scenario bodies
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/collide/internal/config"
	// Import scenarios to register them
	_ "github.com/vovakirdan/collide/internal/scenarios"
	"github.com/vovakirdan/collide/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagDensity  string
	flagSeed     int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "collide",
	Short: "collide - 2D collision detection in your terminal",
	Long: `collide checks, casts rays through and simulates 2D scenes of boxes,
circles and convex polygons indexed by a dynamic AABB tree.

Available commands:
  list     - Show all registered scenarios
  check    - Print overlapping pairs of a scene file
  cast     - Cast a ray across a scene file
  view     - Interactive viewer
  serve    - Start SSH server for remote viewing
  bench    - Benchmark a scenario
  runs     - View stored benchmark runs
  scenes   - Save, list and show scene snapshots

Examples:
  collide list
  collide check scene.yaml
  collide cast scene.yaml --from 0,10 --dir 1,0
  collide view rain
  collide serve --metrics :9090
  collide bench grid --runs 16`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.collide/collide.db", "Path to database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDensity, "density", "", "Scenario density: sparse, normal, dense")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Scenario seed (0 = config value)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(castCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(scenesCmd)
}

// loadConfig loads the configuration and applies the global overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	density, err := config.ParseDensity(flagDensity)
	if err != nil {
		return cfg, err
	}
	config.ApplyDensity(&cfg, density)
	if flagSeed != 0 {
		cfg.Sim.Seed = flagSeed
	}
	return cfg, nil
}

// newLogger returns a stderr logger at the --log-level level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openStore opens the database, or returns nil with a warning so commands
// that only write to it keep working.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}
