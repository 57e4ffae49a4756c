package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/bench"
	"github.com/vovakirdan/collide/internal/storage"
)

var (
	flagRuns     int
	flagSteps    int
	flagBodies   int
	flagParallel int
	flagNoSave   bool
)

var benchCmd = &cobra.Command{
	Use:   "bench <scenario>",
	Short: "Benchmark a scenario",
	Long: `Simulate independent seeded worlds of a scenario in parallel and report
step time, broadphase reinserts, contact pairs and tree height per run.
Results are stored in the database unless --no-save is given.

Examples:
  collide bench grid
  collide bench rain --runs 16 --steps 1000 --bodies 2000
  collide bench mixed --parallel 1 --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagRuns, "runs", 0, "Number of worlds (default from config)")
	benchCmd.Flags().IntVar(&flagSteps, "steps", 0, "Steps per world (default from config)")
	benchCmd.Flags().IntVar(&flagBodies, "bodies", 0, "Bodies per world (default from config)")
	benchCmd.Flags().IntVar(&flagParallel, "parallel", -1, "Concurrent worlds (0 = GOMAXPROCS, default from config)")
	benchCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the results")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger("collide-bench")
	if err != nil {
		return err
	}

	if flagRuns > 0 {
		cfg.Bench.Runs = flagRuns
	}
	if flagSteps > 0 {
		cfg.Bench.Steps = flagSteps
	}
	if flagBodies > 0 {
		cfg.Bench.Bodies = flagBodies
	}
	if flagParallel >= 0 {
		cfg.Bench.Parallel = flagParallel
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	runs, err := bench.Run(ctx, bench.Options{
		Scenario: args[0],
		Bench:    cfg.Bench,
		Sim:      cfg.Sim,
		World:    cfg.World,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	printRuns(cmd, runs)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d runs in %v\n", len(runs), time.Since(start).Round(time.Millisecond))

	if flagNoSave {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			return err
		}
	}
	return nil
}

func printRuns(cmd *cobra.Command, runs []storage.BenchRun) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %-8s  %-6s  %-6s  %-10s  %-8s  %-9s  %s\n",
		"Seed", "Bodies", "Steps", "ms/step", "Pairs", "Reinserts", "Height")
	fmt.Fprintf(out, "  %-8s  %-6s  %-6s  %-10s  %-8s  %-9s  %s\n",
		"----", "------", "-----", "-------", "-----", "---------", "------")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-8d  %-6d  %-6d  %-10.3f  %-8d  %-9d  %d\n",
			r.Seed, r.Bodies, r.Steps, float64(r.PerStep().Microseconds())/1000,
			r.Pairs, r.Reinserts, r.TreeHeight)
	}
}
