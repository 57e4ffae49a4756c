// Package bench runs seeded scenario simulations in parallel, one world per
// goroutine, and reports broadphase and narrow phase work per run.
package bench

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/metrics"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/sim"
	"github.com/vovakirdan/collide/internal/storage"
	"github.com/vovakirdan/collide/internal/world"
)

// Options selects what to run.
type Options struct {
	Scenario string
	Bench    config.Bench
	Sim      config.Sim
	World    config.World
	Logger   *log.Logger
	Recorder *metrics.Recorder
}

// Run simulates opts.Bench.Runs independent worlds, seeded opts.Sim.Seed,
// opts.Sim.Seed+1 and so on. Results are ordered by seed. The first failing
// run cancels the rest.
func Run(ctx context.Context, opts Options) ([]storage.BenchRun, error) {
	if !registry.Exists(opts.Scenario) {
		return nil, fmt.Errorf("bench: %w: %q", registry.ErrUnknownScenario, opts.Scenario)
	}
	if opts.Bench.Runs <= 0 || opts.Bench.Steps <= 0 {
		return nil, fmt.Errorf("bench: runs and steps must be positive, got %d and %d", opts.Bench.Runs, opts.Bench.Steps)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	parallel := opts.Bench.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	results := make([]storage.BenchRun, opts.Bench.Runs)
	for i := range results {
		cfg := opts.Sim
		cfg.Seed = opts.Sim.Seed + int64(i)
		if opts.Bench.Bodies > 0 {
			cfg.Bodies = opts.Bench.Bodies
		}

		g.Go(func() error {
			run, err := runOne(ctx, opts, cfg)
			if err != nil {
				return err
			}
			results[i] = run
			logger.Debug("run finished", "seed", run.Seed, "elapsed", run.Elapsed, "pairs", run.Pairs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, opts Options, cfg config.Sim) (storage.BenchRun, error) {
	sc, err := registry.Build(opts.Scenario, cfg)
	if err != nil {
		return storage.BenchRun{}, fmt.Errorf("bench: seed %d: %w", cfg.Seed, err)
	}

	w := world.New(opts.World)
	s := sim.New(sc, w, cfg.Step())
	opts.Recorder.SessionStarted()
	defer opts.Recorder.SessionEnded()

	run := storage.BenchRun{
		Scenario: opts.Scenario,
		Seed:     cfg.Seed,
		Bodies:   len(sc.Bodies),
		Steps:    opts.Bench.Steps,
	}

	base := w.Stats()
	prev := base
	var elapsed time.Duration
	for step := 0; step < opts.Bench.Steps; step++ {
		if step%64 == 0 {
			if err := ctx.Err(); err != nil {
				return storage.BenchRun{}, err
			}
		}

		start := time.Now()
		s.Step()
		d := time.Since(start)
		elapsed += d

		run.Pairs += uint64(len(s.Contacts()))
		st := w.Stats()
		opts.Recorder.ObserveStep(d, st.Since(prev))
		prev = st
		if st.TreeHeight > run.TreeHeight {
			run.TreeHeight = st.TreeHeight
		}
	}

	total := w.Stats().Since(base)
	run.Elapsed = elapsed
	run.Reinserts = total.Reinserts
	run.NarrowTests = total.NarrowTests
	return run, nil
}
