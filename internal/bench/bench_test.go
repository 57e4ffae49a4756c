package bench

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/metrics"
	"github.com/vovakirdan/collide/internal/registry"
	_ "github.com/vovakirdan/collide/internal/scenarios"
)

func testOptions(scenario string) Options {
	cfg := config.Default()
	cfg.Bench = config.Bench{Runs: 4, Steps: 40, Bodies: 30, Parallel: 2}
	return Options{Scenario: scenario, Bench: cfg.Bench, Sim: cfg.Sim, World: cfg.World}
}

func TestRunOrdersBySeed(t *testing.T) {
	opts := testOptions("grid")
	runs, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, runs, 4)

	for i, r := range runs {
		assert.Equal(t, opts.Sim.Seed+int64(i), r.Seed)
		assert.Equal(t, "grid", r.Scenario)
		assert.Equal(t, 40, r.Steps)
		assert.Positive(t, r.Bodies)
		assert.Positive(t, r.TreeHeight)
		assert.Positive(t, r.NarrowTests)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	opts := testOptions("mixed")
	first, err := Run(context.Background(), opts)
	require.NoError(t, err)
	opts.Bench.Parallel = 1
	second, err := Run(context.Background(), opts)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Pairs, second[i].Pairs)
		assert.Equal(t, first[i].Reinserts, second[i].Reinserts)
		assert.Equal(t, first[i].NarrowTests, second[i].NarrowTests)
		assert.Equal(t, first[i].TreeHeight, second[i].TreeHeight)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	_, err := Run(context.Background(), testOptions("nope"))
	require.ErrorIs(t, err, registry.ErrUnknownScenario)

	opts := testOptions("grid")
	opts.Bench.Runs = 0
	_, err = Run(context.Background(), opts)
	require.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, testOptions("rain"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunFeedsRecorder(t *testing.T) {
	opts := testOptions("grid")
	opts.Recorder = metrics.New()
	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(opts.Recorder.Registry(), "collide_step_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	families, err := opts.Recorder.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		switch f.GetName() {
		case "collide_sessions_active":
			assert.Zero(t, f.GetMetric()[0].GetGauge().GetValue())
		case "collide_step_duration_seconds":
			assert.Equal(t, uint64(4*40), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
}
