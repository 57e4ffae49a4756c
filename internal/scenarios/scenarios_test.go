package scenarios

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/registry"
)

func testSim() config.Sim {
	cfg := config.Default().Sim
	cfg.Bodies = 30
	return cfg
}

func TestBuiltinsRegistered(t *testing.T) {
	for _, id := range []string{"grid", "mixed", "rain"} {
		assert.True(t, registry.Exists(id), id)
	}
}

func TestScenariosStayInsideArena(t *testing.T) {
	cfg := testSim()
	for _, info := range registry.List() {
		t.Run(info.ID, func(t *testing.T) {
			sc, err := registry.Build(info.ID, cfg)
			require.NoError(t, err)

			arena := sc.Arena.Expand(1e-9)
			dynamic := 0
			for _, b := range sc.Bodies {
				assert.True(t, arena.Contains(b.Shape.Bounds()), "%s at %v", b.ID, b.Shape.Bounds())
				if !b.Static {
					dynamic++
				}
			}
			assert.Equal(t, cfg.Bodies, dynamic)
		})
	}
}

func TestScenariosDeterministicPerSeed(t *testing.T) {
	cfg := testSim()
	for _, info := range registry.List() {
		t.Run(info.ID, func(t *testing.T) {
			a, err := registry.Build(info.ID, cfg)
			require.NoError(t, err)
			b, err := registry.Build(info.ID, cfg)
			require.NoError(t, err)
			assert.Equal(t, a.Snapshot(), b.Snapshot())

			cfg.Seed++
			c, err := registry.Build(info.ID, cfg)
			require.NoError(t, err)
			assert.NotEqual(t, a.Snapshot(), c.Snapshot())
		})
	}
}

func TestUniqueBodyIDs(t *testing.T) {
	sc, err := registry.Build("rain", testSim())
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, b := range sc.Bodies {
		assert.False(t, seen[b.ID], b.ID)
		seen[b.ID] = true
	}
}

func TestRejectsEmptyArena(t *testing.T) {
	cfg := testSim()
	cfg.ArenaWidth = 0
	for _, info := range registry.List() {
		_, err := registry.Build(info.ID, cfg)
		assert.Error(t, err, info.ID)
	}
}
