package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scene"
	_ "github.com/vovakirdan/collide/internal/scenarios"
	"github.com/vovakirdan/collide/internal/world"
)

const tol = 1e-9

func simConfig(seed int64) config.Sim {
	cfg := config.Default().Sim
	cfg.Seed = seed
	cfg.Bodies = 60
	return cfg
}

func newSim(t *testing.T, id string, seed int64) *Sim {
	t.Helper()
	cfg := simConfig(seed)
	sc, err := registry.Build(id, cfg)
	require.NoError(t, err)
	return New(sc, world.New(config.World{Padding: 0.5}), cfg.Step())
}

func assertInside(t *testing.T, s *Sim) {
	t.Helper()
	arena := s.Scene().Arena
	for _, b := range s.Scene().Bodies {
		if b.Static {
			continue
		}
		bb := b.Shape.Bounds()
		require.GreaterOrEqual(t, bb.Min[0], arena.Min[0]-tol, b.ID)
		require.GreaterOrEqual(t, bb.Min[1], arena.Min[1]-tol, b.ID)
		require.LessOrEqual(t, bb.Max[0], arena.Max[0]+tol, b.ID)
		require.LessOrEqual(t, bb.Max[1], arena.Max[1]+tol, b.ID)
	}
}

func TestBodiesStayInArena(t *testing.T) {
	for _, id := range []string{"grid", "rain", "mixed"} {
		t.Run(id, func(t *testing.T) {
			s := newSim(t, id, 3)
			for range 300 {
				s.Step()
				assertInside(t, s)
			}
			assert.Equal(t, uint64(300), s.Tick())
			require.NoError(t, s.World().Validate())
		})
	}
}

func TestDeterministicPerSeed(t *testing.T) {
	a := newSim(t, "mixed", 42)
	b := newSim(t, "mixed", 42)
	a.Run(200)
	b.Run(200)

	for i, ba := range a.Scene().Bodies {
		bb := b.Scene().Bodies[i]
		assert.Equal(t, ba.Shape.Position(), bb.Shape.Position(), ba.ID)
		assert.Equal(t, ba.Velocity, bb.Velocity, ba.ID)
	}
	assert.Equal(t, len(a.Contacts()), len(b.Contacts()))

	c := newSim(t, "mixed", 43)
	assert.NotEqual(t, a.Scene().Bodies[0].Shape.Position(), c.Scene().Bodies[0].Shape.Position())
}

func TestWallBounce(t *testing.T) {
	ball := collision.NewCircleAt(geom.V(9, 5), 1)
	sc := &scene.Scene{
		Arena:  geom.NewAABB(geom.V(0, 0), geom.V(10, 10)),
		Bodies: []*scene.Body{{ID: "ball", Shape: ball, Velocity: geom.V(4, 0)}},
	}
	s := New(sc, world.New(config.World{}), time.Second/4)
	s.Step()

	assert.InDelta(t, 9, ball.Center()[0], tol)
	assert.Equal(t, geom.V(-4, 0), sc.Bodies[0].Velocity)
}

func TestStaticBodiesDoNotMove(t *testing.T) {
	s := newSim(t, "rain", 9)
	var static []geom.Vec
	for _, b := range s.Scene().Bodies {
		if b.Static {
			static = append(static, b.Shape.Position())
		}
	}
	s.Run(100)
	i := 0
	for _, b := range s.Scene().Bodies {
		if b.Static {
			assert.Equal(t, static[i], b.Shape.Position(), b.ID)
			i++
		}
	}
}

func TestContactPushesDynamicOffStatic(t *testing.T) {
	floor := collision.NewBox(0, 0, 20, 2)
	ball := collision.NewCircleAt(geom.V(10, 2.5), 1)
	sc := &scene.Scene{
		Arena: geom.NewAABB(geom.V(0, 0), geom.V(20, 20)),
		Bodies: []*scene.Body{
			{ID: "floor", Shape: floor, Static: true},
			{ID: "ball", Shape: ball, Velocity: geom.V(0, -1)},
		},
	}
	s := New(sc, world.New(config.World{}), time.Second/10)
	s.Step()

	require.Len(t, s.Contacts(), 1)
	assert.InDelta(t, 3, ball.Center()[1], tol)
	assert.Equal(t, geom.V(0, 0), floor.Position())
	assert.Positive(t, sc.Bodies[1].Velocity[1])
}

func TestWithoutResolution(t *testing.T) {
	a := collision.NewBox(0, 0, 4, 4)
	b := collision.NewBox(2, 2, 4, 4)
	sc := &scene.Scene{
		Arena: geom.NewAABB(geom.V(0, 0), geom.V(20, 20)),
		Bodies: []*scene.Body{
			{ID: "a", Shape: a},
			{ID: "b", Shape: b},
		},
	}
	s := New(sc, world.New(config.World{}), time.Second/10, WithoutResolution())
	s.Step()
	assert.Len(t, s.Contacts(), 1)
	assert.Equal(t, geom.V(2, 2), b.Position())
}
