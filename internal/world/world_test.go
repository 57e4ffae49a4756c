package world

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/debug"
	"github.com/vovakirdan/collide/internal/geom"
)

func randomShape(rng *rand.Rand) collision.Shape {
	x, y := rng.Float64()*60, rng.Float64()*60
	switch rng.Intn(3) {
	case 0:
		return collision.NewBox(x, y, 1+rng.Float64()*6, 1+rng.Float64()*6)
	case 1:
		return collision.NewCircle(x, y, 0.5+rng.Float64()*3)
	default:
		for {
			pts := make([]geom.Vec, 3+rng.Intn(4))
			for i := range pts {
				pts[i] = geom.V(x+rng.Float64()*6, y+rng.Float64()*6)
			}
			if p, err := collision.NewPolygon(pts); err == nil {
				if err := p.SetAngle(rng.Float64() * math.Pi); err == nil {
					return p
				}
			}
		}
	}
}

func randomWorld(t *testing.T, seed int64, n int) (*World, []collision.Shape) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	w := New(config.World{Padding: 0.5})
	shapes := make([]collision.Shape, n)
	for i := range shapes {
		shapes[i] = randomShape(rng)
		w.Add(shapes[i])
	}
	require.NoError(t, w.Validate())
	return w, shapes
}

func set(shapes []collision.Shape) map[collision.Shape]bool {
	m := make(map[collision.Shape]bool, len(shapes))
	for _, s := range shapes {
		m[s] = true
	}
	return m
}

func TestAddIsIdempotent(t *testing.T) {
	w := New(config.World{Padding: 1})
	b := collision.NewBox(0, 0, 2, 2)
	w.Add(b)
	w.Add(b)

	assert.Equal(t, 1, w.Len())
	assert.True(t, w.Contains(b))
	assert.Equal(t, uint64(1), w.Stats().Inserts)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	w := New(config.World{})
	w.Add(collision.NewBox(0, 0, 1, 1))
	w.Remove(collision.NewBox(0, 0, 1, 1))
	assert.Equal(t, 1, w.Len())
}

func TestUpdateUnregistered(t *testing.T) {
	if debug.Enabled {
		t.Skip("collidedebug builds panic instead")
	}
	w := New(config.World{})
	b := collision.NewBox(0, 0, 1, 1)
	assert.NotPanics(t, func() { w.Update(b) })
	assert.Zero(t, w.Len())
}

func TestQueryExcludesSelf(t *testing.T) {
	w := New(config.World{Padding: 0.5})
	a := collision.NewBox(0, 0, 4, 4)
	b := collision.NewCircle(2, 2, 2)
	edge := collision.NewBox(4, 0, 4, 4)
	w.Add(a)
	w.Add(b)
	w.Add(edge)

	got := w.Query(a)
	assert.Equal(t, []collision.Shape{b}, got)
}

func TestQueryNil(t *testing.T) {
	w, _ := randomWorld(t, 3, 10)
	assert.NotPanics(t, func() {
		assert.Nil(t, w.Query(nil))
	})
	assert.Zero(t, w.Stats().Queries)
}

func TestQueryMatchesBruteForce(t *testing.T) {
	w, shapes := randomWorld(t, 11, 150)
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 60; i++ {
		probe := randomShape(rng)
		want := map[collision.Shape]bool{}
		for _, s := range shapes {
			if collision.Overlaps(probe, s) {
				want[s] = true
			}
		}
		assert.Equal(t, want, set(w.Query(probe)), "probe %d", i)
	}
}

func TestQueryAfterMovement(t *testing.T) {
	w, shapes := randomWorld(t, 5, 80)
	rng := rand.New(rand.NewSource(6))

	for step := 0; step < 50; step++ {
		for _, s := range shapes {
			s.Translate(geom.V(rng.Float64()-0.5, rng.Float64()-0.5))
			w.Update(s)
		}
		require.NoError(t, w.Validate())
	}

	for _, q := range shapes[:20] {
		want := map[collision.Shape]bool{}
		for _, s := range shapes {
			if s != q && collision.Overlaps(q, s) {
				want[s] = true
			}
		}
		assert.Equal(t, want, set(w.Query(q)))
	}
	assert.Positive(t, w.Stats().Reinserts)
}

func TestTreeBalancedWhileMoving(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		w, shapes := randomWorld(t, seed, 150)
		rng := rand.New(rand.NewSource(seed + 100))
		for step := 0; step < 30; step++ {
			for _, s := range shapes {
				s.Translate(geom.V(rng.Float64()*4-2, rng.Float64()*4-2))
				w.Update(s)
			}
			require.NoError(t, w.Validate(), "seed %d step %d", seed, step)
		}
	}
}

func TestSmallMovesDoNotReinsert(t *testing.T) {
	w := New(config.World{Padding: 1})
	b := collision.NewBox(0, 0, 2, 2)
	w.Add(b)
	b.Translate(geom.V(0.5, 0.5))
	w.Update(b)
	assert.Zero(t, w.Stats().Reinserts)

	b.Translate(geom.V(2, 0))
	w.Update(b)
	assert.Equal(t, uint64(1), w.Stats().Reinserts)
}

func TestQueryPoint(t *testing.T) {
	w := New(config.World{})
	b := collision.NewBox(0, 0, 4, 4)
	c := collision.NewCircleAt(geom.V(10, 0), 2)
	w.Add(b)
	w.Add(c)

	assert.Equal(t, []collision.Shape{b}, w.QueryPoint(geom.V(4, 2)))
	assert.Equal(t, []collision.Shape{c}, w.QueryPoint(geom.V(10, 1)))
	assert.Empty(t, w.QueryPoint(geom.V(7, 0)))
}

func TestQueryAABB(t *testing.T) {
	w := New(config.World{Padding: 0.5})
	c := collision.NewCircleAt(geom.V(0, 0), 1)
	w.Add(c)

	// The AABB corner overlaps the circle's bounds but not the circle.
	assert.Empty(t, w.QueryAABB(geom.NewAABB(geom.V(0.8, 0.8), geom.V(3, 3))))
	assert.Equal(t, []collision.Shape{c}, w.QueryAABB(geom.NewAABB(geom.V(0.5, -0.5), geom.V(3, 3))))
}

func TestCastRaySortedByDistance(t *testing.T) {
	w := New(config.World{Padding: 0.5})
	far := collision.NewBox(20, -1, 2, 2)
	near := collision.NewCircleAt(geom.V(5, 0), 1)
	off := collision.NewBox(10, 5, 2, 2)
	w.Add(far)
	w.Add(near)
	w.Add(off)

	hits := w.CastRay(geom.V(0, 0), geom.V(2, 0), 50)
	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0].Shape)
	assert.InDelta(t, 4, hits[0].Distance, 1e-9)
	assert.Same(t, far, hits[1].Shape)
	assert.InDelta(t, 20, hits[1].Distance, 1e-9)

	closest, ok := w.CastRayClosest(geom.V(0, 0), geom.V(1, 0), 50)
	require.True(t, ok)
	assert.Same(t, near, closest.Shape)

	_, ok = w.CastRayClosest(geom.V(0, 0), geom.V(1, 0), 3)
	assert.False(t, ok)
	assert.Nil(t, w.CastRay(geom.V(0, 0), geom.Vec{}, 50))
}

func TestPairsMatchBruteForce(t *testing.T) {
	w, shapes := randomWorld(t, 21, 120)

	type key struct{ a, b collision.Shape }
	got := map[key]collision.Manifold{}
	for _, c := range w.Pairs() {
		_, dup := got[key{c.B, c.A}]
		require.False(t, dup, "pair reported twice")
		got[key{c.A, c.B}] = c.Manifold
	}

	want := 0
	for i, a := range shapes {
		for _, b := range shapes[i+1:] {
			if collision.Overlaps(a, b) {
				want++
				_, ab := got[key{a, b}]
				_, ba := got[key{b, a}]
				assert.True(t, ab || ba)
			}
		}
	}
	assert.Len(t, got, want)

	for k, m := range got {
		moved := k.a.Clone()
		moved.Translate(m.MTV())
		if rest, still := collision.Collide(moved, k.b); still {
			assert.Less(t, rest.Depth, 1e-9, "manifold %+v does not separate", m)
		}
	}
}

func TestShapesInInsertionOrder(t *testing.T) {
	w := New(config.World{})
	a := collision.NewBox(0, 0, 1, 1)
	b := collision.NewBox(5, 0, 1, 1)
	c := collision.NewBox(10, 0, 1, 1)
	w.Add(a)
	w.Add(b)
	w.Add(c)
	assert.Equal(t, []collision.Shape{a, b, c}, w.Shapes())
}

func TestClear(t *testing.T) {
	w, shapes := randomWorld(t, 3, 30)
	w.Clear()

	assert.Zero(t, w.Len())
	assert.False(t, w.Contains(shapes[0]))
	assert.Empty(t, w.Query(shapes[0]))
	assert.Zero(t, w.Stats().Nodes)
	require.NoError(t, w.Validate())
}

func TestRemoveAllLeavesEmptyTree(t *testing.T) {
	w, shapes := randomWorld(t, 8, 64)
	for _, s := range shapes {
		w.Remove(s)
	}
	st := w.Stats()
	assert.Zero(t, st.Bodies)
	assert.Equal(t, -1, st.TreeHeight)
	assert.Equal(t, uint64(64), st.Removes)
}

func TestStatsSince(t *testing.T) {
	w := New(config.World{Padding: 0.5})
	a := collision.NewBox(0, 0, 2, 2)
	b := collision.NewBox(1, 1, 2, 2)
	w.Add(a)
	w.Add(b)
	before := w.Stats()

	w.Pairs()
	w.Query(a)
	delta := w.Stats().Since(before)

	assert.Zero(t, delta.Inserts)
	assert.Equal(t, uint64(1), delta.PairPasses)
	assert.Equal(t, uint64(1), delta.Queries)
	assert.Equal(t, 2, delta.Bodies)
}
