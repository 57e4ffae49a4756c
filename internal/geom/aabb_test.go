package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x, y, w, h float64) AABB {
	return AABB{Min: V(x, y), Max: V(x+w, y+h)}
}

func TestAABBOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     AABB
		expected bool
	}{
		{"overlapping boxes", box(0, 0, 10, 10), box(5, 5, 10, 10), true},
		{"non-overlapping horizontal", box(0, 0, 10, 10), box(15, 0, 10, 10), false},
		{"non-overlapping vertical", box(0, 0, 10, 10), box(0, 15, 10, 10), false},
		{"shared vertical edge", box(0, 0, 10, 10), box(10, 0, 10, 10), false},
		{"shared horizontal edge", box(0, 0, 10, 10), box(0, 10, 10, 10), false},
		{"shared corner", box(0, 0, 10, 10), box(10, 10, 10, 10), false},
		{"contained box", box(0, 0, 20, 20), box(5, 5, 5, 5), true},
		{"sliver overlap", box(0, 0, 10, 10), box(9.5, 9.5, 10, 10), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.expected, tc.b.Overlaps(tc.a), "reversed")
		})
	}
}

func TestAABBMergeExpandContains(t *testing.T) {
	a := box(0, 0, 2, 2)
	b := box(5, -1, 1, 1)

	m := a.Merge(b)
	assert.Equal(t, V(0, -1), m.Min)
	assert.Equal(t, V(6, 2), m.Max)
	assert.True(t, m.Contains(a))
	assert.True(t, m.Contains(b))
	assert.True(t, m.Contains(m), "a box contains itself")
	assert.False(t, a.Contains(m))

	e := a.Expand(0.5)
	assert.Equal(t, V(-0.5, -0.5), e.Min)
	assert.Equal(t, V(2.5, 2.5), e.Max)
	assert.True(t, e.Contains(a))
}

func TestAABBMetrics(t *testing.T) {
	b := box(1, 2, 4, 3)
	assert.Equal(t, V(3, 3.5), b.Center())
	assert.Equal(t, V(4, 3), b.Size())
	assert.Equal(t, 24.0, b.Area())
	assert.Equal(t, 4.0, b.Width())
	assert.Equal(t, 3.0, b.Height())
}

func TestFromPoints(t *testing.T) {
	b := FromPoints([]Vec{V(1, 5), V(-2, 3), V(4, -1)})
	assert.Equal(t, V(-2, -1), b.Min)
	assert.Equal(t, V(4, 5), b.Max)
	assert.Equal(t, AABB{}, FromPoints(nil))
}

func TestRayIntersects(t *testing.T) {
	b := box(0, 0, 4, 4)

	tEntry, ok := b.RayIntersects(V(-2, 2), V(1, 0), 10)
	require.True(t, ok)
	assert.InDelta(t, 2.0, tEntry, 1e-12)

	_, ok = b.RayIntersects(V(-2, 2), V(1, 0), 1)
	assert.False(t, ok, "box beyond max distance")

	_, ok = b.RayIntersects(V(-2, 5), V(1, 0), 10)
	assert.False(t, ok, "parallel ray outside slab")

	tEntry, ok = b.RayIntersects(V(2, 2), V(0, 1), 10)
	require.True(t, ok, "origin inside")
	assert.Zero(t, tEntry)
}

func TestNormalize(t *testing.T) {
	n, ok := Normalize(V(3, 4))
	require.True(t, ok)
	assert.InDelta(t, 0.6, n[0], 1e-12)
	assert.InDelta(t, 0.8, n[1], 1e-12)

	_, ok = Normalize(Vec{})
	assert.False(t, ok)
	assert.Equal(t, Up, NormalizeOr(Vec{}, Up))
}

func TestRotate(t *testing.T) {
	r := Rotate(V(1, 0), 1.5707963267948966)
	assert.InDelta(t, 0.0, r[0], 1e-12)
	assert.InDelta(t, 1.0, r[1], 1e-12)
	assert.Equal(t, V(2, 3), Rotate(V(2, 3), 0))
}
