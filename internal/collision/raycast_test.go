package collision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/collide/internal/geom"
)

func TestCircleRaycast(t *testing.T) {
	c := NewCircleAt(geom.V(0, 0), 2)

	hit, ok := c.CastRay(geom.V(-5, 0), geom.V(1, 0), 20)
	require.True(t, ok)
	assertVec(t, geom.V(-2, 0), hit.Contact)
	assertVec(t, geom.V(-1, 0), hit.Normal)
	assert.InDelta(t, 3.0, hit.Distance, eps)
	assert.InDelta(t, 17.0, hit.Depth, eps)

	_, ok = c.CastRay(geom.V(-5, 0), geom.V(-1, 0), 20)
	assert.False(t, ok, "pointing away")

	_, ok = c.CastRay(geom.V(-5, 3), geom.V(1, 0), 20)
	assert.False(t, ok, "passes above")

	_, ok = c.CastRay(geom.V(-5, 0), geom.V(1, 0), 2.5)
	assert.False(t, ok, "too short")

	hit, ok = c.CastRay(geom.V(0, 0), geom.V(0, 1), 20)
	require.True(t, ok, "origin inside exits through the outline")
	assertVec(t, geom.V(0, 2), hit.Contact)
	assertVec(t, geom.V(0, 1), hit.Normal)

	hit, ok = c.CastRay(geom.V(-5, 0), geom.V(3, 0), 20)
	require.True(t, ok, "direction is normalised")
	assert.InDelta(t, 3.0, hit.Distance, eps)
}

func TestBoxRaycast(t *testing.T) {
	b := NewBox(0, 0, 4, 4)

	hit, ok := b.CastRay(geom.V(-5, 2), geom.V(1, 0), 20)
	require.True(t, ok)
	assertVec(t, geom.V(0, 2), hit.Contact)
	assertVec(t, geom.V(-1, 0), hit.Normal)
	assert.InDelta(t, 5.0, hit.Distance, eps)
	assert.InDelta(t, 15.0, hit.Depth, eps)

	hit, ok = b.CastRay(geom.V(2, 10), geom.V(0, -1), 20)
	require.True(t, ok)
	assertVec(t, geom.V(2, 4), hit.Contact)
	assertVec(t, geom.V(0, 1), hit.Normal)

	_, ok = b.CastRay(geom.V(-5, 5), geom.V(1, 0), 20)
	assert.False(t, ok, "parallel and outside the top edge")

	_, ok = b.CastRay(geom.V(2, 2), geom.V(1, 0), 20)
	assert.False(t, ok, "origin inside never enters")

	_, ok = b.CastRay(geom.V(-5, 2), geom.V(1, 0), 4)
	assert.False(t, ok, "stops short")

	_, ok = b.CastRay(geom.V(-5, 2), geom.V(0, 0), 20)
	assert.False(t, ok, "zero direction")

	_, ok = b.CastRay(geom.V(-5, 2), geom.V(1, 0), 0)
	assert.False(t, ok, "zero distance")
}

func TestPolygonRaycast(t *testing.T) {
	diamond := MustPolygon(geom.V(0, -2), geom.V(2, 0), geom.V(0, 2), geom.V(-2, 0))

	hit, ok := diamond.CastRay(geom.V(-5, 0), geom.V(1, 0), 10)
	require.True(t, ok)
	assertVec(t, geom.V(-2, 0), hit.Contact)
	assert.InDelta(t, 3.0, hit.Distance, eps)
	assert.Less(t, hit.Normal[0], 0.0)

	hit, ok = diamond.CastRay(geom.V(-5, 1), geom.V(1, 0), 10)
	require.True(t, ok)
	assertVec(t, geom.V(-1, 1), hit.Contact)
	assertVec(t, geom.V(-math.Sqrt2/2, math.Sqrt2/2), hit.Normal)

	_, ok = diamond.CastRay(geom.V(-5, 3), geom.V(1, 0), 10)
	assert.False(t, ok)

	_, ok = diamond.CastRay(geom.V(0, 0), geom.V(1, 0), 10)
	assert.False(t, ok, "origin inside")

	require.NoError(t, diamond.SetAngle(math.Pi/4))
	hit, ok = diamond.CastRay(geom.V(-5, 0), geom.V(1, 0), 10)
	require.True(t, ok, "rotated diamond is a square")
	assert.InDelta(t, -math.Sqrt2, hit.Contact[0], eps)
	assertVec(t, geom.V(-1, 0), hit.Normal)
}
