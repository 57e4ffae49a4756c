package collision

import (
	"math"

	"github.com/vovakirdan/collide/internal/geom"
)

// Circle is anchored at the minimum corner of its bounding square, so its
// center is position + (radius, radius).
type Circle struct {
	body
	radius float64
}

var _ Shape = (*Circle)(nil)

// NewCircle creates a circle whose bounding square starts at (x, y).
// A negative radius is taken by absolute value.
func NewCircle(x, y, radius float64) *Circle {
	c := &Circle{radius: math.Abs(radius)}
	c.SetPosition(geom.V(x, y))
	return c
}

// NewCircleAt creates a circle centered on center.
func NewCircleAt(center geom.Vec, radius float64) *Circle {
	r := math.Abs(radius)
	return NewCircle(center[0]-r, center[1]-r, r)
}

// Kind returns KindCircle.
func (c *Circle) Kind() Kind { return KindCircle }

// Radius returns the radius.
func (c *Circle) Radius() float64 {
	return c.radius
}

// SetRadius changes the radius, keeping the anchor.
func (c *Circle) SetRadius(r float64) {
	c.radius = math.Abs(r)
	c.dirty = true
}

// SetCenter moves the circle so its center is at p.
func (c *Circle) SetCenter(p geom.Vec) {
	c.SetPosition(p.Sub(geom.V(c.radius, c.radius)))
}

// Center returns the circle's center.
func (c *Circle) Center() geom.Vec {
	return c.position.Add(geom.V(c.radius, c.radius))
}

// Bounds returns the bounding square.
func (c *Circle) Bounds() geom.AABB {
	return c.cachedBounds(func() geom.AABB {
		d := 2 * c.radius
		return geom.AABB{Min: c.position, Max: c.position.Add(geom.V(d, d))}
	})
}

// Vertices returns nil: circles are handled by center and radius.
func (c *Circle) Vertices() []geom.Vec {
	return nil
}

// Contains reports whether p lies inside the circle or on its outline.
func (c *Circle) Contains(p geom.Vec) bool {
	d := p.Sub(c.Center())
	return d.Dot(d) <= c.radius*c.radius
}

// ClosestPoint returns the point on the circle nearest to p. The center
// itself maps to the top of the circle.
func (c *Circle) ClosestPoint(p geom.Vec) geom.Vec {
	center := c.Center()
	n := geom.NormalizeOr(p.Sub(center), geom.Up)
	return center.Add(n.Mul(c.radius))
}

// Clone returns a copy of the circle.
func (c *Circle) Clone() Shape {
	cc := *c
	return &cc
}

// Overlaps reports whether c and other intersect.
func (c *Circle) Overlaps(other Shape) bool {
	return Overlaps(c, other)
}

// Collide returns the manifold separating c from other.
func (c *Circle) Collide(other Shape) (Manifold, bool) {
	return Collide(c, other)
}

// CastRay intersects a ray with the circle.
func (c *Circle) CastRay(origin, dir geom.Vec, maxDist float64) (RaycastHit, bool) {
	d, ok := normalizeRay(dir, maxDist)
	if !ok {
		return RaycastHit{}, false
	}
	return castCircle(c.Center(), c.radius, origin, d, maxDist)
}

// project returns the interval the circle covers along axis.
func (c *Circle) project(axis geom.Vec) (float64, float64) {
	p := c.Center().Dot(axis)
	return p - c.radius, p + c.radius
}
