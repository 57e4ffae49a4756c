package collision

import (
	"math"

	"github.com/vovakirdan/collide/internal/geom"
)

// Box is an axis-aligned rectangle anchored at its minimum corner.
type Box struct {
	body
	size geom.Vec
}

var _ Shape = (*Box)(nil)

// NewBox creates a box with its minimum corner at (x, y). Negative sizes are
// taken by absolute value.
func NewBox(x, y, w, h float64) *Box {
	b := &Box{size: geom.Abs(geom.V(w, h))}
	b.SetPosition(geom.V(x, y))
	return b
}

// NewBoxFromAABB creates a box covering bounds.
func NewBoxFromAABB(bounds geom.AABB) *Box {
	s := bounds.Size()
	return NewBox(bounds.Min[0], bounds.Min[1], s[0], s[1])
}

// Kind returns KindBox.
func (b *Box) Kind() Kind { return KindBox }

// Size returns the width and height.
func (b *Box) Size() geom.Vec {
	return b.size
}

// SetSize resizes the box, keeping its minimum corner.
func (b *Box) SetSize(size geom.Vec) {
	b.size = geom.Abs(size)
	b.dirty = true
}

// Center returns the midpoint of the box.
func (b *Box) Center() geom.Vec {
	return b.position.Add(b.size.Mul(0.5))
}

// HalfExtents returns half the size.
func (b *Box) HalfExtents() geom.Vec {
	return b.size.Mul(0.5)
}

// Bounds returns the box itself as an AABB.
func (b *Box) Bounds() geom.AABB {
	return b.cachedBounds(func() geom.AABB {
		return geom.AABB{Min: b.position, Max: b.position.Add(b.size)}
	})
}

// Vertices returns the four corners counter-clockwise from the minimum.
func (b *Box) Vertices() []geom.Vec {
	bb := b.Bounds()
	return []geom.Vec{
		bb.Min,
		{bb.Max[0], bb.Min[1]},
		bb.Max,
		{bb.Min[0], bb.Max[1]},
	}
}

// Contains reports whether p lies inside the box or on its edge.
func (b *Box) Contains(p geom.Vec) bool {
	return b.Bounds().ContainsPoint(p)
}

// ClosestPoint returns the point on the box outline nearest to p. Points
// inside the box are pushed to the nearest edge.
func (b *Box) ClosestPoint(p geom.Vec) geom.Vec {
	bb := b.Bounds()
	c := geom.Clamp(p, bb.Min, bb.Max)
	if c != p {
		return c
	}

	// Inside: snap to whichever edge is closest.
	dl, dr := p[0]-bb.Min[0], bb.Max[0]-p[0]
	db, dt := p[1]-bb.Min[1], bb.Max[1]-p[1]
	m := math.Min(math.Min(dl, dr), math.Min(db, dt))
	switch m {
	case dl:
		c[0] = bb.Min[0]
	case dr:
		c[0] = bb.Max[0]
	case db:
		c[1] = bb.Min[1]
	default:
		c[1] = bb.Max[1]
	}
	return c
}

// Clone returns a copy of the box.
func (b *Box) Clone() Shape {
	c := *b
	return &c
}

// Overlaps reports whether b and other intersect.
func (b *Box) Overlaps(other Shape) bool {
	return Overlaps(b, other)
}

// Collide returns the manifold separating b from other.
func (b *Box) Collide(other Shape) (Manifold, bool) {
	return Collide(b, other)
}

// CastRay intersects a ray with the box by clipping against its four edges.
func (b *Box) CastRay(origin, dir geom.Vec, maxDist float64) (RaycastHit, bool) {
	d, ok := normalizeRay(dir, maxDist)
	if !ok {
		return RaycastHit{}, false
	}
	return clipRay(b.Vertices(), boxNormals[:], origin, d, maxDist)
}

// boxNormals are the outward normals of the edges returned by Vertices.
var boxNormals = [4]geom.Vec{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// boxAxes are the separating axes a box contributes to SAT.
var boxAxes = [2]geom.Vec{{1, 0}, {0, 1}}
