package collision

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/collide/internal/geom"
)

// Polygon is a convex polygon. Its vertices are stored relative to the hull
// centroid, and position, scale and angle compose into world space as: scale
// about the centroid, rotate about it, then translate to position.
//
// Unlike boxes and circles, a polygon recomputes its world-space vertices as
// soon as it moves, since the narrow phase reads them directly.
type Polygon struct {
	body
	origin      geom.Vec   // hull centroid in the input coordinates
	local       []geom.Vec // hull relative to origin, counter-clockwise
	scale       geom.Vec
	angle       float64
	transformed []geom.Vec
	normals     []geom.Vec
}

var _ Shape = (*Polygon)(nil)

// NewPolygon builds a polygon from the convex hull of points. Points inside
// the hull are discarded. The polygon is positioned at the hull centroid, so
// it initially covers the supplied points exactly.
func NewPolygon(points []geom.Vec) (*Polygon, error) {
	hull, err := ConvexHull(points)
	if err != nil {
		return nil, err
	}

	origin := centroid(hull)
	local := make([]geom.Vec, len(hull))
	for i, p := range hull {
		local[i] = p.Sub(origin)
	}

	p := &Polygon{
		origin: origin,
		local:  local,
		scale:  geom.V(1, 1),
	}
	p.SetPosition(origin)
	return p, nil
}

// MustPolygon is NewPolygon for literal inputs known to be valid.
func MustPolygon(points ...geom.Vec) *Polygon {
	p, err := NewPolygon(points)
	if err != nil {
		panic(err)
	}
	return p
}

// Kind returns KindPolygon.
func (p *Polygon) Kind() Kind { return KindPolygon }

// SetPosition moves the polygon's centroid to pos and refreshes its vertices.
func (p *Polygon) SetPosition(pos geom.Vec) {
	p.body.SetPosition(pos)
	p.transform()
}

// Translate moves the polygon by delta.
func (p *Polygon) Translate(delta geom.Vec) {
	p.SetPosition(p.position.Add(delta))
}

// Origin returns the hull centroid in the coordinates the polygon was built from.
func (p *Polygon) Origin() geom.Vec {
	return p.origin
}

// Angle returns the rotation in radians.
func (p *Polygon) Angle() float64 {
	return p.angle
}

// SetAngle rotates the polygon about its centroid.
func (p *Polygon) SetAngle(radians float64) error {
	if math.IsNaN(radians) || math.IsInf(radians, 0) {
		return fmt.Errorf("%w: angle %v", ErrInvalidGeometry, radians)
	}
	p.angle = radians
	p.dirty = true
	p.transform()
	return nil
}

// Scale returns the per-axis scale factors.
func (p *Polygon) Scale() geom.Vec {
	return p.scale
}

// SetScale scales the polygon about its centroid. Zero factors would collapse
// the hull and are rejected.
func (p *Polygon) SetScale(s geom.Vec) error {
	if !geom.Finite(s) || s[0] == 0 || s[1] == 0 {
		return fmt.Errorf("%w: scale %v", ErrInvalidGeometry, s)
	}
	p.scale = s
	p.dirty = true
	p.transform()
	return nil
}

// LocalVertices returns the hull relative to the centroid, before scale and
// rotation.
func (p *Polygon) LocalVertices() []geom.Vec {
	return p.local
}

// Center returns the centroid's world position.
func (p *Polygon) Center() geom.Vec {
	return p.position
}

// Bounds returns the bounds of the transformed vertices.
func (p *Polygon) Bounds() geom.AABB {
	return p.cachedBounds(func() geom.AABB {
		return geom.FromPoints(p.transformed)
	})
}

// Vertices returns the world-space vertices, counter-clockwise.
func (p *Polygon) Vertices() []geom.Vec {
	return p.transformed
}

// Normals returns the unit outward normal of each edge; normal i belongs to
// the edge from vertex i to vertex i+1.
func (p *Polygon) Normals() []geom.Vec {
	return p.normals
}

// transform rebuilds the world-space vertex and normal caches.
func (p *Polygon) transform() {
	n := len(p.local)
	if cap(p.transformed) < n {
		p.transformed = make([]geom.Vec, n)
		p.normals = make([]geom.Vec, n)
	}
	p.transformed = p.transformed[:n]
	p.normals = p.normals[:n]

	for i, v := range p.local {
		v = geom.V(v[0]*p.scale[0], v[1]*p.scale[1])
		p.transformed[i] = geom.Rotate(v, p.angle).Add(p.position)
	}

	// A mirroring scale reverses the winding.
	if p.scale[0]*p.scale[1] < 0 {
		slices.Reverse(p.transformed)
	}

	for i, a := range p.transformed {
		b := p.transformed[(i+1)%n]
		p.normals[i] = geom.NormalizeOr(geom.Perp(b.Sub(a)), geom.Up)
	}
}

// Contains reports whether pt is inside the polygon or on its outline.
func (p *Polygon) Contains(pt geom.Vec) bool {
	verts := p.transformed
	for i, a := range verts {
		b := verts[(i+1)%len(verts)]
		if turn(a, b, pt) < 0 {
			return false
		}
	}
	return true
}

// ClosestPoint returns the point on the outline nearest to pt.
func (p *Polygon) ClosestPoint(pt geom.Vec) geom.Vec {
	verts := p.transformed
	best := verts[0]
	bestDist := math.Inf(1)
	for i, a := range verts {
		c := closestOnSegment(a, verts[(i+1)%len(verts)], pt)
		d := c.Sub(pt)
		if dist := d.Dot(d); dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

// Clone returns an independent copy of the polygon.
func (p *Polygon) Clone() Shape {
	c := *p
	c.local = slices.Clone(p.local)
	c.transformed = slices.Clone(p.transformed)
	c.normals = slices.Clone(p.normals)
	return &c
}

// Overlaps reports whether p and other intersect.
func (p *Polygon) Overlaps(other Shape) bool {
	return Overlaps(p, other)
}

// Collide returns the manifold separating p from other.
func (p *Polygon) Collide(other Shape) (Manifold, bool) {
	return Collide(p, other)
}

// CastRay intersects a ray with the polygon by clipping it against every edge.
func (p *Polygon) CastRay(origin, dir geom.Vec, maxDist float64) (RaycastHit, bool) {
	d, ok := normalizeRay(dir, maxDist)
	if !ok {
		return RaycastHit{}, false
	}
	return clipRay(p.transformed, p.normals, origin, d, maxDist)
}

// closestOnSegment returns the point of segment ab nearest to p.
func closestOnSegment(a, b, p geom.Vec) geom.Vec {
	ab := b.Sub(a)
	l := ab.Dot(ab)
	if l == 0 {
		return a
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/l, 0, 1)
	return a.Add(ab.Mul(t))
}
