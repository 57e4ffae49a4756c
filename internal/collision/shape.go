// Package collision implements the narrow phase: the Box, Circle and Polygon
// shape variants, exact overlap tests with penetration manifolds, and ray
// casts. Every query is a pure function of the shapes' current geometry, so it
// can be used with or without a World.
package collision

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/collide/internal/geom"
)

var (
	// ErrDegeneratePolygon is returned when the convex hull of the supplied
	// points has fewer than three vertices.
	ErrDegeneratePolygon = errors.New("collision: polygon hull needs at least 3 points")

	// ErrInvalidGeometry is returned for NaN or infinite coordinates and zero
	// scale factors.
	ErrInvalidGeometry = errors.New("collision: invalid geometry")
)

// Kind identifies a shape variant.
type Kind uint8

const (
	KindBox Kind = iota
	KindCircle
	KindPolygon
)

// String returns the lower-case variant name used in scene files.
func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Shape is the closed set of collision shapes: *Box, *Circle and *Polygon.
//
// Setting the position is the only way to move a shape and invalidates its
// cached bounds. Shapes are not safe for concurrent mutation.
type Shape interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Position returns the anchor point: the minimum corner for boxes and
	// circles, the hull centroid for polygons.
	Position() geom.Vec

	// SetPosition moves the shape so its anchor is at p.
	SetPosition(p geom.Vec)

	// Translate moves the shape by delta.
	Translate(delta geom.Vec)

	// Center returns the geometric center.
	Center() geom.Vec

	// Bounds returns the tight axis-aligned bounds, recomputed only after the
	// shape moved or changed.
	Bounds() geom.AABB

	// Vertices returns the outline in counter-clockwise order. Circles have no
	// fixed outline and return nil. The slice must not be modified.
	Vertices() []geom.Vec

	// Contains reports whether p is inside the shape or on its outline.
	Contains(p geom.Vec) bool

	// ClosestPoint returns the point on the shape's outline nearest to p.
	ClosestPoint(p geom.Vec) geom.Vec

	// Clone returns an independent copy.
	Clone() Shape

	// Overlaps reports whether the interiors of the two shapes intersect.
	Overlaps(other Shape) bool

	// Collide is Overlaps plus the manifold separating this shape from other.
	Collide(other Shape) (Manifold, bool)

	// CastRay intersects the ray origin + t*dir, t in [0, maxDist].
	CastRay(origin, dir geom.Vec, maxDist float64) (RaycastHit, bool)

	sealed()
}

// body carries the state every variant shares: the anchor position and the
// lazily recomputed bounds.
type body struct {
	position geom.Vec
	bounds   geom.AABB
	dirty    bool
}

func (b *body) sealed() {}

// Position returns the anchor point.
func (b *body) Position() geom.Vec {
	return b.position
}

// SetPosition moves the anchor and marks the bounds stale.
func (b *body) SetPosition(p geom.Vec) {
	b.position = p
	b.dirty = true
}

// Translate moves the anchor by delta.
func (b *body) Translate(delta geom.Vec) {
	b.SetPosition(b.position.Add(delta))
}

// cachedBounds returns the cached bounds, calling recompute first if stale.
func (b *body) cachedBounds(recompute func() geom.AABB) geom.AABB {
	if b.dirty {
		b.bounds = recompute()
		b.dirty = false
	}
	return b.bounds
}

// normalizeRay validates a ray query and returns the unit direction.
func normalizeRay(dir geom.Vec, maxDist float64) (geom.Vec, bool) {
	if !(maxDist > 0) {
		return geom.Vec{}, false
	}
	return geom.Normalize(dir)
}
