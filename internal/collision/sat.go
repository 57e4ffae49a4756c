package collision

import (
	"math"

	"github.com/vovakirdan/collide/internal/geom"
)

// polygonSAT runs the separating axis test between polygon a and any shape b.
// The candidate axes are a's edge normals plus b's: a polygon's edge normals,
// a box's two axes, or for a circle the direction from a's nearest outline
// point to the circle's center. testAxis picks the escape sign per axis, so
// the normal needs no final flip against the center delta.
func polygonSAT(a *Polygon, b Shape) (Manifold, bool) {
	best := Manifold{Depth: math.Inf(1)}

	for _, axis := range a.normals {
		if !testAxis(a, b, axis, &best) {
			return Manifold{}, false
		}
	}

	switch sb := b.(type) {
	case *Polygon:
		for _, axis := range sb.normals {
			if !testAxis(a, b, axis, &best) {
				return Manifold{}, false
			}
		}
	case *Box:
		for _, axis := range boxAxes {
			if !testAxis(a, b, axis, &best) {
				return Manifold{}, false
			}
		}
	case *Circle:
		center := sb.Center()
		if axis, ok := geom.Normalize(center.Sub(a.ClosestPoint(center))); ok {
			if !testAxis(a, b, axis, &best) {
				return Manifold{}, false
			}
		}
	}

	return best, !math.IsInf(best.Depth, 1)
}

// testAxis projects both shapes onto axis. It returns false when the axis
// separates them; otherwise it records the axis in best if it needs less
// translation than the current best.
//
// A can escape along +axis by maxB-minA or along -axis by maxA-minB. For
// partially overlapping intervals the shorter of the two is the interval
// overlap; when one interval contains the other it is the overlap plus the
// smaller boundary gap, pointing out through the nearer side.
func testAxis(a *Polygon, b Shape, axis geom.Vec, best *Manifold) bool {
	minA, maxA := project(a, axis)
	minB, maxB := project(b, axis)
	if maxA <= minB || maxB <= minA {
		return false
	}

	pos := maxB - minA
	neg := maxA - minB

	var m Manifold
	switch {
	case pos < neg:
		m = Manifold{Normal: axis, Depth: pos}
	case neg < pos:
		m = Manifold{Normal: axis.Mul(-1), Depth: neg}
	default:
		// Symmetric overlap: push a away from b's center.
		if axis.Dot(b.Center().Sub(a.Center())) > 0 {
			m = Manifold{Normal: axis.Mul(-1), Depth: neg}
		} else {
			m = Manifold{Normal: axis, Depth: pos}
		}
	}

	if m.Depth < best.Depth {
		*best = m
	}
	return true
}

// project returns the interval a shape covers along axis.
func project(s Shape, axis geom.Vec) (float64, float64) {
	if c, ok := s.(*Circle); ok {
		return c.project(axis)
	}
	verts := s.Vertices()
	lo := verts[0].Dot(axis)
	hi := lo
	for _, v := range verts[1:] {
		p := v.Dot(axis)
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	return lo, hi
}
