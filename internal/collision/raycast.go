package collision

import (
	"math"

	"github.com/vovakirdan/collide/internal/geom"
)

// clipRay clips the ray origin + t*dir, t in [0, maxDist], against the
// half-planes of a convex outline. verts and normals are counter-clockwise and
// normals[i] belongs to the edge starting at verts[i]; dir must be unit length.
//
// The ray hits only if some edge moved the entry parameter: a ray starting
// inside the outline never crosses an entering edge and is reported as a miss.
func clipRay(verts, normals []geom.Vec, origin, dir geom.Vec, maxDist float64) (RaycastHit, bool) {
	lo, hi := 0.0, maxDist
	var normal geom.Vec
	entered := false

	for i, n := range normals {
		num := n.Dot(verts[i].Sub(origin))
		den := n.Dot(dir)

		if den == 0 {
			// Parallel to the edge: outside its half-plane means a miss.
			if num < 0 {
				return RaycastHit{}, false
			}
			continue
		}

		t := num / den
		if den < 0 {
			if t >= lo {
				lo = t
				normal = n
				entered = true
			}
		} else if t < hi {
			hi = t
		}

		if hi < lo {
			return RaycastHit{}, false
		}
	}

	if !entered {
		return RaycastHit{}, false
	}
	return RaycastHit{
		Contact:  origin.Add(dir.Mul(lo)),
		Normal:   normal,
		Distance: lo,
		Depth:    maxDist - lo,
	}, true
}

// castCircle solves |origin + t*dir - center|² = r² for the first root in
// [0, maxDist]; dir must be unit length.
func castCircle(center geom.Vec, r float64, origin, dir geom.Vec, maxDist float64) (RaycastHit, bool) {
	m := origin.Sub(center)
	b := m.Dot(dir)
	c := m.Dot(m) - r*r

	// Outside and pointing away.
	if c > 0 && b > 0 {
		return RaycastHit{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return RaycastHit{}, false
	}

	s := math.Sqrt(disc)
	t := -b - s
	if t < 0 {
		t = -b + s
	}
	if t < 0 || t > maxDist {
		return RaycastHit{}, false
	}

	contact := origin.Add(dir.Mul(t))
	return RaycastHit{
		Contact:  contact,
		Normal:   geom.NormalizeOr(contact.Sub(center), geom.Up),
		Distance: t,
		Depth:    maxDist - t,
	}, true
}
