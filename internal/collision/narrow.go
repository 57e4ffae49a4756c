package collision

import (
	"math"

	"github.com/vovakirdan/collide/internal/geom"
)

// Overlaps reports whether the interiors of a and b intersect. Shapes that
// merely touch do not overlap. The result does not depend on argument order.
func Overlaps(a, b Shape) bool {
	_, ok := Collide(a, b)
	return ok
}

// Collide tests a against b and, when they overlap, returns the manifold that
// moves a out of b. Swapping the arguments negates the normal.
func Collide(a, b Shape) (Manifold, bool) {
	switch sa := a.(type) {
	case *Box:
		switch sb := b.(type) {
		case *Box:
			return boxBox(sa, sb)
		case *Circle:
			return flipped(circleBox(sb, sa))
		case *Polygon:
			return flipped(polygonSAT(sb, sa))
		}
	case *Circle:
		switch sb := b.(type) {
		case *Box:
			return circleBox(sa, sb)
		case *Circle:
			return circleCircle(sa, sb)
		case *Polygon:
			return flipped(polygonSAT(sb, sa))
		}
	case *Polygon:
		if b != nil {
			return polygonSAT(sa, b)
		}
	}
	return Manifold{}, false
}

func flipped(m Manifold, ok bool) (Manifold, bool) {
	if !ok {
		return m, false
	}
	return m.Flip(), true
}

// boxBox separates along whichever axis has the smaller penetration; x wins
// ties.
func boxBox(a, b *Box) (Manifold, bool) {
	d := a.Center().Sub(b.Center())
	offset := a.HalfExtents().Add(b.HalfExtents()).Sub(geom.Abs(d))
	if offset[0] <= 0 || offset[1] <= 0 {
		return Manifold{}, false
	}
	if offset[0] <= offset[1] {
		return Manifold{Normal: geom.V(geom.Sign(d[0]), 0), Depth: offset[0]}, true
	}
	return Manifold{Normal: geom.V(0, geom.Sign(d[1])), Depth: offset[1]}, true
}

// circleCircle pushes a along the center delta. Coincident centers push
// along +Y.
func circleCircle(a, b *Circle) (Manifold, bool) {
	d := a.Center().Sub(b.Center())
	r := a.radius + b.radius
	distSq := d.Dot(d)
	if distSq >= r*r {
		return Manifold{}, false
	}
	dist := math.Sqrt(distSq)
	return Manifold{
		Normal: geom.NormalizeOr(d, geom.Up),
		Depth:  r - dist,
	}, true
}

// circleBox tests circle a against box b using the box point nearest to the
// circle's center. A center inside the box escapes through the nearest face,
// carrying the radius with it.
func circleBox(a *Circle, b *Box) (Manifold, bool) {
	bb := b.Bounds()
	center := a.Center()
	closest := geom.Clamp(center, bb.Min, bb.Max)

	if closest == center {
		d := center.Sub(b.Center())
		offset := b.HalfExtents().Sub(geom.Abs(d)).Add(geom.V(a.radius, a.radius))
		m := Manifold{Normal: geom.V(geom.Sign(d[0]), 0), Depth: offset[0]}
		if offset[1] < offset[0] {
			m = Manifold{Normal: geom.V(0, geom.Sign(d[1])), Depth: offset[1]}
		}
		return m, m.Depth > 0
	}

	d := center.Sub(closest)
	distSq := d.Dot(d)
	if distSq >= a.radius*a.radius {
		return Manifold{}, false
	}
	dist := math.Sqrt(distSq)
	return Manifold{Normal: d.Mul(1 / dist), Depth: a.radius - dist}, true
}
