package collision

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/collide/internal/geom"
)

// ConvexHull returns the convex hull of points in counter-clockwise order,
// starting from the lowest-leftmost point. Interior, duplicate and collinear
// points are dropped. Fewer than three resulting points is ErrDegeneratePolygon.
func ConvexHull(points []geom.Vec) ([]geom.Vec, error) {
	for _, p := range points {
		if !geom.Finite(p) {
			return nil, fmt.Errorf("%w: non-finite point %v", ErrInvalidGeometry, p)
		}
	}

	sorted := slices.Clone(points)
	slices.SortFunc(sorted, func(a, b geom.Vec) int {
		if a[0] != b[0] {
			if a[0] < b[0] {
				return -1
			}
			return 1
		}
		switch {
		case a[1] < b[1]:
			return -1
		case a[1] > b[1]:
			return 1
		}
		return 0
	})
	sorted = slices.Compact(sorted)

	if len(sorted) < 3 {
		return nil, fmt.Errorf("%w: got %d distinct points", ErrDegeneratePolygon, len(sorted))
	}

	// Andrew's monotone chain.
	hull := make([]geom.Vec, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]

	if len(hull) < 3 {
		return nil, fmt.Errorf("%w: hull has %d points", ErrDegeneratePolygon, len(hull))
	}
	return hull, nil
}

// turn is positive when a→b→c turns counter-clockwise.
func turn(a, b, c geom.Vec) float64 {
	return geom.Cross(b.Sub(a), c.Sub(a))
}

// centroid returns the area centroid of a simple polygon.
func centroid(points []geom.Vec) geom.Vec {
	var area float64
	var c geom.Vec
	for i, p := range points {
		q := points[(i+1)%len(points)]
		cross := geom.Cross(p, q)
		area += cross
		c = c.Add(p.Add(q).Mul(cross))
	}
	if area == 0 {
		// Unreachable for hulls; fall back to the vertex mean.
		for _, p := range points {
			c = c.Add(p)
		}
		return c.Mul(1 / float64(len(points)))
	}
	return c.Mul(1 / (3 * area))
}
