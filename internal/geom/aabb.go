package geom

import "math"

// AABB is an axis-aligned bounding box. Min is component-wise <= Max.
type AABB struct {
	Min, Max Vec
}

// NewAABB creates a box from two opposite corners in any order.
func NewAABB(a, b Vec) AABB {
	return AABB{Min: Min(a, b), Max: Max(a, b)}
}

// FromPoints returns the smallest box containing every point.
// An empty slice yields the zero box.
func FromPoints(points []Vec) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = Min(box.Min, p)
		box.Max = Max(box.Max, p)
	}
	return box
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the width and height of the box.
func (b AABB) Size() Vec {
	return b.Max.Sub(b.Min)
}

// Width returns the horizontal extent.
func (b AABB) Width() float64 {
	return b.Max[0] - b.Min[0]
}

// Height returns the vertical extent.
func (b AABB) Height() float64 {
	return b.Max[1] - b.Min[1]
}

// Area is the insertion cost metric of the broadphase tree, 2*(w*h).
// It is only meaningful relative to other boxes.
func (b AABB) Area() float64 {
	s := b.Size()
	return 2 * (s[0] * s[1])
}

// Merge returns the smallest box enclosing both b and other.
func (b AABB) Merge(other AABB) AABB {
	return AABB{Min: Min(b.Min, other.Min), Max: Max(b.Max, other.Max)}
}

// Expand grows the box by amount on every side.
func (b AABB) Expand(amount float64) AABB {
	d := Vec{amount, amount}
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Translate moves the box by delta.
func (b AABB) Translate(delta Vec) AABB {
	return AABB{Min: b.Min.Add(delta), Max: b.Max.Add(delta)}
}

// Contains reports whether inner lies entirely inside b. Shared edges count
// as inside.
func (b AABB) Contains(inner AABB) bool {
	return b.Min[0] <= inner.Min[0] && b.Min[1] <= inner.Min[1] &&
		inner.Max[0] <= b.Max[0] && inner.Max[1] <= b.Max[1]
}

// ContainsPoint reports whether p lies inside b or on its boundary.
func (b AABB) ContainsPoint(p Vec) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1]
}

// Overlaps reports whether the interiors of b and other intersect.
// Boxes that only share an edge or a corner do not overlap.
func (b AABB) Overlaps(other AABB) bool {
	return other.Max[0] > b.Min[0] && b.Max[0] > other.Min[0] &&
		other.Max[1] > b.Min[1] && b.Max[1] > other.Min[1]
}

// RayIntersects runs a slab test of the ray origin + t*dir, t in [0, maxDist],
// against the box. It returns the entry parameter on a hit.
// Touching a face counts as a hit so the broadphase never drops candidates.
func (b AABB) RayIntersects(origin, dir Vec, maxDist float64) (float64, bool) {
	tMin, tMax := 0.0, maxDist
	for axis := 0; axis < 2; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < b.Min[axis] || origin[axis] > b.Max[axis] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[axis]
		t1 := (b.Min[axis] - origin[axis]) * inv
		t2 := (b.Max[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
