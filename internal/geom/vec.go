// Package geom provides the vector helpers and axis-aligned bounding boxes
// shared by the narrow phase and the broadphase tree. It has no knowledge of
// shapes or worlds.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used to widen point queries against strict
// overlap tests.
const Epsilon = 1e-9

// Vec is the 2D vector used throughout the collision packages.
type Vec = mgl64.Vec2

// V builds a vector from its components.
func V(x, y float64) Vec {
	return Vec{x, y}
}

// Up is the fallback direction for normals that cannot be derived from a
// zero-length delta.
var Up = Vec{0, 1}

// Normalize returns v scaled to unit length and false when v has no length.
// mgl64's Normalize divides by zero, so callers that may see coincident points
// go through this instead.
func Normalize(v Vec) (Vec, bool) {
	l := v.Len()
	if l == 0 || math.IsNaN(l) {
		return Vec{}, false
	}
	return v.Mul(1 / l), true
}

// NormalizeOr returns the unit vector of v, or fallback if v has no length.
func NormalizeOr(v Vec, fallback Vec) Vec {
	if n, ok := Normalize(v); ok {
		return n
	}
	return fallback
}

// Abs returns the component-wise absolute value.
func Abs(v Vec) Vec {
	return Vec{math.Abs(v[0]), math.Abs(v[1])}
}

// Min returns the component-wise minimum of a and b.
func Min(a, b Vec) Vec {
	return Vec{math.Min(a[0], b[0]), math.Min(a[1], b[1])}
}

// Max returns the component-wise maximum of a and b.
func Max(a, b Vec) Vec {
	return Vec{math.Max(a[0], b[0]), math.Max(a[1], b[1])}
}

// Clamp restricts each component of v to [lo, hi].
func Clamp(v, lo, hi Vec) Vec {
	return Vec{mgl64.Clamp(v[0], lo[0], hi[0]), mgl64.Clamp(v[1], lo[1], hi[1])}
}

// Perp returns v rotated 90° clockwise. For a counter-clockwise polygon edge
// this is the outward normal.
func Perp(v Vec) Vec {
	return Vec{v[1], -v[0]}
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b Vec) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Rotate rotates v about the origin by angle radians.
func Rotate(v Vec, angle float64) Vec {
	if angle == 0 {
		return v
	}
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// Finite reports whether both components are real numbers.
func Finite(v Vec) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Sign returns -1 for negative values and 1 otherwise, so a zero delta still
// yields a usable axis direction.
func Sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
