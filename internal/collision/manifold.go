package collision

import "github.com/vovakirdan/collide/internal/geom"

// Manifold is the minimum translation separating two overlapping shapes.
// Moving the first shape of the query by Normal*Depth leaves the pair
// touching, which no longer counts as an overlap.
type Manifold struct {
	Normal geom.Vec // unit length
	Depth  float64  // > 0 for overlapping shapes
}

// Flip returns the manifold as seen from the other shape.
func (m Manifold) Flip() Manifold {
	return Manifold{Normal: m.Normal.Mul(-1), Depth: m.Depth}
}

// MTV returns the translation vector Normal*Depth.
func (m Manifold) MTV() geom.Vec {
	return m.Normal.Mul(m.Depth)
}

// RaycastHit describes where a ray first meets a shape.
type RaycastHit struct {
	Contact  geom.Vec // point on the shape's outline
	Normal   geom.Vec // outward surface normal at Contact
	Distance float64  // ray parameter at Contact
	Depth    float64  // distance left along the ray past Contact
}
