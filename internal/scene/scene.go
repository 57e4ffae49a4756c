package scene

import (
	"fmt"
	"os"

	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/world"
)

// Body is a shape with the state the simulator needs.
type Body struct {
	ID       string
	Shape    collision.Shape
	Velocity geom.Vec
	Static   bool
}

// Scene is a built scene ready to be added to a World.
type Scene struct {
	Name   string
	Arena  geom.AABB
	Bodies []*Body
}

// Load reads and builds a YAML scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Build constructs the shapes of every body. Bodies without an id get
// "body-<index>"; duplicate ids are an error.
func (f *File) Build() (*Scene, error) {
	s := &Scene{
		Name:   f.Name,
		Arena:  geom.NewAABB(f.Arena.Min.Vec(), f.Arena.Max.Vec()),
		Bodies: make([]*Body, 0, len(f.Bodies)),
	}
	seen := make(map[string]bool, len(f.Bodies))
	for i := range f.Bodies {
		spec := &f.Bodies[i]
		id := spec.ID
		if id == "" {
			id = fmt.Sprintf("body-%d", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("scene: duplicate body id %q", id)
		}
		seen[id] = true

		shape, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", id, err)
		}
		s.Bodies = append(s.Bodies, &Body{
			ID:       id,
			Shape:    shape,
			Velocity: spec.Velocity.Vec(),
			Static:   spec.Static,
		})
	}
	return s, nil
}

func (b *BodySpec) build() (collision.Shape, error) {
	if b.shapes() != 1 {
		return nil, ErrUnknownShape
	}
	switch {
	case b.Box != nil:
		return collision.NewBox(b.Box.Position[0], b.Box.Position[1], b.Box.Size[0], b.Box.Size[1]), nil
	case b.Circle != nil:
		return collision.NewCircleAt(b.Circle.Center.Vec(), b.Circle.Radius), nil
	default:
		return b.Polygon.build()
	}
}

func (p *PolygonSpec) build() (*collision.Polygon, error) {
	pts := make([]geom.Vec, len(p.Points))
	for i, v := range p.Points {
		pts[i] = v.Vec()
	}
	poly, err := collision.NewPolygon(pts)
	if err != nil {
		return nil, err
	}
	if p.Scale != nil {
		if err := poly.SetScale(p.Scale.Vec()); err != nil {
			return nil, err
		}
	}
	if p.Angle != 0 {
		if err := poly.SetAngle(p.Angle); err != nil {
			return nil, err
		}
	}
	if p.Position != nil {
		poly.SetPosition(p.Position.Vec())
	}
	return poly, nil
}

// Clone returns a deep copy with independent shapes.
func (s *Scene) Clone() *Scene {
	out := &Scene{Name: s.Name, Arena: s.Arena, Bodies: make([]*Body, len(s.Bodies))}
	for i, b := range s.Bodies {
		c := *b
		c.Shape = b.Shape.Clone()
		out.Bodies[i] = &c
	}
	return out
}

// Populate adds every body's shape to w.
func (s *Scene) Populate(w *world.World) {
	for _, b := range s.Bodies {
		w.Add(b.Shape)
	}
}

// Body returns the body owning shape, or nil.
func (s *Scene) Body(shape collision.Shape) *Body {
	for _, b := range s.Bodies {
		if b.Shape == shape {
			return b
		}
	}
	return nil
}

// Snapshot captures the current geometry of the scene as a File.
func (s *Scene) Snapshot() *File {
	f := &File{
		Name:   s.Name,
		Arena:  ArenaSpec{Min: FromVec(s.Arena.Min), Max: FromVec(s.Arena.Max)},
		Bodies: make([]BodySpec, 0, len(s.Bodies)),
	}
	for _, b := range s.Bodies {
		spec := BodySpec{ID: b.ID, Velocity: FromVec(b.Velocity), Static: b.Static}
		switch sh := b.Shape.(type) {
		case *collision.Box:
			spec.Box = &BoxSpec{Position: FromVec(sh.Position()), Size: FromVec(sh.Size())}
		case *collision.Circle:
			spec.Circle = &CircleSpec{Center: FromVec(sh.Center()), Radius: sh.Radius()}
		case *collision.Polygon:
			local := sh.LocalVertices()
			pts := make([]Vec2, len(local))
			for i, v := range local {
				pts[i] = FromVec(v)
			}
			pos, scale := FromVec(sh.Position()), FromVec(sh.Scale())
			spec.Polygon = &PolygonSpec{Points: pts, Position: &pos, Angle: sh.Angle(), Scale: &scale}
		}
		f.Bodies = append(f.Bodies, spec)
	}
	return f
}
