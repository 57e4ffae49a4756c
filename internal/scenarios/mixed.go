package scenarios

import (
	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scene"
)

// Mixed scatters boxes, circles and rotated polygons, all moving.
type Mixed struct{}

func (Mixed) ID() string    { return "mixed" }
func (Mixed) Title() string { return "Mixed Shapes" }

// Build creates cfg.Bodies shapes cycling through the three variants.
func (Mixed) Build(cfg config.Sim) (*scene.Scene, error) {
	g, err := newGenerator("mixed", cfg)
	if err != nil {
		return nil, err
	}
	for i := range cfg.Bodies {
		v := g.velocity(cfg.MaxSpeed)
		switch i % 3 {
		case 0:
			w, h := g.between(1.5, 4), g.between(1.5, 4)
			p := g.within(geom.V(w, h))
			g.add("box", collision.NewBox(p[0]-w/2, p[1]-h/2, w, h), v, false)
		case 1:
			r := g.between(0.8, 2.2)
			g.add("circle", collision.NewCircleAt(g.within(geom.V(r, r)), r), v, false)
		default:
			r := g.between(1.2, 2.8)
			poly, err := g.polygon(g.within(geom.V(r, r)), r, 3+g.rng.Intn(4))
			if err != nil {
				return nil, err
			}
			if err := poly.SetAngle(g.between(0, 3.14)); err != nil {
				return nil, err
			}
			g.add("poly", poly, v, false)
		}
	}
	return g.sc, nil
}

func init() {
	registry.Register("mixed", func() registry.Scenario {
		return Mixed{}
	})
}
