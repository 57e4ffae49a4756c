package scenarios

import (
	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scene"
)

// Rain drops circles and small boxes from the upper half of the arena onto
// a static floor and two ledges.
type Rain struct{}

func (Rain) ID() string    { return "rain" }
func (Rain) Title() string { return "Rain" }

// Build creates the floor, the ledges and cfg.Bodies drops.
func (Rain) Build(cfg config.Sim) (*scene.Scene, error) {
	g, err := newGenerator("rain", cfg)
	if err != nil {
		return nil, err
	}
	w, h := cfg.ArenaWidth, cfg.ArenaHeight
	g.add("floor", collision.NewBox(0, 0, w, 2), geom.Vec{}, true)
	g.add("ledge", collision.NewBox(w*0.15, h*0.35, w*0.25, 1.5), geom.Vec{}, true)
	g.add("ledge", collision.NewBox(w*0.6, h*0.5, w*0.25, 1.5), geom.Vec{}, true)

	for i := range cfg.Bodies {
		v := geom.V(g.between(-0.2, 0.2)*cfg.MaxSpeed, -g.between(0.5, 1)*cfg.MaxSpeed)
		if i%3 == 2 {
			size := g.between(0.8, 1.8)
			p := g.within(geom.V(size, size))
			p[1] = max(p[1], h/2)
			g.add("drop", collision.NewBox(p[0]-size/2, p[1]-size/2, size, size), v, false)
			continue
		}
		r := g.between(0.4, 1)
		p := g.within(geom.V(r, r))
		p[1] = max(p[1], h/2)
		g.add("drop", collision.NewCircleAt(p, r), v, false)
	}
	return g.sc, nil
}

func init() {
	registry.Register("rain", func() registry.Scenario {
		return Rain{}
	})
}
