package scenarios

import (
	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scene"
)

const (
	pegSpacing = 12.0
	pegSize    = 2.0
)

// Grid is a lattice of static square pegs with balls bouncing between them.
type Grid struct{}

func (Grid) ID() string    { return "grid" }
func (Grid) Title() string { return "Peg Grid" }

// Build places a peg every pegSpacing units and cfg.Bodies balls.
func (Grid) Build(cfg config.Sim) (*scene.Scene, error) {
	g, err := newGenerator("grid", cfg)
	if err != nil {
		return nil, err
	}
	for y := pegSpacing / 2; y+pegSize < cfg.ArenaHeight; y += pegSpacing {
		for x := pegSpacing / 2; x+pegSize < cfg.ArenaWidth; x += pegSpacing {
			g.add("peg", collision.NewBox(x, y, pegSize, pegSize), geom.Vec{}, true)
		}
	}
	for range cfg.Bodies {
		r := g.between(0.6, 1.4)
		c := collision.NewCircleAt(g.within(geom.V(r, r)), r)
		g.add("ball", c, g.velocity(cfg.MaxSpeed), false)
	}
	return g.sc, nil
}

func init() {
	registry.Register("grid", func() registry.Scenario {
		return Grid{}
	})
}
