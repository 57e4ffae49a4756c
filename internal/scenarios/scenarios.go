// Package scenarios registers the built-in generated scenes: pegs in a grid,
// falling rain, and a mixed bag of every shape variant. Import it for its side
// effects.
package scenarios

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/scene"
)

// generator holds what every scenario needs while building a scene.
type generator struct {
	cfg   config.Sim
	rng   *rand.Rand
	arena geom.AABB
	sc    *scene.Scene
}

func newGenerator(name string, cfg config.Sim) (*generator, error) {
	if cfg.ArenaWidth <= 0 || cfg.ArenaHeight <= 0 {
		return nil, fmt.Errorf("arena %vx%v must be positive", cfg.ArenaWidth, cfg.ArenaHeight)
	}
	arena := geom.NewAABB(geom.V(0, 0), geom.V(cfg.ArenaWidth, cfg.ArenaHeight))
	return &generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		arena: arena,
		sc:    &scene.Scene{Name: name, Arena: arena},
	}, nil
}

func (g *generator) add(prefix string, s collision.Shape, v geom.Vec, static bool) {
	g.sc.Bodies = append(g.sc.Bodies, &scene.Body{
		ID:       fmt.Sprintf("%s-%d", prefix, len(g.sc.Bodies)),
		Shape:    s,
		Velocity: v,
		Static:   static,
	})
}

// within returns a uniform random point keeping a margin from the arena edges.
func (g *generator) within(margin geom.Vec) geom.Vec {
	lo := g.arena.Min.Add(margin)
	hi := g.arena.Max.Sub(margin)
	return geom.V(lo[0]+g.rng.Float64()*max(0, hi[0]-lo[0]), lo[1]+g.rng.Float64()*max(0, hi[1]-lo[1]))
}

// velocity returns a random direction with a speed in [speed/4, speed].
func (g *generator) velocity(speed float64) geom.Vec {
	angle := g.rng.Float64() * 2 * math.Pi
	mag := speed * (0.25 + 0.75*g.rng.Float64())
	return geom.V(math.Cos(angle)*mag, math.Sin(angle)*mag)
}

func (g *generator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// polygon returns a random convex polygon with n corners around center.
func (g *generator) polygon(center geom.Vec, radius float64, n int) (*collision.Polygon, error) {
	pts := make([]geom.Vec, n)
	step := 2 * math.Pi / float64(n)
	for i := range pts {
		a := float64(i)*step + g.rng.Float64()*step*0.5
		r := radius * (0.7 + 0.3*g.rng.Float64())
		pts[i] = center.Add(geom.V(math.Cos(a)*r, math.Sin(a)*r))
	}
	return collision.NewPolygon(pts)
}
