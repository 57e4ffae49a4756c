// Package sim advances a scene with a fixed time step. Dynamic bodies move
// with constant velocity, bounce off the arena walls, and are pushed apart
// along the contact manifolds the world reports.
package sim

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/geom"
	"github.com/vovakirdan/collide/internal/scene"
	"github.com/vovakirdan/collide/internal/world"
)

// Sim owns a scene and the world indexing it.
type Sim struct {
	scene    *scene.Scene
	world    *world.World
	dt       float64
	tick     uint64
	contacts []world.Contact
	owners   map[collision.Shape]*scene.Body
	resolve  bool
	logger   *log.Logger
}

// Option configures a Sim.
type Option func(*Sim)

// WithoutResolution leaves overlapping bodies in place; only walls bounce.
func WithoutResolution() Option {
	return func(s *Sim) { s.resolve = false }
}

// WithLogger sets the logger for per-step debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Sim) { s.logger = l }
}

// New adds every body of sc to w and returns a simulator stepping by step.
func New(sc *scene.Scene, w *world.World, step time.Duration, opts ...Option) *Sim {
	s := &Sim{
		scene:   sc,
		world:   w,
		dt:      step.Seconds(),
		owners:  make(map[collision.Shape]*scene.Body, len(sc.Bodies)),
		resolve: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, b := range sc.Bodies {
		s.owners[b.Shape] = b
		if !b.Static {
			s.keepInside(b)
		}
	}
	sc.Populate(w)
	s.contacts = w.Pairs()
	return s
}

// Scene returns the simulated scene.
func (s *Sim) Scene() *scene.Scene { return s.scene }

// World returns the world indexing the scene.
func (s *Sim) World() *world.World { return s.world }

// Tick returns the number of completed steps.
func (s *Sim) Tick() uint64 { return s.tick }

// Contacts returns the overlapping pairs found by the last step.
func (s *Sim) Contacts() []world.Contact { return s.contacts }

// Step advances the simulation by one fixed step.
func (s *Sim) Step() {
	for _, b := range s.scene.Bodies {
		if b.Static {
			continue
		}
		b.Shape.Translate(b.Velocity.Mul(s.dt))
		s.keepInside(b)
		s.world.Update(b.Shape)
	}

	s.contacts = s.world.Pairs()
	if s.resolve && len(s.contacts) > 0 {
		s.separate(s.contacts)
	}
	s.tick++

	if s.logger != nil {
		s.logger.Debug("step", "tick", s.tick, "contacts", len(s.contacts))
	}
}

// Run performs n steps.
func (s *Sim) Run(n int) {
	for range n {
		s.Step()
	}
}

// separate pushes each overlapping pair apart along its manifold and swaps
// the normal velocity components of approaching dynamic bodies.
func (s *Sim) separate(contacts []world.Contact) {
	for _, c := range contacts {
		a, b := s.owners[c.A], s.owners[c.B]
		if a == nil || b == nil || (a.Static && b.Static) {
			continue
		}
		n := c.Manifold.Normal
		mtv := c.Manifold.MTV()
		rel := a.Velocity.Sub(b.Velocity).Dot(n)

		switch {
		case b.Static:
			a.Shape.Translate(mtv)
			if rel < 0 {
				a.Velocity = a.Velocity.Sub(n.Mul(2 * rel))
			}
		case a.Static:
			b.Shape.Translate(mtv.Mul(-1))
			if rel < 0 {
				b.Velocity = b.Velocity.Add(n.Mul(2 * rel))
			}
		default:
			a.Shape.Translate(mtv.Mul(0.5))
			b.Shape.Translate(mtv.Mul(-0.5))
			if rel < 0 {
				a.Velocity = a.Velocity.Sub(n.Mul(rel))
				b.Velocity = b.Velocity.Add(n.Mul(rel))
			}
		}
		for _, body := range []*scene.Body{a, b} {
			if !body.Static {
				s.keepInside(body)
				s.world.Update(body.Shape)
			}
		}
	}
}

// keepInside moves a body back into the arena and reflects its velocity off
// any wall it crossed.
func (s *Sim) keepInside(b *scene.Body) {
	arena := s.scene.Arena
	bounds := b.Shape.Bounds()
	var shift geom.Vec
	for axis := 0; axis < 2; axis++ {
		switch {
		case bounds.Min[axis] < arena.Min[axis]:
			shift[axis] = arena.Min[axis] - bounds.Min[axis]
			b.Velocity[axis] = abs(b.Velocity[axis])
		case bounds.Max[axis] > arena.Max[axis]:
			shift[axis] = arena.Max[axis] - bounds.Max[axis]
			b.Velocity[axis] = -abs(b.Velocity[axis])
		}
	}
	if shift != (geom.Vec{}) {
		b.Shape.Translate(shift)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
