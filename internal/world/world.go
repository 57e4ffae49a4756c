// Package world ties the broadphase tree to the narrow phase. A World owns the
// tree and the shape to proxy table; it is not safe for concurrent use, and
// independent Worlds may run on separate goroutines.
package world

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/collide/internal/broadphase"
	"github.com/vovakirdan/collide/internal/collision"
	"github.com/vovakirdan/collide/internal/config"
	"github.com/vovakirdan/collide/internal/debug"
	"github.com/vovakirdan/collide/internal/geom"
)

// Hit is a ray hit on a registered shape.
type Hit struct {
	Shape collision.Shape
	collision.RaycastHit
}

// Contact is an overlapping pair with the manifold separating A from B.
type Contact struct {
	A, B     collision.Shape
	Manifold collision.Manifold
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for precondition warnings and lifecycle
// events. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// World is a set of shapes indexed by a dynamic AABB tree.
type World struct {
	tree    *broadphase.Tree[collision.Shape]
	proxies map[collision.Shape]broadphase.Proxy
	logger  *log.Logger
	stats   counters
}

// New creates an empty world.
func New(cfg config.World, opts ...Option) *World {
	w := &World{
		tree:    broadphase.New[collision.Shape](cfg.Padding),
		proxies: make(map[collision.Shape]broadphase.Proxy),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Padding returns the fat AABB margin.
func (w *World) Padding() float64 { return w.tree.Padding() }

// Len returns the number of registered shapes.
func (w *World) Len() int { return len(w.proxies) }

// Contains reports whether s is registered.
func (w *World) Contains(s collision.Shape) bool {
	_, ok := w.proxies[s]
	return ok
}

// Shapes returns the registered shapes in proxy order.
func (w *World) Shapes() []collision.Shape {
	type entry struct {
		p broadphase.Proxy
		s collision.Shape
	}
	entries := make([]entry, 0, len(w.proxies))
	for s, p := range w.proxies {
		entries = append(entries, entry{p, s})
	}
	slices.SortFunc(entries, func(a, b entry) int { return int(a.p - b.p) })

	out := make([]collision.Shape, len(entries))
	for i, e := range entries {
		out[i] = e.s
	}
	return out
}

// Add registers s. Adding a shape that is already registered updates it.
func (w *World) Add(s collision.Shape) {
	if s == nil {
		w.logger.Warn("ignoring nil shape")
		return
	}
	if _, ok := w.proxies[s]; ok {
		w.Update(s)
		return
	}
	w.proxies[s] = w.tree.Insert(s.Bounds(), s)
	w.stats.inserts++
}

// Update refreshes the tree after s moved or changed. s must have been added.
func (w *World) Update(s collision.Shape) {
	p, ok := w.proxies[s]
	if !ok {
		debug.Assert(false, "world: update of unregistered shape")
		w.logger.Warn("update of unregistered shape ignored", "kind", kindOf(s))
		return
	}
	if w.tree.Update(p, s.Bounds()) {
		w.stats.reinserts++
	}
}

// Remove unregisters s. Unknown shapes are ignored.
func (w *World) Remove(s collision.Shape) {
	p, ok := w.proxies[s]
	if !ok {
		return
	}
	w.tree.Remove(p)
	delete(w.proxies, s)
	w.stats.removes++
}

// Clear unregisters every shape.
func (w *World) Clear() {
	if n := len(w.proxies); n > 0 {
		w.logger.Debug("clearing world", "shapes", n)
	}
	w.tree.Clear()
	clear(w.proxies)
}

// Query returns the registered shapes overlapping s, excluding s itself.
// s does not need to be registered. A nil s matches nothing.
func (w *World) Query(s collision.Shape) []collision.Shape {
	if s == nil {
		return nil
	}
	w.stats.queries++
	var out []collision.Shape
	for _, c := range w.candidates(s.Bounds()) {
		if c == s {
			continue
		}
		w.stats.narrowTests++
		if collision.Overlaps(s, c) {
			w.stats.narrowHits++
			out = append(out, c)
		}
	}
	return out
}

// QueryAABB returns the registered shapes whose geometry overlaps the
// interior of box.
func (w *World) QueryAABB(box geom.AABB) []collision.Shape {
	w.stats.queries++
	probe := collision.NewBoxFromAABB(box)
	var out []collision.Shape
	for _, c := range w.candidates(box) {
		w.stats.narrowTests++
		if collision.Overlaps(probe, c) {
			w.stats.narrowHits++
			out = append(out, c)
		}
	}
	return out
}

// QueryPoint returns the registered shapes containing p, outline included.
func (w *World) QueryPoint(p geom.Vec) []collision.Shape {
	w.stats.queries++
	var out []collision.Shape
	w.tree.Query(geom.AABB{Min: p, Max: p}.Expand(geom.Epsilon), func(_ broadphase.Proxy, s collision.Shape) bool {
		w.stats.narrowTests++
		if s.Contains(p) {
			w.stats.narrowHits++
			out = append(out, s)
		}
		return true
	})
	return out
}

// CastRay returns every registered shape hit by the ray, nearest first.
// dir need not be normalised; distances are in world units.
func (w *World) CastRay(origin, dir geom.Vec, maxDist float64) []Hit {
	w.stats.rayCasts++
	unit, ok := geom.Normalize(dir)
	if !ok || !(maxDist > 0) {
		return nil
	}
	var hits []Hit
	w.tree.RayCast(origin, unit, maxDist, func(_ broadphase.Proxy, s collision.Shape) bool {
		w.stats.narrowTests++
		if h, ok := s.CastRay(origin, unit, maxDist); ok {
			w.stats.narrowHits++
			hits = append(hits, Hit{Shape: s, RaycastHit: h})
		}
		return true
	})
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

// CastRayClosest returns the nearest hit of the ray.
func (w *World) CastRayClosest(origin, dir geom.Vec, maxDist float64) (Hit, bool) {
	hits := w.CastRay(origin, dir, maxDist)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// Pairs returns every overlapping pair of registered shapes once, with the
// manifold separating A from B.
func (w *World) Pairs() []Contact {
	var out []Contact
	w.tree.Pairs(func(a, b broadphase.Proxy) {
		sa, sb := w.tree.Payload(a), w.tree.Payload(b)
		w.stats.narrowTests++
		if m, ok := collision.Collide(sa, sb); ok {
			w.stats.narrowHits++
			out = append(out, Contact{A: sa, B: sb, Manifold: m})
		}
	})
	w.stats.pairPasses++
	return out
}

// Validate checks the broadphase invariants and that every registered
// shape's bounds lie inside its fat AABB.
func (w *World) Validate() error {
	if err := w.tree.Validate(); err != nil {
		return err
	}
	if w.tree.Len() != len(w.proxies) {
		return errMismatch(w.tree.Len(), len(w.proxies))
	}
	for s, p := range w.proxies {
		if w.tree.Payload(p) != s {
			return errStaleProxy(p)
		}
		if !w.tree.FatAABB(p).Contains(s.Bounds()) {
			return errStaleBounds(p)
		}
	}
	return nil
}

func (w *World) candidates(box geom.AABB) []collision.Shape {
	var out []collision.Shape
	w.tree.Query(box, func(_ broadphase.Proxy, s collision.Shape) bool {
		out = append(out, s)
		return true
	})
	return out
}

func kindOf(s collision.Shape) string {
	if s == nil {
		return "nil"
	}
	return s.Kind().String()
}
