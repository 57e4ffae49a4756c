package world

import (
	"fmt"

	"github.com/vovakirdan/collide/internal/broadphase"
)

type counters struct {
	inserts     uint64
	reinserts   uint64
	removes     uint64
	queries     uint64
	rayCasts    uint64
	pairPasses  uint64
	narrowTests uint64
	narrowHits  uint64
}

// Stats is a snapshot of a world's size and its cumulative counters.
type Stats struct {
	Bodies      int
	Nodes       int
	TreeHeight  int
	Inserts     uint64
	Reinserts   uint64 // Updates that left the fat AABB
	Removes     uint64
	Queries     uint64
	RayCasts    uint64
	PairPasses  uint64
	NarrowTests uint64
	NarrowHits  uint64
}

// Stats returns the current snapshot.
func (w *World) Stats() Stats {
	return Stats{
		Bodies:      len(w.proxies),
		Nodes:       w.tree.Nodes(),
		TreeHeight:  w.tree.Height(),
		Inserts:     w.stats.inserts,
		Reinserts:   w.stats.reinserts,
		Removes:     w.stats.removes,
		Queries:     w.stats.queries,
		RayCasts:    w.stats.rayCasts,
		PairPasses:  w.stats.pairPasses,
		NarrowTests: w.stats.narrowTests,
		NarrowHits:  w.stats.narrowHits,
	}
}

// Since returns s with every cumulative counter reduced by its value in prev.
// Size fields are kept as they are in s.
func (s Stats) Since(prev Stats) Stats {
	s.Inserts -= prev.Inserts
	s.Reinserts -= prev.Reinserts
	s.Removes -= prev.Removes
	s.Queries -= prev.Queries
	s.RayCasts -= prev.RayCasts
	s.PairPasses -= prev.PairPasses
	s.NarrowTests -= prev.NarrowTests
	s.NarrowHits -= prev.NarrowHits
	return s
}

// ResetStats zeroes the cumulative counters.
func (w *World) ResetStats() {
	w.stats = counters{}
}

func errMismatch(tree, table int) error {
	return fmt.Errorf("world: tree has %d leaves, table has %d shapes", tree, table)
}

func errStaleProxy(p broadphase.Proxy) error {
	return fmt.Errorf("world: proxy %d holds another shape", p)
}

func errStaleBounds(p broadphase.Proxy) error {
	return fmt.Errorf("world: proxy %d fat AABB does not contain its shape", p)
}
