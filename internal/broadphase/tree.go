// Package broadphase implements a dynamic bounding-volume tree. Leaves hold a
// fattened AABB and a payload; internal nodes hold the padded union of their
// children. Nodes live in an arena addressed by Proxy and are recycled through
// a free list.
//
// A Tree is not safe for concurrent use. Mutating it from inside a Query,
// RayCast or Pairs callback is a precondition violation; builds tagged
// collidedebug panic on it.
package broadphase

import (
	"fmt"
	"math"

	"github.com/vovakirdan/collide/internal/debug"
	"github.com/vovakirdan/collide/internal/geom"
)

// Proxy addresses a leaf in a Tree.
type Proxy int

// Null is the proxy of no node.
const Null Proxy = -1

type node[T any] struct {
	aabb    geom.AABB
	payload T
	parent  Proxy
	left    Proxy
	right   Proxy
	// height is 0 for leaves and -1 for nodes on the free list.
	height int
	next   Proxy
}

func (n *node[T]) leaf() bool { return n.left == Null }

// Tree is a dynamic AABB tree keyed by Proxy.
type Tree[T any] struct {
	nodes   []node[T]
	root    Proxy
	free    Proxy
	padding float64
	leaves  int
	walking int
}

// New returns an empty tree that fattens every leaf by padding on each side.
func New[T any](padding float64) *Tree[T] {
	if padding < 0 || math.IsNaN(padding) || math.IsInf(padding, 0) {
		padding = 0
	}
	return &Tree[T]{root: Null, free: Null, padding: padding}
}

// Padding returns the margin added around inserted AABBs.
func (t *Tree[T]) Padding() float64 { return t.padding }

// Len returns the number of leaves.
func (t *Tree[T]) Len() int { return t.leaves }

// Empty reports whether the tree has no leaves.
func (t *Tree[T]) Empty() bool { return t.root == Null }

// Root returns the root node, or Null for an empty tree.
func (t *Tree[T]) Root() Proxy { return t.root }

// Nodes returns the number of live nodes, leaves included.
func (t *Tree[T]) Nodes() int {
	if t.leaves == 0 {
		return 0
	}
	return 2*t.leaves - 1
}

// Height returns the height of the root, 0 for a single leaf and -1 when empty.
func (t *Tree[T]) Height() int {
	if t.root == Null {
		return -1
	}
	return t.nodes[t.root].height
}

// FatAABB returns the stored AABB of a proxy.
func (t *Tree[T]) FatAABB(p Proxy) geom.AABB {
	t.check(p)
	return t.nodes[p].aabb
}

// Payload returns the value stored with a leaf.
func (t *Tree[T]) Payload(p Proxy) T {
	t.check(p)
	return t.nodes[p].payload
}

// Clear drops every node.
func (t *Tree[T]) Clear() {
	t.mutating()
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.root = Null
	t.free = Null
	t.leaves = 0
}

// Insert adds a leaf for aabb, fattened by the tree padding.
func (t *Tree[T]) Insert(aabb geom.AABB, payload T) Proxy {
	t.mutating()
	p := t.allocate()
	n := &t.nodes[p]
	n.aabb = aabb.Expand(t.padding)
	n.payload = payload
	n.height = 0
	t.insertLeaf(p)
	t.leaves++
	return p
}

// Remove deletes a leaf. The proxy may be handed out again by a later Insert.
func (t *Tree[T]) Remove(p Proxy) {
	t.mutating()
	t.check(p)
	debug.Assert(t.nodes[p].leaf(), "broadphase: remove of internal node %d", p)
	t.removeLeaf(p)
	t.release(p)
	t.leaves--
}

// Update moves a leaf to aabb. When the leaf's fat AABB still contains aabb
// nothing changes and Update returns false; otherwise the leaf is reinserted
// with a freshly fattened AABB and Update returns true.
func (t *Tree[T]) Update(p Proxy, aabb geom.AABB) bool {
	t.mutating()
	t.check(p)
	if t.nodes[p].aabb.Contains(aabb) {
		return false
	}
	t.removeLeaf(p)
	t.nodes[p].aabb = aabb.Expand(t.padding)
	t.insertLeaf(p)
	return true
}

// Query calls fn for every leaf whose fat AABB overlaps aabb. Returning false
// from fn stops the traversal.
func (t *Tree[T]) Query(aabb geom.AABB, fn func(Proxy, T) bool) {
	t.walk(func(n *node[T]) bool { return n.aabb.Overlaps(aabb) }, fn)
}

// RayCast calls fn for every leaf whose fat AABB is hit by the segment from
// origin along dir for maxDist. dir need not be normalised; maxDist is measured
// in units of dir. Returning false from fn stops the traversal.
func (t *Tree[T]) RayCast(origin, dir geom.Vec, maxDist float64, fn func(Proxy, T) bool) {
	t.walk(func(n *node[T]) bool {
		_, ok := n.aabb.RayIntersects(origin, dir, maxDist)
		return ok
	}, fn)
}

// Pairs calls fn once for every unordered pair of leaves whose fat AABBs
// overlap. a is always the smaller proxy.
func (t *Tree[T]) Pairs(fn func(a, b Proxy)) {
	if t.root == Null {
		return
	}
	t.walking++
	defer func() { t.walking-- }()

	leaves := make([]Proxy, 0, t.leaves)
	for i := range t.nodes {
		if t.nodes[i].height == 0 {
			leaves = append(leaves, Proxy(i))
		}
	}
	stack := make([]Proxy, 0, 64)
	for _, a := range leaves {
		box := t.nodes[a].aabb
		stack = append(stack[:0], t.root)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := &t.nodes[i]
			if !n.aabb.Overlaps(box) {
				continue
			}
			if n.leaf() {
				if i > a {
					fn(a, i)
				}
				continue
			}
			stack = append(stack, n.left, n.right)
		}
	}
}

func (t *Tree[T]) walk(keep func(*node[T]) bool, fn func(Proxy, T) bool) {
	if t.root == Null {
		return
	}
	t.walking++
	defer func() { t.walking-- }()

	stack := make([]Proxy, 1, 64)
	stack[0] = t.root
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[i]
		if !keep(n) {
			continue
		}
		if n.leaf() {
			if !fn(i, n.payload) {
				return
			}
			continue
		}
		stack = append(stack, n.right, n.left)
	}
}

func (t *Tree[T]) mutating() {
	debug.Assert(t.walking == 0, "broadphase: tree mutated during traversal")
}

func (t *Tree[T]) check(p Proxy) {
	debug.Assert(p >= 0 && int(p) < len(t.nodes) && t.nodes[p].height >= 0,
		"broadphase: invalid proxy %d", p)
}

func (t *Tree[T]) allocate() Proxy {
	if t.free == Null {
		t.nodes = append(t.nodes, node[T]{})
		p := Proxy(len(t.nodes) - 1)
		t.reset(p)
		return p
	}
	p := t.free
	t.free = t.nodes[p].next
	t.reset(p)
	return p
}

func (t *Tree[T]) reset(p Proxy) {
	t.nodes[p] = node[T]{parent: Null, left: Null, right: Null, next: Null}
}

func (t *Tree[T]) release(p Proxy) {
	t.nodes[p] = node[T]{parent: Null, left: Null, right: Null, height: -1, next: t.free}
	t.free = p
}

// descendCost is the cost of pushing a leaf with box into child c.
func (t *Tree[T]) descendCost(c Proxy, box geom.AABB, inherited float64) float64 {
	n := &t.nodes[c]
	merged := n.aabb.Merge(box).Area()
	if n.leaf() {
		return merged + inherited
	}
	return merged - n.aabb.Area() + inherited
}

func (t *Tree[T]) insertLeaf(leaf Proxy) {
	if t.root == Null {
		t.root = leaf
		t.nodes[leaf].parent = Null
		return
	}

	box := t.nodes[leaf].aabb
	index := t.root
	for !t.nodes[index].leaf() {
		n := &t.nodes[index]
		area := n.aabb.Area()
		combined := n.aabb.Merge(box).Area()

		cost := 2 * combined
		inherited := 2 * (combined - area)

		leftCost := t.descendCost(n.left, box, inherited)
		rightCost := t.descendCost(n.right, box, inherited)

		// Stopping next to a taller subtree would grow its ancestors by
		// more than one level, which single and double rotations cannot
		// absorb.
		if cost <= leftCost && cost <= rightCost && n.height <= 1 {
			break
		}
		if leftCost <= rightCost {
			index = n.left
		} else {
			index = n.right
		}
	}

	sibling := index
	oldParent := t.nodes[sibling].parent
	parent := t.allocate()
	t.nodes[parent].parent = oldParent
	t.nodes[parent].left = sibling
	t.nodes[parent].right = leaf
	t.nodes[sibling].parent = parent
	t.nodes[leaf].parent = parent
	t.refit(parent)

	if oldParent == Null {
		t.root = parent
	} else if t.nodes[oldParent].left == sibling {
		t.nodes[oldParent].left = parent
	} else {
		t.nodes[oldParent].right = parent
	}

	t.fixUpwards(t.nodes[parent].parent)
}

func (t *Tree[T]) removeLeaf(leaf Proxy) {
	if leaf == t.root {
		t.root = Null
		return
	}

	parent := t.nodes[leaf].parent
	grand := t.nodes[parent].parent
	sibling := t.nodes[parent].left
	if sibling == leaf {
		sibling = t.nodes[parent].right
	}

	t.nodes[leaf].parent = Null
	if grand == Null {
		t.root = sibling
		t.nodes[sibling].parent = Null
		t.release(parent)
		return
	}

	if t.nodes[grand].left == parent {
		t.nodes[grand].left = sibling
	} else {
		t.nodes[grand].right = sibling
	}
	t.nodes[sibling].parent = grand
	t.release(parent)
	t.fixUpwards(grand)
}

// fixUpwards rebalances and refits every node from index to the root.
func (t *Tree[T]) fixUpwards(index Proxy) {
	for index != Null {
		index = t.balance(index)
		t.refit(index)
		index = t.nodes[index].parent
	}
}

func (t *Tree[T]) refit(i Proxy) {
	n := &t.nodes[i]
	l, r := &t.nodes[n.left], &t.nodes[n.right]
	n.aabb = l.aabb.Merge(r.aabb).Expand(t.padding)
	n.height = 1 + max(l.height, r.height)
}

// balance restores the AVL condition at a when the heights of its children
// differ by two. A child leaning inward is rotated first so the taller
// grandchild ends up outside. It returns the index now occupying a's slot.
func (t *Tree[T]) balance(a Proxy) Proxy {
	na := &t.nodes[a]
	if na.leaf() || na.height < 2 {
		return a
	}
	b, c := na.left, na.right
	diff := t.nodes[c].height - t.nodes[b].height
	switch {
	case diff > 1:
		nc := &t.nodes[c]
		if t.nodes[nc.left].height > t.nodes[nc.right].height {
			c = t.rotate(c, nc.left)
		}
		return t.rotate(a, c)
	case diff < -1:
		nb := &t.nodes[b]
		if t.nodes[nb.right].height > t.nodes[nb.left].height {
			b = t.rotate(b, nb.right)
		}
		return t.rotate(a, b)
	}
	return a
}

// rotate lifts the internal child up into a's place and hangs a under it on
// the opposite side. up's inner child moves across to a. It returns up.
func (t *Tree[T]) rotate(a, up Proxy) Proxy {
	na, nu := &t.nodes[a], &t.nodes[up]

	var inner Proxy
	if na.right == up {
		inner = nu.left
		na.right = inner
		nu.left = a
	} else {
		inner = nu.right
		na.left = inner
		nu.right = a
	}
	t.nodes[inner].parent = a

	nu.parent = na.parent
	na.parent = up
	switch {
	case nu.parent == Null:
		t.root = up
	case t.nodes[nu.parent].left == a:
		t.nodes[nu.parent].left = up
	default:
		t.nodes[nu.parent].right = up
	}

	t.refit(a)
	t.refit(up)
	return up
}

// Validate checks the structural invariants of the tree and returns the first
// violation found.
func (t *Tree[T]) Validate() error {
	if t.root == Null {
		if t.leaves != 0 {
			return fmt.Errorf("broadphase: empty root with %d leaves", t.leaves)
		}
		return t.validateFree(0)
	}
	if t.nodes[t.root].parent != Null {
		return fmt.Errorf("broadphase: root %d has parent %d", t.root, t.nodes[t.root].parent)
	}
	leaves, live := 0, 0
	stack := []Proxy{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		live++
		n := &t.nodes[i]
		if n.height < 0 {
			return fmt.Errorf("broadphase: node %d reachable but freed", i)
		}
		if n.leaf() {
			if n.right != Null || n.height != 0 {
				return fmt.Errorf("broadphase: leaf %d malformed", i)
			}
			leaves++
			continue
		}
		l, r := &t.nodes[n.left], &t.nodes[n.right]
		if n.right == Null {
			return fmt.Errorf("broadphase: node %d has one child", i)
		}
		if l.parent != i || r.parent != i {
			return fmt.Errorf("broadphase: children of %d have wrong parent", i)
		}
		if h := 1 + max(l.height, r.height); n.height != h {
			return fmt.Errorf("broadphase: node %d height %d, want %d", i, n.height, h)
		}
		if d := l.height - r.height; d > 1 || d < -1 {
			return fmt.Errorf("broadphase: node %d unbalanced by %d", i, d)
		}
		if !n.aabb.Contains(l.aabb) || !n.aabb.Contains(r.aabb) {
			return fmt.Errorf("broadphase: node %d does not enclose its children", i)
		}
		stack = append(stack, n.left, n.right)
	}
	if leaves != t.leaves {
		return fmt.Errorf("broadphase: counted %d leaves, want %d", leaves, t.leaves)
	}
	return t.validateFree(live)
}

func (t *Tree[T]) validateFree(live int) error {
	free := 0
	for i := t.free; i != Null; i = t.nodes[i].next {
		if t.nodes[i].height != -1 {
			return fmt.Errorf("broadphase: free node %d is live", i)
		}
		free++
		if free > len(t.nodes) {
			return fmt.Errorf("broadphase: free list cycles")
		}
	}
	if live+free != len(t.nodes) {
		return fmt.Errorf("broadphase: %d live + %d free != %d nodes", live, free, len(t.nodes))
	}
	return nil
}
