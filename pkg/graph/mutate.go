package graph

import (
	"fmt"

	"github.com/matzehuels/vankampen/pkg/group"
)

// Edge is a transition together with its source, as produced by [Graph.Edges].
type Edge struct {
	From NodeID
	Transition
}

// MergeNodes folds dead into alive.
//
// Every transition of dead whose target is not untouchable is copied onto
// alive (a self-loop on dead becomes a self-loop on alive), and transitions on
// those targets that point back at dead are redirected to alive. dead keeps
// its own transition list and is marked removed. The boundary pointer of
// alive is not moved.
//
// Merging into itself or merging an already removed node is a no-op.
// Parallel duplicate edges are kept.
func (g *Graph) MergeNodes(alive, dead NodeID, untouchable ...NodeID) error {
	if alive == dead || g.IsRemoved(dead) {
		if _, err := g.Node(dead); err != nil {
			return err
		}
		return nil
	}
	a, err := g.live(alive)
	if err != nil {
		return err
	}
	d, err := g.Node(dead)
	if err != nil {
		return err
	}

	skip := make(map[NodeID]struct{}, len(untouchable))
	for _, id := range untouchable {
		skip[id] = struct{}{}
	}

	snapshot := append([]Transition(nil), d.transitions...)
	rewritten := make(map[NodeID]struct{})
	for _, t := range snapshot {
		if _, ok := skip[t.To]; ok {
			continue
		}
		moved := t
		if moved.To == dead {
			moved.To = alive
		}
		a.transitions = append(a.transitions, moved)

		if t.To == dead {
			continue
		}
		if _, done := rewritten[t.To]; done {
			continue
		}
		rewritten[t.To] = struct{}{}
		target := g.nodes[t.To]
		for i := range target.transitions {
			if target.transitions[i].To == dead {
				target.transitions[i].To = alive
			}
		}
	}

	g.removed[dead] = struct{}{}
	return nil
}

// RemoveOrientedEdge deletes the first transition a→b and the first
// transition b→a. Missing transitions are ignored.
func (g *Graph) RemoveOrientedEdge(a, b NodeID) error {
	return g.removePair(a, b, func(Transition) bool { return true }, func(Transition) bool { return true })
}

// RemoveEdgePair deletes the first a→b transition labeled label and the first
// b→a transition labeled with its inverse. Missing transitions are ignored.
func (g *Graph) RemoveEdgePair(a, b NodeID, label group.Element) error {
	inv := label.Inverse()
	return g.removePair(a, b,
		func(t Transition) bool { return t.Label.Equal(label) },
		func(t Transition) bool { return t.Label.Equal(inv) })
}

func (g *Graph) removePair(a, b NodeID, fwd, back func(Transition) bool) error {
	na, err := g.Node(a)
	if err != nil {
		return err
	}
	nb, err := g.Node(b)
	if err != nil {
		return err
	}
	removeFirst(na, b, fwd)
	removeFirst(nb, a, back)
	return nil
}

// removeFirst deletes the first transition of n to target accepted by match,
// shifting the boundary pointer with the list. Removing the boundary
// transition clears the pointer.
func removeFirst(n *Node, target NodeID, match func(Transition) bool) {
	for i, t := range n.transitions {
		if t.To != target || !match(t) {
			continue
		}
		n.transitions = append(n.transitions[:i], n.transitions[i+1:]...)
		switch {
		case n.boundary == i:
			n.boundary = noBoundary
		case n.boundary > i:
			n.boundary--
		}
		return
	}
}

// IncreaseEdgePriority adds amount to the first transition from→to.
func (g *Graph) IncreaseEdgePriority(from, to NodeID, amount float64) error {
	n, err := g.Node(from)
	if err != nil {
		return err
	}
	for i := range n.transitions {
		if n.transitions[i].To == to {
			n.transitions[i].Priority += amount
			return nil
		}
	}
	return fmt.Errorf("%w: %d -> %d", ErrEdgeNotFound, from, to)
}

// IncreaseNondirectedEdgePriority adds amount to the first transition in
// each direction between a and b. Both directions must exist.
func (g *Graph) IncreaseNondirectedEdgePriority(a, b NodeID, amount float64) error {
	if err := g.IncreaseEdgePriority(a, b, amount); err != nil {
		return err
	}
	return g.IncreaseEdgePriority(b, a, amount)
}

// IncreaseLabeledEdgePriority adds amount to the last transition from→to
// reading label and to the last transition to→from reading its inverse.
// Parallel transitions with other labels are left alone.
func (g *Graph) IncreaseLabeledEdgePriority(from, to NodeID, label group.Element, amount float64) error {
	fi := g.FindTransition(from, to, label)
	bi := g.FindTransition(to, from, label.Inverse())
	if fi < 0 || bi < 0 {
		return fmt.Errorf("%w: %d -%s-> %d", ErrEdgeNotFound, from, label, to)
	}
	fwd, _ := g.Node(from)
	back, _ := g.Node(to)
	fwd.transitions[fi].Priority += amount
	back.transitions[bi].Priority += amount
	return nil
}

// Edges returns the non-reversed transitions of live nodes into live nodes,
// ordered by source id then insertion order. These are the edges that
// serialization emits; every reversed transition is the companion of one
// of them.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, n := range g.Nodes() {
		for _, t := range n.transitions {
			if t.Label.Reversed || g.IsRemoved(t.To) {
				continue
			}
			out = append(out, Edge{From: n.ID, Transition: t})
		}
	}
	return out
}

// EdgeCount returns len(g.Edges()) without allocating.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, n := range g.Nodes() {
		for _, t := range n.transitions {
			if !t.Label.Reversed && !g.IsRemoved(t.To) {
				count++
			}
		}
	}
	return count
}

// Validate checks the structural invariants of the live graph: every
// transition targets a live node, every transition has an inverse companion
// on its target, and every boundary pointer is in range.
func (g *Graph) Validate() error {
	for _, n := range g.Nodes() {
		if n.boundary != noBoundary && (n.boundary < 0 || n.boundary >= len(n.transitions)) {
			return fmt.Errorf("%w: node %d boundary %d", ErrBadTransitionIndex, n.ID, n.boundary)
		}
		for _, t := range n.transitions {
			if g.IsRemoved(t.To) {
				return fmt.Errorf("%w: %d -> %d", ErrDanglingEdge, n.ID, t.To)
			}
			if g.FindTransition(t.To, n.ID, t.Label.Inverse()) < 0 {
				return fmt.Errorf("%w: %d -%s-> %d", ErrAsymmetricEdge, n.ID, t.Label, t.To)
			}
		}
	}
	return nil
}
