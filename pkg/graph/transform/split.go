package transform

import (
	"fmt"

	"github.com/matzehuels/vankampen/pkg/graph"
)

// Component is one piece of a split graph.
type Component struct {
	// Graph holds the piece with nodes renumbered from zero.
	Graph *graph.Graph
	// Origin maps each local node id to its id in the source graph.
	Origin []graph.NodeID
}

// Predicate selects the transitions a split may follow.
type Predicate func(graph.Transition) bool

// MinPriority keeps transitions whose priority is at least threshold.
func MinPriority(threshold float64) Predicate {
	return func(t graph.Transition) bool { return t.Priority >= threshold }
}

// Split partitions the live nodes of g into the sets reachable from each
// other along transitions satisfying keep.
//
// Sources are scanned in id order and each unvisited node seeds a depth-first
// search, so component order and local numbering are deterministic. Only the
// kept transitions between nodes of the same component are copied, together
// with the node attributes. Nodes without a kept transition become singleton
// components.
func Split(g *graph.Graph, keep Predicate) ([]Component, error) {
	owner := make(map[graph.NodeID]int)
	local := make(map[graph.NodeID]graph.NodeID)
	var comps []Component

	var dfs func(n *graph.Node, c *Component, idx int)
	dfs = func(n *graph.Node, c *Component, idx int) {
		owner[n.ID] = idx
		local[n.ID] = graph.NodeID(len(c.Origin))
		c.Origin = append(c.Origin, n.ID)
		for _, t := range n.Transitions() {
			if !keep(t) {
				continue
			}
			if _, seen := owner[t.To]; seen {
				continue
			}
			next, err := g.Node(t.To)
			if err != nil || g.IsRemoved(t.To) {
				continue
			}
			dfs(next, c, idx)
		}
	}

	for _, n := range g.Nodes() {
		if _, seen := owner[n.ID]; seen {
			continue
		}
		idx := len(comps)
		c := Component{Graph: graph.New()}
		dfs(n, &c, idx)
		if err := copyComponent(g, &c, idx, owner, local, keep); err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}
	return comps, nil
}

func copyComponent(g *graph.Graph, c *Component, idx int, owner map[graph.NodeID]int, local map[graph.NodeID]graph.NodeID, keep Predicate) error {
	for _, id := range c.Origin {
		src, _ := g.Node(id)
		dst, _ := c.Graph.Node(c.Graph.AddNode())
		dst.Highlighted = src.Highlighted
		dst.Label = src.Label
		dst.Comment = src.Comment
		if src.Position != nil {
			p := *src.Position
			dst.Position = &p
		}
	}
	for _, id := range c.Origin {
		src, _ := g.Node(id)
		for _, t := range src.Transitions() {
			if !keep(t) {
				continue
			}
			// A kept transition may point into an earlier component when
			// its companion was not kept.
			if o, ok := owner[t.To]; !ok || o != idx {
				continue
			}
			t.To = local[t.To]
			if err := c.Graph.AddTransition(local[id], t); err != nil {
				return fmt.Errorf("copy component %d: %w", idx, err)
			}
		}
	}
	return nil
}

// Discard drops components with fewer than minNodes nodes.
func Discard(comps []Component, minNodes int) []Component {
	out := comps[:0:0]
	for _, c := range comps {
		if len(c.Origin) >= minNodes {
			out = append(out, c)
		}
	}
	return out
}
