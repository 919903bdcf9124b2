package graph

import (
	"fmt"

	"github.com/matzehuels/vankampen/pkg/group"
)

// =============================================================================
// Snapshot - Graph Serialization
// =============================================================================

// Snapshot is the canonical serialization format for diagram graphs.
// Used for JSON documents, API responses and caching.
//
// Unlike [Graph.Edges], a snapshot keeps reversed transitions, boundary
// pointers and removed ids, so the round trip
// graph → snapshot → graph preserves circuits exactly.
type Snapshot struct {
	Nodes   []NodeSnapshot `json:"nodes"`
	Removed []NodeID       `json:"removed,omitempty"`
}

// NodeSnapshot is the serialized form of one node.
type NodeSnapshot struct {
	ID          NodeID               `json:"id"`
	Highlighted bool                 `json:"highlighted,omitempty"`
	Label       string               `json:"label,omitempty"`
	Comment     string               `json:"comment,omitempty"`
	Position    *Point               `json:"position,omitempty"`
	Boundary    int                  `json:"boundary"`
	Transitions []TransitionSnapshot `json:"transitions,omitempty"`
}

// TransitionSnapshot is the serialized form of one transition.
type TransitionSnapshot struct {
	To       NodeID        `json:"to"`
	Label    group.Element `json:"label"`
	InSquare bool          `json:"in_square,omitempty"`
	Priority float64       `json:"priority"`
	InHub    bool          `json:"in_hub,omitempty"`
}

// Snapshot captures every node of g, removed ones included, in id order.
func (g *Graph) Snapshot() Snapshot {
	out := Snapshot{Nodes: make([]NodeSnapshot, len(g.nodes))}
	for i, n := range g.nodes {
		ns := NodeSnapshot{
			ID:          n.ID,
			Highlighted: n.Highlighted,
			Label:       n.Label,
			Comment:     n.Comment,
			Position:    n.Position,
			Boundary:    n.boundary,
		}
		for _, t := range n.transitions {
			ns.Transitions = append(ns.Transitions, TransitionSnapshot(t))
		}
		out.Nodes[i] = ns
	}
	for id := range g.nodes {
		if g.IsRemoved(NodeID(id)) {
			out.Removed = append(out.Removed, NodeID(id))
		}
	}
	return out
}

// FromSnapshot rebuilds a graph. Node ids must be dense and in order, and
// every transition must target an id present in the snapshot.
func FromSnapshot(s Snapshot) (*Graph, error) {
	g := New()
	for i, ns := range s.Nodes {
		if int(ns.ID) != i {
			return nil, fmt.Errorf("%w: snapshot id %d at position %d", ErrUnknownNode, ns.ID, i)
		}
		g.AddNode()
	}
	for _, ns := range s.Nodes {
		n := g.nodes[ns.ID]
		n.Highlighted = ns.Highlighted
		n.Label = ns.Label
		n.Comment = ns.Comment
		n.Position = ns.Position
		for _, ts := range ns.Transitions {
			if _, err := g.Node(ts.To); err != nil {
				return nil, err
			}
			n.transitions = append(n.transitions, Transition(ts))
		}
		if ns.Boundary != noBoundary && (ns.Boundary < 0 || ns.Boundary >= len(n.transitions)) {
			return nil, fmt.Errorf("%w: node %d boundary %d", ErrBadTransitionIndex, ns.ID, ns.Boundary)
		}
		n.boundary = ns.Boundary
	}
	for _, id := range s.Removed {
		if _, err := g.Node(id); err != nil {
			return nil, err
		}
		g.removed[id] = struct{}{}
	}
	return g, nil
}
