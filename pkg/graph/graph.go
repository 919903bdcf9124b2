package graph

import (
	"errors"
	"fmt"

	"github.com/matzehuels/vankampen/pkg/group"
)

var (
	// ErrUnknownNode is returned when an operation names a node id that was
	// never allocated by [Graph.AddNode].
	ErrUnknownNode = errors.New("unknown node")

	// ErrRemovedNode is returned when an operation needs a live node but the
	// id refers to a node already tombstoned by [Graph.MergeNodes].
	ErrRemovedNode = errors.New("node was removed")

	// ErrEdgeNotFound is returned by the priority operations when no matching
	// transition exists. It signals a corrupted diagram, not a routine miss.
	ErrEdgeNotFound = errors.New("edge does not exist")

	// ErrBadTransitionIndex is returned by [Graph.SetBoundary] for an index
	// outside the node's transition list.
	ErrBadTransitionIndex = errors.New("transition index out of range")

	// ErrAsymmetricEdge is returned by [Graph.Validate] when a transition has
	// no inverse companion on its target.
	ErrAsymmetricEdge = errors.New("transition has no inverse companion")

	// ErrDanglingEdge is returned by [Graph.Validate] when a live node has a
	// transition into a removed node.
	ErrDanglingEdge = errors.New("transition targets a removed node")
)

// NodeID is a stable handle into the node arena. Ids are dense and assigned
// in increasing order; they stay valid after the node is removed.
type NodeID int

// None marks the absence of a node, e.g. the terminal of an unstarted diagram.
const None NodeID = -1

// noBoundary is the boundary index of a node with no active transition.
const noBoundary = -1

// Point is an optional 2D position attached to a node.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transition is a directed labeled edge leaving a node.
type Transition struct {
	To       NodeID        // Target node
	Label    group.Element // Generator read along the edge
	InSquare bool          // Created while binding a four-letter word
	Priority float64       // Accumulated usage weight, never decreases
	InHub    bool          // Created while binding the hub word
}

// Node is a vertex of the diagram graph.
//
// A node owns its ordered transition list and an explicit boundary pointer:
// the index of the transition that continues the boundary circuit through
// this node. Nodes are owned by their Graph and referenced by [NodeID] only.
type Node struct {
	ID          NodeID
	Highlighted bool
	Label       string
	Comment     string
	Position    *Point

	transitions []Transition
	boundary    int
}

// Transitions returns the node's outgoing transitions in insertion order.
// The slice aliases graph storage and must not be modified.
func (n *Node) Transitions() []Transition { return n.transitions }

// Graph is an arena of nodes addressed by [NodeID].
//
// Removal is a tombstone: removed nodes stay addressable but are skipped by
// [Graph.Nodes], [Graph.Edges] and serialization.
//
// The zero value is not usable; use New. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes   []*Node
	removed map[NodeID]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{removed: make(map[NodeID]struct{})}
}

// AddNode appends a fresh node and returns its id.
func (g *Graph) AddNode() NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node{ID: id, boundary: noBoundary})
	return id
}

// Node returns the node with the given id, including removed nodes.
func (g *Graph) Node(id NodeID) (*Node, error) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return g.nodes[id], nil
}

// Len returns the number of allocated nodes, removed ones included.
func (g *Graph) Len() int { return len(g.nodes) }

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) - len(g.removed) }

// IsRemoved reports whether id has been tombstoned.
func (g *Graph) IsRemoved(id NodeID) bool {
	_, ok := g.removed[id]
	return ok
}

// Nodes returns the live nodes in id order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, g.NodeCount())
	for _, n := range g.nodes {
		if !g.IsRemoved(n.ID) {
			out = append(out, n)
		}
	}
	return out
}

// =============================================================================
// Transitions and the boundary pointer
// =============================================================================

// AddTransition appends t to the transitions of from and makes it the node's
// boundary pointer. The caller adds any inverse companion edge.
func (g *Graph) AddTransition(from NodeID, t Transition) error {
	n, err := g.live(from)
	if err != nil {
		return err
	}
	if _, err := g.Node(t.To); err != nil {
		return err
	}
	n.transitions = append(n.transitions, t)
	n.boundary = len(n.transitions) - 1
	return nil
}

// SwapLastTwo swaps the final two transitions of id. The boundary pointer is
// left on the last position, so it designates the transition that was added
// second to last. Nodes with fewer than two transitions are unchanged.
func (g *Graph) SwapLastTwo(id NodeID) error {
	n, err := g.live(id)
	if err != nil {
		return err
	}
	k := len(n.transitions)
	if k < 2 {
		return nil
	}
	n.transitions[k-1], n.transitions[k-2] = n.transitions[k-2], n.transitions[k-1]
	n.boundary = k - 1
	return nil
}

// Boundary returns the transition the boundary circuit follows out of id.
// ok is false when the node has no boundary pointer.
func (g *Graph) Boundary(id NodeID) (t Transition, ok bool, err error) {
	n, err := g.Node(id)
	if err != nil {
		return Transition{}, false, err
	}
	if n.boundary < 0 || n.boundary >= len(n.transitions) {
		return Transition{}, false, nil
	}
	return n.transitions[n.boundary], true, nil
}

// BoundaryIndex returns the boundary pointer of id, or -1 if unset.
func (g *Graph) BoundaryIndex(id NodeID) (int, error) {
	n, err := g.Node(id)
	if err != nil {
		return noBoundary, err
	}
	return n.boundary, nil
}

// SetBoundary points the boundary of id at its idx-th transition.
func (g *Graph) SetBoundary(id NodeID, idx int) error {
	n, err := g.live(id)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(n.transitions) {
		return fmt.Errorf("%w: node %d index %d", ErrBadTransitionIndex, id, idx)
	}
	n.boundary = idx
	return nil
}

// FindTransition returns the index of the last transition of from that goes
// to the given node with the given label, or -1.
func (g *Graph) FindTransition(from, to NodeID, label group.Element) int {
	n, err := g.Node(from)
	if err != nil {
		return -1
	}
	for i := len(n.transitions) - 1; i >= 0; i-- {
		t := n.transitions[i]
		if t.To == to && t.Label.Equal(label) {
			return i
		}
	}
	return -1
}

func (g *Graph) live(id NodeID) (*Node, error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	if g.IsRemoved(id) {
		return nil, fmt.Errorf("%w: %d", ErrRemovedNode, id)
	}
	return n, nil
}
