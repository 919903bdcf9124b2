// Package diagram builds van Kampen diagrams by gluing relator words onto a
// shared [graph.Graph].
//
// A [Diagram] tracks a terminal node on its boundary circuit. The circuit is
// the closed walk that starts at the terminal and follows every node's
// boundary pointer. [Diagram.BindWord] attaches one relator along the longest
// cancelling overlap with the circuit, and [Diagram.Merge] glues two diagrams
// that share a graph along a cancelling run of their circuits.
//
// Rejections are routine and reported as a false result. Errors are reserved
// for structural corruption such as a circuit that never closes.
package diagram

import (
	"errors"
	"fmt"

	"github.com/matzehuels/vankampen/pkg/graph"
	"github.com/matzehuels/vankampen/pkg/group"
)

var (
	// ErrCircuitNotClosed is returned when the boundary walk does not return
	// to the terminal within the number of allocated nodes.
	ErrCircuitNotClosed = errors.New("boundary circuit does not close")

	// ErrNoBoundary is returned when the boundary walk reaches a node without
	// a boundary pointer.
	ErrNoBoundary = errors.New("node on boundary has no boundary pointer")

	// ErrEmptyWord is returned by [Diagram.BindWord] for a zero-length word.
	ErrEmptyWord = errors.New("word is empty")

	// ErrForeignGraph is returned by [Diagram.Merge] when the diagrams do not
	// share a graph.
	ErrForeignGraph = errors.New("diagrams do not share a graph")
)

// HighlightLabel is the label given to the terminal by [Diagram.Highlight].
const HighlightLabel = "S"

// Step is one transition of a boundary circuit together with its source.
type Step struct {
	From graph.NodeID
	graph.Transition
}

// Diagram is a boundary-tracking view over a graph.
//
// Several diagrams may share one graph, each with its own terminal.
// The zero value is not usable; use New.
type Diagram struct {
	terminal graph.NodeID
	g        *graph.Graph
}

// New returns an unstarted diagram over g. A nil g allocates a fresh graph.
func New(g *graph.Graph) *Diagram {
	if g == nil {
		g = graph.New()
	}
	return &Diagram{terminal: graph.None, g: g}
}

// Restore returns a diagram over g positioned at terminal, as previously
// reported by [Diagram.Terminal]. The circuit from terminal must close.
func Restore(g *graph.Graph, terminal graph.NodeID) (*Diagram, error) {
	d := &Diagram{terminal: graph.None, g: g}
	if terminal == graph.None {
		return d, nil
	}
	if _, err := g.Node(terminal); err != nil {
		return nil, err
	}
	if g.IsRemoved(terminal) {
		return nil, fmt.Errorf("%w: %d", graph.ErrRemovedNode, terminal)
	}
	d.terminal = terminal
	if _, err := d.Circuit(); err != nil {
		return nil, err
	}
	return d, nil
}

// Graph returns the underlying graph.
func (d *Diagram) Graph() *graph.Graph { return d.g }

// Terminal returns the terminal node, or [graph.None] before the first bind.
func (d *Diagram) Terminal() graph.NodeID { return d.terminal }

// Empty reports whether no word has been bound yet.
func (d *Diagram) Empty() bool { return d.terminal == graph.None }

// Circuit walks the boundary from the terminal. It returns nil for an
// unstarted diagram.
func (d *Diagram) Circuit() ([]Step, error) {
	if d.terminal == graph.None {
		return nil, nil
	}
	limit := d.g.Len()
	var steps []Step
	cur := d.terminal
	for {
		t, ok, err := d.g.Boundary(cur)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: node %d", ErrNoBoundary, cur)
		}
		steps = append(steps, Step{From: cur, Transition: t})
		cur = t.To
		if cur == d.terminal {
			return steps, nil
		}
		if len(steps) >= limit {
			return nil, fmt.Errorf("%w: terminal %d after %d steps", ErrCircuitNotClosed, d.terminal, len(steps))
		}
	}
}

// CircuitWord returns the labels of the boundary circuit.
func (d *Diagram) CircuitWord() (group.Word, error) {
	steps, err := d.Circuit()
	if err != nil {
		return nil, err
	}
	return labels(steps), nil
}

// Highlight flags the terminal node for output and labels it [HighlightLabel].
func (d *Diagram) Highlight() error {
	if d.terminal == graph.None {
		return nil
	}
	n, err := d.g.Node(d.terminal)
	if err != nil {
		return err
	}
	n.Highlighted = true
	n.Label = HighlightLabel
	return nil
}

func labels(steps []Step) group.Word {
	w := make(group.Word, len(steps))
	for i, s := range steps {
		w[i] = s.Label
	}
	return w
}

// advance moves the terminal one step along its boundary pointer.
func (d *Diagram) advance() error {
	t, ok, err := d.g.Boundary(d.terminal)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: node %d", ErrNoBoundary, d.terminal)
	}
	d.terminal = t.To
	return nil
}
