package io

import (
	"errors"

	"github.com/matzehuels/vankampen/pkg/diagram"
	"github.com/matzehuels/vankampen/pkg/generate"
	"github.com/matzehuels/vankampen/pkg/graph"
)

// ErrCircuitMismatch is returned when a document's recorded circuit differs
// from the one its graph produces.
var ErrCircuitMismatch = errors.New("circuit does not match graph")

// Document is the JSON form of a generated diagram.
type Document struct {
	ID       string         `json:"id"`
	Terminal graph.NodeID   `json:"terminal"`
	Circuit  string         `json:"circuit"`
	Graph    graph.Snapshot `json:"graph"`
	Stats    generate.Stats `json:"stats"`
}

// NewDocument captures d and the run statistics under id.
func NewDocument(id string, d *diagram.Diagram, stats generate.Stats) (*Document, error) {
	w, err := d.CircuitWord()
	if err != nil {
		return nil, err
	}
	return &Document{
		ID:       id,
		Terminal: d.Terminal(),
		Circuit:  w.String(),
		Graph:    d.Graph().Snapshot(),
		Stats:    stats,
	}, nil
}
