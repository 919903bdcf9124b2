package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/vankampen/pkg/diagram"
	"github.com/matzehuels/vankampen/pkg/graph"
)

// ReadJSON decodes a document from r and checks that it describes a
// consistent diagram: the graph snapshot must restore and, when a terminal
// is set, its circuit must close and match the recorded circuit.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if _, err := doc.Diagram(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ImportJSON reads a document from a JSON file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Diagram rebuilds the graph and diagram the document describes.
func (doc *Document) Diagram() (*diagram.Diagram, error) {
	g, err := graph.FromSnapshot(doc.Graph)
	if err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}
	d, err := diagram.Restore(g, doc.Terminal)
	if err != nil {
		return nil, fmt.Errorf("terminal %d: %w", doc.Terminal, err)
	}
	w, err := d.CircuitWord()
	if err != nil {
		return nil, err
	}
	if w.String() != doc.Circuit {
		return nil, fmt.Errorf("%w: recorded %q, graph has %q", ErrCircuitMismatch, doc.Circuit, w)
	}
	return d, nil
}
