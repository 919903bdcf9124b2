package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/vankampen/pkg/graph"
	"github.com/matzehuels/vankampen/pkg/group"
)

// WriteJSON encodes a document as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a document to a JSON file at path.
func ExportJSON(doc *Document, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteJSON(doc, w) })
}

// WriteEdges writes one "from to" line per edge of g. Live nodes are
// renumbered densely from zero in id order.
func WriteEdges(g *graph.Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	ids := denseIDs(g)
	for _, e := range g.Edges() {
		fmt.Fprintf(bw, "%d %d\n", ids[e.From], ids[e.To])
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write edges: %w", err)
	}
	return nil
}

// WriteNotebook writes g as a notebook graph expression:
//
//	Graph[{Labeled[DirectedEdge[0, 1], "a"], Labeled[DirectedEdge[1, 0], "b"]}]
//
// Node ids are renumbered as in [WriteEdges].
func WriteNotebook(g *graph.Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	ids := denseIDs(g)
	bw.WriteString("Graph[{")
	for i, e := range g.Edges() {
		if i > 0 {
			bw.WriteString(", ")
		}
		fmt.Fprintf(bw, "Labeled[DirectedEdge[%d, %d], %s]", ids[e.From], ids[e.To], strconv.Quote(e.Label.Name))
	}
	bw.WriteString("}]\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write notebook: %w", err)
	}
	return nil
}

// WriteCircuit writes the boundary word on a single line.
func WriteCircuit(w io.Writer, circuit group.Word) error {
	if _, err := fmt.Fprintln(w, circuit.String()); err != nil {
		return fmt.Errorf("write circuit: %w", err)
	}
	return nil
}

// ExportCircuit writes the boundary word to a file at path.
func ExportCircuit(circuit group.Word, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteCircuit(w, circuit) })
}

func denseIDs(g *graph.Graph) map[graph.NodeID]int {
	ids := make(map[graph.NodeID]int, g.NodeCount())
	for i, n := range g.Nodes() {
		ids[n.ID] = i
	}
	return ids
}

func exportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
