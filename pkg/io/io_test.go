package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/vankampen/pkg/diagram"
	"github.com/matzehuels/vankampen/pkg/generate"
	"github.com/matzehuels/vankampen/pkg/graph"
	"github.com/matzehuels/vankampen/pkg/group"
)

func build(t *testing.T, relators ...string) *diagram.Diagram {
	t.Helper()
	d := diagram.New(nil)
	for _, s := range relators {
		w, err := group.ParseWord(s)
		if err != nil {
			t.Fatal(err)
		}
		if ok, err := d.BindWord(w, true, false); err != nil || !ok {
			t.Fatalf("BindWord(%s) = %v, %v", s, ok, err)
		}
	}
	return d
}

func TestWriteEdges(t *testing.T) {
	d := build(t, "a*b*c")
	var buf bytes.Buffer
	if err := WriteEdges(d.Graph(), &buf); err != nil {
		t.Fatalf("WriteEdges() error: %v", err)
	}
	want := "0 1\n1 2\n2 0\n"
	if buf.String() != want {
		t.Errorf("WriteEdges() = %q, want %q", buf.String(), want)
	}
}

func TestWriteEdgesRenumbers(t *testing.T) {
	g := graph.New()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	_ = g.AddTransition(a, graph.Transition{To: c, Label: group.Gen("x")})
	_ = g.AddTransition(c, graph.Transition{To: a, Label: group.Inv("x")})
	_ = g.AddTransition(b, graph.Transition{To: c, Label: group.Gen("y")})
	_ = g.AddTransition(c, graph.Transition{To: b, Label: group.Inv("y")})
	if err := g.MergeNodes(a, b); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteEdges(g, &buf); err != nil {
		t.Fatal(err)
	}
	want := "0 1\n0 1\n"
	if buf.String() != want {
		t.Errorf("WriteEdges() = %q, want %q", buf.String(), want)
	}
}

func TestWriteNotebook(t *testing.T) {
	d := build(t, "a*b")
	var buf bytes.Buffer
	if err := WriteNotebook(d.Graph(), &buf); err != nil {
		t.Fatalf("WriteNotebook() error: %v", err)
	}
	want := `Graph[{Labeled[DirectedEdge[0, 1], "a"], Labeled[DirectedEdge[1, 0], "b"]}]` + "\n"
	if buf.String() != want {
		t.Errorf("WriteNotebook() = %q, want %q", buf.String(), want)
	}
}

func TestWriteCircuit(t *testing.T) {
	d := build(t, "a*b*c*d", "c!*e*f")
	w, err := d.CircuitWord()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteCircuit(&buf, w); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "e*f*d*a*b\n" {
		t.Errorf("WriteCircuit() = %q", got)
	}

	path := filepath.Join(t.TempDir(), "in-circuit.txt")
	if err := ExportCircuit(w, path); err != nil {
		t.Fatalf("ExportCircuit() error: %v", err)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	d := build(t, "a*b*c*d", "c!*e*f")
	stats := generate.Stats{Algorithm: generate.AlgorithmIterative, Words: 2, Bound: 2}
	doc, err := NewDocument("run-1", d, stats)
	if err != nil {
		t.Fatalf("NewDocument() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "diagram.json")
	if err := ExportJSON(doc, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if got.ID != "run-1" || got.Circuit != "e*f*d*a*b" || got.Terminal != d.Terminal() {
		t.Errorf("ImportJSON() = %+v", got)
	}
	if got.Stats.Bound != 2 || got.Stats.Algorithm != generate.AlgorithmIterative {
		t.Errorf("Stats = %+v", got.Stats)
	}

	rd, err := got.Diagram()
	if err != nil {
		t.Fatalf("Diagram() error: %v", err)
	}
	if rd.Graph().NodeCount() != d.Graph().NodeCount() {
		t.Errorf("NodeCount() = %d, want %d", rd.Graph().NodeCount(), d.Graph().NodeCount())
	}
}

func TestReadJSONRejectsMismatch(t *testing.T) {
	d := build(t, "a*b*c")
	doc, err := NewDocument("x", d, generate.Stats{})
	if err != nil {
		t.Fatal(err)
	}
	doc.Circuit = "a*a*a"

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatal(err)
	}
	_, err = ReadJSON(&buf)
	if !errors.Is(err, ErrCircuitMismatch) {
		t.Errorf("ReadJSON() error = %v, want ErrCircuitMismatch", err)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{"))
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("ReadJSON() error = %v, want decode error", err)
	}
}
