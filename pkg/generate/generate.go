// Package generate schedules relator words onto a van Kampen diagram.
//
// The three strategies share one contract, [Generator], and differ only in
// the order in which they try words:
//
//   - [AlgorithmIterative] sweeps the list repeatedly, first without forcing
//     weak overlaps and then with them.
//   - [AlgorithmLargeFirst] alternates between the longest unbound word and a
//     budget of short ones, with an optional hub word bound first.
//   - [AlgorithmMerging] gives every word its own diagram on a shared graph
//     and merges them pairwise in rounds.
//
// Words are expected in the order the caller wants them considered; the
// package never sorts its input. A rejected bind is routine. Structural
// errors from the diagram layer abort the run.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vankampen/pkg/diagram"
	"github.com/matzehuels/vankampen/pkg/graph"
	"github.com/matzehuels/vankampen/pkg/group"
)

var (
	// ErrAlreadyBound is returned when a strategy tries to bind a word twice.
	// It indicates a scheduling bug, not bad input.
	ErrAlreadyBound = errors.New("word already bound")

	// ErrDeadlock is returned by the merging strategy when a whole round
	// merges nothing.
	ErrDeadlock = errors.New("no pair of diagrams can be merged")

	// ErrUnknownAlgorithm is returned by [New] for an unrecognized algorithm.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// Algorithm names a scheduling strategy.
type Algorithm string

const (
	AlgorithmIterative  Algorithm = "iterative"
	AlgorithmLargeFirst Algorithm = "large-first"
	AlgorithmMerging    Algorithm = "merging"
)

// DefaultAlgorithm is used when none is selected.
const DefaultAlgorithm = AlgorithmIterative

// DefaultMaxSmallForBig is the large-first budget of short words tried per
// long word.
const DefaultMaxSmallForBig = 10

// Algorithms lists every supported strategy.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmIterative, AlgorithmLargeFirst, AlgorithmMerging}
}

// Valid reports whether a names a supported strategy.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmIterative, AlgorithmLargeFirst, AlgorithmMerging:
		return true
	}
	return false
}

// Options configures a generator.
type Options struct {
	// CellsLimit stops generation once this many words are bound.
	// Zero binds as many as possible.
	CellsLimit int

	// MaxSmallForBig is the number of short words large-first may try while
	// a long word keeps failing. Zero means unlimited.
	MaxSmallForBig int

	// Hub makes large-first bind the last word first and mark its edges.
	Hub bool

	// Progress receives bind or merge counts. Nil reports nothing.
	Progress Progress

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// Stats summarizes a finished run.
type Stats struct {
	Algorithm     Algorithm     `json:"algorithm"`
	Words         int           `json:"words"`
	Bound         int           `json:"bound"`
	Leftover      int           `json:"leftover"`
	Forced        bool          `json:"forced"`
	Passes        int           `json:"passes"`
	Merges        int           `json:"merges,omitempty"`
	Nodes         int           `json:"nodes"`
	Edges         int           `json:"edges"`
	CircuitLength int           `json:"circuit_length"`
	Duration      time.Duration `json:"duration"`
}

// Generator builds a diagram from a word list.
type Generator interface {
	// Generate binds words and returns run statistics. It may be called once.
	Generate(ctx context.Context, words []group.Word) (Stats, error)
	// Diagram returns the resulting diagram.
	Diagram() *diagram.Diagram
	// Graph returns the graph the diagram lives on.
	Graph() *graph.Graph
}

// New returns the generator for algo.
func New(algo Algorithm, opts Options) (Generator, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Progress == nil {
		opts.Progress = NoProgress
	}
	b := newBase(algo, opts)
	switch algo {
	case AlgorithmIterative:
		return &Iterative{base: b}, nil
	case AlgorithmLargeFirst:
		return &LargeFirst{base: b}, nil
	case AlgorithmMerging:
		return &Merging{base: b}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
}

// =============================================================================
// Shared state
// =============================================================================

type base struct {
	opts  Options
	g     *graph.Graph
	d     *diagram.Diagram
	bound []bool
	stats Stats
	start time.Time
	track *tracker
}

func newBase(algo Algorithm, opts Options) *base {
	g := graph.New()
	return &base{
		opts:  opts,
		g:     g,
		d:     diagram.New(g),
		stats: Stats{Algorithm: algo},
	}
}

func (b *base) Diagram() *diagram.Diagram { return b.d }
func (b *base) Graph() *graph.Graph       { return b.g }

// begin resets per-run state.
func (b *base) begin(words []group.Word) {
	b.bound = make([]bool, len(words))
	b.stats.Words = len(words)
	b.start = time.Now()
	b.track = newTracker(b.target(), b.opts.Progress)
}

// target is the number of binds after which the run stops.
func (b *base) target() int {
	if b.opts.CellsLimit > 0 && b.opts.CellsLimit < len(b.bound) {
		return b.opts.CellsLimit
	}
	return len(b.bound)
}

func (b *base) done() bool { return b.stats.Bound >= b.target() }

// bind attempts words[i] on the main diagram.
func (b *base) bind(ctx context.Context, words []group.Word, i int, force, hub bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if b.bound[i] {
		return false, fmt.Errorf("%w: word %d", ErrAlreadyBound, i)
	}
	ok, err := b.d.BindWord(words[i], force, hub)
	if err != nil {
		return false, fmt.Errorf("bind word %d (%s): %w", i, words[i], err)
	}
	if !ok {
		return false, nil
	}
	b.bound[i] = true
	b.stats.Bound++
	if force {
		b.stats.Forced = true
	}
	b.track.iterate()
	return true, nil
}

// finish fills the graph-derived statistics.
func (b *base) finish() (Stats, error) {
	b.stats.Leftover = b.stats.Words - b.stats.Bound
	b.stats.Nodes = b.g.NodeCount()
	b.stats.Edges = b.g.EdgeCount()
	b.stats.Duration = time.Since(b.start)
	steps, err := b.d.Circuit()
	if err != nil {
		return b.stats, err
	}
	b.stats.CircuitLength = len(steps)
	b.opts.Logger.Debug("generation finished",
		"algorithm", b.stats.Algorithm,
		"bound", b.stats.Bound,
		"leftover", b.stats.Leftover,
		"nodes", b.stats.Nodes,
		"passes", b.stats.Passes)
	return b.stats, nil
}

func nextUnbound(bound []bool, i int) int {
	for i++; i < len(bound) && bound[i]; i++ {
	}
	return i
}

func prevUnbound(bound []bool, i int) int {
	for i--; i >= 0 && bound[i]; i-- {
	}
	return i
}
