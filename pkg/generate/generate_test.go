package generate

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vankampen/pkg/group"
)

func words(t *testing.T, ss ...string) []group.Word {
	t.Helper()
	out := make([]group.Word, len(ss))
	for i, s := range ss {
		w, err := group.ParseWord(s)
		require.NoError(t, err)
		out[i] = w
	}
	return out
}

func run(t *testing.T, algo Algorithm, opts Options, ss ...string) (Generator, Stats) {
	t.Helper()
	gen, err := New(algo, opts)
	require.NoError(t, err)
	stats, err := gen.Generate(context.Background(), words(t, ss...))
	require.NoError(t, err)
	require.NoError(t, gen.Graph().Validate())
	return gen, stats
}

func TestNew(t *testing.T) {
	for _, algo := range Algorithms() {
		assert.True(t, algo.Valid())
		gen, err := New(algo, Options{})
		require.NoError(t, err)
		assert.NotNil(t, gen.Diagram())
		assert.Same(t, gen.Graph(), gen.Diagram().Graph())
	}
	_, err := New("simulated-annealing", Options{})
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	assert.False(t, Algorithm("").Valid())
}

func TestIterative(t *testing.T) {
	tests := []struct {
		name     string
		words    []string
		limit    int
		bound    int
		leftover int
		forced   bool
		passes   int
	}{
		{"square then triangle", []string{"a*b*c*d", "c!*e*f", "x*y"}, 0, 2, 1, false, 3},
		{"needs force", []string{"a*b*c", "c!*d"}, 0, 2, 0, true, 3},
		{"cells limit", []string{"a*b*c*d", "c!*e*f", "d!*c!*g"}, 1, 1, 2, false, 1},
		{"empty", nil, 0, 0, 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stats := run(t, AlgorithmIterative, Options{CellsLimit: tt.limit}, tt.words...)
			assert.Equal(t, AlgorithmIterative, stats.Algorithm)
			assert.Equal(t, len(tt.words), stats.Words)
			assert.Equal(t, tt.bound, stats.Bound)
			assert.Equal(t, tt.leftover, stats.Leftover)
			assert.Equal(t, tt.forced, stats.Forced)
			assert.Equal(t, tt.passes, stats.Passes)
		})
	}
}

func TestIterativeCircuit(t *testing.T) {
	gen, stats := run(t, AlgorithmIterative, Options{}, "a*b*c", "c!*d")
	w, err := gen.Diagram().CircuitWord()
	require.NoError(t, err)
	assert.Equal(t, "d*a*b", w.String())
	assert.Equal(t, 3, stats.CircuitLength)
	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 4, stats.Edges)
}

func TestLargeFirst(t *testing.T) {
	t.Run("big then small", func(t *testing.T) {
		_, stats := run(t, AlgorithmLargeFirst, Options{MaxSmallForBig: DefaultMaxSmallForBig}, "c!*e*f", "a*b*c*d")
		assert.Equal(t, 2, stats.Bound)
		assert.Equal(t, 1, stats.Passes)
		assert.Equal(t, 5, stats.CircuitLength)
	})
	t.Run("terminates when stuck", func(t *testing.T) {
		_, stats := run(t, AlgorithmLargeFirst, Options{}, "x*y", "a*b*c", "c!*d")
		assert.Equal(t, 1, stats.Bound)
		assert.Equal(t, 2, stats.Leftover)
		assert.Equal(t, 3, stats.Passes)
		assert.False(t, stats.Forced)
	})
	t.Run("small budget", func(t *testing.T) {
		_, stats := run(t, AlgorithmLargeFirst, Options{MaxSmallForBig: 1}, "x*y", "u*v", "a*b*c", "c!*d")
		assert.Equal(t, 1, stats.Bound)
		assert.Equal(t, 3, stats.Leftover)
	})
}

func TestLargeFirstHub(t *testing.T) {
	gen, stats := run(t, AlgorithmLargeFirst, Options{Hub: true}, "c!*e*f", "a*b*c*d")
	assert.Equal(t, 2, stats.Bound)

	hub := 0
	for _, e := range gen.Graph().Edges() {
		if e.InHub {
			hub++
			assert.True(t, e.InSquare)
		}
	}
	assert.Equal(t, 4, hub)
}

func TestMerging(t *testing.T) {
	t.Run("pair", func(t *testing.T) {
		gen, stats := run(t, AlgorithmMerging, Options{}, "a*b", "b!*a!")
		assert.Equal(t, 1, stats.Merges)
		assert.Equal(t, 1, stats.Passes)
		assert.Equal(t, 2, stats.Nodes)
		assert.Equal(t, 2, stats.CircuitLength)
		assert.False(t, gen.Diagram().Empty())
	})
	t.Run("odd diagram carries over", func(t *testing.T) {
		gen, stats := run(t, AlgorithmMerging, Options{}, "a*b", "b!*a!", "b*x")
		assert.Equal(t, 2, stats.Merges)
		assert.Equal(t, 2, stats.Passes)
		w, err := gen.Diagram().CircuitWord()
		require.NoError(t, err)
		assert.Equal(t, "x*b", w.String())
	})
	t.Run("cells limit", func(t *testing.T) {
		_, stats := run(t, AlgorithmMerging, Options{CellsLimit: 2}, "a*b", "b!*a!", "x*y")
		assert.Equal(t, 2, stats.Bound)
		assert.Equal(t, 1, stats.Leftover)
		assert.Equal(t, 1, stats.Merges)
	})
	t.Run("single word", func(t *testing.T) {
		_, stats := run(t, AlgorithmMerging, Options{}, "a*b*c")
		assert.Equal(t, 0, stats.Merges)
		assert.Equal(t, 3, stats.CircuitLength)
	})
}

func TestMergingDeadlock(t *testing.T) {
	gen, err := New(AlgorithmMerging, Options{})
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), words(t, "a*b", "a*b"))
	assert.ErrorIs(t, err, ErrDeadlock)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, algo := range Algorithms() {
		gen, err := New(algo, Options{})
		require.NoError(t, err)
		_, err = gen.Generate(ctx, words(t, "a*b", "b!*a!"))
		assert.ErrorIs(t, err, context.Canceled, algo)
	}
}

func TestBindTwice(t *testing.T) {
	b := newBase(AlgorithmIterative, Options{Progress: NoProgress})
	ws := words(t, "a*b")
	b.begin(ws)
	ok, err := b.bind(context.Background(), ws, 0, false, false)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = b.bind(context.Background(), ws, 0, false, false)
	assert.ErrorIs(t, err, ErrAlreadyBound)
}

func TestProgress(t *testing.T) {
	type call struct{ done, total int }
	var calls []call
	opts := Options{Progress: func(done, total int) { calls = append(calls, call{done, total}) }}
	run(t, AlgorithmIterative, opts, "a*b*c*d", "c!*e*f")
	assert.Equal(t, []call{{1, 2}, {2, 2}}, calls)
}

func TestLogProgress(t *testing.T) {
	var buf bytes.Buffer
	p := LogProgress(log.New(&buf), "relators used", 25)
	for i := 1; i <= 8; i++ {
		p(i, 8)
	}
	p(8, 8)
	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, "\n"), out)
	assert.Equal(t, 1, strings.Count(out, "finished"), out)
}
