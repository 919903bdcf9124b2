package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vankampen/pkg/cache"
	"github.com/matzehuels/vankampen/pkg/diagram"
	errs "github.com/matzehuels/vankampen/pkg/errors"
	"github.com/matzehuels/vankampen/pkg/generate"
	"github.com/matzehuels/vankampen/pkg/group"
	vkio "github.com/matzehuels/vankampen/pkg/io"
	"github.com/matzehuels/vankampen/pkg/observability"
)

// Runner executes the pipeline with caching.
// The CLI and the API server share it.
//
// A Runner keeps no per-run state, so one Runner may serve concurrent runs
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs parse, order, generate and render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{ID: newRunID()}

	// Stage 1: Parse
	parseStart := time.Now()
	words, err := Parse(opts.Presentation)
	if err != nil {
		return nil, err
	}
	result.Words = Order(words, opts)
	result.ParseTime = time.Since(parseStart)

	opts.Logger.Info("parsed presentation",
		"relators", len(words),
		"duration", result.ParseTime)

	// Stage 2: Generate
	generateStart := time.Now()
	doc, hit, err := r.GenerateWithCacheInfo(ctx, result.Words, opts)
	if err != nil {
		return nil, err
	}
	d, err := doc.Diagram()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStructural, err, "restore diagram")
	}
	circuit, err := d.CircuitWord()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStructural, err, "boundary circuit")
	}
	result.Diagram = d
	result.Document = doc
	result.Circuit = circuit
	result.Stats = doc.Stats
	result.GenerateTime = time.Since(generateStart)
	result.CacheInfo.DiagramHit = hit

	opts.Logger.Info("generated diagram",
		"algorithm", doc.Stats.Algorithm,
		"bound", doc.Stats.Bound,
		"leftover", doc.Stats.Leftover,
		"nodes", doc.Stats.Nodes,
		"cached", hit,
		"duration", result.GenerateTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d.Graph(), doc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	if opts.Split {
		parts, err := r.RenderComponents(ctx, d.Graph(), opts)
		if err != nil {
			return nil, err
		}
		result.Components = parts
	}
	result.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"components", len(result.Components),
		"duration", result.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo builds the diagram for ordered words, or restores it
// from the cache, and reports whether the cache was hit. The returned
// document's terminal is highlighted.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, words []group.Word, opts Options) (*vkio.Document, bool, error) {
	r.applyLogger(&opts)
	if opts.Algorithm == "" {
		opts.Algorithm = string(DefaultAlgorithm)
	}
	key := r.Keyer.DiagramKey(wordsHash(words), opts.DiagramKeyOpts())

	if !opts.Refresh {
		if doc, ok := r.cachedDocument(ctx, key, opts.Logger); ok {
			return doc, true, nil
		}
	}

	doc, err := r.Generate(ctx, words, opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := vkio.WriteJSON(doc, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLDiagram); err != nil {
			opts.Logger.Debug("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "diagram", buf.Len())
		}
	}
	return doc, false, nil
}

// Generate builds the diagram for ordered words without consulting the cache.
func (r *Runner) Generate(ctx context.Context, words []group.Word, opts Options) (*vkio.Document, error) {
	r.applyLogger(&opts)
	if opts.Algorithm == "" {
		opts.Algorithm = string(DefaultAlgorithm)
	}
	algo := generate.Algorithm(opts.Algorithm)
	gen, err := generate.New(algo, opts.GenerateOptions())
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidAlgorithm, err, "select algorithm")
	}

	observability.Generate().OnGenerateStart(ctx, opts.Algorithm, len(words))
	start := time.Now()
	stats, err := gen.Generate(ctx, words)
	observability.Generate().OnGenerateComplete(ctx, opts.Algorithm, stats.Bound, stats.Leftover, time.Since(start), err)
	if err != nil {
		return nil, classify(err)
	}
	if stats.Leftover > 0 {
		opts.Logger.Warn("some relators could not be bound", "leftover", stats.Leftover)
	}

	d := gen.Diagram()
	if err := d.Highlight(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStructural, err, "highlight terminal")
	}
	doc, err := vkio.NewDocument(newRunID(), d, stats)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStructural, err, "capture diagram")
	}
	return doc, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedDocument(ctx context.Context, key string, logger *log.Logger) (*vkio.Document, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Debug("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "diagram")
		return nil, false
	}
	doc, err := vkio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		// Stale or corrupt entries are rebuilt.
		logger.Debug("discarding cached diagram", "key", key, "error", err)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "diagram")
	return doc, true
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// classify attaches an error code to a generation failure. Cancellation is
// passed through unchanged.
func classify(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, generate.ErrDeadlock):
		return errs.Wrap(errs.ErrCodeDeadlock, err, "generate")
	case errors.Is(err, diagram.ErrEmptyWord):
		return errs.Wrap(errs.ErrCodeInvalidPresentation, err, "generate")
	}
	return errs.Wrap(errs.ErrCodeStructural, err, "generate")
}

// wordsHash identifies an ordered word list.
func wordsHash(words []group.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.String()
	}
	data, _ := json.Marshal(parts)
	return cache.Hash(data)
}

// Summary renders one line describing a result.
func (res *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d relators bound", res.Stats.Bound, res.Stats.Words)
	fmt.Fprintf(&b, ", %d nodes, %d edges", res.Stats.Nodes, res.Stats.Edges)
	fmt.Fprintf(&b, ", boundary length %d", res.Stats.CircuitLength)
	if len(res.Components) > 0 {
		fmt.Fprintf(&b, ", %d components", len(res.Components))
	}
	return b.String()
}
