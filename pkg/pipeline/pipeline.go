// Package pipeline provides the diagram pipeline shared by the CLI and the API.
//
// A run goes through four stages:
//
//  1. Parse: read the group presentation into relator words
//  2. Order: length-sort and optionally shuffle the words, pick the hub
//  3. Generate: bind the words with the selected strategy
//  4. Render: export the diagram, and optionally its split components, in the
//     requested formats
//
// Generated diagrams are cached as JSON documents keyed by the ordered words
// and the generation options, so that re-rendering a large presentation does
// not rebuild it.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Presentation: "<a, b | a*b*a'*b'>",
//	    Formats:      []string{"dot"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dot := result.Artifacts["dot"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/vankampen/pkg/cache"
	"github.com/matzehuels/vankampen/pkg/diagram"
	errs "github.com/matzehuels/vankampen/pkg/errors"
	"github.com/matzehuels/vankampen/pkg/generate"
	"github.com/matzehuels/vankampen/pkg/group"
	vkio "github.com/matzehuels/vankampen/pkg/io"
	"github.com/matzehuels/vankampen/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultAlgorithm is the strategy used when none is selected.
	DefaultAlgorithm = generate.DefaultAlgorithm

	// DefaultMaxSmallForBig is the large-first budget of short words per long
	// word. A negative value in Options means unlimited.
	DefaultMaxSmallForBig = generate.DefaultMaxSmallForBig

	// DefaultSplitThreshold is the minimum edge priority kept when splitting.
	DefaultSplitThreshold = 0.5

	// DefaultMinComponentNodes drops split components smaller than this.
	DefaultMinComponentNodes = 2

	// DefaultSeed seeds the shuffle when none is given.
	DefaultSeed = uint64(42)
)

// Format constants for output formats.
const (
	FormatDOT      = "dot"
	FormatEdges    = "edges"
	FormatNotebook = "notebook"
	FormatJSON     = "json"
	FormatSVG      = "svg"
	FormatPNG      = "png"
)

// DefaultFormat is the output format when none is requested.
const DefaultFormat = FormatDOT

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:      true,
	FormatEdges:    true,
	FormatNotebook: true,
	FormatJSON:     true,
	FormatSVG:      true,
	FormatPNG:      true,
}

// FormatList is ValidFormats in display order.
var FormatList = []string{FormatDOT, FormatEdges, FormatNotebook, FormatJSON, FormatSVG, FormatPNG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// It is decoded from TOML config files and from JSON API requests.
type Options struct {
	// Input
	Presentation string `toml:"-" json:"presentation"`

	// Ordering options
	NotSort bool   `toml:"not_sort" json:"not_sort,omitempty"`
	Shuffle bool   `toml:"shuffle" json:"shuffle,omitempty"`
	Seed    uint64 `toml:"seed" json:"seed,omitempty"`

	// Generate options
	Algorithm      string `toml:"algorithm" json:"algorithm,omitempty"`
	CellsLimit     int    `toml:"limit" json:"limit,omitempty"`
	MaxSmallForBig int    `toml:"per_large" json:"per_large,omitempty"`
	Hub            bool   `toml:"hub" json:"hub,omitempty"`
	Refresh        bool   `toml:"-" json:"refresh,omitempty"`

	// Render options
	Formats    []string `toml:"formats" json:"formats,omitempty"`
	Layout     string   `toml:"layout" json:"layout,omitempty"`
	Positions  bool     `toml:"positions" json:"positions,omitempty"`
	Priorities bool     `toml:"priorities" json:"priorities,omitempty"`

	// Split options
	Split          bool    `toml:"split" json:"split,omitempty"`
	SplitThreshold float64 `toml:"split_threshold" json:"split_threshold,omitempty"`
	MinNodes       int     `toml:"min_nodes" json:"min_nodes,omitempty"`

	// Runtime options (not serialized)
	Quiet    bool              `toml:"quiet" json:"-"`
	Logger   *log.Logger       `toml:"-" json:"-"`
	Progress generate.Progress `toml:"-" json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run.
	ID string

	// Words are the relators in the order they were scheduled.
	Words []group.Word

	// Diagram is the generated diagram.
	Diagram *diagram.Diagram

	// Document is the serializable form of Diagram.
	Document *vkio.Document

	// Circuit is the boundary word of the diagram.
	Circuit group.Word

	// Artifacts contains rendered outputs of the whole diagram keyed by format.
	Artifacts map[string][]byte

	// Components holds the split parts when Options.Split is set.
	Components []Part

	// Stats contains generation statistics.
	Stats generate.Stats

	// Timing of the pipeline stages.
	ParseTime    time.Duration
	GenerateTime time.Duration
	RenderTime   time.Duration

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Part is one rendered component of a split diagram.
type Part struct {
	Index     int
	Nodes     int
	Edges     int
	Artifacts map[string][]byte
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DiagramHit bool // Whether the diagram came from cache
	RenderHit  bool // Whether every cacheable artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, edges, notebook, json, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAlgorithm checks that an algorithm name is valid.
func ValidateAlgorithm(name string) error {
	if !generate.Algorithm(name).Valid() {
		return errs.New(errs.ErrCodeInvalidAlgorithm, "invalid algorithm: %q (must be one of: iterative, large-first, merging)", name)
	}
	return nil
}

// ValidateLayout checks that a Graphviz layout engine is supported.
func ValidateLayout(layout string) error {
	if !nodelink.Layout(layout).Valid() {
		return errs.New(errs.ErrCodeInvalidConfig, "invalid layout: %q", layout)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errs.ValidatePresentationText(o.Presentation); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Algorithm == "" {
		o.Algorithm = string(DefaultAlgorithm)
	}
	if err := ValidateAlgorithm(o.Algorithm); err != nil {
		return err
	}
	if o.CellsLimit < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "limit must not be negative, got %d", o.CellsLimit)
	}
	if o.MaxSmallForBig == 0 {
		o.MaxSmallForBig = DefaultMaxSmallForBig
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.SplitThreshold == 0 {
		o.SplitThreshold = DefaultSplitThreshold
	}
	if o.MinNodes == 0 {
		o.MinNodes = DefaultMinComponentNodes
	}
	o.validated = true
	return nil
}

// ValidateForRender checks and defaults the render options only.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateLayout(o.Layout); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// GenerateOptions returns the generator configuration for these options.
func (o *Options) GenerateOptions() generate.Options {
	perLarge := o.MaxSmallForBig
	if perLarge < 0 {
		perLarge = 0
	}
	progress := o.Progress
	if progress == nil && !o.Quiet {
		progress = generate.LogProgress(o.Logger, o.Algorithm, 10)
	}
	return generate.Options{
		CellsLimit:     o.CellsLimit,
		MaxSmallForBig: perLarge,
		Hub:            o.Hub,
		Progress:       progress,
		Logger:         o.Logger,
	}
}

// DiagramKeyOpts returns cache key options for diagram generation.
func (o *Options) DiagramKeyOpts() cache.DiagramKeyOpts {
	return cache.DiagramKeyOpts{
		Algorithm:      o.Algorithm,
		CellsLimit:     o.CellsLimit,
		MaxSmallForBig: o.MaxSmallForBig,
		Hub:            o.Hub,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Layout:     o.Layout,
		Positions:  o.Positions,
		Priorities: o.Priorities,
	}
}

// newRunID returns a fresh identifier for a run.
func newRunID() string {
	return uuid.New().String()
}

