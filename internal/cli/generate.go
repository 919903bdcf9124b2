package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/vankampen/pkg/errors"
	"github.com/matzehuels/vankampen/pkg/generate"
	vkio "github.com/matzehuels/vankampen/pkg/io"
	"github.com/matzehuels/vankampen/pkg/pipeline"
)

// generateFlags holds the raw flag values of the generate command.
type generateFlags struct {
	input         string
	formats       string
	output        string
	circuitOutput string
	config        string

	shuffle bool
	notSort bool
	seed    uint64

	limit      int
	perLarge   int
	iterative  bool
	largeFirst bool
	merging    bool
	hub        bool

	split          bool
	splitThreshold float64
	minNodes       int

	layout     string
	positions  bool
	priorities bool

	quiet    bool
	tui      bool
	noCache  bool
	refresh  bool
	cacheURL string
}

// generateCommand creates the generate command, which reads a presentation
// and writes the diagram in every requested format.
func (c *CLI) generateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a van Kampen diagram from a group presentation",
		Long: `Build a van Kampen diagram from a group presentation.

The presentation is read in GAP style:

  F := FreeGroup( a, b ); G := F / [ a*b*a^-1*b^-1, a^2 ];

or in angle style:

  <a, b | a*b*a'*b', a^2>

The diagram is written to <input>-diagram.<format> and the boundary word to
<input>-circuit.txt unless -o and -c say otherwise.

Strategies: ` + algorithmNames() + `.`,
		Example: `  vankampen generate -i torus.txt
  vankampen generate -i group.txt -f dot,svg --large-first --hub
  vankampen generate -i group.txt --split --split-threshold 0.6 -f edges`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "presentation file (- for stdin)")
	fl.StringVarP(&f.formats, "format", "f", "", "output formats, comma separated: "+strings.Join(pipeline.FormatList, ", "))
	fl.StringVarP(&f.output, "output", "o", "", "output file, or base path for several formats")
	fl.StringVarP(&f.circuitOutput, "circuit-output", "c", "", "boundary word output file")
	fl.StringVar(&f.config, "config", "", "TOML file with default options")

	fl.BoolVar(&f.shuffle, "shuffle", false, "shuffle relators before binding")
	fl.BoolVar(&f.notSort, "not-sort", false, "keep relators in input order")
	fl.Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "shuffle seed")

	fl.IntVarP(&f.limit, "limit", "l", 0, "stop after binding this many relators (0 = all)")
	fl.IntVar(&f.perLarge, "per-large", pipeline.DefaultMaxSmallForBig, "short relators tried per long one with --large-first (negative = unlimited)")
	fl.BoolVar(&f.iterative, "iterative", false, "bind relators in repeated sweeps (default)")
	fl.BoolVar(&f.largeFirst, "large-first", false, "bind long relators first, filling with short ones")
	fl.BoolVar(&f.merging, "merging", false, "grow one diagram per relator and merge them")
	fl.BoolVar(&f.hub, "hub", false, "bind the last relator first as hub (with --large-first)")
	cmd.MarkFlagsMutuallyExclusive("iterative", "large-first", "merging")

	fl.BoolVarP(&f.split, "split", "s", false, "also write the high-priority components")
	fl.Float64Var(&f.splitThreshold, "split-threshold", pipeline.DefaultSplitThreshold, "minimum edge priority kept by --split")
	fl.IntVar(&f.minNodes, "min-nodes", pipeline.DefaultMinComponentNodes, "drop split components with fewer nodes")

	fl.StringVar(&f.layout, "layout", "", "Graphviz layout engine for svg/png (default neato)")
	fl.BoolVar(&f.positions, "positions", false, "emit node positions in DOT output")
	fl.BoolVar(&f.priorities, "priorities", false, "show edge priorities in DOT output")

	fl.BoolVarP(&f.quiet, "quiet", "q", false, "do not report progress")
	fl.BoolVar(&f.tui, "tui", false, "show an interactive progress view")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the diagram cache")
	fl.BoolVar(&f.refresh, "refresh", false, "rebuild even when the diagram is cached")
	fl.StringVar(&f.cacheURL, "cache-url", os.Getenv(redisURLEnv), "Redis URL for a shared cache")

	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// runGenerate executes the pipeline and writes its outputs.
func (c *CLI) runGenerate(cmd *cobra.Command, f *generateFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts, err := f.options(cmd)
	if err != nil {
		return err
	}
	text, err := readInput(f.input)
	if err != nil {
		return err
	}
	opts.Presentation = text
	opts.Logger = logger
	if opts.Hub && opts.Algorithm != string(generate.AlgorithmLargeFirst) {
		logger.Warn("--hub only affects --large-first")
	}
	opts.Progress = bindProgress(logger, opts.Algorithm, opts.Quiet)

	runner, err := c.newRunner(ctx, f.noCache, f.cacheURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	var res *pipeline.Result
	if f.tui {
		res, err = runWithTUI(ctx, runner, opts)
	} else {
		prog := newProgress(logger)
		res, err = runner.Execute(ctx, opts)
		if err == nil {
			prog.done("Pipeline finished")
		}
	}
	if err != nil {
		return err
	}
	logger.Debug(res.Summary())

	base := basePath(f.output, f.input)
	paths, err := writeArtifacts(res.Artifacts, func(format string) string {
		return artifactPath(f.output, base, format, len(res.Artifacts))
	})
	if err != nil {
		return err
	}
	circuit := circuitPath(f.circuitOutput, f.input)
	if err := errs.ValidateOutputPath(circuit); err != nil {
		return err
	}
	if err := vkio.ExportCircuit(res.Circuit, circuit); err != nil {
		return err
	}
	paths = append(paths, circuit)

	var files map[int][]string
	if len(res.Components) > 0 {
		if files, err = writeParts(res.Components, base); err != nil {
			return err
		}
	}

	printGenerateSummary(res, paths, files)
	return nil
}

// options merges the config file, when given, with explicitly set flags.
// Unset flags leave file values and pipeline defaults alone.
func (f *generateFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		var err error
		if opts, err = pipeline.LoadConfig(f.config); err != nil {
			return opts, err
		}
	}

	set := cmd.Flags().Changed
	if set("format") || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(f.formats)
	}
	if set("shuffle") {
		opts.Shuffle = f.shuffle
	}
	if set("not-sort") {
		opts.NotSort = f.notSort
	}
	if set("seed") {
		opts.Seed = f.seed
	}
	if set("limit") {
		opts.CellsLimit = f.limit
	}
	if set("per-large") {
		opts.MaxSmallForBig = f.perLarge
	}
	if set("hub") {
		opts.Hub = f.hub
	}
	switch {
	case f.iterative:
		opts.Algorithm = string(generate.AlgorithmIterative)
	case f.largeFirst:
		opts.Algorithm = string(generate.AlgorithmLargeFirst)
	case f.merging:
		opts.Algorithm = string(generate.AlgorithmMerging)
	}
	if set("split") {
		opts.Split = f.split
	}
	if set("split-threshold") {
		opts.SplitThreshold = f.splitThreshold
	}
	if set("min-nodes") {
		opts.MinNodes = f.minNodes
	}
	if set("layout") {
		opts.Layout = f.layout
	}
	if set("positions") {
		opts.Positions = f.positions
	}
	if set("priorities") {
		opts.Priorities = f.priorities
	}
	if set("quiet") {
		opts.Quiet = f.quiet
	}
	opts.Refresh = f.refresh
	return opts, nil
}

// printGenerateSummary reports what was built and where it went.
func printGenerateSummary(res *pipeline.Result, paths []string, files map[int][]string) {
	printNewline()
	if res.Stats.Leftover > 0 {
		printWarning("%d/%d relators bound", res.Stats.Bound, res.Stats.Words)
	} else {
		printSuccess("%d/%d relators bound", res.Stats.Bound, res.Stats.Words)
	}
	printStats(res.Stats.Nodes, res.Stats.Edges, res.CacheInfo.DiagramHit)
	printKeyValue("Algorithm", string(res.Stats.Algorithm))
	printKeyValue("Boundary", fmt.Sprintf("%d letters", len(res.Circuit)))
	printKeyValue("Run", res.ID)

	printNewline()
	for _, p := range paths {
		printFile(p)
	}

	if len(res.Components) > 0 {
		printNewline()
		printInfo("%d components", len(res.Components))
		fmt.Println(componentTable(res.Components, files))
	}

	if doc := jsonPath(paths); doc != "" {
		printNewline()
		printNextStep("Render as SVG", "vankampen render "+doc+" -f svg")
	}
}

func algorithmNames() string {
	names := make([]string, 0, 3)
	for _, a := range generate.Algorithms() {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}

// jsonPath returns the written JSON document, if any.
func jsonPath(paths []string) string {
	for _, p := range paths {
		if strings.HasSuffix(p, "."+pipeline.FormatJSON) {
			return p
		}
	}
	return ""
}
