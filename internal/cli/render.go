package cli

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vankampen/pkg/diagram"
	errs "github.com/matzehuels/vankampen/pkg/errors"
	vkio "github.com/matzehuels/vankampen/pkg/io"
	"github.com/matzehuels/vankampen/pkg/pipeline"
)

// renderOpts holds the flags shared by render and split.
type renderOpts struct {
	formats    string
	output     string
	layout     string
	positions  bool
	priorities bool
	noCache    bool
	cacheURL   string
}

func (o *renderOpts) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&o.formats, "format", "f", "", "output formats, comma separated: "+strings.Join(pipeline.FormatList, ", "))
	fl.StringVarP(&o.output, "output", "o", "", "output file, or base path for several formats")
	fl.StringVar(&o.layout, "layout", "", "Graphviz layout engine for svg/png (default neato)")
	fl.BoolVar(&o.positions, "positions", false, "emit node positions in DOT output")
	fl.BoolVar(&o.priorities, "priorities", false, "show edge priorities in DOT output")
	fl.BoolVar(&o.noCache, "no-cache", false, "disable the artifact cache")
	fl.StringVar(&o.cacheURL, "cache-url", os.Getenv(redisURLEnv), "Redis URL for a shared cache")
}

// options converts the flags to pipeline options for rendering.
func (o *renderOpts) options(ctx context.Context) pipeline.Options {
	return pipeline.Options{
		Formats:    parseFormats(o.formats),
		Layout:     o.layout,
		Positions:  o.positions,
		Priorities: o.priorities,
		Logger:     loggerFromContext(ctx),
	}
}

// renderCommand creates the render command, which re-renders a saved JSON
// document without rebuilding the diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [document.json]",
		Short: "Render a saved diagram document",
		Long: `Render a diagram document written by "generate -f json" into other formats.

The document is checked on load: its graph must restore and its recorded
boundary word must match the graph.`,
		Example: `  vankampen render torus-diagram.json -f svg
  vankampen render torus-diagram.json -f dot,png -o out/torus`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, ro *renderOpts) error {
	logger := loggerFromContext(ctx)

	doc, d, err := loadDocument(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded document", "id", doc.ID, "nodes", doc.Stats.Nodes, "circuit", len(doc.Circuit))

	runner, err := c.newRunner(ctx, ro.noCache, ro.cacheURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := ro.options(ctx)
	var spinner *Spinner
	if needsGraphviz(opts.Formats) {
		spinner = newSpinnerWithContext(ctx, "Running Graphviz...")
		spinner.Start()
	}
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, d.Graph(), doc, opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Graphviz failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}

	base := documentBase(ro.output, input)
	paths, err := writeArtifacts(artifacts, func(format string) string {
		return artifactPath(ro.output, base, format, len(artifacts))
	})
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", input)
	printStats(d.Graph().NodeCount(), d.Graph().EdgeCount(), hit && needsGraphviz(opts.Formats))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// loadDocument reads and validates a JSON document and restores its diagram.
func loadDocument(path string) (*vkio.Document, *diagram.Diagram, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "document %s", path)
	}
	doc, err := vkio.ImportJSON(path)
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "load document %s", path)
	}
	d, err := doc.Diagram()
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeStructural, err, "restore document %s", path)
	}
	return doc, d, nil
}

// needsGraphviz reports whether any format is rendered through Graphviz.
func needsGraphviz(formats []string) bool {
	return slices.Contains(formats, pipeline.FormatSVG) || slices.Contains(formats, pipeline.FormatPNG)
}
