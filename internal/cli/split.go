package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vankampen/pkg/pipeline"
)

// splitCommand creates the split command, which cuts a saved diagram into
// the components held together by high-priority edges.
func (c *CLI) splitCommand() *cobra.Command {
	var (
		opts      renderOpts
		threshold float64
		minNodes  int
	)

	cmd := &cobra.Command{
		Use:   "split [document.json]",
		Short: "Split a saved diagram into its high-priority components",
		Long: `Split a diagram document into the connected components that remain when
every edge below the priority threshold is dropped. Components with fewer
than --min-nodes nodes are discarded; the rest are written as
<base>-part-<n>.<format>.`,
		Example: `  vankampen split torus-diagram.json -f edges
  vankampen split group-diagram.json --split-threshold 0.75 -f dot,svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSplit(cmd.Context(), args[0], &opts, threshold, minNodes)
		},
	}
	opts.register(cmd)
	cmd.Flags().Float64Var(&threshold, "split-threshold", pipeline.DefaultSplitThreshold, "minimum edge priority kept")
	cmd.Flags().IntVar(&minNodes, "min-nodes", pipeline.DefaultMinComponentNodes, "drop components with fewer nodes")
	return cmd
}

func (c *CLI) runSplit(ctx context.Context, input string, ro *renderOpts, threshold float64, minNodes int) error {
	if threshold <= 0 {
		return fmt.Errorf("--split-threshold must be positive, got %g", threshold)
	}

	_, d, err := loadDocument(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, ro.noCache, ro.cacheURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := ro.options(ctx)
	opts.SplitThreshold = threshold
	opts.MinNodes = minNodes

	prog := newProgress(loggerFromContext(ctx))
	parts, err := runner.RenderComponents(ctx, d.Graph(), opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Split into %d components", len(parts)))

	if len(parts) == 0 {
		printWarning("No component has %d or more nodes at threshold %g", minNodes, threshold)
		return nil
	}
	files, err := writeParts(parts, documentBase(ro.output, input))
	if err != nil {
		return err
	}

	printSuccess("%d components", len(parts))
	fmt.Println(componentTable(parts, files))
	return nil
}
