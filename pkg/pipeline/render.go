package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/vankampen/pkg/cache"
	errs "github.com/matzehuels/vankampen/pkg/errors"
	"github.com/matzehuels/vankampen/pkg/graph"
	"github.com/matzehuels/vankampen/pkg/graph/transform"
	vkio "github.com/matzehuels/vankampen/pkg/io"
	"github.com/matzehuels/vankampen/pkg/observability"
	"github.com/matzehuels/vankampen/pkg/render/nodelink"
)

// Render produces g in one output format. JSON output wraps g in doc; for a
// nil doc a bare document without a terminal is written.
func Render(ctx context.Context, g *graph.Graph, doc *vkio.Document, format string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case FormatDOT:
		buf.WriteString(nodelink.ToDOT(g, dotOptions(opts)))
	case FormatEdges:
		err = vkio.WriteEdges(g, &buf)
	case FormatNotebook:
		err = vkio.WriteNotebook(g, &buf)
	case FormatJSON:
		if doc == nil {
			doc = &vkio.Document{Terminal: graph.None, Graph: g.Snapshot()}
		}
		err = vkio.WriteJSON(doc, &buf)
	case FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(g, dotOptions(opts)), nodelink.Layout(opts.Layout))
	case FormatPNG:
		return nodelink.RenderPNG(ctx, nodelink.ToDOT(g, dotOptions(opts)), nodelink.Layout(opts.Layout))
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format: %s", format)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

// RenderWithCacheInfo renders g in every requested format. Graphviz output
// goes through the artifact cache; the text formats are cheap and always
// rebuilt. The flag reports whether every cacheable format was a hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, doc *vkio.Document, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hash := graphHash(g)
	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		if !cacheable(format) {
			data, err := Render(ctx, g, doc, format, opts)
			if err != nil {
				return nil, false, err
			}
			artifacts[format] = data
			continue
		}

		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		allHit = false

		data, err := Render(ctx, g, doc, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, allHit, nil
}

// Split cuts g into the components joined by edges of at least
// opts.SplitThreshold priority and drops those below opts.MinNodes.
func Split(ctx context.Context, g *graph.Graph, opts Options) ([]transform.Component, error) {
	threshold := opts.SplitThreshold
	if threshold == 0 {
		threshold = DefaultSplitThreshold
	}
	minNodes := opts.MinNodes
	if minNodes == 0 {
		minNodes = DefaultMinComponentNodes
	}
	all, err := transform.Split(g, transform.MinPriority(threshold))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStructural, err, "split diagram")
	}
	comps := transform.Discard(all, minNodes)
	observability.Generate().OnSplit(ctx, len(comps))
	return comps, nil
}

// RenderComponents splits g and renders every component in every requested
// format. Components are rendered concurrently; the parts are returned in
// component order.
func (r *Runner) RenderComponents(ctx context.Context, g *graph.Graph, opts Options) ([]Part, error) {
	r.applyLogger(&opts)
	comps, err := Split(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("split diagram",
		"threshold", opts.SplitThreshold,
		"components", len(comps))

	parts := make([]Part, len(comps))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range comps {
		eg.Go(func() error {
			artifacts, _, err := r.RenderWithCacheInfo(ctx, c.Graph, nil, opts)
			if err != nil {
				return err
			}
			parts[i] = Part{
				Index:     i + 1,
				Nodes:     c.Graph.NodeCount(),
				Edges:     c.Graph.EdgeCount(),
				Artifacts: artifacts,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Positions: opts.Positions, Priorities: opts.Priorities}
}

func cacheable(format string) bool {
	return format == FormatSVG || format == FormatPNG
}

// graphHash identifies a graph by its snapshot.
func graphHash(g *graph.Graph) string {
	data, _ := json.Marshal(g.Snapshot())
	return cache.Hash(data)
}
