package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/vankampen/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Positions emits pinned pos attributes for nodes that carry one.
	Positions bool
	// Priorities appends the edge priority to every edge label.
	Priorities bool
}

// ToDOT converts a diagram graph to Graphviz DOT.
//
// Highlighted nodes are drawn as labelled circles and every other node as a
// point. Each forward/inverse pair is written once, along its forward
// direction. Removed nodes are omitted.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("rankdir=LR;\n")

	for _, n := range g.Nodes() {
		shape := "point"
		if n.Highlighted {
			shape = "circle"
		}
		fmt.Fprintf(&buf, "%d[shape=%s", n.ID, shape)
		if n.Label != "" {
			fmt.Fprintf(&buf, ",label=%s", strconv.Quote(n.Label))
		}
		if n.Comment != "" {
			fmt.Fprintf(&buf, ",xlabel=%s", strconv.Quote(n.Comment))
		}
		if opts.Positions && n.Position != nil {
			fmt.Fprintf(&buf, ",pos=\"%g,%g!\"", n.Position.X, n.Position.Y)
		}
		buf.WriteString("];\n")

		for _, t := range n.Transitions() {
			if t.Label.Reversed || g.IsRemoved(t.To) {
				continue
			}
			label := t.Label.Name
			if opts.Priorities {
				label = fmt.Sprintf("%s (%.2f)", label, t.Priority)
			}
			fmt.Fprintf(&buf, "%d->%d [label=%s];\n", n.ID, t.To, strconv.Quote(label))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Layout selects the Graphviz layout engine.
type Layout string

const (
	LayoutDot   Layout = "dot"
	LayoutNeato Layout = "neato"
	LayoutFDP   Layout = "fdp"
	LayoutSFDP  Layout = "sfdp"
	LayoutCirco Layout = "circo"
	LayoutTwopi Layout = "twopi"
)

// DefaultLayout spreads the planar-ish diagrams better than layered dot.
const DefaultLayout = LayoutNeato

var engines = map[Layout]graphviz.Layout{
	LayoutDot:   graphviz.DOT,
	LayoutNeato: graphviz.NEATO,
	LayoutFDP:   graphviz.FDP,
	LayoutSFDP:  graphviz.SFDP,
	LayoutCirco: graphviz.CIRCO,
	LayoutTwopi: graphviz.TWOPI,
}

// Valid reports whether l names a supported engine. The empty layout selects
// [DefaultLayout].
func (l Layout) Valid() bool {
	_, ok := engines[l]
	return ok || l == ""
}

// RenderSVG lays out and renders DOT source as SVG.
func RenderSVG(ctx context.Context, dot string, layout Layout) ([]byte, error) {
	out, err := render(ctx, dot, layout, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG lays out and renders DOT source as PNG.
func RenderPNG(ctx context.Context, dot string, layout Layout) ([]byte, error) {
	return render(ctx, dot, layout, graphviz.PNG)
}

func render(ctx context.Context, dot string, layout Layout, format graphviz.Format) ([]byte, error) {
	if layout == "" {
		layout = DefaultLayout
	}
	engine, ok := engines[layout]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", layout)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(engine)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the image scales from a
// zero origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
