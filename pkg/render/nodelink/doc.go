// Package nodelink draws van Kampen diagrams as node-link pictures.
//
// [ToDOT] writes Graphviz DOT: the terminal, when highlighted, is a labelled
// circle, every other vertex a point, and each edge carries its generator
// name. The DOT text is useful on its own and is also the input of
// [RenderSVG] and [RenderPNG], which lay it out in process:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.LayoutNeato)
//
// Rendering uses [github.com/goccy/go-graphviz], so no Graphviz install is
// needed.
package nodelink
