// Package pkg provides the core libraries for building van Kampen diagrams.
//
// # Overview
//
// A van Kampen diagram glues the relators of a group presentation into a
// planar 2-complex. The pkg directory is organized into three areas:
//
//  1. Engine - words, the arena graph, diagrams and the build strategies
//  2. Output - exporters and Graphviz rendering
//  3. Orchestration - the pipeline, caching and hooks shared by CLI and API
//
// # Architecture
//
// The typical data flow:
//
//	Presentation text
//	         ↓
//	    [group] package (parse relators into words)
//	         ↓
//	    [generate] package (bind words with a strategy)
//	         ↓
//	    [diagram] package (KMP overlap search, splicing, merging)
//	         ↓
//	    [graph] package (arena of nodes with boundary pointers)
//	         ↓
//	    DOT/edges/notebook/JSON/SVG/PNG output
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/vankampen/pkg/generate"
//	    "github.com/matzehuels/vankampen/pkg/group"
//	    "github.com/matzehuels/vankampen/pkg/render/nodelink"
//	)
//
//	p, _ := group.Parse("<a, b | a*b*a'*b'>")
//	gen, _ := generate.New(generate.AlgorithmIterative, generate.Options{})
//	stats, _ := gen.Generate(context.Background(), p.Relators)
//	dot := nodelink.ToDOT(gen.Graph(), nodelink.Options{})
//
// # Main Packages
//
// ## Engine
//
// [group] - Generators, elements and words, plus the GAP-style and
// angle-style presentation parsers.
//
// [graph] - Arena graph of nodes holding labelled transitions in
// forward/inverse pairs. Every node keeps a boundary pointer; removed nodes
// stay allocated so IDs remain stable.
//
// [graph/transform] - Splitting a diagram into the components joined by
// high-priority edges.
//
// [diagram] - A boundary-tracking view over a graph. BindWord attaches a
// relator along its longest cancelling overlap; Merge glues two diagrams
// along a cancelling run.
//
// [generate] - Iterative, large-first and merging strategies.
//
// ## Output
//
// [io] - JSON documents, edge lists, notebook expressions and circuit files.
//
// [render/nodelink] - DOT generation and Graphviz rendering to SVG and PNG.
//
// ## Orchestration
//
// [pipeline] - parse → order → generate → render, used by CLI and API.
//
// [cache] - File, Redis and null caches with key derivation.
//
// [observability] - Hooks for generation, cache and HTTP events.
//
// [errors] - Coded errors shared by every entry point.
package pkg
