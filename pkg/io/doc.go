// Package io reads and writes generated diagrams.
//
// # Formats
//
// A [Document] is the lossless form: the graph snapshot with tombstones and
// boundary pointers, the terminal, the boundary circuit and the generation
// statistics. [WriteJSON] and [ReadJSON] round-trip it; [ReadJSON] refuses a
// document whose graph no longer produces the recorded circuit.
//
//	{
//	  "id": "5f0c...",
//	  "terminal": 2,
//	  "circuit": "e*f*d*a*b",
//	  "graph": {"nodes": [...]},
//	  "stats": {"algorithm": "iterative", "bound": 2, ...}
//	}
//
// The remaining writers are lossy views for external tools:
//
//   - [WriteEdges]: one "from to" pair per line, the input of spectral tools
//   - [WriteNotebook]: a Graph[...] expression of labelled directed edges
//   - [WriteCircuit]: the boundary word alone
//
// Edge and notebook output renumber live nodes densely, so removed nodes
// leave no gaps. DOT and image output live in [nodelink].
//
// [nodelink]: github.com/matzehuels/vankampen/pkg/render/nodelink
package io
