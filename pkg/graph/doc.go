// Package graph provides the node arena that van Kampen diagrams are built on.
//
// # Overview
//
// A [Graph] is a directed multigraph of [Node] values addressed by stable
// integer handles. Each [Transition] carries a group generator label and is
// normally created together with an inverse companion on the target node, so
// the graph can be walked in both directions.
//
// # Node Identity
//
// [NodeID] values are dense and assigned in increasing order by
// [Graph.AddNode]. Nodes are never deallocated: [Graph.MergeNodes] folds one
// node into another and tombstones it. Removed nodes remain addressable by id
// but are skipped by [Graph.Nodes], [Graph.Edges] and serialization output.
//
// # Boundary Pointer
//
// Every node keeps an explicit boundary pointer: the index of the transition
// that the diagram's boundary circuit follows out of the node.
// [Graph.AddTransition] moves the pointer to the transition it appends;
// [Graph.SetBoundary] and [Graph.SwapLastTwo] are the only other ways
// to move it. Removing the designated transition clears the pointer.
//
// # Priorities
//
// Transitions accumulate a usage priority. [Graph.IncreaseEdgePriority],
// [Graph.IncreaseNondirectedEdgePriority] and
// [Graph.IncreaseLabeledEdgePriority] fail with [ErrEdgeNotFound]
// when the edge is missing, which callers treat as a corrupted diagram.
//
// # Serialization
//
// [Graph.Snapshot] and [FromSnapshot] round-trip a graph exactly, including
// tombstones and boundary pointers. [MarshalGraph], [WriteGraph] and
// [ReadGraph] wrap the snapshot in indented JSON:
//
//	data, _ := graph.MarshalGraph(g)          // Graph → []byte
//	g, _ := graph.ReadGraphFile("g.json")     // File → Graph
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Several diagrams may share one
// graph as long as a single goroutine drives them.
package graph
