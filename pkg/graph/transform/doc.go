// Package transform provides whole-graph passes over a finished diagram.
//
// [Split] decomposes a graph into the pieces that stay connected along
// transitions accepted by a [Predicate], typically [MinPriority]. Each piece
// is copied into its own densely numbered [graph.Graph] so it can be
// serialized or rendered on its own. Pieces with a single node are usually
// noise and [Discard] removes them.
package transform
