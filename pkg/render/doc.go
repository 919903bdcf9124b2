// Package render groups the diagram renderers.
//
// The only renderer is the [nodelink] subpackage, which writes Graphviz DOT
// and lays it out as SVG or PNG in process. Text exports that need no layout
// (edge lists, notebook expressions, JSON documents) live in package io.
package render
