// Package nodelink renders parsed trees as node-link diagrams with Graphviz.
//
// # Usage
//
// Convert a dependency graph or a constituency tree to DOT, then render:
//
//	dot := nodelink.DependencyDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Dependency sentences are drawn left to right in token order with labelled
// arcs from head to dependent. Constituency trees are drawn top to bottom
// with terminals on the last rank.
//
// # Options
//
//   - Detailed: word labels include the tag, and dependency labels include
//     the token id.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
