// Package graphml serializes laid-out trees as GraphML with yEd extensions.
//
// The writer makes no layout decisions: every coordinate comes from the
// boxes and paths computed by the dependency and constituency packages.
//
// Element ids:
//
//   - n<id>: a word, the dependency root, or a phrase label
//   - p<id>: a tag box
//   - s<id>: a dependency index label
//   - n<id>-<i>: the zero-size connector above child i of phrase <id>
//   - e<id>: the edge into element <id>
//   - h<id>: the horizontal bar joining the connectors of phrase <id>
//
// Ids are unique across a document because every sentence takes its ids
// from the running counter in [layout.Context].
package graphml
