// Package render holds renderers that draw parsed trees in formats other
// than GraphML.
//
// The [nodelink] subpackage draws a dependency sentence or a constituency
// tree as a Graphviz node-link diagram. It is a quick preview of what was
// parsed, independent of the GraphML layout.
//
// [nodelink]: github.com/matzehuels/treeml/pkg/render/nodelink
package render
