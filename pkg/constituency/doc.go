// Package constituency models bracketed phrase-structure trees and lays
// them out for drawing.
//
// # Storage
//
// A [Tree] is an arena: every node lives in Tree.Nodes and parent/child
// links are indices into that slice. Index 0 is the implicit wrapper that
// spans the whole sentence; it is never drawn. Nodes are appended in
// preorder, so a child's index is always greater than its parent's. The
// height pass relies on this and walks the arena backwards.
//
// # Layout
//
// [Layout] runs three steps:
//
//  1. Heights: terminals are 0, a phrase is 1 + the maximum of its children.
//  2. Terminals: placed left to right on a common baseline. Each terminal
//     reserves enough width for the label of any single-child ancestor, since
//     a unary phrase is drawn straight above its only child.
//  3. Phrases: centred at the midpoint between the centres of the first and
//     last child, raised height × VGap above the tag row.
package constituency
