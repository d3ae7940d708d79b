// Package layout holds the state shared by both layout pipelines.
//
// [Config] carries the tunable constants (gaps, fonts, toggles) and loads
// from TOML. [Context] is the explicit layout context threaded through every
// sentence: it owns the configuration, the text [text.Measurer], the running
// vertical offset that stacks sentences top to bottom, and the next free
// element id so ids stay unique across a document.
//
// [Box] is the per-node layout record (x, y, width, height, margin). Each
// field is written once by the positioner that owns it.
package layout
