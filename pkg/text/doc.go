// Package text measures rendered strings for layout.
//
// Layout code never touches fonts directly. It asks a [Measurer] for the
// pixel width and line height of a string in a given [Font]:
//
//	w, h := m.Measure("left", text.Font{Family: "Times New Roman", Size: 13})
//
// [Face] measures with real glyph advances from the embedded Go fonts
// (golang.org/x/image/font/gofont), so output is the same on every host.
// [Fixed] is a table-driven fake for tests: exact widths for known strings
// and a per-rune width for everything else.
package text
