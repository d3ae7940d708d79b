package dependency

import (
	"math"

	"github.com/matzehuels/treeml/pkg/layout"
)

// Route computes ports, label sizes and heights for every arc, in dependent
// order, and widens any arc whose label does not fit between its ports.
func Route(ctx *layout.Context, g *Graph) {
	cfg := ctx.Config
	g.Shifts = g.Shifts[:0]

	for i := range g.Arcs {
		a := &g.Arcs[i]
		head, dep := &g.Tokens[a.Head], &g.Tokens[a.Dep]

		a.HeadPort = port(a.HeadRank, a.HeadTotal, head.Box.Span())
		a.DepPort = port(a.DepRank, a.DepTotal, dep.Box.Span())
		a.Y = g.Baseline - float64(a.Tier)*cfg.VGap
		a.LabelWidth, a.LabelHeight = ctx.Measure(a.Label, cfg.Fonts.Edge)

		x1 := head.Box.X + a.HeadPort
		x2 := dep.Box.X + a.DepPort
		if m := a.LabelWidth - math.Abs(x1-x2); m > 0 {
			first := max(a.Head, a.Dep)
			g.ShiftFrom(first, m)
			g.Shifts = append(g.Shifts, Shift{Arc: i, From: first, By: m})
		}
	}
}

// port returns the offset of slot rank (1-based) out of total evenly spaced
// slots across a box of the given span.
func port(rank, total int, span float64) float64 {
	if total == 0 {
		return span / 2
	}
	return float64(2*rank-1) * span / float64(2*total)
}

// Path is the drawn geometry of one arc.
type Path struct {
	// SX and TX are the port offsets from the centres of the head and the
	// dependent box.
	SX, TX float64
	// X1 and X2 are the absolute x of the two bend points, above the head
	// and the dependent; both sit at height Y.
	X1, X2 float64
	Y      float64
}

// Path returns the geometry of arc i from the current token positions.
func (g *Graph) Path(i int) Path {
	a := g.Arcs[i]
	head, dep := g.Tokens[a.Head].Box, g.Tokens[a.Dep].Box
	return Path{
		SX: a.HeadPort - head.Span()/2,
		TX: a.DepPort - dep.Span()/2,
		X1: head.X + a.HeadPort,
		X2: dep.X + a.DepPort,
		Y:  a.Y,
	}
}
