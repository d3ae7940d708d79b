package constituency

import (
	"github.com/matzehuels/treeml/pkg/layout"
)

// Layout assigns heights and boxes to every node of t, then advances ctx
// past the sentence.
func Layout(ctx *layout.Context, t *Tree) {
	cfg := ctx.Config
	top := AssignHeights(t, cfg.LevelSiblings)

	ctx.Reserve(float64(top) * cfg.VGap)
	baseline := ctx.Y

	tagHeight := PlaceTerminals(ctx, t, baseline)
	CenterPhrases(ctx, t, baseline-tagHeight)

	t.IDBase = ctx.NextID
	ctx.Finish(t.Len())
}

// PlaceTerminals lays terminals out left to right on baseline and returns
// the height of the tag row drawn above them.
func PlaceTerminals(ctx *layout.Context, t *Tree, baseline float64) float64 {
	cfg := ctx.Config
	x := cfg.XInit
	var tagHeight float64

	for _, i := range t.Terminals {
		n := &t.Nodes[i]
		w, h := ctx.Measure(n.Form, cfg.Fonts.Token)

		need := w
		for p := n.Parent; p > Wrapper; p = t.Nodes[p].Parent {
			if len(t.Nodes[p].Children) == 1 {
				need = max(need, ctx.Width(t.Nodes[p].Tag, cfg.Fonts.Tag))
			}
		}

		n.Box = layout.Box{X: x + cfg.HGap, Y: baseline, Width: w, Height: h, Margin: need - w}

		pw, ph := ctx.Measure(n.Tag, cfg.Fonts.Tag)
		n.TagBox = layout.Box{
			X:      n.Box.X + 0.5*(n.Box.Span()-pw),
			Y:      baseline - ph,
			Width:  pw,
			Height: ph,
		}
		tagHeight = max(tagHeight, ph)

		x = n.Box.X + cfg.WidthScale*w + n.Box.Margin
	}
	return tagHeight
}

// CenterPhrases places every phrase label midway between the centres of its
// first and last child, Level × VGap above top.
func CenterPhrases(ctx *layout.Context, t *Tree, top float64) {
	cfg := ctx.Config
	for i := len(t.Nodes) - 1; i > Wrapper; i-- {
		n := &t.Nodes[i]
		if n.IsTerminal() {
			continue
		}
		first := t.Nodes[n.Children[0]].Box.CenterX()
		last := t.Nodes[n.Children[len(n.Children)-1]].Box.CenterX()
		center := first + (last-first)/2

		w, h := ctx.Measure(n.Tag, cfg.Fonts.Tag)
		n.Box = layout.Box{
			X:      center - w/2,
			Y:      top - float64(n.Level)*cfg.VGap,
			Width:  w,
			Height: h,
		}
	}
}
