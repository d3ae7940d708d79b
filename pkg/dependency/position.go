package dependency

import (
	"strconv"

	"github.com/matzehuels/treeml/pkg/layout"
)

// Place lays the tokens of g out left to right on g.Baseline.
//
// Each token is HGap to the right of the previous cursor. A token with more
// connectors than its text can hold gets a margin of
// len(Connect)*ConnectorGap - width. The cursor then advances by
// WidthScale*width + margin.
func Place(ctx *layout.Context, g *Graph) {
	cfg := ctx.Config
	x := cfg.XInit

	for i := range g.Tokens {
		t := &g.Tokens[i]
		w, h := ctx.Measure(t.Form, cfg.Fonts.Token)
		margin := max(0, float64(len(t.Connect))*cfg.ConnectorGap-w)

		t.Box = layout.Box{X: x + cfg.HGap, Y: g.Baseline, Width: w, Height: h, Margin: margin}

		pw, ph := ctx.Measure(t.Tag, cfg.Fonts.Tag)
		t.TagBox = layout.Box{
			X:      t.Box.X + 0.5*(w-pw+margin),
			Y:      t.Box.Bottom(),
			Width:  pw,
			Height: ph,
		}

		sw, sh := ctx.Measure(strconv.Itoa(t.ID), cfg.Fonts.Index)
		t.IndexBox = layout.Box{
			X:      t.Box.X + cfg.WidthScale*w + 0.5*margin,
			Y:      t.Box.Y + 0.4*h,
			Width:  sw,
			Height: sh,
		}

		x = t.Box.X + cfg.WidthScale*w + margin
	}
}
