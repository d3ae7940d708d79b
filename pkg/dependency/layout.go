package dependency

import "github.com/matzehuels/treeml/pkg/layout"

// Layout runs every layout pass on g and advances ctx past the sentence.
// Room for MaxTier arc tiers is reserved above the token baseline.
func Layout(ctx *layout.Context, g *Graph) {
	AssignTiers(g)
	AssignRanks(g)

	ctx.Reserve(float64(g.MaxTier) * ctx.Config.VGap)
	g.Baseline = ctx.Y

	Place(ctx, g)
	Route(ctx, g)

	g.IDBase = ctx.NextID
	ctx.Finish(len(g.Tokens))
}
