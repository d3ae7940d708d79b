package dependency

import (
	"cmp"
	"slices"
)

// AssignTiers sets Tier on every arc and MaxTier on g.
//
// reserved[k] holds the highest tier crossing the gap between tokens k and
// k+1. Arcs are processed by increasing length, ties by dependent id; each
// takes one tier above everything already crossing its gaps. Two arcs that
// share a gap therefore never share a tier, and no tier exceeds the number
// of words.
func AssignTiers(g *Graph) {
	order := make([]int, len(g.Arcs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(g.Arcs[a].distance(), g.Arcs[b].distance()),
			cmp.Compare(g.Arcs[a].Dep, g.Arcs[b].Dep),
		)
	})

	reserved := make([]int, len(g.Tokens))
	g.MaxTier = 0
	for _, i := range order {
		a := &g.Arcs[i]
		lo, hi := a.span()

		tier := 0
		for k := lo; k < hi; k++ {
			tier = max(tier, reserved[k])
		}
		tier++
		for k := lo; k < hi; k++ {
			reserved[k] = tier
		}

		a.Tier = tier
		g.MaxTier = max(g.MaxTier, tier)
	}
}

func (a Arc) span() (lo, hi int) {
	return min(a.Head, a.Dep), max(a.Head, a.Dep)
}

func (a Arc) distance() int {
	lo, hi := a.span()
	return hi - lo
}
