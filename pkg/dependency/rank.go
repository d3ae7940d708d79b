package dependency

import (
	"cmp"
	"math"
	"slices"
)

// Rank returns the 1-based slot of target among the connectors of source, and
// the number of connectors. Connectors are ordered by their clockwise
// distance from source: ids to the left come first, nearest first, then ids
// to the right, farthest first. Neighbouring arcs therefore attach in the
// order their tiers nest and do not cross.
//
// Rank returns (0, len(connect)) when target is not connected.
func Rank(connect []int, source, target int) (rank, total int) {
	type slot struct{ gap, id int }

	slots := make([]slot, len(connect))
	for i, c := range connect {
		gap := c - source
		if gap < 0 {
			gap += math.MaxInt
		}
		slots[i] = slot{gap, c}
	}
	slices.SortStableFunc(slots, func(a, b slot) int {
		return cmp.Or(cmp.Compare(b.gap, a.gap), cmp.Compare(a.id, b.id))
	})

	for i, s := range slots {
		if s.id == target {
			return i + 1, len(slots)
		}
	}
	return 0, len(slots)
}

// AssignRanks sets the rank fields of every arc.
func AssignRanks(g *Graph) {
	for i := range g.Arcs {
		a := &g.Arcs[i]
		a.HeadRank, a.HeadTotal = Rank(g.Tokens[a.Head].Connect, a.Head, a.Dep)
		a.DepRank, a.DepTotal = Rank(g.Tokens[a.Dep].Connect, a.Dep, a.Head)
	}
}
