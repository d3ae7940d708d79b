package constituency

// AssignHeights sets Height and Level on every node and returns the height of
// the tallest top-level constituent. When level is true, each phrase takes
// the height of its tallest sibling for drawing.
func AssignHeights(t *Tree, level bool) int {
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		n := &t.Nodes[i]
		n.Height = 0
		for _, c := range n.Children {
			n.Height = max(n.Height, t.Nodes[c].Height+1)
		}
		n.Level = n.Height
	}

	if level {
		for i := range t.Nodes {
			kids := t.Nodes[i].Children
			tallest := 0
			for _, c := range kids {
				tallest = max(tallest, t.Nodes[c].Height)
			}
			for _, c := range kids {
				if !t.Nodes[c].IsTerminal() {
					t.Nodes[c].Level = tallest
				}
			}
		}
	}

	top := 0
	for _, c := range t.Tops() {
		top = max(top, t.Nodes[c].Height)
	}
	return top
}
