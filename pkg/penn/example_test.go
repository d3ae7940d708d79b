package penn_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/treeml/pkg/penn"
)

func ExampleReader_All() {
	in := `( (S (NP (NNP John)) (VP (VBD left))) )
(ROOT (S (NP-SBJ-1 (PRP It)) (VP (VBZ rains))))`

	for tree, err := range penn.NewReader(strings.NewReader(in)).All() {
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		var parts []string
		tree.Walk(func(i int) {
			n := tree.Node(i)
			if n.IsTerminal() {
				parts = append(parts, n.Tag+"/"+n.Form)
			} else {
				parts = append(parts, n.Tag)
			}
		})
		fmt.Println(strings.Join(parts, " "))
	}
	// Output:
	// S NP NNP/John VP VBD/left
	// S NP PRP/It VP VBZ/rains
}

func ExampleNormalizeTag() {
	for _, tag := range []string{"NP-SBJ-1", "PP-LOC", "-NONE-"} {
		fmt.Println(penn.NormalizeTag(tag, false), penn.NormalizeTag(tag, true))
	}
	// Output:
	// NP NP-1
	// PP PP
	// -NONE- -NONE-
}
