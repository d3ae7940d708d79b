package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/treeml/pkg/conll"
	"github.com/matzehuels/treeml/pkg/constituency"
	"github.com/matzehuels/treeml/pkg/dependency"
)

func johnLeft() *dependency.Graph {
	return dependency.Build(conll.Sentence{
		{ID: 1, Form: "John", Tag: "NNP", Head: 2, Label: "nsubj"},
		{ID: 2, Form: "left", Tag: "VBD", Head: 0, Label: "root"},
	})
}

func TestDependencyDOT_Basic(t *testing.T) {
	dot := DependencyDOT(johnLeft(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("DependencyDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("DependencyDOT() output missing LR layout")
	}
	if !strings.Contains(dot, `"t1" [label="John"]`) {
		t.Error("DependencyDOT() output missing token John")
	}
	if !strings.Contains(dot, `"t2" -> "t1" [label="nsubj"`) {
		t.Error("DependencyDOT() output missing nsubj arc")
	}
	if !strings.Contains(dot, `"t0" -> "t2" [label="root"`) {
		t.Error("DependencyDOT() output missing root arc")
	}
	if !strings.Contains(dot, "dashed") {
		t.Error("DependencyDOT() root token missing dashed style")
	}
}

func TestDependencyDOT_Detailed(t *testing.T) {
	dot := DependencyDOT(johnLeft(), Options{Detailed: true})

	if !strings.Contains(dot, `1 John\nNNP`) {
		t.Errorf("DependencyDOT() detailed label missing id and tag:\n%s", dot)
	}
}

func TestDependencyDOT_Escapes(t *testing.T) {
	g := dependency.Build(conll.Sentence{{ID: 1, Form: `"quoted"`, Tag: "X", Head: 0, Label: "root"}})
	dot := DependencyDOT(g, Options{})

	if !strings.Contains(dot, `label="\"quoted\""`) {
		t.Errorf("DependencyDOT() did not escape quotes:\n%s", dot)
	}
}

func TestConstituencyDOT(t *testing.T) {
	tree := constituency.New()
	s := tree.Add(constituency.Wrapper, "S")
	np := tree.Add(s, "NP")
	tree.AddTerminal(np, "NNP", "John")
	vp := tree.Add(s, "VP")
	tree.AddTerminal(vp, "VBD", "left")

	dot := ConstituencyDOT(tree, Options{})

	for _, want := range []string{
		"rankdir=TB",
		`"c1" [label="S", shape=plaintext`,
		`"c3" [label="John"]`,
		`"c1" -> "c2"`,
		`"c4" -> "c5"`,
		`{ rank=same; "c3"; "c5" }`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ConstituencyDOT() output missing %s", want)
		}
	}
	if strings.Contains(dot, `"c0"`) {
		t.Error("ConstituencyDOT() drew the wrapper node")
	}

	detailed := ConstituencyDOT(tree, Options{Detailed: true})
	if !strings.Contains(detailed, `NNP\nJohn`) {
		t.Error("ConstituencyDOT() detailed label missing tag")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := string(normalizeViewBox([]byte("<svg></svg>"))); got != "<svg></svg>" {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
