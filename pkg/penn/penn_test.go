package penn

import (
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/treeml/pkg/constituency"
	"github.com/matzehuels/treeml/pkg/errors"
)

func TestReaderJohnLeft(t *testing.T) {
	r := NewReader(strings.NewReader("( (S (NP (NNP John)) (VP (VBD left))) )\n"))

	tree, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if len(tree.Terminals) != 2 {
		t.Fatalf("len(Terminals) = %d, want 2", len(tree.Terminals))
	}
	if got := tree.Node(tree.Terminals[0]).Form; got != "John" {
		t.Errorf("first terminal = %q, want John", got)
	}

	constituency.AssignHeights(tree, false)
	heights := map[string]int{}
	tree.Walk(func(i int) { heights[tree.Node(i).Tag] = tree.Node(i).Height })
	for tag, want := range map[string]int{"S": 2, "NP": 1, "VP": 1, "NNP": 0, "VBD": 0} {
		if heights[tag] != want {
			t.Errorf("height(%s) = %d, want %d", tag, heights[tag], want)
		}
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() at end = %v, want io.EOF", err)
	}
}

func TestReaderWrapperForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"anonymous", "( (S (NN x)) )"},
		{"top label", "(TOP (S (NN x)))"},
		{"root label", "(ROOT (S (NN x)))"},
		{"bare", "(S (NN x))"},
		{"multi-line", "(\n  (S\n    (NN x)))\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := NewReader(strings.NewReader(tt.in)).Next()
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			tops := tree.Tops()
			if len(tops) != 1 || tree.Node(tops[0]).Tag != "S" {
				t.Fatalf("tops = %v, want a single S", tops)
			}
			if tree.Len() != 2 {
				t.Errorf("Len() = %d, want 2", tree.Len())
			}
		})
	}
}

func TestReaderSequence(t *testing.T) {
	in := "( (S (NN a)) )\n\n\n( (S (NN b) (NN c)) )( (X (Y z)) )\n"
	var forms []string
	for tree, err := range NewReader(strings.NewReader(in)).All() {
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		for _, i := range tree.Terminals {
			forms = append(forms, tree.Node(i).Form)
		}
	}
	if got := strings.Join(forms, " "); got != "a b c z" {
		t.Errorf("forms = %q, want %q", got, "a b c z")
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"unclosed", "( (S (NN x) )", errors.ErrCodeUnbalancedBrackets},
		{"open at eof", "( (S (", errors.ErrCodeUnbalancedBrackets},
		{"stray close", ") ( (S (NN x)) )", errors.ErrCodeUnbalancedBrackets},
		{"missing tag", "( ((NN x)) )", errors.ErrCodeInvalidFormat},
		{"empty constituent", "( (S (NP)) )", errors.ErrCodeInvalidFormat},
		{"empty tree", "( )", errors.ErrCodeInvalidFormat},
		{"word under wrapper", "( x )", errors.ErrCodeInvalidFormat},
		{"two words", "( (NN x y) )", errors.ErrCodeInvalidFormat},
		{"word then child", "( (NP x (NN y)) )", errors.ErrCodeInvalidFormat},
		{"text outside tree", "junk ( (NN x) )", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.in)).Next()
			if !errors.Is(err, tt.code) {
				t.Errorf("Next() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReaderResyncsAfterError(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty constituent", "( (S (NP) (NN a)) )\n( (NN z) )"},
		{"missing tag", "( ((NN x)) (NN y) )( (NN z) )"},
		{"two words", "( (NN x y) )\n( (NN z) )"},
		{"word under wrapper", "( (NN y) x )( (NN z) )"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.in))
			if _, err := r.Next(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Fatalf("first Next() error = %v, want INVALID_FORMAT", err)
			}
			tree, err := r.Next()
			if err != nil {
				t.Fatalf("second Next() error = %v", err)
			}
			if got := tree.Node(tree.Terminals[0]).Form; got != "z" {
				t.Errorf("form = %q, want %q", got, "z")
			}
			if _, err := r.Next(); err != io.EOF {
				t.Errorf("third Next() error = %v, want io.EOF", err)
			}
		})
	}
}

func TestReaderUnbalancedNamesTree(t *testing.T) {
	r := NewReader(strings.NewReader("( (NN a) )\n( (S (NN b)\n"))
	if _, err := r.Next(); err != nil {
		t.Fatalf("first tree: %v", err)
	}
	_, err := r.Next()
	if !errors.Is(err, errors.ErrCodeUnbalancedBrackets) {
		t.Fatalf("second tree: %v, want UNBALANCED_BRACKETS", err)
	}
	if msg := errors.UserMessage(err); !strings.Contains(msg, "tree 2") || !strings.Contains(msg, "2 unclosed") {
		t.Errorf("message = %q", msg)
	}
}

func TestReaderKeepIndices(t *testing.T) {
	in := "( (S (NP-SBJ-1 (-NONE- *T*-1)) (VP-2 (VBD left))) )"

	tests := []struct {
		name string
		opts []Option
		want []string
	}{
		{"stripped", nil, []string{"S", "NP", "-NONE-", "VP", "VBD"}},
		{"kept", []Option{WithKeepIndices()}, []string{"S", "NP-1", "-NONE-", "VP-2", "VBD"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := NewReader(strings.NewReader(in), tt.opts...).Next()
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			var tags []string
			tree.Walk(func(i int) { tags = append(tags, tree.Node(i).Tag) })
			if strings.Join(tags, " ") != strings.Join(tt.want, " ") {
				t.Errorf("tags = %v, want %v", tags, tt.want)
			}
		})
	}
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		tag  string
		keep bool
		want string
	}{
		{"NP", false, "NP"},
		{"NP-SBJ", false, "NP"},
		{"NP-SBJ-1", false, "NP"},
		{"NP-SBJ-1", true, "NP-1"},
		{"NP-1-2", true, "NP-1-2"},
		{"NP-", true, "NP"},
		{"-NONE-", false, "-NONE-"},
		{"-LRB-", true, "-LRB-"},
	}
	for _, tt := range tests {
		if got := NormalizeTag(tt.tag, tt.keep); got != tt.want {
			t.Errorf("NormalizeTag(%q, %v) = %q, want %q", tt.tag, tt.keep, got, tt.want)
		}
	}
}
