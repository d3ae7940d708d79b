package dependency

import (
	"slices"

	"github.com/matzehuels/treeml/pkg/conll"
	"github.com/matzehuels/treeml/pkg/layout"
)

// Root token fields.
const (
	RootForm  = "Root"
	RootLemma = "root"
	RootTag   = "ROOT"
)

// Token is one word of the sentence, or the synthetic root at id 0.
type Token struct {
	ID    int
	Form  string
	Lemma string
	Tag   string
	Feats string
	Head  int // -1 for the root
	Label string

	// Connect lists the ids of every token linked to this one: its head
	// followed by its dependents, sorted ascending.
	Connect []int

	Box      layout.Box
	TagBox   layout.Box // below the word
	IndexBox layout.Box // right of the word
}

// Arc is the edge from a head to one of its dependents.
type Arc struct {
	Head  int
	Dep   int
	Label string

	Tier int

	// Connector slot on each endpoint, 1-based, out of the endpoint's total.
	HeadRank, HeadTotal int
	DepRank, DepTotal   int

	// Port offsets from the left edge of the endpoint boxes.
	HeadPort, DepPort float64

	// Y is the height of the horizontal segment.
	Y float64

	LabelWidth, LabelHeight float64
}

// Shift records one overflow correction made while routing.
type Shift struct {
	Arc  int     // index into Graph.Arcs
	From int     // first token id moved
	By   float64 // distance moved right
}

// Graph is one laid-out dependency sentence.
type Graph struct {
	Tokens []Token // Tokens[i].ID == i
	Arcs   []Arc   // Arcs[i].Dep == i+1

	MaxTier  int
	Baseline float64
	Shifts   []Shift

	// IDBase is the document-wide id of the root token, set by Layout.
	IDBase int
}

// Build creates a graph from a validated sentence.
func Build(sent conll.Sentence) *Graph {
	g := &Graph{
		Tokens: make([]Token, 0, len(sent)+1),
		Arcs:   make([]Arc, 0, len(sent)),
	}
	g.Tokens = append(g.Tokens, Token{Form: RootForm, Lemma: RootLemma, Tag: RootTag, Head: -1, Label: conll.Empty})

	for _, row := range sent {
		g.Tokens = append(g.Tokens, Token{
			ID:    row.ID,
			Form:  row.Form,
			Lemma: row.Lemma,
			Tag:   row.Tag,
			Feats: row.Feats,
			Head:  row.Head,
			Label: row.Label,
		})
		g.Arcs = append(g.Arcs, Arc{Head: row.Head, Dep: row.ID, Label: row.Label})
	}

	for _, a := range g.Arcs {
		g.Tokens[a.Dep].Connect = append(g.Tokens[a.Dep].Connect, a.Head)
		g.Tokens[a.Head].Connect = append(g.Tokens[a.Head].Connect, a.Dep)
	}
	for i := range g.Tokens {
		slices.Sort(g.Tokens[i].Connect)
	}
	return g
}

// Len returns the number of words, excluding the root.
func (g *Graph) Len() int { return len(g.Tokens) - 1 }

// ID returns the document-wide id of token i.
func (g *Graph) ID(i int) int { return g.IDBase + i }

// ShiftFrom moves token first and every token with a higher id right by dx.
// The rule is keyed on token id, not on current x order; the two agree
// because Place lays tokens out in id order.
func (g *Graph) ShiftFrom(first int, dx float64) {
	for i := first; i < len(g.Tokens); i++ {
		t := &g.Tokens[i]
		t.Box.Shift(dx)
		t.TagBox.Shift(dx)
		t.IndexBox.Shift(dx)
	}
}
