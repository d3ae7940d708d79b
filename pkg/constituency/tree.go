package constituency

import "github.com/matzehuels/treeml/pkg/layout"

// Wrapper is the arena index of the implicit sentence wrapper.
const Wrapper = 0

// WrapperTag labels the implicit wrapper node.
const WrapperTag = "TOP"

// Node is one constituent. Terminals carry a Form and no children.
type Node struct {
	Tag      string
	Form     string
	Parent   int // -1 for the wrapper
	Children []int

	// Height is the distance in edges to the deepest terminal below.
	Height int
	// Level is the drawing height. It equals Height unless siblings are levelled.
	Level int

	Box    layout.Box // word box for terminals, label box for phrases
	TagBox layout.Box // terminals only: tag label drawn above the word
}

// IsTerminal reports whether the node has no children.
func (n *Node) IsTerminal() bool { return len(n.Children) == 0 }

// Tree is an arena of nodes for one sentence.
type Tree struct {
	Nodes     []Node
	Terminals []int // terminal indices in reading order

	// IDBase is the document-wide id of arena index 1, set by Layout.
	IDBase int
}

// New returns a tree holding only the wrapper node.
func New() *Tree {
	return &Tree{Nodes: []Node{{Tag: WrapperTag, Parent: -1}}}
}

// Add appends a child with the given tag under parent and returns its index.
func (t *Tree) Add(parent int, tag string) int {
	i := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Tag: tag, Parent: parent})
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, i)
	return i
}

// AddTerminal appends a terminal with a tag and a surface form under parent.
func (t *Tree) AddTerminal(parent int, tag, form string) int {
	i := t.Add(parent, tag)
	t.SetForm(i, form)
	return i
}

// SetForm makes node i a terminal with the given surface form.
func (t *Tree) SetForm(i int, form string) {
	t.Nodes[i].Form = form
	t.Terminals = append(t.Terminals, i)
}

// Node returns a pointer to node i.
func (t *Tree) Node(i int) *Node { return &t.Nodes[i] }

// Len returns the number of drawn nodes (the wrapper excluded).
func (t *Tree) Len() int { return len(t.Nodes) - 1 }

// Tops returns the children of the wrapper, usually a single sentence node.
func (t *Tree) Tops() []int { return t.Nodes[Wrapper].Children }

// ID returns the document-wide id of node i.
func (t *Tree) ID(i int) int { return t.IDBase + i - 1 }

// Walk visits every node below the wrapper in preorder.
func (t *Tree) Walk(fn func(i int)) {
	for i := 1; i < len(t.Nodes); i++ {
		fn(i)
	}
}
