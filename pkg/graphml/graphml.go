package graphml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/treeml/pkg/constituency"
	"github.com/matzehuels/treeml/pkg/dependency"
	"github.com/matzehuels/treeml/pkg/layout"
	"github.com/matzehuels/treeml/pkg/text"
)

const header = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:y="http://www.yworks.com/xml/graphml" xmlns:yed="http://www.yworks.com/xml/yed/3" xsi:schemaLocation="http://graphml.graphdrawing.org/xmlns http://www.yworks.com/xml/schema/graphml/1.1/ygraphml.xsd">
<key for="node" id="d0" yfiles.type="nodegraphics"/>
<key for="edge" id="d1" yfiles.type="edgegraphics"/>
<key attr.name="Description" attr.type="string" for="graph" id="d2">
<default/>
</key>
<graph edgedefault="directed" id="G">
`

const footer = "</graph>\n</graphml>\n"

// Writer streams one GraphML document. The header is written by NewWriter
// and the footer by Close. Write errors are sticky: after the first failure
// every call is a no-op and Close reports the error.
type Writer struct {
	w   io.Writer
	cfg layout.Config
	err error

	nodes, edges int
}

// NewWriter writes the document header to w and returns a Writer that uses
// the fonts and toggles of cfg.
func NewWriter(w io.Writer, cfg layout.Config) *Writer {
	gw := &Writer{w: w, cfg: cfg}
	gw.printf("%s", header)
	return gw
}

// Close writes the footer and returns the first error encountered.
func (w *Writer) Close() error {
	w.printf("%s", footer)
	return w.err
}

// Counts returns the number of node and edge elements written so far.
func (w *Writer) Counts() (nodes, edges int) { return w.nodes, w.edges }

// WriteDependency writes the tokens and arcs of a laid-out dependency graph.
// Tag boxes and index labels are included when enabled in the config.
func (w *Writer) WriteDependency(g *dependency.Graph) error {
	fonts := w.cfg.Fonts
	for _, t := range g.Tokens {
		id := g.ID(t.ID)
		w.node(fmt.Sprintf("n%d", id), t.Box, t.Box.Span(), fonts.Token, t.Form)
		if w.cfg.Tags {
			w.node(fmt.Sprintf("p%d", id), t.TagBox, t.TagBox.Width, fonts.Tag, t.Tag)
		}
		if w.cfg.Indices {
			w.node(fmt.Sprintf("s%d", id), t.IndexBox, t.IndexBox.Width, fonts.Index, strconv.Itoa(t.ID))
		}
	}

	for i, a := range g.Arcs {
		p := g.Path(i)
		w.edge(edge{
			id:     fmt.Sprintf("e%d", g.ID(a.Dep)),
			source: fmt.Sprintf("n%d", g.ID(a.Head)),
			target: fmt.Sprintf("n%d", g.ID(a.Dep)),
			sx:     p.SX,
			tx:     p.TX,
			points: [][2]float64{{p.X1, p.Y}, {p.X2, p.Y}},
			arrow:  "standard",
			label:  a.Label,
			font:   &fonts.Edge,
		})
	}
	return w.err
}

// WriteConstituency writes the terminals, phrase labels, connectors and
// edges of a laid-out tree. The implicit wrapper is not drawn. Without Tags
// the terminal tag boxes are omitted and phrases connect to the words.
func (w *Writer) WriteConstituency(t *constituency.Tree) error {
	fonts := w.cfg.Fonts

	for _, i := range t.Terminals {
		n := t.Node(i)
		id := t.ID(i)
		w.node(fmt.Sprintf("n%d", id), n.Box, n.Box.Span(), fonts.Token, n.Form)
		if w.cfg.Tags {
			w.node(fmt.Sprintf("p%d", id), n.TagBox, n.TagBox.Width, fonts.Tag, n.Tag)
		}
	}

	t.Walk(func(i int) {
		n := t.Node(i)
		if n.IsTerminal() {
			return
		}
		id := t.ID(i)
		w.node(fmt.Sprintf("n%d", id), n.Box, n.Box.Width, fonts.Tag, n.Tag)

		for k, c := range n.Children {
			child := t.Node(c)
			conn := layout.Box{X: child.Box.CenterX(), Y: n.Box.Bottom()}
			w.node(connector(id, k), conn, 0, fonts.Tag, "")

			prefix := "n"
			if child.IsTerminal() && w.cfg.Tags {
				prefix = "p"
			}
			w.edge(edge{
				id:     fmt.Sprintf("e%d", t.ID(c)),
				source: connector(id, k),
				target: fmt.Sprintf("%s%d", prefix, t.ID(c)),
				arrow:  "none",
			})
		}
		if len(n.Children) > 1 {
			w.edge(edge{
				id:     fmt.Sprintf("h%d", id),
				source: connector(id, 0),
				target: connector(id, len(n.Children)-1),
				arrow:  "none",
			})
		}
	})
	return w.err
}

func connector(phrase, child int) string {
	return fmt.Sprintf("n%d-%d", phrase, child)
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *Writer) node(id string, b layout.Box, width float64, f text.Font, label string) {
	w.nodes++
	w.printf(`<node id="%s">
  <data key="d0">
  <y:ShapeNode>
    <y:Geometry width="%f" height="%f" x="%f" y="%f"/>
    <y:Fill hasColor="false"/>
    <y:BorderStyle hasColor="false" width="0.0"/>
    <y:NodeLabel alignment="center" autoSizePolicy="content" borderDistance="0.0" fontFamily="%s" fontSize="%d" fontStyle="%s" hasBackgroundColor="false" hasLineColor="false" modelName="internal" modelPosition="c" textColor="#000000" visible="true" x="0" y="0">%s</y:NodeLabel>
    <y:Shape type="rectangle"/>
  </y:ShapeNode>
  </data>
</node>
`, id, width, b.Height, b.X, b.Y, EscapeXML(f.Family), f.Size, f.StyleOrPlain(), EscapeXML(label))
}

type edge struct {
	id, source, target string
	sx, tx             float64
	points             [][2]float64
	arrow              string
	label              string
	font               *text.Font // nil for unlabelled edges
}

func (w *Writer) edge(e edge) {
	w.edges++
	w.printf("<edge id=\"%s\" source=\"%s\" target=\"%s\">\n  <data key=\"d1\">\n  <y:PolyLineEdge>\n", e.id, e.source, e.target)
	if len(e.points) == 0 {
		w.printf("    <y:Path sx=\"%f\" sy=\"0.0\" tx=\"%f\" ty=\"0.0\"/>\n", e.sx, e.tx)
	} else {
		w.printf("    <y:Path sx=\"%f\" sy=\"0.0\" tx=\"%f\" ty=\"0.0\">\n", e.sx, e.tx)
		for _, p := range e.points {
			w.printf("      <y:Point x=\"%f\" y=\"%f\"/>\n", p[0], p[1])
		}
		w.printf("    </y:Path>\n")
	}
	w.printf("    <y:LineStyle color=\"#000000\" type=\"line\" width=\"1.0\"/>\n")
	w.printf("    <y:Arrows source=\"none\" target=\"%s\"/>\n", e.arrow)
	if e.font != nil {
		w.printf(`    <y:EdgeLabel alignment="center" backgroundColor="#FFFFFF" distance="0.0" fontFamily="%s" fontSize="%d" fontStyle="%s" hasLineColor="false" modelName="centered" modelPosition="center" preferredPlacement="anywhere" ratio="0.5" textColor="#000000" visible="true">%s</y:EdgeLabel>`+"\n",
			EscapeXML(e.font.Family), e.font.Size, e.font.StyleOrPlain(), EscapeXML(e.label))
	}
	w.printf("    <y:BendStyle smoothed=\"%t\"/>\n  </y:PolyLineEdge>\n  </data>\n</edge>\n", w.cfg.Smooth)
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
