package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treeml/pkg/constituency"
	"github.com/matzehuels/treeml/pkg/dependency"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds tags (and dependency token ids) to node labels.
	Detailed bool
}

func writePreamble(buf *bytes.Buffer, rankdir string) {
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
}

// DependencyDOT converts a dependency sentence to Graphviz DOT. Tokens are
// pinned to one rank in id order; the root is drawn dashed.
func DependencyDOT(g *dependency.Graph, opts Options) string {
	var buf bytes.Buffer
	writePreamble(&buf, "LR")

	ids := make([]string, len(g.Tokens))
	for i, t := range g.Tokens {
		ids[i] = fmt.Sprintf("%q", "t"+strconv.Itoa(t.ID))
		attrs := []string{fmt.Sprintf("label=%q", depLabel(t, opts.Detailed))}
		if t.ID == 0 {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", ids[i], strings.Join(attrs, ", "))
	}

	fmt.Fprintf(&buf, "  { rank=same; %s }\n", strings.Join(ids, "; "))
	for i := 1; i < len(ids); i++ {
		fmt.Fprintf(&buf, "  %s -> %s [style=invis];\n", ids[i-1], ids[i])
	}

	buf.WriteString("\n")
	for _, a := range g.Arcs {
		fmt.Fprintf(&buf, "  %s -> %s [label=%q, constraint=false];\n", ids[a.Head], ids[a.Dep], a.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func depLabel(t dependency.Token, detailed bool) string {
	if !detailed {
		return t.Form
	}
	return fmt.Sprintf("%d %s\n%s", t.ID, t.Form, t.Tag)
}

// ConstituencyDOT converts a constituency tree to Graphviz DOT. Phrases are
// drawn as plain labels, terminals as boxes on a shared bottom rank.
func ConstituencyDOT(t *constituency.Tree, opts Options) string {
	var buf bytes.Buffer
	writePreamble(&buf, "TB")

	name := func(i int) string { return fmt.Sprintf("%q", "c"+strconv.Itoa(i)) }

	var terminals []string
	t.Walk(func(i int) {
		n := t.Node(i)
		if n.IsTerminal() {
			label := n.Form
			if opts.Detailed {
				label = n.Tag + "\n" + n.Form
			}
			fmt.Fprintf(&buf, "  %s [label=%q];\n", name(i), label)
			terminals = append(terminals, name(i))
			return
		}
		fmt.Fprintf(&buf, "  %s [label=%q, shape=plaintext, style=\"\"];\n", name(i), n.Tag)
	})
	if len(terminals) > 0 {
		fmt.Fprintf(&buf, "  { rank=same; %s }\n", strings.Join(terminals, "; "))
	}

	buf.WriteString("\n")
	t.Walk(func(i int) {
		if p := t.Node(i).Parent; p != constituency.Wrapper {
			fmt.Fprintf(&buf, "  %s -> %s [arrowhead=none];\n", name(p), name(i))
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with one sized in
// pixels from the viewBox, so browsers scale the preview consistently.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
