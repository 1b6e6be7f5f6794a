package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orgtree/pkg/hierarchy"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the position id and every attribute to node labels,
	// and labels edges with the relationship id.
	Detailed bool
}

// ToDOT converts a built forest to Graphviz DOT format.
//
// Position ids repeat wherever a cycle marker closes a loop, so nodes are
// named n0, n1, ... in depth-first order instead of by id.
func ToDOT(tree []hierarchy.TreeNode, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	next := 0
	var emit func(n hierarchy.TreeNode) string
	emit = func(n hierarchy.TreeNode) string {
		name := "n" + strconv.Itoa(next)
		next++
		fmt.Fprintf(&buf, "  %s [%s];\n", name, strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
		for _, c := range n.Children {
			edges = append(edges, fmtEdge(name, "n"+strconv.Itoa(next), c, opts.Detailed))
			emit(c)
		}
		return name
	}
	for _, n := range tree {
		emit(n)
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n hierarchy.TreeNode, detailed bool) string {
	if !detailed || n.IsVirtualRoot() {
		return n.Name
	}

	parts := []string{fmt.Sprintf("id: %d", n.ID)}
	for _, k := range slices.Sorted(maps.Keys(n.Attributes)) {
		if k == hierarchy.AttrID {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Attributes[k]))
	}
	return n.Name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n hierarchy.TreeNode, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.IsVirtualRoot():
		attrs = append(attrs, "style=\"rounded,dotted\"", "fontcolor=grey30")
	case n.IsCycleMarker():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=mistyrose", "color=firebrick")
	case n.IsIsolatedCycleRoot():
		attrs = append(attrs, "fillcolor=lightyellow", "color=darkorange", "penwidth=2")
	case n.IsInactive():
		attrs = append(attrs, "fillcolor=lightgrey", "fontcolor=grey40")
	}
	return attrs
}

func fmtEdge(from, to string, child hierarchy.TreeNode, detailed bool) string {
	var attrs []string
	if detailed {
		if id, ok := child.OrgID(); ok {
			attrs = append(attrs, fmt.Sprintf("label=%q", "#"+strconv.Itoa(id)))
		}
	}
	if child.IsCycleMarker() {
		attrs = append(attrs, "style=dashed", "color=firebrick")
	}
	if len(attrs) == 0 {
		return fmt.Sprintf("  %s -> %s;\n", from, to)
	}
	return fmt.Sprintf("  %s -> %s [%s];\n", from, to, strings.Join(attrs, ", "))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// The result can be converted further with [render.ToPDF] or [render.ToPNG].
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

// normalizeViewBox replaces Graphviz's pt-sized svg tag with a viewBox
// anchored at the origin so charts scale in a browser.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
