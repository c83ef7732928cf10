package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed labels every port with its pin name and adds the leaf kind.
	// When false, ports are unlabeled and only the leaf name is shown.
	Detailed bool
	// Clusters draws groups as nested cluster subgraphs.
	Clusters bool
}

// ToDOT converts a node container to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// All leaves and links inside c are drawn. Node identifiers come from
// [graph.AssignIDs], so the output is stable for a given container.
func ToDOT(c graph.NodeContainer, opts Options) string {
	ids := graph.AssignIDs(c)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=Mrecord, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if opts.Clusters {
		for _, l := range c.Leaves() {
			writeNode(&buf, "  ", ids.Leaves[l], l, opts.Detailed)
		}
		for _, g := range c.Groups() {
			writeCluster(&buf, "  ", ids, g, opts.Detailed)
		}
	} else {
		leaves := c.AllLeaves()
		graph.SortLeaves(leaves)
		for _, l := range leaves {
			writeNode(&buf, "  ", ids.Leaves[l], l, opts.Detailed)
		}
	}

	buf.WriteString("\n")
	for _, lk := range graph.AllLinks(c) {
		out, in := lk.Output(), lk.Input()
		fmt.Fprintf(&buf, "  %q:o%d -> %q:i%d;\n", ids.Leaves[out.Leaf()], out.ID(), ids.Leaves[in.Leaf()], in.ID())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeCluster(buf *bytes.Buffer, indent string, ids graph.IDs, g *graph.Group, detailed bool) {
	id := ids.Groups[g]
	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+id)
	inner := indent + "  "
	fmt.Fprintf(buf, "%slabel=%q;\n", inner, id)
	fmt.Fprintf(buf, "%sstyle=\"rounded,dashed\";\n", inner)
	fmt.Fprintf(buf, "%scolor=grey50;\n", inner)
	for _, l := range g.Leaves() {
		writeNode(buf, inner, ids.Leaves[l], l, detailed)
	}
	for _, child := range g.Groups() {
		writeCluster(buf, inner, ids, child, detailed)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func writeNode(buf *bytes.Buffer, indent, id string, l *graph.Leaf, detailed bool) {
	label := fmtLabel(id, l, detailed)
	attrs := fmtAttrs(l, label)
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, id, strings.Join(attrs, ", "))
}

// fmtLabel builds a record label. In left-to-right layouts the outer braces
// turn the record horizontal and the pin columns vertical.
func fmtLabel(id string, l *graph.Leaf, detailed bool) string {
	var fields []string
	if n := len(l.Inputs()); n > 0 {
		fields = append(fields, "{"+ports("i", "in", n, detailed)+"}")
	}
	name := escapeRecord(id)
	if detailed {
		name += `\n` + l.Kind().String()
	}
	fields = append(fields, name)
	if n := len(l.Outputs()); n > 0 {
		fields = append(fields, "{"+ports("o", "out", n, detailed)+"}")
	}
	return "{" + strings.Join(fields, "|") + "}"
}

func ports(prefix, name string, n int, detailed bool) string {
	parts := make([]string, n)
	for i := range n {
		if detailed {
			parts[i] = fmt.Sprintf("<%s%d> %s%d", prefix, i, name, i)
		} else {
			parts[i] = fmt.Sprintf("<%s%d> ", prefix, i)
		}
	}
	return strings.Join(parts, "|")
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

func escapeRecord(s string) string { return recordEscaper.Replace(s) }

func fmtAttrs(l *graph.Leaf, label string) []string {
	attrs := []string{`label="` + label + `"`}
	if l.IsCompacted() {
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
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

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
