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

	"github.com/matzehuels/skilltree/pkg/connector"
	"github.com/matzehuels/skilltree/pkg/render"
	"github.com/matzehuels/skilltree/pkg/tree"
)

// Engine is the Graphviz layout program used for rendering.
const Engine = "dot"

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds depth, column and payload entries to node labels.
	Detailed bool
	// States classifies nodes for their outline colour. Nil reads
	// Record.State.
	States connector.StateFunc
	// Palette overrides state colours. Missing entries use the defaults.
	Palette connector.Palette
}

// ToDOT converts a layout run to Graphviz DOT source.
func ToDOT(res tree.Result, opts Options) string {
	states := opts.States
	if states == nil {
		states = connector.RecordState
	}
	palette := connector.Config{Palette: opts.Palette}.WithDefaults().Palette

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\", penwidth=2];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	byID := make(map[string]*tree.Node, len(res.Nodes))
	for _, n := range res.Nodes {
		byID[n.ID] = n
		st := states(n)
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
			fmt.Sprintf("color=%q", palette.Color(st)),
			fmt.Sprintf("class=%q", string(st)),
		}
		if st == connector.Locked {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=grey40")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	edges := res.Edges
	if edges == nil {
		edges = tree.Edges(res.Nodes)
	}
	for _, e := range edges {
		color := palette.Color(states(byID[e.To]))
		if e.Kind == tree.InformationalEdge {
			fmt.Fprintf(&buf, "  %q -> %q [constraint=false, style=dashed, color=%q];\n", e.From, e.To, color)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", e.From, e.To, color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *tree.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{fmt.Sprintf("depth: %d", n.Depth), fmt.Sprintf("column: %d", n.Column)}
	if n.Record != nil {
		for _, k := range slices.Sorted(maps.Keys(n.Record.Payload)) {
			parts = append(parts, fmt.Sprintf("%s: %v", k, n.Record.Payload[k]))
		}
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
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

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// pixel-sized one anchored at the origin.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, render.FormatPDF, 1)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.Convert(ctx, svg, render.FormatPNG, scale)
}
