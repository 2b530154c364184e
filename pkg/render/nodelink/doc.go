// Package nodelink renders skill trees as Graphviz node-link diagrams.
//
// # Usage
//
// Convert a layout run to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(res, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Graphviz computes its own positions. Structural edges are normal DOT edges
// and decide the ranking; informational edges carry constraint=false so they
// are drawn (dashed) without pulling nodes between ranks. The result is the
// same parent/child shape the tree layout produces.
//
// [Export] packages the DOT source into a [graph.Layout] of type "nodelink"
// for caching and API responses; [Parse] reads it back.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
