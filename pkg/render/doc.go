// Package render composes positioned skill trees into standalone documents.
//
// # SVG
//
// [RenderSVG] draws one layout run into an SVG document sized to a canvas:
//
//   - the connector layer from [connector.Renderer] (markers, paths, styling)
//   - one rounded box per node, stroked in its state colour, with a
//     truncated and escaped label
//   - a wrapper group carrying the viewport transform, either the one passed
//     with [WithViewport] or a fit-to-screen transform computed by a
//     [viewport.Controller]
//   - hover interaction that highlights every connection leading to a node
//   - optional popups built from the record payload ([WithPopups])
//
//	svg, err := render.RenderSVG(res,
//	    render.WithCanvas(geom.Size{Width: 1200, Height: 800}),
//	    render.WithStates(connector.RecordState),
//	    render.WithPopups(),
//	)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// (from librsvg). They are shared with the [nodelink] subpackage.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage hands the same tree to Graphviz, with structural
// edges driving the ranking and informational edges drawn without
// constraining it.
//
// [nodelink]: github.com/matzehuels/skilltree/pkg/render/nodelink
package render
