// Package connector draws the edges of a laid-out tree as SVG paths.
//
// A [Renderer] consumes the positioned nodes produced by package tree and a
// per-node [State] classifier. Every node with a structural parent gets one
// primary connection from the parent's bottom anchor to the node's top
// anchor; every further prerequisite gets a secondary connection, dashed and
// at reduced opacity. Connections to locked nodes are always dashed and
// dimmed. Colour and arrowhead come from the child's state.
//
// Paths are produced by one of three generators: [StraightPath], [StepPath]
// and [BezierPath] (the default S-curve).
//
// Connector coordinates live in layout space. [Renderer.UpdateViewBox] sets
// the SVG viewBox to the layout bounds plus padding, and
// [Renderer.SurfacePoint] converts a layout point into the surface-local
// pixel position a host should use for node widgets, so nodes and
// connectors share one coordinate system without per-dataset offsets.
package connector
