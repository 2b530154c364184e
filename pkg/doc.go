// Package pkg provides the libraries behind Skilltree, an interactive
// skill-tree visualization engine.
//
// # Overview
//
// Skilltree positions records with prerequisites as a tree, draws the
// connectors between them and drives pan and zoom over the result. The pkg
// directory is organized by concern:
//
//  1. [tree] - Layout engine (records → positioned nodes and tagged edges)
//  2. [connector] - Connector paths, state colours, markers and highlights
//  3. [viewport] - Pan/zoom state machine with anchored zoom and transitions
//  4. [render] - SVG composition plus PDF/PNG conversion and Graphviz export
//  5. [graph] - Record file formats and the serialized layout
//  6. [pipeline] - Orchestration (records → layout → render) with caching
//  7. [session], [server] - Persisted viewport sessions over HTTP
//
// # Architecture
//
// The typical data flow:
//
//	records.yaml / records.json / API request
//	         ↓
//	    [tree] package (Columns or Tidy strategy)
//	         ↓
//	    [graph] Layout (cached by [cache])
//	         ↓
//	    [connector] + [render] (SVG, PDF, PNG, DOT, JSON)
//	         ↓
//	    [viewport] (explore TUI or [session] commands)
//
// # Quick Start
//
// Lay out records and render an SVG:
//
//	import (
//	    "github.com/matzehuels/skilltree/pkg/render"
//	    "github.com/matzehuels/skilltree/pkg/tree"
//	)
//
//	records := []tree.Record{
//	    {ID: "strike", State: "owned"},
//	    {ID: "cleave", Requirements: []tree.Requirement{{ID: "strike"}}},
//	}
//	res := tree.New().Layout(records, nil)
//	svg, _ := render.RenderSVG(res, render.WithPopups())
//
// Drive a viewport:
//
//	c := viewport.NewController(geom.Size{Width: 1200, Height: 800})
//	c.FitToScreen(res.Bounds, 40)
//	c.Wheel(viewport.WheelEvent{ClientX: 600, ClientY: 400, DeltaY: -1})
//	fmt.Println(c.State().SVGTransform())
//
// # Observability
//
// [observability] exposes hook interfaces for the pipeline, cache, session
// and HTTP layers, with a Prometheus implementation installed by
// "skilltree serve".
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/tree
// [connector]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/connector
// [viewport]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/viewport
// [render]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/render
// [graph]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/skilltree/pkg/observability
package pkg
