package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/skilltree/pkg/geom"
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/render"
	"github.com/matzehuels/skilltree/pkg/render/nodelink"
)

// RenderFromLayout generates every requested format from a serialized
// layout. Tree layouts are drawn by [render.RenderSVG]; nodelink layouts go
// through Graphviz. Node boxes and connectors use the layout's node size.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	opts.UseLayoutNodeSize(l)
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = renderSVG(ctx, l, opts)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT:
			data = []byte(dotFor(l, opts))
		case FormatSVG:
			data, err = svgOnce()
		case FormatPDF, FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.Convert(ctx, data, format, opts.Scale)
			}
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderSVG(ctx context.Context, l graph.Layout, opts Options) ([]byte, error) {
	if l.IsNodelink() {
		return nodelink.RenderSVG(ctx, dotFor(l, opts))
	}

	svgOpts := []render.SVGOption{
		render.WithConnectorConfig(opts.Connector),
		render.WithStates(opts.StateFunc()),
		render.WithCanvas(geom.Size{Width: opts.Width, Height: opts.Height}),
		render.WithPadding(opts.Padding),
		render.WithViewportConfig(opts.ViewportConfig),
		render.WithLogger(opts.Logger),
	}
	if opts.Viewport != nil {
		svgOpts = append(svgOpts, render.WithViewport(*opts.Viewport))
	}
	if opts.Highlight != "" {
		svgOpts = append(svgOpts, render.WithHighlight(opts.Highlight))
	}
	if opts.Popups {
		svgOpts = append(svgOpts, render.WithPopups())
	}
	return render.RenderSVG(l.Result(), svgOpts...)
}

// dotFor reuses the stored DOT of nodelink layouts and generates it for
// tree layouts.
func dotFor(l graph.Layout, opts Options) string {
	if dot, err := nodelink.Parse(l); err == nil {
		return dot
	}
	return nodelink.ToDOT(l.Result(), nodelinkOptions(opts))
}
