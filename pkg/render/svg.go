package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skilltree/pkg/connector"
	"github.com/matzehuels/skilltree/pkg/geom"
	"github.com/matzehuels/skilltree/pkg/tree"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

// Canvas defaults used when no size is given.
const (
	DefaultWidth   = 1200.0
	DefaultHeight  = 800.0
	DefaultPadding = 40.0
)

const nodeInteractionCSS = `
    .node rect { transition: stroke-width 0.2s ease; }
    .node:hover rect { stroke-width: 4; }
    .node text { pointer-events: none; font-family: sans-serif; }
    .connection.hover { stroke-width: %.1f; opacity: 1; }`

const nodeInteractionJS = `
    const incoming = {};
    document.querySelectorAll('.connection').forEach(p => {
      (incoming[p.dataset.to] = incoming[p.dataset.to] || []).push(p);
    });
    function hoverPath(id) {
      const seen = new Set([id]);
      const queue = [id];
      while (queue.length) {
        (incoming[queue.shift()] || []).forEach(p => {
          p.classList.add('hover');
          if (!seen.has(p.dataset.from)) { seen.add(p.dataset.from); queue.push(p.dataset.from); }
        });
      }
    }
    function clearHover() {
      document.querySelectorAll('.connection.hover').forEach(p => p.classList.remove('hover'));
    }
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => hoverPath(el.dataset.node));
      el.addEventListener('mouseleave', clearHover);
    });`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	connector connector.Config
	states    connector.StateFunc
	canvas    geom.Size
	padding   float64
	view      *viewport.State
	viewCfg   viewport.Config
	highlight string
	popups    bool
	logger    *log.Logger
}

// WithConnectorConfig sets the connector styling, including the node size.
func WithConnectorConfig(c connector.Config) SVGOption {
	return func(r *svgRenderer) { r.connector = c }
}

// WithStates sets the state classifier. The default reads Record.State.
func WithStates(fn connector.StateFunc) SVGOption { return func(r *svgRenderer) { r.states = fn } }

// WithCanvas sets the document size in pixels.
func WithCanvas(size geom.Size) SVGOption { return func(r *svgRenderer) { r.canvas = size } }

// WithPadding sets the fit-to-screen padding.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = p } }

// WithViewport uses s instead of a fit-to-screen transform.
func WithViewport(s viewport.State) SVGOption { return func(r *svgRenderer) { r.view = &s } }

// WithViewportConfig sets the scale limits used for fit-to-screen.
func WithViewportConfig(c viewport.Config) SVGOption {
	return func(r *svgRenderer) { r.viewCfg = c }
}

// WithHighlight marks every connection leading to the node id.
func WithHighlight(id string) SVGOption { return func(r *svgRenderer) { r.highlight = id } }

// WithPopups adds hover cards built from the record payload.
func WithPopups() SVGOption { return func(r *svgRenderer) { r.popups = true } }

// WithLogger sets the logger passed to the connector layer.
func WithLogger(l *log.Logger) SVGOption {
	return func(r *svgRenderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// RenderSVG draws res as a standalone SVG document. An empty result yields
// an empty canvas.
func RenderSVG(res tree.Result, opts ...SVGOption) ([]byte, error) {
	r := newSVGRenderer(opts...)

	conn, err := connector.NewRenderer(
		connector.WithConfig(r.connector),
		connector.WithLogger(r.logger),
	)
	if err != nil {
		return nil, err
	}
	conn.Draw(res.Nodes, r.states)
	if r.highlight != "" {
		if conn.HighlightPathTo(r.highlight) == 0 {
			r.logger.Debug("nothing to highlight", "id", r.highlight)
		}
	}

	view := r.viewState(res.Bounds)
	cfg := conn.Config()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="skilltree" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.canvas.Width, r.canvas.Height, r.canvas.Width, r.canvas.Height)
	conn.WriteDefs(&buf)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", fmt.Sprintf(nodeInteractionCSS, cfg.HighlightWidth))

	fmt.Fprintf(&buf, `  <g class="viewport" transform="%s">`+"\n", view.SVGTransform())
	conn.WriteLayer(&buf)
	for _, n := range res.Nodes {
		writeNode(&buf, n, stateOf(r.states, n), cfg)
	}
	if r.popups {
		for _, n := range res.Nodes {
			st := stateOf(r.states, n)
			if p := popupData(n, string(st)); p != nil {
				writePopup(&buf, n.ID, p, n.X, n.Y+cfg.NodeHeight/2)
			}
		}
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", nodeInteractionJS)
	if r.popups {
		writePopupScript(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// WriteSVG renders res into w.
func WriteSVG(w io.Writer, res tree.Result, opts ...SVGOption) error {
	data, err := RenderSVG(res, opts...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		connector: connector.DefaultConfig(),
		states:    connector.RecordState,
		canvas:    geom.Size{Width: DefaultWidth, Height: DefaultHeight},
		padding:   DefaultPadding,
		viewCfg:   viewport.DefaultConfig(),
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.canvas.Width <= 0 || r.canvas.Height <= 0 {
		r.canvas = geom.Size{Width: DefaultWidth, Height: DefaultHeight}
	}
	if r.states == nil {
		r.states = connector.RecordState
	}
	return r
}

// viewState returns the explicit viewport or fits the bounds into the
// canvas. Bounds that cannot be fitted keep the identity transform.
func (r *svgRenderer) viewState(b geom.Bounds) viewport.State {
	if r.view != nil && r.view.Valid() {
		return *r.view
	}
	ctrl := viewport.NewController(r.canvas,
		viewport.WithConfig(r.viewCfg),
		viewport.WithLogger(r.logger),
	)
	ctrl.FitToScreen(b, r.padding)
	return ctrl.State()
}

func stateOf(fn connector.StateFunc, n *tree.Node) connector.State {
	if fn == nil {
		return connector.RecordState(n)
	}
	return fn(n)
}

func writeNode(buf *bytes.Buffer, n *tree.Node, st connector.State, cfg connector.Config) {
	w, h := cfg.NodeWidth, cfg.NodeHeight
	label := nodeLabel(n)
	size := FontSize(w, h, len([]rune(label)))
	text := TruncateLabel(label, w, size)

	WrapURL(buf, nodeURL(n), func() {
		fmt.Fprintf(buf, `    <g class="node %s" id="node-%s" data-node="%s">`+"\n", st, EscapeXML(n.ID), EscapeXML(n.ID))
		fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="#ffffff" stroke="%s" stroke-width="%.1f"/>`+"\n",
			n.X-w/2, n.Y-h/2, w, h, EscapeXML(cfg.Palette.Color(st)), cfg.StrokeWidth)
		fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-size="%.1f">%s</text>`+"\n",
			n.X, n.Y, size, EscapeXML(text))
		buf.WriteString("    </g>\n")
	})
}

// nodeLabel prefers a "name" or "label" payload entry over the ID.
func nodeLabel(n *tree.Node) string {
	if n.Record != nil {
		for _, key := range []string{"name", "label"} {
			if s, ok := n.Record.Payload[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return n.ID
}

func nodeURL(n *tree.Node) string {
	if n.Record == nil {
		return ""
	}
	url, _ := n.Record.Payload["url"].(string)
	return url
}
