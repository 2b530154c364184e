package connector

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const connectionCSS = `
    .connection { transition: stroke-width 0.2s ease, opacity 0.2s ease; }
    .connection.highlight { stroke-width: %.1f; opacity: 1; }`

// WriteSVG writes the connector layer as a standalone SVG document sized to
// the view box.
func (r *Renderer) WriteSVG(w io.Writer) error {
	vb, _ := r.ViewBox()
	var buf bytes.Buffer
	if r.hasViewBox {
		fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="connectors" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
			vb.MinX, vb.MinY, vb.Width(), vb.Height(), vb.Width(), vb.Height())
	} else {
		buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" class="connectors">` + "\n")
	}
	r.WriteDefs(&buf)
	r.WriteLayer(&buf)
	buf.WriteString("</svg>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteDefs writes the marker definitions and the highlight stylesheet.
func (r *Renderer) WriteDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	for _, m := range r.markers {
		fmt.Fprintf(buf, `    <marker id="%s" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">`, m.ID)
		fmt.Fprintf(buf, `<polygon points="0 0, 10 3.5, 0 7" fill="%s"/></marker>`+"\n", escape(m.Color))
	}
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", fmt.Sprintf(connectionCSS, r.cfg.HighlightWidth))
}

// WriteLayer writes one group holding every connection path.
func (r *Renderer) WriteLayer(buf *bytes.Buffer) {
	buf.WriteString(`  <g class="connections">` + "\n")
	for _, c := range r.conns {
		r.writePath(buf, c)
	}
	if r.debug.ShowAnchors {
		for _, c := range r.conns {
			fmt.Fprintf(buf, `    <circle class="anchor" cx="%.1f" cy="%.1f" r="3" fill="red"/>`+"\n", c.Start.X, c.Start.Y)
			fmt.Fprintf(buf, `    <circle class="anchor" cx="%.1f" cy="%.1f" r="3" fill="blue"/>`+"\n", c.End.X, c.End.Y)
		}
	}
	buf.WriteString("  </g>\n")
}

func (r *Renderer) writePath(buf *bytes.Buffer, c Connection) {
	classes := []string{"connection"}
	if c.Primary() {
		classes = append(classes, "primary")
	} else {
		classes = append(classes, "secondary")
	}
	classes = append(classes, string(c.State))
	width := r.cfg.StrokeWidth
	if c.Highlighted {
		classes = append(classes, "highlight")
		width = r.cfg.HighlightWidth
	}

	fmt.Fprintf(buf, `    <path id="%s" class="%s" data-from="%s" data-to="%s" d="%s" fill="none" stroke="%s" stroke-width="%.1f"`,
		escape(c.ID()), strings.Join(classes, " "), escape(c.From), escape(c.To), c.D, escape(c.Color), width)
	if c.Dashed {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, escape(r.cfg.DashArray))
	}
	if c.Opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%.2f"`, c.Opacity)
	}
	fmt.Fprintf(buf, ` marker-end="url(#%s)"/>`+"\n", markerID(c.State))
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
