package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/skilltree/pkg/tree"
)

const (
	popupWidth      = 220.0
	popupLineHeight = 16.0
	popupGap        = 10.0
	popupMaxChars   = 34
)

const (
	popupCSS = `
    .popup { pointer-events: none; transition: opacity 0.15s ease; }
    .popup[visibility="hidden"] { opacity: 0; }
    .popup[visibility="visible"] { opacity: 1; }`

	popupJS = `
    document.querySelectorAll('.node').forEach(el => {
      const popup = document.querySelector('.popup[data-for="' + el.dataset.node + '"]');
      if (!popup) return;
      el.style.cursor = 'pointer';
      el.addEventListener('mouseenter', () => popup.setAttribute('visibility', 'visible'));
      el.addEventListener('mouseleave', () => popup.setAttribute('visibility', 'hidden'));
    });`
)

// PopupData is the hover card content of one node.
type PopupData struct {
	Title        string
	Description  string
	State        string
	Requirements []string
}

// popupData reads the card from the node's record. Nodes without a record
// get no popup.
func popupData(n *tree.Node, state string) *PopupData {
	if n.Record == nil {
		return nil
	}
	p := &PopupData{
		Title:        nodeLabel(n),
		State:        state,
		Requirements: tree.Prerequisites(n),
	}
	if desc, ok := n.Record.Payload["description"].(string); ok && desc != "" {
		p.Description = desc
	} else if summary, ok := n.Record.Payload["summary"].(string); ok {
		p.Description = summary
	}
	return p
}

func (p *PopupData) lines() []string {
	lines := []string{p.Title}
	if p.State != "" {
		lines = append(lines, "state: "+p.State)
	}
	if len(p.Requirements) > 0 {
		lines = append(lines, "requires: "+strings.Join(p.Requirements, ", "))
	}
	lines = append(lines, wrapText(p.Description, popupMaxChars)...)
	for i, l := range lines {
		if len([]rune(l)) > popupMaxChars {
			lines[i] = string([]rune(l)[:popupMaxChars-2]) + ".."
		}
	}
	return lines
}

// writePopup draws the card below the node, hidden until hovered.
func writePopup(buf *bytes.Buffer, id string, p *PopupData, cx, bottom float64) {
	lines := p.lines()
	h := float64(len(lines))*popupLineHeight + popupGap
	x := cx - popupWidth/2
	y := bottom + popupGap

	fmt.Fprintf(buf, `    <g class="popup" data-for="%s" visibility="hidden" transform="translate(%.1f,%.1f)">`+"\n", EscapeXML(id), x, y)
	fmt.Fprintf(buf, `      <rect width="%.1f" height="%.1f" rx="6" fill="#1e1e24" opacity="0.92"/>`+"\n", popupWidth, h)
	for i, l := range lines {
		weight := "normal"
		if i == 0 {
			weight = "bold"
		}
		fmt.Fprintf(buf, `      <text x="10" y="%.1f" font-size="12" font-weight="%s" fill="#f5f5f5">%s</text>`+"\n",
			popupLineHeight*float64(i+1), weight, EscapeXML(l))
	}
	buf.WriteString("    </g>\n")
}

func writePopupScript(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", popupCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", popupJS)
}

// wrapText breaks s on spaces into lines of at most width runes.
func wrapText(s string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && len([]rune(cur.String()))+1+len([]rune(word)) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
