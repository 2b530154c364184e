package nodelink

import (
	"fmt"

	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/tree"
)

// Export packages a layout run and its DOT source as a nodelink layout.
// Node positions are kept so the same document can be drawn either way.
func Export(res tree.Result, opts Options, meta graph.Meta) graph.Layout {
	l := graph.FromResult(res, meta)
	l.VizType = graph.VizTypeNodelink
	l.DOT = ToDOT(res, opts)
	l.Engine = Engine
	return l
}

// Parse extracts the DOT source from a serialized nodelink layout.
func Parse(l graph.Layout) (string, error) {
	if l.VizType != "" && l.VizType != graph.VizTypeNodelink {
		return "", fmt.Errorf("invalid viz_type for nodelink layout: %q", l.VizType)
	}
	if l.DOT == "" {
		return "", fmt.Errorf("nodelink layout must contain DOT string")
	}
	return l.DOT, nil
}
