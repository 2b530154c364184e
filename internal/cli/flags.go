package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/connector"
	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/pipeline"
)

// layoutFlags are shared by every command that computes a layout.
type layoutFlags struct {
	strategy string
	category string
	vizType  string
	noCache  bool
	refresh  bool
}

func (f *layoutFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "layout strategy: columns or tidy")
	cmd.Flags().StringVar(&f.category, "category", "", "only lay out records in this category")
	cmd.Flags().StringVarP(&f.vizType, "type", "t", "", "visualization type: tree or nodelink")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("strategy") {
		opts.Strategy = f.strategy
	}
	opts.Category = f.category
	opts.VizType = f.vizType
	opts.Refresh = f.refresh
}

// renderFlags are shared by render and visualize.
type renderFlags struct {
	output    string
	formats   string
	width     float64
	height    float64
	padding   float64
	path      string
	highlight string
	popups    bool
	detailed  bool
	scale     float64
	states    []string
}

func (f *renderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output path (extension is replaced per format, - for stdout)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output formats: svg, png, pdf, json, dot (comma-separated)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "canvas width")
	cmd.Flags().Float64Var(&f.height, "height", 0, "canvas height")
	cmd.Flags().Float64Var(&f.padding, "padding", 0, "fit padding around the tree")
	cmd.Flags().StringVar(&f.path, "path", "", "connector path style: "+strings.Join(connector.PathStyles(), ", "))
	completeValues(cmd, "path", connector.PathStyles()...)
	cmd.Flags().StringVar(&f.highlight, "highlight", "", "highlight the path from the root to this node")
	cmd.Flags().BoolVar(&f.popups, "popups", true, "embed hover popups in SVG output")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "add depth, column and payload to DOT labels")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG scale factor")
	cmd.Flags().StringArrayVar(&f.states, "state", nil, "override a node state as id=state (repeatable)")
}

func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	opts.Formats = parseFormats(f.formats)
	if cmd.Flags().Changed("width") {
		opts.Width = f.width
	}
	if cmd.Flags().Changed("height") {
		opts.Height = f.height
	}
	if cmd.Flags().Changed("padding") {
		opts.Padding = f.padding
	}
	if cmd.Flags().Changed("path") {
		opts.Connector.Path = connector.PathStyle(f.path)
	}
	if cmd.Flags().Changed("scale") {
		opts.Scale = f.scale
	}
	opts.Highlight = f.highlight
	opts.Popups = f.popups
	opts.Detailed = f.detailed

	states, err := parseStates(f.states)
	if err != nil {
		return err
	}
	opts.States = states
	return nil
}

// parseStates turns "id=state" pairs into a state override map. Unknown
// state names are kept and later render as the default state.
func parseStates(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	states := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		id, state, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid --state %q (want id=state)", pair)
		}
		if err := errors.ValidateNodeID(id); err != nil {
			return nil, err
		}
		states[id] = strings.TrimSpace(state)
	}
	return states, nil
}
