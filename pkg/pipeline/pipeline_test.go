package pipeline

import (
	"testing"

	"github.com/matzehuels/skilltree/pkg/config"
	"github.com/matzehuels/skilltree/pkg/connector"
	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/tree"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"tree", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestValidateStrategy(t *testing.T) {
	for _, name := range []string{"", "tidy", "columns", "COLUMNS"} {
		if err := ValidateStrategy(name); err != nil {
			t.Errorf("ValidateStrategy(%q) = %v", name, err)
		}
	}
	err := ValidateStrategy("force")
	if !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("ValidateStrategy(force) = %v, want INVALID_STRATEGY", err)
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.VizType != DefaultVizType || o.Strategy != tree.DefaultStrategy {
		t.Errorf("VizType = %q, Strategy = %q", o.VizType, o.Strategy)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", o.Formats)
	}
	if o.Layout != tree.DefaultConfig() {
		t.Errorf("Layout = %+v", o.Layout)
	}
	if o.Connector.Path != connector.DefaultPathStyle {
		t.Errorf("Path = %q", o.Connector.Path)
	}
	if o.ViewportConfig != viewport.DefaultConfig() {
		t.Errorf("ViewportConfig = %+v", o.ViewportConfig)
	}
	if o.Logger == nil {
		t.Error("Logger not set")
	}
}

func TestConnectorFollowsLayoutNodeSize(t *testing.T) {
	o := Options{Layout: tree.Config{NodeWidth: 120, NodeHeight: 50}}
	o.SetRenderDefaults()
	if o.Connector.NodeWidth != 120 || o.Connector.NodeHeight != 50 {
		t.Errorf("connector node size = %vx%v, want 120x50", o.Connector.NodeWidth, o.Connector.NodeHeight)
	}
}

func TestValidateForRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"BadFormat", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"BadPath", Options{Connector: connector.Config{Path: "zigzag"}}, errors.ErrCodeInvalidPathStyle},
		{"BadHighlight", Options{Highlight: "a b"}, errors.ErrCodeInvalidInput},
		{"NegativeWidth", Options{Width: -1}, errors.ErrCodeInvalidInput},
		{"BadVizType", Options{VizType: "tower"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	c := config.Default()
	c.Strategy = tree.StrategyTidy
	c.Canvas.Width = 640
	o := FromConfig(c)
	if o.Strategy != tree.StrategyTidy || o.Width != 640 {
		t.Errorf("Options = %+v", o)
	}
	if o.ViewportConfig != c.Viewport {
		t.Error("viewport limits not copied")
	}
}

func TestStateFunc(t *testing.T) {
	n := &tree.Node{ID: "a", Record: &tree.Record{ID: "a", State: "owned"}}
	m := &tree.Node{ID: "b", Record: &tree.Record{ID: "b", State: "owned"}}

	var o Options
	if got := o.StateFunc()(n); got != connector.Owned {
		t.Errorf("record state = %q, want owned", got)
	}

	o.States = map[string]string{"a": "equipped"}
	fn := o.StateFunc()
	if got := fn(n); got != connector.Equipped {
		t.Errorf("override = %q, want equipped", got)
	}
	if got := fn(m); got != connector.Owned {
		t.Errorf("fallback = %q, want owned", got)
	}
}

func TestArtifactKeyOptsStyling(t *testing.T) {
	a := Options{}
	a.SetRenderDefaults()
	b := a
	b.States = map[string]string{"x": "locked"}
	c := a
	c.Highlight = "x"

	if a.ArtifactKeyOpts("svg").Styling == b.ArtifactKeyOpts("svg").Styling {
		t.Error("state overrides should change the styling hash")
	}
	if a.ArtifactKeyOpts("svg").Styling == c.ArtifactKeyOpts("svg").Styling {
		t.Error("highlight should change the styling hash")
	}
	if a.ArtifactKeyOpts("svg").Styling != a.ArtifactKeyOpts("png").Styling {
		t.Error("styling hash should not depend on the format")
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	o := Options{Category: "fire"}
	o.SetLayoutDefaults()
	k := o.LayoutKeyOpts()
	if k.Strategy != tree.DefaultStrategy || k.Category != "fire" || k.NodeWidth != tree.DefaultNodeWidth {
		t.Errorf("LayoutKeyOpts = %+v", k)
	}
}
