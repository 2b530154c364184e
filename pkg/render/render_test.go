package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/skilltree/pkg/connector"
	"github.com/matzehuels/skilltree/pkg/geom"
	"github.com/matzehuels/skilltree/pkg/tree"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

func skillTree() tree.Result {
	records := []tree.Record{
		{ID: "strike", State: "owned", Payload: map[string]any{"name": "Strike", "description": "A basic attack."}},
		{ID: "guard", State: "learnable"},
		{ID: "combo", State: "locked", Requirements: []tree.Requirement{{ID: "strike"}, {ID: "guard"}}},
	}
	return tree.New().Layout(records, nil)
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(skillTree(), WithCanvas(geom.Size{Width: 600, Height: 400}))
	if err != nil {
		t.Fatal(err)
	}
	out := string(svg)

	for _, want := range []string{
		`viewBox="0 0 600.0 400.0"`,
		`<marker id="arrow-locked"`,
		`<g class="viewport" transform="translate(`,
		`id="node-strike"`,
		`class="node locked" id="node-combo"`,
		`data-from="strike" data-to="combo"`,
		`data-from="guard" data-to="combo"`,
		`>Strike</text>`,
		`hoverPath`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(out, `class="popup"`) {
		t.Error("popups rendered without WithPopups")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
}

func TestRenderSVGFitsBounds(t *testing.T) {
	records := []tree.Record{{ID: "solo"}}
	res := tree.New().Layout(records, nil)

	svg, err := RenderSVG(res, WithCanvas(geom.Size{Width: 400, Height: 300}), WithPadding(40))
	if err != nil {
		t.Fatal(err)
	}
	// 80x80 content in a 320x220 area scales by 2.75 around the canvas center.
	if !bytes.Contains(svg, []byte(`transform="translate(200 150) scale(2.75)"`)) {
		t.Errorf("unexpected transform in:\n%s", svg)
	}
}

func TestRenderSVGExplicitViewport(t *testing.T) {
	state := viewport.State{Scale: 1.5, TranslateX: 10, TranslateY: -20}
	svg, err := RenderSVG(skillTree(), WithViewport(state))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`transform="translate(10 -20) scale(1.5)"`)) {
		t.Error("explicit viewport not applied")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg, err := RenderSVG(tree.Result{})
	if err != nil {
		t.Fatal(err)
	}
	out := string(svg)
	if strings.Contains(out, `class="node`) {
		t.Error("empty result rendered nodes")
	}
	if !strings.Contains(out, `transform="translate(0 0) scale(1)"`) {
		t.Error("empty result should keep the identity transform")
	}
}

func TestRenderSVGHighlight(t *testing.T) {
	svg, err := RenderSVG(skillTree(), WithHighlight("combo"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(svg), " highlight\""); got != 2 {
		t.Errorf("highlighted paths = %d, want 2", got)
	}
}

func TestRenderSVGPopups(t *testing.T) {
	svg, err := RenderSVG(skillTree(), WithPopups())
	if err != nil {
		t.Fatal(err)
	}
	out := string(svg)
	for _, want := range []string{
		`class="popup" data-for="strike"`,
		`>A basic attack.</text>`,
		`>requires: strike, guard</text>`,
		`>state: locked</text>`,
		`.popup[visibility="visible"]`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestRenderSVGEscapesAndLinks(t *testing.T) {
	records := []tree.Record{{ID: "a&b", Payload: map[string]any{"url": "https://example.com/?a=1&b=2"}}}
	svg, err := RenderSVG(tree.New().Layout(records, nil))
	if err != nil {
		t.Fatal(err)
	}
	out := string(svg)
	if !strings.Contains(out, `id="node-a&amp;b"`) {
		t.Error("node id not escaped")
	}
	if !strings.Contains(out, `<a href="https://example.com/?a=1&amp;b=2" target="_blank">`) {
		t.Error("url link missing or unescaped")
	}
}

func TestRenderSVGStatesAndPalette(t *testing.T) {
	cfg := connector.DefaultConfig()
	cfg.Palette = connector.Palette{connector.Equipped: "#123456"}
	states := connector.StaticStates(map[string]connector.State{"strike": connector.Equipped})

	svg, err := RenderSVG(skillTree(), WithConnectorConfig(cfg), WithStates(states))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`stroke="#123456"`)) {
		t.Error("custom palette colour not used for the equipped node")
	}
}

func TestRenderSVGBadPathStyle(t *testing.T) {
	cfg := connector.DefaultConfig()
	cfg.Path = "zigzag"
	if _, err := RenderSVG(skillTree(), WithConnectorConfig(cfg)); err == nil {
		t.Error("expected error for unknown path style")
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		label string
		w     float64
		size  float64
		want  string
	}{
		{"short", 80, 12, "short"},
		{"a very long skill name", 80, 12, "a very l.."},
		{"ab", 1, 12, "ab"},
		{"abcdef", 1, 12, "a.."},
		{"ÄÖÜäöüßéèê", 40, 12, "ÄÖÜ.."},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.label, tt.w, tt.size); got != tt.want {
			t.Errorf("TruncateLabel(%q, %v, %v) = %q, want %q", tt.label, tt.w, tt.size, got, tt.want)
		}
	}
}

func TestFontSize(t *testing.T) {
	if got := FontSize(80, 80, 1); got != fontSizeMax {
		t.Errorf("short label = %v, want max %v", got, fontSizeMax)
	}
	if got := FontSize(80, 80, 200); got != fontSizeMin {
		t.Errorf("long label = %v, want min %v", got, fontSizeMin)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestConvert(t *testing.T) {
	svg := []byte("<svg/>")
	out, err := Convert(context.Background(), svg, FormatSVG, 0)
	if err != nil || !bytes.Equal(out, svg) {
		t.Errorf("svg passthrough = %q, %v", out, err)
	}
	if _, err := Convert(context.Background(), svg, "gif", 1); err == nil {
		t.Error("expected error for unsupported format")
	}

	old := converterBin
	converterBin = "skilltree-no-such-converter"
	defer func() { converterBin = old }()
	if _, err := ToPDF(svg); err == nil || !strings.Contains(err.Error(), "librsvg") {
		t.Errorf("err = %v, want librsvg hint", err)
	}
}
