package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/skilltree/pkg/connector"
	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/tree"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Strategy != tree.DefaultStrategy {
		t.Errorf("Strategy = %q", c.Strategy)
	}
	if c.Layout != tree.DefaultConfig() {
		t.Errorf("Layout = %+v", c.Layout)
	}
	if c.Viewport != viewport.DefaultConfig() {
		t.Errorf("Viewport = %+v", c.Viewport)
	}
	if c.Canvas.Width != DefaultCanvasWidth || c.Canvas.Padding != DefaultCanvasPadding {
		t.Errorf("Canvas = %+v", c.Canvas)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "skilltree.toml", `
strategy = "tidy"

[layout]
node_width = 100
level_height = 160

[viewport]
max_scale = 4
transition_duration = "150ms"

[connector]
path = "step"

[connector.palette]
owned = "#00ff00"

[canvas]
width = 640
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Strategy != tree.StrategyTidy {
		t.Errorf("Strategy = %q", c.Strategy)
	}
	if c.Layout.NodeWidth != 100 || c.Layout.NodeHeight != tree.DefaultNodeHeight {
		t.Errorf("Layout = %+v", c.Layout)
	}
	if c.Viewport.MaxScale != 4 || c.Viewport.MinScale != viewport.DefaultMinScale {
		t.Errorf("Viewport = %+v", c.Viewport)
	}
	if c.Viewport.TransitionDuration != 150*time.Millisecond {
		t.Errorf("TransitionDuration = %v", c.Viewport.TransitionDuration)
	}
	if c.Connector.Path != connector.Step {
		t.Errorf("Path = %q", c.Connector.Path)
	}
	if c.Connector.NodeWidth != 100 {
		t.Errorf("connector NodeWidth = %v, want layout width 100", c.Connector.NodeWidth)
	}
	if c.Connector.Palette.Color(connector.Owned) != "#00ff00" {
		t.Errorf("owned colour = %q", c.Connector.Palette.Color(connector.Owned))
	}
	if c.Connector.Palette.Color(connector.Locked) != connector.DefaultPalette()[connector.Locked] {
		t.Error("locked colour should fall back to default palette")
	}
	if c.Canvas.Width != 640 || c.Canvas.Height != DefaultCanvasHeight {
		t.Errorf("Canvas = %+v", c.Canvas)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "skilltree.yaml", `
strategy: columns
viewport:
  min_scale: 0.5
  transition_duration: 1s
canvas:
  padding: 10
`)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Viewport.MinScale != 0.5 || c.Viewport.TransitionDuration != time.Second {
		t.Errorf("Viewport = %+v", c.Viewport)
	}
	if c.Canvas.Padding != 10 {
		t.Errorf("Padding = %v", c.Canvas.Padding)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode errors.Code
		wantMsg  string
	}{
		{
			name:     "UnknownExtension",
			file:     "c.ini",
			content:  "x=1",
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name:     "Malformed",
			file:     "c.toml",
			content:  "strategy = ",
			wantCode: errors.ErrCodeInvalidConfig,
		},
		{
			name:     "UnknownStrategy",
			file:     "c.toml",
			content:  `strategy = "force"`,
			wantCode: errors.ErrCodeInvalidConfig,
			wantMsg:  "Strategy",
		},
		{
			name:     "MaxBelowMin",
			file:     "c.yaml",
			content:  "viewport:\n  min_scale: 2\n  max_scale: 1\n",
			wantCode: errors.ErrCodeInvalidConfig,
			wantMsg:  "Viewport.MaxScale",
		},
		{
			name:     "NegativeScale",
			file:     "c.yaml",
			content:  "viewport:\n  min_scale: -1\n",
			wantCode: errors.ErrCodeInvalidConfig,
			wantMsg:  "MinScale",
		},
		{
			name:     "BadPathStyle",
			file:     "c.toml",
			content:  "[connector]\npath = \"zigzag\"\n",
			wantCode: errors.ErrCodeInvalidConfig,
			wantMsg:  "Connector.Path",
		},
		{
			name:     "UnknownPaletteState",
			file:     "c.toml",
			content:  "[connector.palette]\nglowing = \"#fff\"\n",
			wantCode: errors.ErrCodeInvalidConfig,
			wantMsg:  "glowing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("code = %s, want %s (%v)", errors.GetCode(err), tt.wantCode, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %v, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault("")
	if err != nil {
		t.Fatal(err)
	}
	d := Default()
	if c.Layout != d.Layout || c.Viewport != d.Viewport || c.Canvas != d.Canvas || c.Strategy != d.Strategy {
		t.Error("empty path should return defaults")
	}
}
