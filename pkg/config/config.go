// Package config loads skilltree settings from TOML or YAML files.
//
// A config file groups the layout, viewport and connector constants plus the
// canvas used by hosts that render a standalone document:
//
//	strategy = "columns"
//
//	[layout]
//	node_width = 80
//	level_height = 140
//
//	[viewport]
//	min_scale = 0.25
//	max_scale = 3
//	transition_duration = "300ms"
//
//	[connector]
//	path = "bezier"
//	[connector.palette]
//	owned = "#27ae60"
//
//	[canvas]
//	width = 1200
//	height = 800
//	padding = 40
//
// Zero fields fall back to the package defaults; the result is validated
// before it is returned.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/skilltree/pkg/connector"
	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/tree"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

// Canvas defaults.
const (
	DefaultCanvasWidth   = 1200.0
	DefaultCanvasHeight  = 800.0
	DefaultCanvasPadding = 40.0
)

var validate = validator.New()

// Canvas is the host viewport in screen pixels.
type Canvas struct {
	Width   float64 `json:"width" toml:"width" yaml:"width" validate:"gt=0"`
	Height  float64 `json:"height" toml:"height" yaml:"height" validate:"gt=0"`
	Padding float64 `json:"padding" toml:"padding" yaml:"padding" validate:"gte=0"`
}

// Config is the full set of tunables.
type Config struct {
	Strategy  string           `json:"strategy" toml:"strategy" yaml:"strategy" validate:"omitempty,oneof=tidy columns"`
	Layout    tree.Config      `json:"layout" toml:"layout" yaml:"layout"`
	Viewport  viewport.Config  `json:"viewport" toml:"viewport" yaml:"viewport"`
	Connector connector.Config `json:"connector" toml:"connector" yaml:"connector"`
	Canvas    Canvas           `json:"canvas" toml:"canvas" yaml:"canvas"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{}.WithDefaults()
}

// WithDefaults fills zero fields. The connector node size follows the
// layout node size unless set explicitly.
func (c Config) WithDefaults() Config {
	if c.Strategy == "" {
		c.Strategy = tree.DefaultStrategy
	}
	c.Layout = c.Layout.WithDefaults()
	c.Viewport = c.Viewport.WithDefaults()
	if c.Connector.NodeWidth == 0 {
		c.Connector.NodeWidth = c.Layout.NodeWidth
	}
	if c.Connector.NodeHeight == 0 {
		c.Connector.NodeHeight = c.Layout.NodeHeight
	}
	c.Connector = c.Connector.WithDefaults()
	if c.Canvas.Width == 0 {
		c.Canvas.Width = DefaultCanvasWidth
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = DefaultCanvasHeight
	}
	if c.Canvas.Padding == 0 {
		c.Canvas.Padding = DefaultCanvasPadding
	}
	return c
}

// Validate checks struct constraints and returns the first violation as an
// INVALID_CONFIG error.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	for state := range c.Connector.Palette {
		if connector.ParseState(string(state)) != state {
			return errors.New(errors.ErrCodeInvalidConfig, "connector.palette: unknown state %q", state)
		}
	}
	return nil
}

// Load reads a config file, picking the decoder from the extension
// (.toml, .yaml, .yml). Defaults are applied before validation.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadOrDefault returns Default when path is empty and Load otherwise.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Config.")
	if e.Param() != "" {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: failed %s=%s (got %v)", field, e.Tag(), e.Param(), e.Value())
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s: failed %s (got %v)", field, e.Tag(), e.Value())
}
