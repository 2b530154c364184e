package viewport

import (
	"math"
	"time"
)

// Defaults used when a Config field is zero.
const (
	DefaultMinScale           = 0.25
	DefaultMaxScale           = 3.0
	DefaultZoomStep           = 0.2
	DefaultTransitionDuration = 300 * time.Millisecond
)

// Wheel zoom factors per notch.
const (
	WheelZoomOut = 0.9
	WheelZoomIn  = 1.1
)

// Config holds the viewport constants.
type Config struct {
	MinScale float64 `json:"minScale" toml:"min_scale" yaml:"min_scale" validate:"gt=0"`
	MaxScale float64 `json:"maxScale" toml:"max_scale" yaml:"max_scale" validate:"gtefield=MinScale"`
	ZoomStep float64 `json:"zoomStep" toml:"zoom_step" yaml:"zoom_step" validate:"gt=0,lt=1"`
	// TransitionDuration is how long programmatic moves animate. Negative
	// disables transitions.
	TransitionDuration time.Duration `json:"transitionDuration" toml:"transition_duration" yaml:"transition_duration"`
}

// DefaultConfig returns the production viewport constants.
func DefaultConfig() Config {
	return Config{
		MinScale:           DefaultMinScale,
		MaxScale:           DefaultMaxScale,
		ZoomStep:           DefaultZoomStep,
		TransitionDuration: DefaultTransitionDuration,
	}
}

// WithDefaults fills zero-valued fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.MinScale == 0 {
		c.MinScale = d.MinScale
	}
	if c.MaxScale == 0 {
		c.MaxScale = d.MaxScale
	}
	if c.ZoomStep == 0 {
		c.ZoomStep = d.ZoomStep
	}
	if c.TransitionDuration == 0 {
		c.TransitionDuration = d.TransitionDuration
	}
	return c
}

// Clamp limits s to [MinScale, MaxScale].
func (c Config) Clamp(s float64) float64 {
	return math.Max(c.MinScale, math.Min(c.MaxScale, s))
}
