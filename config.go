package loupe

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Default tuning constants.
const (
	DefaultMinScale               = 0.25
	DefaultMaxScale               = 5.0
	DefaultZoomStep               = 0.25
	DefaultDoubleActivationWindow = 300 * time.Millisecond
	DefaultDoubleTapTargetScale   = 2.0
)

// ErrInvalidConfig is returned (wrapped) when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the viewport bounds and gesture tuning. Zero fields fall back
// to the defaults when passed to NewController.
type Config struct {
	// MinScale and MaxScale bound the zoom level. 1 must lie within them.
	MinScale float64 `envconfig:"MIN_SCALE" default:"0.25"`
	MaxScale float64 `envconfig:"MAX_SCALE" default:"5"`
	// ZoomStep is the scale delta of one wheel notch or zoom button press.
	ZoomStep float64 `envconfig:"ZOOM_STEP" default:"0.25"`
	// DoubleActivationWindow is the exclusive upper bound between two
	// clicks/taps that form a double-activation.
	DoubleActivationWindow time.Duration `envconfig:"DOUBLE_ACTIVATION_WINDOW" default:"300ms"`
	// DoubleTapTargetScale is the fixed inspect zoom a double-activation
	// jumps to from native size or below.
	DoubleTapTargetScale float64 `envconfig:"DOUBLE_TAP_TARGET_SCALE" default:"2"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		MinScale:               DefaultMinScale,
		MaxScale:               DefaultMaxScale,
		ZoomStep:               DefaultZoomStep,
		DoubleActivationWindow: DefaultDoubleActivationWindow,
		DoubleTapTargetScale:   DefaultDoubleTapTargetScale,
	}
}

// LoadConfig reads a Config from the environment. With prefix "loupe" the
// variables are LOUPE_MIN_SCALE, LOUPE_MAX_SCALE, LOUPE_ZOOM_STEP,
// LOUPE_DOUBLE_ACTIVATION_WINDOW and LOUPE_DOUBLE_TAP_TARGET_SCALE.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
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
	if c.DoubleActivationWindow == 0 {
		c.DoubleActivationWindow = d.DoubleActivationWindow
	}
	if c.DoubleTapTargetScale == 0 {
		c.DoubleTapTargetScale = d.DoubleTapTargetScale
	}
	return c
}

// Validate reports whether the configuration can hold the viewport
// invariants. Reset always returns to scale 1, so 1 must be in range.
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"min scale", c.MinScale},
		{"max scale", c.MaxScale},
		{"zoom step", c.ZoomStep},
		{"double tap target scale", c.DoubleTapTargetScale},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidConfig, f.name, f.v)
		}
	}
	if c.MinScale > 1 || c.MaxScale < 1 {
		return fmt.Errorf("%w: scale range [%v, %v] must contain 1", ErrInvalidConfig, c.MinScale, c.MaxScale)
	}
	if c.DoubleActivationWindow <= 0 {
		return fmt.Errorf("%w: double activation window must be positive, got %v", ErrInvalidConfig, c.DoubleActivationWindow)
	}
	return nil
}
