package augment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the sampling ranges and probabilities for one augmentation
// pass. A Config is a plain value; callers should treat it as immutable once
// validated.
type Config struct {
	// RotationRange is the maximum rotation in degrees; angles are sampled
	// uniformly from [-RotationRange, RotationRange]. Zero disables rotation.
	RotationRange float64 `yaml:"rotation_range"`

	// ScaleMin and ScaleMax bound the uniform scale factor.
	ScaleMin float64 `yaml:"scale_min"`
	ScaleMax float64 `yaml:"scale_max"`

	// BrightnessMin and BrightnessMax bound the multiplicative brightness
	// factor (1.0 = unchanged).
	BrightnessMin float64 `yaml:"brightness_min"`
	BrightnessMax float64 `yaml:"brightness_max"`

	// ContrastMin and ContrastMax bound the contrast factor applied around
	// the image mean (1.0 = unchanged).
	ContrastMin float64 `yaml:"contrast_min"`
	ContrastMax float64 `yaml:"contrast_max"`

	// FlipProb is the probability of a horizontal flip.
	FlipProb float64 `yaml:"horizontal_flip_prob"`
}

// DefaultConfig returns the ranges the reference model was trained with.
func DefaultConfig() Config {
	return Config{
		RotationRange: 10,
		ScaleMin:      0.9,
		ScaleMax:      1.1,
		BrightnessMin: 0.85,
		BrightnessMax: 1.15,
		ContrastMin:   0.85,
		ContrastMax:   1.15,
		FlipProb:      0.5,
	}
}

// LoadConfig reads a YAML augmentation config. Fields not present in the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that every range is well-formed.
func (c Config) Validate() error {
	if c.RotationRange < 0 {
		return fmt.Errorf("rotation_range must be >= 0, got %g", c.RotationRange)
	}
	if c.ScaleMin <= 0 || c.ScaleMax < c.ScaleMin {
		return fmt.Errorf("invalid scale range [%g, %g]", c.ScaleMin, c.ScaleMax)
	}
	if c.BrightnessMin < 0 || c.BrightnessMax < c.BrightnessMin {
		return fmt.Errorf("invalid brightness range [%g, %g]", c.BrightnessMin, c.BrightnessMax)
	}
	if c.ContrastMin < 0 || c.ContrastMax < c.ContrastMin {
		return fmt.Errorf("invalid contrast range [%g, %g]", c.ContrastMin, c.ContrastMax)
	}
	if c.FlipProb < 0 || c.FlipProb > 1 {
		return fmt.Errorf("horizontal_flip_prob must be in [0, 1], got %g", c.FlipProb)
	}
	return nil
}
