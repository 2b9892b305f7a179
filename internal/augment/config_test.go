package augment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.RotationRange != 10 {
		t.Errorf("RotationRange: got %g, want 10", cfg.RotationRange)
	}
	if cfg.ScaleMin != 0.9 || cfg.ScaleMax != 1.1 {
		t.Errorf("scale range: got [%g, %g], want [0.9, 1.1]", cfg.ScaleMin, cfg.ScaleMax)
	}
	if cfg.BrightnessMin != 0.85 || cfg.BrightnessMax != 1.15 {
		t.Errorf("brightness range: got [%g, %g], want [0.85, 1.15]", cfg.BrightnessMin, cfg.BrightnessMax)
	}
	if cfg.FlipProb != 0.5 {
		t.Errorf("FlipProb: got %g, want 0.5", cfg.FlipProb)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative rotation", func(c *Config) { c.RotationRange = -1 }},
		{"zero scale min", func(c *Config) { c.ScaleMin = 0 }},
		{"inverted scale range", func(c *Config) { c.ScaleMin, c.ScaleMax = 1.2, 0.8 }},
		{"inverted brightness range", func(c *Config) { c.BrightnessMin, c.BrightnessMax = 1.5, 0.5 }},
		{"negative contrast", func(c *Config) { c.ContrastMin = -0.1 }},
		{"flip prob above one", func(c *Config) { c.FlipProb = 1.01 }},
		{"negative flip prob", func(c *Config) { c.FlipProb = -0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "augment.yaml")
	content := []byte("rotation_range: 5\nhorizontal_flip_prob: 0\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.RotationRange != 5 {
		t.Errorf("RotationRange: got %g, want 5", cfg.RotationRange)
	}
	if cfg.FlipProb != 0 {
		t.Errorf("FlipProb: got %g, want 0", cfg.FlipProb)
	}
	// Fields absent from the file keep their defaults.
	if cfg.ScaleMin != 0.9 || cfg.ScaleMax != 1.1 {
		t.Errorf("scale range: got [%g, %g], want defaults", cfg.ScaleMin, cfg.ScaleMax)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig accepted a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("rotation_range: -3\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("LoadConfig accepted an invalid range")
	}

	garbage := filepath.Join(t.TempDir(), "garbage.yaml")
	if err := os.WriteFile(garbage, []byte("{not yaml"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(garbage); err == nil {
		t.Error("LoadConfig accepted malformed YAML")
	}
}
