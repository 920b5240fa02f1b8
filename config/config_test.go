package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.World.Width != 1000 || cfg.World.Height != 1000 {
		t.Errorf("expected 1000x1000 world, got %dx%d", cfg.World.Width, cfg.World.Height)
	}
	if cfg.World.EvaporateRate != 0.99 {
		t.Errorf("expected evaporate_rate 0.99, got %v", cfg.World.EvaporateRate)
	}
	if cfg.Colony.InitialAnts != 30 {
		t.Errorf("expected 30 initial ants, got %d", cfg.Colony.InitialAnts)
	}
	if cfg.Derived.EvictionDistance != 460 {
		t.Errorf("expected eviction distance 460, got %v", cfg.Derived.EvictionDistance)
	}
	if cfg.Derived.TrailRadius != 4 {
		t.Errorf("expected trail radius 4, got %d", cfg.Derived.TrailRadius)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("world:\n  width: 400\ncolony:\n  initial_ants: 5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}
	if cfg.World.Width != 400 {
		t.Errorf("expected overridden width 400, got %d", cfg.World.Width)
	}
	if cfg.World.Height != 1000 {
		t.Errorf("expected default height 1000, got %d", cfg.World.Height)
	}
	if cfg.Colony.InitialAnts != 5 {
		t.Errorf("expected 5 initial ants, got %d", cfg.Colony.InitialAnts)
	}
	if cfg.Derived.EvictionDistance != 160 {
		t.Errorf("expected eviction distance from min dimension 160, got %v", cfg.Derived.EvictionDistance)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"chaotic constant", func(c *Config) { c.Colony.ChaoticConstant = 4.2 }},
		{"evaporate one", func(c *Config) { c.World.EvaporateRate = 1 }},
		{"evaporate zero", func(c *Config) { c.World.EvaporateRate = 0 }},
		{"noise mix", func(c *Config) { c.Colony.NoiseMix = 1.5 }},
		{"empty world", func(c *Config) { c.World.Width = 0 }},
		{"logistic scale", func(c *Config) { c.Perception.LogisticScale = 2 }},
		{"sniff radius", func(c *Config) { c.Colony.SniffRadius = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Colony.NoiseMix = 0.25

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if loaded.Colony.NoiseMix != 0.25 {
		t.Errorf("expected noise_mix 0.25 after reload, got %v", loaded.Colony.NoiseMix)
	}
}
