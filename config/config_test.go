package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	if cfg.Simulation.ParticleCount != 3000 {
		t.Errorf("ParticleCount = %d, want 3000", cfg.Simulation.ParticleCount)
	}
	if cfg.Simulation.Palette != "Nebula" {
		t.Errorf("Palette = %q, want Nebula", cfg.Simulation.Palette)
	}
	if len(cfg.Presets) != 5 {
		t.Errorf("got %d presets, want 5", len(cfg.Presets))
	}
	if got := cfg.Derived.PaletteNames[0]; got != "Nebula" {
		t.Errorf("first palette = %q, want Nebula", got)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeFile(t, "simulation:\n  particle_count: 42\n  palette: Aurora\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.ParticleCount != 42 || cfg.Simulation.Palette != "Aurora" {
		t.Errorf("override not applied: %+v", cfg.Simulation)
	}
	if cfg.Simulation.FlowScale != 0.005 {
		t.Errorf("FlowScale = %v, want default 0.005", cfg.Simulation.FlowScale)
	}
	if len(cfg.Palettes["Nebula"]) == 0 {
		t.Error("default palettes lost after merge")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"empty palette", "palettes:\n  Empty: []\nsimulation:\n  palette: Empty\n", ErrEmptyPalette},
		{"unknown palette", "simulation:\n  palette: Nope\n", ErrUnknownPalette},
		{"zero flow scale", "simulation:\n  flow_scale: 0\n", nil},
		{"fade above one", "simulation:\n  fade_rate: 1.5\n", nil},
		{"negative radius", "simulation:\n  interaction_radius: -1\n", nil},
		{"zero width", "screen:\n  width: 0\n", nil},
		{"negative height", "screen:\n  height: -5\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error %v does not wrap %v", err, tt.want)
			}
		})
	}
}

func TestZeroParticlesIsValid(t *testing.T) {
	if _, err := Load(writeFile(t, "simulation:\n  particle_count: 0\n")); err != nil {
		t.Errorf("zero particles rejected: %v", err)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	radius := cfg.Simulation.InteractionRadius

	if err := cfg.ApplyPreset("Cyberpunk"); err != nil {
		t.Fatal(err)
	}
	sim := cfg.Simulation
	if sim.Palette != "Cyberpunk" || sim.BaseSpeed != 4 || sim.FlowScale != 0.01 ||
		sim.InteractionStrength != 10 || sim.FadeRate != 0.15 {
		t.Errorf("preset fields not applied: %+v", sim)
	}
	if sim.InteractionRadius != radius {
		t.Errorf("InteractionRadius changed to %v", sim.InteractionRadius)
	}

	// Nebula restores the default look after a preset that changed count and fade.
	if err := cfg.ApplyPreset("Aurora"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.ApplyPreset("Nebula"); err != nil {
		t.Fatal(err)
	}
	sim = cfg.Simulation
	if sim.ParticleCount != 3000 || sim.FadeRate != 0.08 ||
		sim.InteractionRadius != 150 || sim.InteractionStrength != 5 {
		t.Errorf("Nebula after Aurora: count=%d fade=%v radius=%v strength=%v, want 3000 0.08 150 5",
			sim.ParticleCount, sim.FadeRate, sim.InteractionRadius, sim.InteractionStrength)
	}

	if err := cfg.ApplyPreset("Missing"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("got %v, want ErrUnknownPreset", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Simulation.ParticleCount = 777
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Simulation.ParticleCount != 777 {
		t.Errorf("ParticleCount = %d, want 777", back.Simulation.ParticleCount)
	}
}
