// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Validation errors.
var (
	ErrEmptyPalette   = errors.New("palette has no colors")
	ErrUnknownPalette = errors.New("unknown palette")
	ErrUnknownPreset  = errors.New("unknown preset")
)

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig        `yaml:"screen"`
	Simulation SimulationConfig    `yaml:"simulation"`
	Noise      NoiseConfig         `yaml:"noise"`
	Terminal   TerminalConfig      `yaml:"terminal"`
	Telemetry  TelemetryConfig     `yaml:"telemetry"`
	Palettes   map[string][]string `yaml:"palettes"`
	Presets    []PresetConfig      `yaml:"presets"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Background string `yaml:"background"` // Hex color used by the trail fade
}

// SimulationConfig holds the parameters read by the simulation every frame.
// The simulation never mutates it; changes are applied between frames.
type SimulationConfig struct {
	ParticleCount       int     `yaml:"particle_count"`
	BaseSpeed           float64 `yaml:"base_speed"`           // Flow force magnitude
	FlowScale           float64 `yaml:"flow_scale"`           // Spatial frequency of noise sampling
	FadeRate            float64 `yaml:"fade_rate"`            // Alpha of the per-frame trail overdraw, (0,1]
	InteractionRadius   float64 `yaml:"interaction_radius"`   // Pointer influence cutoff
	InteractionStrength float64 `yaml:"interaction_strength"` // Pointer force magnitude
	Palette             string  `yaml:"palette"`              // Key into Config.Palettes

	Workers         int  `yaml:"workers"`           // Particle update goroutines (<=1 = single-threaded)
	HistoryLength   int  `yaml:"history_length"`    // Positions kept per particle (0 = none)
	RespawnOnExpiry bool `yaml:"respawn_on_expiry"` // Respawn particles when age reaches lifeSpan
}

// NoiseConfig selects the flow noise implementation.
type NoiseConfig struct {
	Backend string `yaml:"backend"` // "simplex", "opensimplex" or "perlin"
	Seed    int64  `yaml:"seed"`    // 0 = time-based
}

// TerminalConfig holds terminal front end settings.
type TerminalConfig struct {
	FPS int `yaml:"fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Frames averaged by the perf collector
}

// PresetConfig is a named partial override of SimulationConfig.
// Nil fields leave the current value untouched.
type PresetConfig struct {
	Name                string   `yaml:"name"`
	Palette             *string  `yaml:"palette,omitempty"`
	ParticleCount       *int     `yaml:"particle_count,omitempty"`
	BaseSpeed           *float64 `yaml:"base_speed,omitempty"`
	FlowScale           *float64 `yaml:"flow_scale,omitempty"`
	FadeRate            *float64 `yaml:"fade_rate,omitempty"`
	InteractionRadius   *float64 `yaml:"interaction_radius,omitempty"`
	InteractionStrength *float64 `yaml:"interaction_strength,omitempty"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	PaletteNames []string // Palette names in preset order, then any extras sorted
	PresetIndex  map[string]int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
// A particle count of zero or less is allowed and yields an empty field.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if err := c.Simulation.Validate(c.Palettes); err != nil {
		return err
	}
	for _, p := range c.Presets {
		if p.Palette == nil {
			continue
		}
		if _, ok := c.Palettes[*p.Palette]; !ok {
			return fmt.Errorf("preset %q: %w %q", p.Name, ErrUnknownPalette, *p.Palette)
		}
	}
	return nil
}

// Validate checks the simulation parameters against the available palettes.
func (s SimulationConfig) Validate(palettes map[string][]string) error {
	colors, ok := palettes[s.Palette]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownPalette, s.Palette)
	}
	if len(colors) == 0 {
		return fmt.Errorf("palette %q: %w", s.Palette, ErrEmptyPalette)
	}
	if s.FlowScale <= 0 {
		return fmt.Errorf("flow_scale must be positive, got %g", s.FlowScale)
	}
	if s.FadeRate <= 0 || s.FadeRate > 1 {
		return fmt.Errorf("fade_rate must be in (0,1], got %g", s.FadeRate)
	}
	if s.InteractionRadius < 0 {
		return fmt.Errorf("interaction_radius must not be negative, got %g", s.InteractionRadius)
	}
	if s.InteractionStrength < 0 {
		return fmt.Errorf("interaction_strength must not be negative, got %g", s.InteractionStrength)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.PresetIndex = make(map[string]int, len(c.Presets))
	c.Derived.PaletteNames = c.Derived.PaletteNames[:0]
	seen := make(map[string]bool, len(c.Palettes))
	for i, p := range c.Presets {
		c.Derived.PresetIndex[p.Name] = i
		if p.Palette != nil && !seen[*p.Palette] {
			seen[*p.Palette] = true
			c.Derived.PaletteNames = append(c.Derived.PaletteNames, *p.Palette)
		}
	}
	var extra []string
	for name := range c.Palettes {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	c.Derived.PaletteNames = append(c.Derived.PaletteNames, extra...)

	if c.Terminal.FPS <= 0 {
		c.Terminal.FPS = 30
	}
	if c.Screen.TargetFPS <= 0 {
		c.Screen.TargetFPS = 60
	}
	if c.Screen.Background == "" {
		c.Screen.Background = "#000000"
	}
}

// PaletteColors returns the colors of the named palette.
func (c *Config) PaletteColors(name string) ([]string, error) {
	colors, ok := c.Palettes[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPalette, name)
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("palette %q: %w", name, ErrEmptyPalette)
	}
	return colors, nil
}

// Preset returns the named preset.
func (c *Config) Preset(name string) (PresetConfig, error) {
	i, ok := c.Derived.PresetIndex[name]
	if !ok {
		return PresetConfig{}, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	return c.Presets[i], nil
}

// Apply returns sim with the preset's fields overlaid.
func (p PresetConfig) Apply(sim SimulationConfig) SimulationConfig {
	if p.Palette != nil {
		sim.Palette = *p.Palette
	}
	if p.ParticleCount != nil {
		sim.ParticleCount = *p.ParticleCount
	}
	if p.BaseSpeed != nil {
		sim.BaseSpeed = *p.BaseSpeed
	}
	if p.FlowScale != nil {
		sim.FlowScale = *p.FlowScale
	}
	if p.FadeRate != nil {
		sim.FadeRate = *p.FadeRate
	}
	if p.InteractionRadius != nil {
		sim.InteractionRadius = *p.InteractionRadius
	}
	if p.InteractionStrength != nil {
		sim.InteractionStrength = *p.InteractionStrength
	}
	return sim
}

// ApplyPreset overlays the named preset onto the simulation section.
func (c *Config) ApplyPreset(name string) error {
	p, err := c.Preset(name)
	if err != nil {
		return err
	}
	next := p.Apply(c.Simulation)
	if err := next.Validate(c.Palettes); err != nil {
		return fmt.Errorf("applying preset %q: %w", name, err)
	}
	c.Simulation = next
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
