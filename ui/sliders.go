package ui

import (
	"fmt"
	"math"

	"github.com/pthm-cable/flux/config"
)

// Slider describes one tunable simulation field.
type Slider struct {
	Label    string
	Min, Max float64
	Step     float64
	Format   string
	Get      func(*config.SimulationConfig) float64
	Set      func(*config.SimulationConfig, float64)
}

// Sliders are the simulation fields exposed in the control panel.
var Sliders = []Slider{
	{
		Label: "Speed", Min: 0.5, Max: 10, Step: 0.1, Format: "%.1f",
		Get: func(s *config.SimulationConfig) float64 { return s.BaseSpeed },
		Set: func(s *config.SimulationConfig, v float64) { s.BaseSpeed = v },
	},
	{
		Label: "Particles", Min: 500, Max: 5000, Step: 100, Format: "%.0f",
		Get: func(s *config.SimulationConfig) float64 { return float64(s.ParticleCount) },
		Set: func(s *config.SimulationConfig, v float64) { s.ParticleCount = int(math.Round(v)) },
	},
	{
		Label: "Flow scale", Min: 0.001, Max: 0.02, Step: 0.001, Format: "%.3f",
		Get: func(s *config.SimulationConfig) float64 { return s.FlowScale },
		Set: func(s *config.SimulationConfig, v float64) { s.FlowScale = v },
	},
	{
		Label: "Trail fade", Min: 0.01, Max: 0.5, Step: 0.01, Format: "%.2f",
		Get: func(s *config.SimulationConfig) float64 { return s.FadeRate },
		Set: func(s *config.SimulationConfig, v float64) { s.FadeRate = v },
	},
	{
		Label: "Force", Min: 0, Max: 50, Step: 1, Format: "%.0f",
		Get: func(s *config.SimulationConfig) float64 { return s.InteractionStrength },
		Set: func(s *config.SimulationConfig, v float64) { s.InteractionStrength = v },
	},
}

// Snap clamps v to the slider range and rounds it to the nearest step.
func (s Slider) Snap(v float64) float64 {
	v = math.Max(s.Min, math.Min(s.Max, v))
	if s.Step <= 0 {
		return v
	}
	steps := math.Round((v - s.Min) / s.Step)
	v = s.Min + steps*s.Step
	// Trim float noise from the step multiplication.
	v = math.Round(v*1e6) / 1e6
	return math.Min(v, s.Max)
}

// Text formats the slider's current value.
func (s Slider) Text(sim *config.SimulationConfig) string {
	return fmt.Sprintf(s.Format, s.Get(sim))
}

// Update writes the snapped v into sim when it is at least half a step from the
// current value, so off-step config values survive an untouched slider.
// It reports whether sim changed.
func (s Slider) Update(sim *config.SimulationConfig, v float64) bool {
	cur := s.Get(sim)
	if math.Abs(v-cur) < s.Step/2 {
		return false
	}
	v = s.Snap(v)
	if v == cur {
		return false
	}
	s.Set(sim, v)
	return true
}
