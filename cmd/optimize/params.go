// Package main provides CMA-ES tuning of flow field parameters.
package main

import (
	"github.com/pthm-cable/flux/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Bounds match the control panel slider ranges.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "base_speed", Path: "simulation.base_speed", Min: 0.5, Max: 10, Default: 2},
			{Name: "flow_scale", Path: "simulation.flow_scale", Min: 0.001, Max: 0.02, Default: 0.005},
			{Name: "fade_rate", Path: "simulation.fade_rate", Min: 0.01, Max: 0.5, Default: 0.08},
			{Name: "particle_count", Path: "simulation.particle_count", Min: 500, Max: 5000, Default: 3000},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToSimulation writes clamped parameter values into sim.
// Order must match Specs order.
func (pv *ParamVector) ApplyToSimulation(sim *config.SimulationConfig, values []float64) {
	clamped := pv.Clamp(values)
	sim.BaseSpeed = clamped[0]
	sim.FlowScale = clamped[1]
	sim.FadeRate = clamped[2]
	sim.ParticleCount = int(clamped[3] + 0.5)
}

// ExtractFromSimulation reads the current parameter values from sim.
func (pv *ParamVector) ExtractFromSimulation(sim config.SimulationConfig) []float64 {
	return []float64{
		sim.BaseSpeed,
		sim.FlowScale,
		sim.FadeRate,
		float64(sim.ParticleCount),
	}
}
