// Package systems implements the flow field simulation: noise, particles and the per-frame integrator.
package systems

import (
	"math"
	"math/rand"
	"slices"

	"github.com/pthm-cable/flux/config"
)

// Fixed integrator constants.
const (
	TimeStep       = 0.005 // Elapsed-time increment per frame
	timeDrift      = 0.1   // Elapsed time multiplier on the noise y coordinate
	angleRange     = math.Pi * 4
	forceDamping   = 0.1
	friction       = 0.9
	pointerDamping = 0.5
)

// FlowFieldSystem owns the particle population and moves it through the flow field.
// It is the only writer of particle state.
type FlowFieldSystem struct {
	Particles []Particle

	rng     *rand.Rand
	elapsed float64
	pool    *workerPool

	historyLength   int
	respawnOnExpiry bool

	// Counters from the most recent Step
	wraps     int
	respawned int
}

// NewFlowFieldSystem creates an empty system. Call ResizePopulation to populate it.
func NewFlowFieldSystem(rng *rand.Rand) *FlowFieldSystem {
	return &FlowFieldSystem{
		Particles: make([]Particle, 0, 1024),
		rng:       rng,
	}
}

// Configure applies the settings that shape how Step runs rather than what it computes.
func (s *FlowFieldSystem) Configure(cfg config.SimulationConfig) {
	s.historyLength = max(cfg.HistoryLength, 0)
	s.respawnOnExpiry = cfg.RespawnOnExpiry

	workers := cfg.Workers
	if workers <= 1 {
		s.Close()
		return
	}
	if s.pool != nil && s.pool.numWorkers == workers {
		return
	}
	s.Close()
	s.pool = newWorkerPool(workers)
}

// Close stops any worker goroutines.
func (s *FlowFieldSystem) Close() {
	if s.pool != nil {
		s.pool.stop()
		s.pool = nil
	}
}

// Elapsed returns the accumulated simulation time.
func (s *FlowFieldSystem) Elapsed() float64 {
	return s.elapsed
}

// AdvanceClock adds one frame's TimeStep and returns the new elapsed time.
func (s *FlowFieldSystem) AdvanceClock() float64 {
	s.elapsed += TimeStep
	return s.elapsed
}

// SetElapsed overrides the accumulated time.
func (s *FlowFieldSystem) SetElapsed(t float64) {
	s.elapsed = t
}

// Count returns the current population size.
func (s *FlowFieldSystem) Count() int {
	return len(s.Particles)
}

// LastWraps returns how many edge wraps the most recent Step performed.
func (s *FlowFieldSystem) LastWraps() int {
	return s.wraps
}

// LastRespawns returns how many particles the most recent Step respawned on expiry.
func (s *FlowFieldSystem) LastRespawns() int {
	return s.respawned
}

// ResizePopulation grows the population with freshly spawned particles or truncates it from the end.
// A negative target is treated as zero.
func (s *FlowFieldSystem) ResizePopulation(target int, width, height float64, palette []string) {
	target = max(target, 0)
	if n := len(s.Particles); n > target {
		clear(s.Particles[target:n])
		s.Particles = s.Particles[:target]
		return
	}
	if len(palette) == 0 {
		return
	}
	for len(s.Particles) < target {
		s.Particles = append(s.Particles, SpawnParticle(s.rng, width, height, palette))
	}
}

// Reinitialize replaces every particle with a fresh spawn, as after a surface resize.
func (s *FlowFieldSystem) Reinitialize(width, height float64, palette []string) {
	n := len(s.Particles)
	s.ResizePopulation(0, width, height, palette)
	s.ResizePopulation(n, width, height, palette)
}

// RecolorIfPaletteChanged gives a random palette color to every particle whose color
// is not in palette. Particles already using a palette color keep it.
func (s *FlowFieldSystem) RecolorIfPaletteChanged(palette []string) {
	if len(palette) == 0 {
		return
	}
	for i := range s.Particles {
		p := &s.Particles[i]
		if !slices.Contains(palette, p.Color) {
			p.Color = palette[s.rng.Intn(len(palette))]
		}
	}
}

// Step advances every particle by one tick.
// Updates are fully applied before Step returns, including when workers are used.
func (s *FlowFieldSystem) Step(cfg config.SimulationConfig, pointer PointerState, width, height float64, noise NoiseField, elapsed float64) {
	s.wraps = 0
	s.respawned = 0
	if width <= 0 || height <= 0 || noise == nil {
		return
	}

	k := kernel{
		cfg:           cfg,
		pointer:       pointer,
		width:         width,
		height:        height,
		noise:         noise,
		elapsed:       elapsed,
		historyLength: s.historyLength,
	}

	n := len(s.Particles)
	if s.pool == nil || n < parallelThreshold {
		s.wraps = k.run(s.Particles)
	} else {
		s.wraps = s.pool.run(n, func(start, end int) int {
			return k.run(s.Particles[start:end])
		})
	}

	// Aging touches the shared rng, so it stays on the calling goroutine.
	for i := range s.Particles {
		p := &s.Particles[i]
		p.Age++
		if s.respawnOnExpiry && p.Age >= p.LifeSpan {
			p.Respawn(s.rng, width, height)
			s.respawned++
		}
	}
}

// kernel is the per-particle update with its frame inputs bound.
type kernel struct {
	cfg           config.SimulationConfig
	pointer       PointerState
	width, height float64
	noise         NoiseField
	elapsed       float64
	historyLength int
}

// run updates particles in place and returns the number of edge wraps.
func (k *kernel) run(particles []Particle) int {
	wraps := 0
	for i := range particles {
		if k.update(&particles[i]) {
			wraps++
		}
	}
	return wraps
}

// update moves one particle and reports whether it wrapped.
func (k *kernel) update(p *Particle) bool {
	cfg := &k.cfg

	p.record(k.historyLength)

	// Flow force
	n := k.noise.Sample(p.X*cfg.FlowScale, p.Y*cfg.FlowScale+k.elapsed*timeDrift)
	angle := n * angleRange
	fx := math.Cos(angle) * cfg.BaseSpeed
	fy := math.Sin(angle) * cfg.BaseSpeed

	p.VX += fx * forceDamping
	p.VY += fy * forceDamping

	p.VX *= friction
	p.VY *= friction

	// Pointer attraction, linear falloff to zero at the radius.
	// A particle exactly under the pointer has no direction to move in.
	if k.pointer.Active {
		dx := k.pointer.X - p.X
		dy := k.pointer.Y - p.Y
		dist := distance(dx, dy)
		if dist > 0 && dist < cfg.InteractionRadius {
			force := (cfg.InteractionRadius - dist) / cfg.InteractionRadius
			scale := force * cfg.InteractionStrength * pointerDamping / dist
			p.VX += dx * scale
			p.VY += dy * scale
		}
	}

	p.X += p.VX
	p.Y += p.VY

	var wx, wy bool
	p.X, wx = wrapEdge(p.X, k.width)
	p.Y, wy = wrapEdge(p.Y, k.height)
	if wx || wy {
		p.History = p.History[:0]
		return true
	}
	return false
}
