package systems

import (
	"math"
	"math/rand"
)

// Lifespan bounds in frames, [min, max).
const (
	MinLifeSpan = 100
	MaxLifeSpan = 300
)

// Render size bounds in surface units.
const (
	MinParticleSize = 1.0
	MaxParticleSize = 3.0
)

// Point is a past particle position.
type Point struct {
	X, Y float64
}

// Particle is a single flow-field tracer.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Color  string

	Age      int
	LifeSpan int

	// History holds recent positions, oldest first.
	// Stays empty unless the system is configured with a history length.
	History []Point
}

// SpawnParticle creates a particle at a uniform position within width x height.
func SpawnParticle(rng *rand.Rand, width, height float64, palette []string) Particle {
	return Particle{
		X:        rng.Float64() * width,
		Y:        rng.Float64() * height,
		Color:    palette[rng.Intn(len(palette))],
		LifeSpan: MinLifeSpan + rng.Intn(MaxLifeSpan-MinLifeSpan),
	}
}

// Respawn moves the particle to a new uniform position and resets its age and history.
// Velocity and color carry over.
func (p *Particle) Respawn(rng *rand.Rand, width, height float64) {
	p.X = rng.Float64() * width
	p.Y = rng.Float64() * height
	p.History = p.History[:0]
	p.Age = 0
}

// Speed returns the velocity magnitude.
func (p *Particle) Speed() float64 {
	return math.Sqrt(p.VX*p.VX + p.VY*p.VY)
}

// Size returns the draw radius: half the speed, clamped to [1, 3].
func (p *Particle) Size() float64 {
	return clamp(p.Speed()*0.5, MinParticleSize, MaxParticleSize)
}

// record appends the current position to history, keeping at most n entries.
func (p *Particle) record(n int) {
	if n <= 0 {
		p.History = p.History[:0]
		return
	}
	if len(p.History) >= n {
		copy(p.History, p.History[len(p.History)-n+1:])
		p.History = p.History[:n-1]
	}
	p.History = append(p.History, Point{X: p.X, Y: p.Y})
}
