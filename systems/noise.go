package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Noise backends selectable from config.
const (
	NoiseSimplex     = "simplex"
	NoiseOpenSimplex = "opensimplex"
	NoisePerlin      = "perlin"
)

// Perlin octave parameters: weight falloff, frequency gain and octave count.
const (
	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 3
)

// ErrUnknownNoiseBackend is returned by NewNoiseField for an unsupported backend name.
var ErrUnknownNoiseBackend = errors.New("unknown noise backend")

// NoiseField produces a continuous scalar in [-1, 1] for any 2D coordinate.
type NoiseField interface {
	Sample(x, y float64) float64
}

// Skew and unskew factors for the 2D simplex grid.
var (
	f2 = 0.5 * (math.Sqrt(3) - 1)
	g2 = (3 - math.Sqrt(3)) / 6
)

// grad3 holds the 12 gradient directions; only x and y are used in 2D.
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// SimplexNoise generates 2D simplex gradient noise.
// The permutation table is fixed at construction and never written afterwards,
// so a single instance is safe for concurrent Sample calls.
type SimplexNoise struct {
	perm [512]uint8
}

// NewSimplexNoise creates a simplex noise generator with a permutation drawn from rng.
func NewSimplexNoise(rng *rand.Rand) *SimplexNoise {
	n := &SimplexNoise{}

	var perm [256]uint8
	for i := range perm {
		perm[i] = uint8(i)
	}

	// Shuffle
	for i := 0; i < 255; i++ {
		r := i + rng.Intn(256-i)
		perm[i], perm[r] = perm[r], perm[i]
	}

	// Duplicate so corner lookups never need to wrap
	for i := 0; i < 256; i++ {
		n.perm[i] = perm[i]
		n.perm[i+256] = perm[i]
	}

	return n
}

// Permutation returns a copy of the permutation table.
func (n *SimplexNoise) Permutation() [512]uint8 {
	return n.perm
}

// Sample returns the noise value at (x, y) in [-1, 1].
func (n *SimplexNoise) Sample(x, y float64) float64 {
	// Skew the input space to find the simplex cell
	s := (x + y) * f2
	i := int(math.Floor(x + s))
	j := int(math.Floor(y + s))

	t := float64(i+j) * g2
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)

	// Middle corner: lower triangle (1,0), upper triangle (0,1)
	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1 + 2*g2
	y2 := y0 - 1 + 2*g2

	ii := i & 255
	jj := j & 255
	gi0 := n.perm[ii+int(n.perm[jj])] % 12
	gi1 := n.perm[ii+i1+int(n.perm[jj+j1])] % 12
	gi2 := n.perm[ii+1+int(n.perm[jj+1])] % 12

	return 70 * (corner(gi0, x0, y0) + corner(gi1, x1, y1) + corner(gi2, x2, y2))
}

// corner returns one simplex corner's contribution: (0.5 - d²)^4 * (g·d), zero outside the radius.
func corner(gi uint8, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	g := &grad3[gi]
	return t * t * (g[0]*x + g[1]*y)
}

// OpenSimplexNoise adapts opensimplex-go to NoiseField.
type OpenSimplexNoise struct {
	noise opensimplex.Noise
}

// NewOpenSimplexNoise creates an OpenSimplex-backed field.
func NewOpenSimplexNoise(seed int64) *OpenSimplexNoise {
	return &OpenSimplexNoise{noise: opensimplex.New(seed)}
}

// Sample returns the noise value at (x, y) clamped to [-1, 1].
func (n *OpenSimplexNoise) Sample(x, y float64) float64 {
	return clamp(n.noise.Eval2(x, y), -1, 1)
}

// PerlinNoise adapts go-perlin to NoiseField.
type PerlinNoise struct {
	noise *perlin.Perlin
}

// NewPerlinNoise creates a three-octave Perlin field.
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{noise: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

// Sample returns the noise value at (x, y) clamped to [-1, 1].
func (n *PerlinNoise) Sample(x, y float64) float64 {
	return clamp(n.noise.Noise2D(x, y), -1, 1)
}

// NewNoiseField builds the named backend. An empty name selects simplex.
func NewNoiseField(backend string, seed int64) (NoiseField, error) {
	switch backend {
	case "", NoiseSimplex:
		return NewSimplexNoise(rand.New(rand.NewSource(seed))), nil
	case NoiseOpenSimplex:
		return NewOpenSimplexNoise(seed), nil
	case NoisePerlin:
		return NewPerlinNoise(seed), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownNoiseBackend, backend)
	}
}
