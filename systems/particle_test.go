package systems

import (
	"math/rand"
	"slices"
	"testing"
)

var testPalette = []string{"#4f46e5", "#ec4899", "#8b5cf6"}

func TestSpawnParticle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		p := SpawnParticle(rng, 800, 600, testPalette)

		if p.X < 0 || p.X >= 800 || p.Y < 0 || p.Y >= 600 {
			t.Fatalf("spawned outside bounds: (%f, %f)", p.X, p.Y)
		}
		if p.VX != 0 || p.VY != 0 {
			t.Fatalf("expected zero velocity, got (%f, %f)", p.VX, p.VY)
		}
		if !slices.Contains(testPalette, p.Color) {
			t.Fatalf("color %q not in palette", p.Color)
		}
		if p.Age != 0 {
			t.Fatalf("expected age 0, got %d", p.Age)
		}
		if p.LifeSpan < MinLifeSpan || p.LifeSpan >= MaxLifeSpan {
			t.Fatalf("lifespan %d outside [%d, %d)", p.LifeSpan, MinLifeSpan, MaxLifeSpan)
		}
		if len(p.History) != 0 {
			t.Fatalf("expected empty history, got %d entries", len(p.History))
		}
	}
}

func TestParticleRespawn(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := SpawnParticle(rng, 100, 100, testPalette)
	p.VX, p.VY = 1.5, -0.5
	p.Age = 250
	p.History = append(p.History, Point{1, 2}, Point{3, 4})
	color := p.Color

	p.Respawn(rng, 50, 40)

	if p.X < 0 || p.X >= 50 || p.Y < 0 || p.Y >= 40 {
		t.Errorf("respawned outside bounds: (%f, %f)", p.X, p.Y)
	}
	if p.Age != 0 {
		t.Errorf("expected age reset, got %d", p.Age)
	}
	if len(p.History) != 0 {
		t.Errorf("expected history cleared, got %d entries", len(p.History))
	}
	if p.VX != 1.5 || p.VY != -0.5 {
		t.Errorf("expected velocity preserved, got (%f, %f)", p.VX, p.VY)
	}
	if p.Color != color {
		t.Errorf("expected color preserved, got %q want %q", p.Color, color)
	}
}

func TestParticleSize(t *testing.T) {
	tests := []struct {
		name   string
		vx, vy float64
		want   float64
	}{
		{"at rest", 0, 0, 1},
		{"slow", 1, 0, 1},
		{"mid", 3, 4, 2.5},
		{"fast", 10, 0, 3},
		{"negative", -4, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{VX: tt.vx, VY: tt.vy}
			if got := p.Size(); got != tt.want {
				t.Errorf("Size() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestParticleRecordBounded(t *testing.T) {
	var p Particle
	for i := 0; i < 10; i++ {
		p.X = float64(i)
		p.record(3)
	}

	if len(p.History) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(p.History))
	}
	for i, want := range []float64{7, 8, 9} {
		if p.History[i].X != want {
			t.Errorf("History[%d].X = %f, want %f", i, p.History[i].X, want)
		}
	}

	p.record(0)
	if len(p.History) != 0 {
		t.Errorf("record(0) should drop history, got %d entries", len(p.History))
	}
}
