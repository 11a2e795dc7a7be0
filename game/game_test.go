package game

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/renderer"
	"github.com/pthm-cable/flux/telemetry"
)

// testConfig returns a small copy of the default config.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Screen.Width = 160
	cfg.Screen.Height = 90
	cfg.Simulation.ParticleCount = 200
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, opts Options) (*Game, *ManualScheduler, *renderer.Canvas) {
	t.Helper()
	canvas := renderer.NewCanvas(cfg.Screen.Width, cfg.Screen.Height)
	sched := NewManualScheduler()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	g, err := NewGame(cfg, canvas, sched, opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g, sched, canvas
}

func TestGameRunsFrames(t *testing.T) {
	cfg := testConfig(t)
	g, sched, canvas := newTestGame(t, cfg, Options{})

	g.Start()
	for i := 0; i < 20; i++ {
		sched.RunPending()
	}

	if g.Loop().Frame() != 20 {
		t.Fatalf("Frame = %d, want 20", g.Loop().Frame())
	}
	if g.System().Count() != 200 {
		t.Fatalf("Count = %d, want 200", g.System().Count())
	}

	lit := 0
	for y := 0; y < cfg.Screen.Height; y++ {
		for x := 0; x < cfg.Screen.Width; x++ {
			c := canvas.At(x, y)
			if c.R|c.G|c.B != 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("expected particles to be drawn on the canvas")
	}
}

func TestGameSetSimulation(t *testing.T) {
	cfg := testConfig(t)
	g, sched, _ := newTestGame(t, cfg, Options{})
	g.Start()
	sched.RunPending()

	sim := g.Simulation()
	sim.ParticleCount = 50
	if err := g.SetSimulation(sim); err != nil {
		t.Fatalf("SetSimulation: %v", err)
	}
	if g.System().Count() != 200 {
		t.Fatal("population changed before the frame boundary")
	}
	sched.RunPending()
	if g.System().Count() != 50 {
		t.Errorf("Count = %d, want 50", g.System().Count())
	}

	bad := g.Simulation()
	bad.Palette = "Nope"
	if err := g.SetSimulation(bad); !errors.Is(err, config.ErrUnknownPalette) {
		t.Errorf("expected ErrUnknownPalette, got %v", err)
	}
	bad = g.Simulation()
	bad.FadeRate = 0
	if err := g.SetSimulation(bad); err == nil {
		t.Error("expected error for zero fade rate")
	}
	if g.Simulation().ParticleCount != 50 {
		t.Error("rejected settings must not replace the current ones")
	}
}

func TestGameApplyPreset(t *testing.T) {
	cfg := testConfig(t)
	g, sched, _ := newTestGame(t, cfg, Options{})
	g.Start()

	presets := g.Presets()
	if len(presets) == 0 {
		t.Fatal("expected presets from defaults")
	}
	last := presets[len(presets)-1]
	if err := g.ApplyPreset(last); err != nil {
		t.Fatalf("ApplyPreset(%q): %v", last, err)
	}
	p, _ := cfg.Preset(last)
	if p.Palette != nil && g.Simulation().Palette != *p.Palette {
		t.Errorf("Palette = %q, want %q", g.Simulation().Palette, *p.Palette)
	}
	sched.RunPending()

	palette, _ := cfg.PaletteColors(g.Simulation().Palette)
	for _, pt := range g.System().Particles {
		found := false
		for _, c := range palette {
			found = found || c == pt.Color
		}
		if !found {
			t.Fatalf("particle color %s not in preset palette", pt.Color)
		}
	}

	if err := g.ApplyPreset("missing"); !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestGameReseedAndPause(t *testing.T) {
	cfg := testConfig(t)
	g, sched, _ := newTestGame(t, cfg, Options{})
	g.Start()
	sched.RunPending()

	g.TogglePause()
	sched.RunPending()
	if !g.Loop().Paused() {
		t.Fatal("expected paused")
	}
	frame := g.Loop().Frame()
	sched.RunPending()
	if g.Loop().Frame() != frame {
		t.Fatal("paused game advanced")
	}

	g.TogglePause()
	g.Reseed()
	sched.RunPending()
	if g.Loop().Paused() || g.Loop().Frame() != frame+1 {
		t.Errorf("expected resumed frame, paused=%v frame=%d", g.Loop().Paused(), g.Loop().Frame())
	}
}

func TestGameTelemetryOutput(t *testing.T) {
	cfg := testConfig(t)
	dir := filepath.Join(t.TempDir(), "out")

	var windows []telemetry.WindowStats
	g, sched, _ := newTestGame(t, cfg, Options{OutputDir: dir, StatsWindowSec: 0.5, FPS: 20})
	g.SetStatsCallback(func(s telemetry.WindowStats) { windows = append(windows, s) })

	g.Start()
	for i := 0; i < 35; i++ {
		sched.RunPending()
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// 0.5s at 20fps is a 10-frame window.
	if len(windows) != 3 {
		t.Fatalf("got %d stats windows, want 3", len(windows))
	}
	if windows[0].WindowEndFrame != 10 || windows[0].Particles != 200 {
		t.Errorf("unexpected first window %+v", windows[0])
	}

	for _, name := range []string{"config.yaml", "stats.csv", "perf.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(strings.TrimSpace(string(data)), "\n"); lines != 3 {
		t.Errorf("stats.csv has %d data rows, want 3", lines)
	}
}

func TestGameRejectsBadNoiseBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Noise.Backend = "worley"
	_, err := NewGame(cfg, renderer.NewCanvas(10, 10), NewManualScheduler(), Options{Seed: 1})
	if err == nil {
		t.Fatal("expected error for unknown noise backend")
	}
}

func TestRunHeadlessSnapshot(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "frame.png")

	err := RunHeadless(cfg, Options{Seed: 7}, RunOptions{MaxFrames: 30, Snapshot: path})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != cfg.Screen.Width || b.Dy() != cfg.Screen.Height {
		t.Errorf("snapshot is %v, want %dx%d", b, cfg.Screen.Width, cfg.Screen.Height)
	}
}

func TestRunHeadlessUnknownPreset(t *testing.T) {
	cfg := testConfig(t)
	err := RunHeadless(cfg, Options{Seed: 7}, RunOptions{MaxFrames: 1, Preset: "missing"})
	if !errors.Is(err, config.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestRunHeadlessRejectsZeroCanvas(t *testing.T) {
	for _, size := range [][2]int{{0, 90}, {160, 0}} {
		cfg := testConfig(t)
		cfg.Screen.Width, cfg.Screen.Height = size[0], size[1]

		done := make(chan error, 1)
		go func() {
			done <- RunHeadless(cfg, Options{Seed: 3}, RunOptions{MaxFrames: 5})
		}()

		select {
		case err := <-done:
			if err == nil {
				t.Errorf("%dx%d: expected error for zero-sized canvas", size[0], size[1])
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("%dx%d: RunHeadless did not return", size[0], size[1])
		}
	}
}
