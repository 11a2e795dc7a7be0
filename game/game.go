// Package game wires configuration, the particle system and a drawing surface into a scheduled render loop.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/renderer"
	"github.com/pthm-cable/flux/systems"
	"github.com/pthm-cable/flux/telemetry"
)

// Options configures a Game.
type Options struct {
	Seed           int64   // RNG seed for particles (0 = time-based)
	LogStats       bool    // Log window stats via slog
	StatsWindowSec float64 // Stats window length (0 = config)
	OutputDir      string  // Directory for CSV logs and config snapshot (empty = disabled)
	FPS            int     // Expected frame rate, used to size stats windows
}

// Game wires configuration, the flow field and the render loop together.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	system  *systems.FlowFieldSystem
	pointer *systems.Pointer
	queue   *SettingsQueue
	loop    *RenderLoop

	// Simulation settings as last requested; the loop applies them at the next frame.
	simMu sync.Mutex
	sim   config.SimulationConfig

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	frameCallback func(FrameStats)
	speeds        []float64
}

// NewGame builds a game drawing to surface and paced by sched.
// The loop is not started.
func NewGame(cfg *config.Config, surface renderer.Surface, sched Scheduler, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	noiseSeed := cfg.Noise.Seed
	if noiseSeed == 0 {
		noiseSeed = rng.Int63()
	}
	noise, err := systems.NewNoiseField(cfg.Noise.Backend, noiseSeed)
	if err != nil {
		return nil, fmt.Errorf("creating noise field: %w", err)
	}

	g := &Game{
		cfg:      cfg,
		rng:      rng,
		seed:     seed,
		system:   systems.NewFlowFieldSystem(rng),
		pointer:  &systems.Pointer{},
		queue:    &SettingsQueue{},
		sim:      cfg.Simulation,
		logStats: opts.LogStats,
	}

	initial, err := g.settingsFor(cfg.Simulation)
	if err != nil {
		return nil, err
	}

	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		window = opts.StatsWindowSec
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = cfg.Screen.TargetFPS
	}
	g.collector = telemetry.NewCollector(window, fps)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
		g.outputManager = om
	}

	g.loop = NewRenderLoop(sched, surface, g.system, noise, g.pointer, g.queue, initial, LoopOptions{
		Perf:    g.perfCollector,
		OnFrame: g.onFrame,
	})

	slog.Info("game created",
		"seed", seed,
		"noise_backend", cfg.Noise.Backend,
		"noise_seed", noiseSeed,
		"particles", cfg.Simulation.ParticleCount,
		"palette", cfg.Simulation.Palette,
		"workers", cfg.Simulation.Workers,
	)

	return g, nil
}

// settingsFor validates sim and resolves its palette and background.
func (g *Game) settingsFor(sim config.SimulationConfig) (Settings, error) {
	if err := sim.Validate(g.cfg.Palettes); err != nil {
		return Settings{}, err
	}
	palette, err := g.cfg.PaletteColors(sim.Palette)
	if err != nil {
		return Settings{}, err
	}
	bg, err := renderer.ParseColor(g.cfg.Screen.Background)
	if err != nil {
		return Settings{}, fmt.Errorf("screen background: %w", err)
	}
	return Settings{Simulation: sim, Palette: palette, Background: bg}, nil
}

// Start begins scheduling frames.
func (g *Game) Start() {
	g.loop.Start()
}

// Stop stops the render loop. Must not be called from a frame callback.
func (g *Game) Stop() {
	g.loop.Stop()
}

// Close stops the loop, releases workers and closes telemetry output.
func (g *Game) Close() error {
	g.loop.Stop()
	g.system.Close()
	if g.outputManager != nil {
		slog.Info("output closed", "dir", g.outputManager.Dir())
	}
	return g.outputManager.Close()
}

// Loop returns the render loop.
func (g *Game) Loop() *RenderLoop {
	return g.loop
}

// Pointer returns the pointer written by input handlers.
func (g *Game) Pointer() *systems.Pointer {
	return g.pointer
}

// System returns the particle system. Its state belongs to the frame goroutine.
func (g *Game) System() *systems.FlowFieldSystem {
	return g.system
}

// Seed returns the particle RNG seed.
func (g *Game) Seed() int64 {
	return g.seed
}

// Simulation returns the most recently requested simulation settings.
func (g *Game) Simulation() config.SimulationConfig {
	g.simMu.Lock()
	defer g.simMu.Unlock()
	return g.sim
}

// SetSimulation validates sim and queues it for the next frame boundary.
func (g *Game) SetSimulation(sim config.SimulationConfig) error {
	g.simMu.Lock()
	defer g.simMu.Unlock()
	return g.setSimulationLocked(sim)
}

func (g *Game) setSimulationLocked(sim config.SimulationConfig) error {
	s, err := g.settingsFor(sim)
	if err != nil {
		return err
	}
	if sim.ParticleCount != g.sim.ParticleCount {
		slog.Info("population resize", "from", g.sim.ParticleCount, "to", sim.ParticleCount)
	}
	g.sim = sim
	g.queue.Set(s)
	return nil
}

// ApplyPreset overlays the named preset on the current settings.
func (g *Game) ApplyPreset(name string) error {
	p, err := g.cfg.Preset(name)
	if err != nil {
		return err
	}

	g.simMu.Lock()
	defer g.simMu.Unlock()
	if err := g.setSimulationLocked(p.Apply(g.sim)); err != nil {
		return fmt.Errorf("applying preset %q: %w", name, err)
	}
	slog.Info("preset applied", "preset", name, "palette", g.sim.Palette)
	return nil
}

// Presets returns the configured preset names in order.
func (g *Game) Presets() []string {
	names := make([]string, len(g.cfg.Presets))
	for i, p := range g.cfg.Presets {
		names[i] = p.Name
	}
	return names
}

// Reseed swaps in a fresh noise field at the next frame boundary.
func (g *Game) Reseed() {
	g.loop.Post(func() {
		seed := g.rng.Int63()
		noise, err := systems.NewNoiseField(g.cfg.Noise.Backend, seed)
		if err != nil {
			slog.Error("reseed failed", "error", err)
			return
		}
		g.loop.SetNoise(noise)
		slog.Info("noise reseeded", "noise_seed", seed)
	})
}

// TogglePause flips the paused state at the next frame boundary.
func (g *Game) TogglePause() {
	g.loop.Post(func() {
		g.loop.SetPaused(!g.loop.Paused())
	})
}

// SetStatsCallback registers a function called with every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// SetFrameCallback registers a function called on the frame goroutine after every frame.
func (g *Game) SetFrameCallback(fn func(FrameStats)) {
	g.frameCallback = fn
}
