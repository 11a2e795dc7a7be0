package game

import (
	"image/color"
	"sync"

	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/renderer"
	"github.com/pthm-cable/flux/systems"
	"github.com/pthm-cable/flux/telemetry"
)

// historyDotRadius is the radius of recorded trail points.
const historyDotRadius = 1.0

// Settings is everything a frame reads from configuration.
type Settings struct {
	Simulation config.SimulationConfig
	Palette    []string // Resolved colors of Simulation.Palette
	Background color.NRGBA
}

// ConfigSource hands the loop settings that changed since the last frame.
type ConfigSource interface {
	Pending() (Settings, bool)
}

// PointerSource exposes a consistent pointer snapshot.
type PointerSource interface {
	Snapshot() systems.PointerState
}

// SettingsQueue holds the latest settings until the next frame boundary.
// Only the most recent Set is applied.
type SettingsQueue struct {
	mu    sync.Mutex
	next  Settings
	dirty bool
}

// Set replaces the pending settings.
func (q *SettingsQueue) Set(s Settings) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next = s
	q.dirty = true
}

// Pending returns the queued settings once.
func (q *SettingsQueue) Pending() (Settings, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.dirty {
		return Settings{}, false
	}
	q.dirty = false
	return q.next, true
}

// FrameStats describes the outcome of one frame callback.
type FrameStats struct {
	Frame         int64
	Skipped       bool // Surface missing or zero-sized
	Paused        bool
	Wraps         int
	Respawns      int
	PointerActive bool
}

// frameBracket is implemented by surfaces that need drawing bracketed per frame.
type frameBracket interface {
	Begin()
	End()
}

// RenderLoop runs one fade, one Step and one draw pass per scheduled frame.
type RenderLoop struct {
	sched   Scheduler
	surface renderer.Surface
	system  *systems.FlowFieldSystem
	noise   systems.NoiseField
	pointer PointerSource
	config  ConfigSource
	colors  *renderer.PaletteCache
	perf    *telemetry.PerfCollector
	onFrame func(FrameStats)

	// Frame goroutine state
	settings     Settings
	dirty        bool // Settings changed since the last reconcile
	lastW, lastH float64
	frame        int64
	paused       bool

	// busy is held for the duration of a frame.
	busy sync.Mutex

	mu      sync.Mutex
	running bool
	handle  FrameHandle
	posted  []func()
}

// LoopOptions collects the optional collaborators of a RenderLoop.
type LoopOptions struct {
	Perf    *telemetry.PerfCollector
	OnFrame func(FrameStats)
}

// NewRenderLoop creates a stopped loop drawing to surface.
// initial is applied on the first frame that has a usable surface.
func NewRenderLoop(sched Scheduler, surface renderer.Surface, system *systems.FlowFieldSystem,
	noise systems.NoiseField, pointer PointerSource, src ConfigSource, initial Settings, opts LoopOptions) *RenderLoop {
	l := &RenderLoop{
		sched:   sched,
		surface: surface,
		system:  system,
		noise:   noise,
		pointer: pointer,
		config:  src,
		colors:  renderer.NewPaletteCache(),
		perf:    opts.Perf,
		onFrame: opts.OnFrame,
	}
	l.posted = append(l.posted, func() { l.apply(initial) })
	return l
}

// Start schedules the first frame. Starting a running loop is a no-op.
func (l *RenderLoop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.handle = l.sched.ScheduleNextFrame(l.runFrame)
}

// Stop cancels the pending frame and waits for a frame in progress to finish.
// No frame runs after Stop returns. Must not be called from a frame callback.
func (l *RenderLoop) Stop() {
	l.mu.Lock()
	l.running = false
	if l.handle != 0 {
		l.sched.CancelScheduledFrame(l.handle)
		l.handle = 0
	}
	l.mu.Unlock()

	l.busy.Lock()
	l.busy.Unlock()
}

// Running reports whether frames are being scheduled.
func (l *RenderLoop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Post queues fn to run on the frame goroutine before the next frame's work.
// Posted work runs even on frames that are otherwise skipped.
func (l *RenderLoop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posted = append(l.posted, fn)
}

// Frame returns the number of frames that did work. Frame goroutine only.
func (l *RenderLoop) Frame() int64 {
	return l.frame
}

// Settings returns the active settings. Frame goroutine only.
func (l *RenderLoop) Settings() Settings {
	return l.settings
}

// SetNoise replaces the noise field. Frame goroutine only; use Post from elsewhere.
func (l *RenderLoop) SetNoise(n systems.NoiseField) {
	l.noise = n
}

// SetPaused suspends simulation and drawing while keeping frames scheduled. Frame goroutine only.
func (l *RenderLoop) SetPaused(paused bool) {
	l.paused = paused
}

// Paused reports whether the loop is paused. Frame goroutine only.
func (l *RenderLoop) Paused() bool {
	return l.paused
}

func (l *RenderLoop) runFrame() {
	l.busy.Lock()
	defer l.busy.Unlock()

	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()

	l.frameBody(posted)

	l.mu.Lock()
	if l.running {
		l.handle = l.sched.ScheduleNextFrame(l.runFrame)
	}
	l.mu.Unlock()
}

func (l *RenderLoop) frameBody(posted []func()) {
	if l.perf != nil {
		l.perf.StartFrame()
		l.perf.StartPhase(telemetry.PhaseConfig)
	}

	for _, fn := range posted {
		fn()
	}
	if l.config != nil {
		if s, ok := l.config.Pending(); ok {
			l.apply(s)
		}
	}

	var w, h float64
	if l.surface != nil {
		w, h = l.surface.Size()
	}
	if w <= 0 || h <= 0 {
		l.report(FrameStats{Frame: l.frame, Skipped: true})
		return
	}
	l.reconcile(w, h)

	if l.paused {
		l.report(FrameStats{Frame: l.frame, Paused: true})
		return
	}

	if b, ok := l.surface.(frameBracket); ok {
		b.Begin()
		defer b.End()
	}

	sim := l.settings.Simulation

	if l.perf != nil {
		l.perf.StartPhase(telemetry.PhaseFade)
	}
	l.surface.FillRect(0, 0, w, h, renderer.WithAlpha(l.settings.Background, sim.FadeRate))

	if l.perf != nil {
		l.perf.StartPhase(telemetry.PhaseUpdate)
	}
	elapsed := l.system.AdvanceClock()
	var ptr systems.PointerState
	if l.pointer != nil {
		ptr = l.pointer.Snapshot()
	}
	l.system.Step(sim, ptr, w, h, l.noise, elapsed)

	if l.perf != nil {
		l.perf.StartPhase(telemetry.PhaseDraw)
	}
	l.draw()

	if l.perf != nil {
		l.perf.EndFrame()
	}

	l.frame++
	l.report(FrameStats{
		Frame:         l.frame,
		Wraps:         l.system.LastWraps(),
		Respawns:      l.system.LastRespawns(),
		PointerActive: ptr.Active,
	})
}

// apply stores new settings; population changes wait for a usable surface size.
func (l *RenderLoop) apply(s Settings) {
	l.settings = s
	l.system.Configure(s.Simulation)
	l.colors.Warm(s.Palette)
	l.dirty = true
}

// reconcile brings the population in line with the settings and the surface size.
func (l *RenderLoop) reconcile(w, h float64) {
	sizeChanged := w != l.lastW || h != l.lastH
	if !sizeChanged && !l.dirty {
		return
	}
	resized := sizeChanged && l.lastW > 0 && l.lastH > 0
	l.lastW, l.lastH = w, h
	l.dirty = false

	sim := l.settings.Simulation
	l.system.ResizePopulation(sim.ParticleCount, w, h, l.settings.Palette)
	l.system.RecolorIfPaletteChanged(l.settings.Palette)
	if resized {
		l.system.Reinitialize(w, h, l.settings.Palette)
	}
}

func (l *RenderLoop) draw() {
	for i := range l.system.Particles {
		p := &l.system.Particles[i]
		c := l.colors.Get(p.Color)
		for _, pt := range p.History {
			l.surface.FillCircle(pt.X, pt.Y, historyDotRadius, c)
		}
		l.surface.FillCircle(p.X, p.Y, p.Size(), c)
	}
}

func (l *RenderLoop) report(s FrameStats) {
	if l.onFrame != nil {
		l.onFrame(s)
	}
}
