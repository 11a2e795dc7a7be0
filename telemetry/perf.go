package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one render frame, in execution order.
const (
	PhaseConfig = "config"
	PhaseFade   = "fade"
	PhaseUpdate = "update"
	PhaseDraw   = "draw"
)

var phaseOrder = []string{PhaseConfig, PhaseFade, PhaseUpdate, PhaseDraw}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	Work   time.Duration
	Phases map[string]time.Duration
}

// PerfCollector tracks frame timings over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall time between presented frames
	lastPresent     time.Time
	presentInterval time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		Work:   now.Sub(p.frameStart),
		Phases: p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordPresent records the wall time since the previous presented frame.
func (p *PerfCollector) RecordPresent() {
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.presentInterval = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Per-frame work
	AvgWork time.Duration
	MinWork time.Duration
	MaxWork time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of frame work
	PhasePct map[string]float64

	// Frames per second the work alone would allow
	Capacity float64

	// Presentation rate
	PresentInterval time.Duration
	FPS             float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.presentInterval > 0 {
		fps = float64(time.Second) / float64(p.presentInterval)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:        make(map[string]time.Duration),
			PhasePct:        make(map[string]float64),
			PresentInterval: p.presentInterval,
			FPS:             fps,
		}
	}

	var total, minWork, maxWork time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Work
		if i == 0 || s.Work < minWork {
			minWork = s.Work
		}
		if s.Work > maxWork {
			maxWork = s.Work
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var capacity float64
	if avg > 0 {
		capacity = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgWork:         avg,
		MinWork:         minWork,
		MaxWork:         maxWork,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		Capacity:        capacity,
		PresentInterval: p.presentInterval,
		FPS:             fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgWork.Microseconds(),
		"min_frame_us", s.MinWork.Microseconds(),
		"max_frame_us", s.MaxWork.Microseconds(),
		"capacity_fps", int(s.Capacity),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgWork.Microseconds()),
		slog.Int64("min_frame_us", s.MinWork.Microseconds()),
		slog.Int64("max_frame_us", s.MaxWork.Microseconds()),
		slog.Float64("capacity_fps", s.Capacity),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd   int64   `csv:"window_end"`
	AvgFrameUS  int64   `csv:"avg_frame_us"`
	MinFrameUS  int64   `csv:"min_frame_us"`
	MaxFrameUS  int64   `csv:"max_frame_us"`
	CapacityFPS float64 `csv:"capacity_fps"`
	FPS         float64 `csv:"fps"`
	ConfigPct   float64 `csv:"config_pct"`
	FadePct     float64 `csv:"fade_pct"`
	UpdatePct   float64 `csv:"update_pct"`
	DrawPct     float64 `csv:"draw_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgFrameUS:  s.AvgWork.Microseconds(),
		MinFrameUS:  s.MinWork.Microseconds(),
		MaxFrameUS:  s.MaxWork.Microseconds(),
		CapacityFPS: s.Capacity,
		FPS:         s.FPS,
		ConfigPct:   s.PhasePct[PhaseConfig],
		FadePct:     s.PhasePct[PhaseFade],
		UpdatePct:   s.PhasePct[PhaseUpdate],
		DrawPct:     s.PhasePct[PhaseDraw],
	}
}
