package game

import (
	"log/slog"
)

// onFrame records frame events and flushes a stats window when it ends.
func (g *Game) onFrame(s FrameStats) {
	if s.Skipped {
		g.collector.RecordSkipped()
	} else if !s.Paused {
		g.collector.RecordFrame(s.Wraps, s.Respawns, s.PointerActive)
		g.perfCollector.RecordPresent()
		g.flushTelemetry(s.Frame)
	}

	if g.frameCallback != nil {
		g.frameCallback(s)
	}
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry(frame int64) {
	if !g.collector.ShouldFlush(frame) {
		return
	}

	g.speeds = g.speeds[:0]
	for i := range g.system.Particles {
		g.speeds = append(g.speeds, g.system.Particles[i].Speed())
	}

	stats := g.collector.Flush(frame, g.system.Elapsed(), g.speeds)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
