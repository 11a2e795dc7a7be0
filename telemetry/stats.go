// Package telemetry collects window stats and frame timings and writes them as CSV.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	SimTime          float64 `csv:"sim_time"` // Flow field elapsed time at window end

	// Population at window end
	Particles int `csv:"particles"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Events during window
	Wraps           int     `csv:"wraps"`
	Respawns        int     `csv:"respawns"`
	SkippedFrames   int     `csv:"skipped_frames"`
	PointerFraction float64 `csv:"pointer_fraction"` // Share of frames with the pointer active
}

// SpeedStats calculates mean, standard deviation and percentiles of particle speeds.
// values is sorted in place.
func SpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	sort.Float64s(values)
	mean, std = stat.PopMeanStdDev(values, nil)
	p10 = stat.Quantile(0.10, stat.LinInterp, values, nil)
	p50 = stat.Quantile(0.50, stat.LinInterp, values, nil)
	p90 = stat.Quantile(0.90, stat.LinInterp, values, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("particles", s.Particles),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Int("wraps", s.Wraps),
		slog.Int("respawns", s.Respawns),
		slog.Int("skipped_frames", s.SkippedFrames),
		slog.Float64("pointer_fraction", s.PointerFraction),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTime,
		"particles", s.Particles,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
		"wraps", s.Wraps,
		"skipped_frames", s.SkippedFrames,
	)
}
