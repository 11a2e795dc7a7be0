package main

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/game"
	"github.com/pthm-cable/flux/renderer"
	"github.com/pthm-cable/flux/telemetry"
)

// Quality component weights.
const (
	qualityWeightCoverage = 0.50
	qualityWeightSpeed    = 0.30
	qualityWeightSpread   = 0.20

	qualityWarmupWindows = 1    // skip first N windows while trails build up
	targetSpeedCV        = 0.35 // speed std/mean that reads as varied but coherent
	coverageThreshold    = 24   // summed channel distance from background counted as drawn
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxFrames   int64
	seeds       []int64
	baseConfig  *config.Config
	targetSpeed float64
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastErr     error
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxFrames int64, seeds []int64, baseCfg *config.Config, targetSpeed float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxFrames:   maxFrames,
		seeds:       seeds,
		baseConfig:  baseCfg,
		targetSpeed: targetSpeed,
		statsWindow: 1.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastErr returns the error from the most recent evaluation, if any seed failed.
func (fe *FitnessEvaluator) LastErr() error {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastErr
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats
	coverage    float64 // fraction of pixels away from the background at the end
	err         error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated quality averaged over seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToSimulation(&cfg.Simulation, x)

	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fe.runSimulation(cfg, seed)
		}()
	}
	wg.Wait()

	var total float64
	var firstErr error
	for _, r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		total += fe.computeQuality(r)
	}
	quality := total / float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = quality
	fe.lastErr = firstErr
	fe.mu.Unlock()

	return -quality
}

// runSimulation executes one headless run on an off-screen canvas.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	var result runResult

	bg, err := renderer.ParseColor(cfg.Screen.Background)
	if err != nil {
		result.err = fmt.Errorf("screen background: %w", err)
		return result
	}
	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		result.err = fmt.Errorf("canvas size must be positive, got %dx%d", cfg.Screen.Width, cfg.Screen.Height)
		return result
	}
	canvas := renderer.NewCanvas(cfg.Screen.Width, cfg.Screen.Height)
	canvas.Clear(bg)

	sched := game.NewManualScheduler()
	g, err := game.NewGame(cfg, canvas, sched, game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		FPS:            cfg.Screen.TargetFPS,
	})
	if err != nil {
		result.err = err
		return result
	}
	defer g.Close()

	g.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	})

	g.Start()
	for g.Loop().Frame() < fe.maxFrames {
		if sched.RunPending() == 0 {
			break
		}
	}
	g.Stop()

	result.coverage = coverage(canvas, bg)
	return result
}

// copyConfig returns a copy of the base config whose simulation block can be edited.
// Palettes and presets are shared and treated as read-only.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeQuality scores a run in [0, 1].
func (fe *FitnessEvaluator) computeQuality(r runResult) float64 {
	if len(r.windowStats) <= qualityWarmupWindows {
		return qualityWeightCoverage * clamp01(r.coverage)
	}
	valid := r.windowStats[qualityWarmupWindows:]

	var speedSum, spreadSum float64
	var n int
	for _, w := range valid {
		if w.Particles == 0 || w.SpeedMean <= 0 {
			continue
		}
		logErr := math.Log(w.SpeedMean / fe.targetSpeed)
		speedSum += math.Exp(-logErr * logErr)

		cv := w.SpeedStd / w.SpeedMean
		spreadSum += math.Exp(-math.Pow((cv-targetSpeedCV)/targetSpeedCV, 2))
		n++
	}

	speedScore, spreadScore := 0.0, 0.0
	if n > 0 {
		speedScore = speedSum / float64(n)
		spreadScore = spreadSum / float64(n)
	}

	quality := qualityWeightCoverage*clamp01(r.coverage) +
		qualityWeightSpeed*speedScore +
		qualityWeightSpread*spreadScore
	return clamp01(quality)
}

// coverage returns the fraction of canvas pixels that differ visibly from bg.
func coverage(c *renderer.Canvas, bg color.NRGBA) float64 {
	fw, fh := c.Size()
	w, h := int(fw), int(fh)
	if w == 0 || h == 0 {
		return 0
	}
	drawn := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := c.At(x, y)
			d := absDiff(p.R, bg.R) + absDiff(p.G, bg.G) + absDiff(p.B, bg.B)
			if d > coverageThreshold {
				drawn++
			}
		}
	}
	return float64(drawn) / float64(w*h)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
