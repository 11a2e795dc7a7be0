package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/renderer"
)

// RunHeadless simulates on an in-memory canvas, pumping frames as fast as possible.
// With MaxFrames of zero it runs until the process is stopped.
func RunHeadless(cfg *config.Config, opts Options, run RunOptions) error {
	bg, err := renderer.ParseColor(cfg.Screen.Background)
	if err != nil {
		return fmt.Errorf("screen background: %w", err)
	}
	// A canvas never gains a size later, so a zero-sized one would skip frames forever.
	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		return fmt.Errorf("headless canvas size must be positive, got %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	canvas := renderer.NewCanvas(cfg.Screen.Width, cfg.Screen.Height)
	canvas.Clear(bg)

	sched := NewManualScheduler()
	g, err := NewGame(cfg, canvas, sched, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := applyRunOptions(g, run); err != nil {
		return err
	}

	slog.Info("starting headless simulation",
		"width", cfg.Screen.Width,
		"height", cfg.Screen.Height,
		"max_frames", run.MaxFrames,
	)

	g.Start()
	for !run.done(g.loop.Frame()) {
		if sched.RunPending() == 0 {
			break
		}
	}
	g.Stop()

	slog.Info("headless simulation finished",
		"frames", g.loop.Frame(),
		"elapsed", g.system.Elapsed(),
		"particles", g.system.Count(),
	)

	if run.Snapshot != "" {
		if err := writeSnapshot(run.Snapshot, canvas.Image()); err != nil {
			return err
		}
		slog.Info("snapshot saved", "path", run.Snapshot)
	}
	return nil
}
