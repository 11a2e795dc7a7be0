package game

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// RunOptions controls a front end's run length and output.
type RunOptions struct {
	Preset    string // Preset applied before the first frame (empty = none)
	MaxFrames int64  // Stop after N simulated frames (0 = unlimited)
	Snapshot  string // PNG written on exit (canvas-backed front ends only)
}

// applyRunOptions applies the start-of-run preset.
func applyRunOptions(g *Game, run RunOptions) error {
	if run.Preset == "" {
		return nil
	}
	return g.ApplyPreset(run.Preset)
}

func (r RunOptions) done(frame int64) bool {
	return r.MaxFrames > 0 && frame >= r.MaxFrames
}

// writeSnapshot encodes img as PNG at path.
func writeSnapshot(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	return nil
}
