package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics on an in-memory canvas")
	terminal := flag.Bool("terminal", false, "Render in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logFile := flag.String("log-file", "", "Write logs to this file (terminal mode discards logs by default)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	preset := flag.String("preset", "", "Apply a named preset at startup")
	snapshot := flag.String("snapshot", "", "Write a PNG of the final frame (headless and terminal only)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging).
	// The terminal front end owns stdout, so its logs go to a file or nowhere.
	var logOut io.Writer = os.Stdout
	if *terminal {
		logOut = io.Discard
	}
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			slog.Error("failed to open log file", "path", *logFile, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}
	run := game.RunOptions{
		Preset:    *preset,
		MaxFrames: *maxFrames,
		Snapshot:  *snapshot,
	}

	var err error
	switch {
	case *headless:
		err = game.RunHeadless(cfg, opts, run)
	case *terminal:
		err = game.RunTerminal(cfg, opts, run)
	default:
		err = game.RunWindow(cfg, opts, run)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
