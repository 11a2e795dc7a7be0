package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/renderer"
	"github.com/pthm-cable/flux/ui"
)

// window is the raylib front end state.
type window struct {
	game    *Game
	surface *renderer.RaylibSurface
	panel   *ui.ControlPanel
	hud     *ui.HUD
	width   float64
	height  float64
}

// RunWindow opens a raylib window and runs until it is closed.
func RunWindow(cfg *config.Config, opts Options, run RunOptions) error {
	bg, err := renderer.ParseColor(cfg.Screen.Background)
	if err != nil {
		return fmt.Errorf("screen background: %w", err)
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Flux")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)

	width, height := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	surface := renderer.NewRaylibSurface(width, height, bg)
	defer surface.Unload()

	sched := NewManualScheduler()
	opts.FPS = cfg.Screen.TargetFPS
	g, err := NewGame(cfg, surface, sched, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := applyRunOptions(g, run); err != nil {
		return err
	}

	w := &window{
		game:    g,
		surface: surface,
		panel:   ui.NewControlPanel(20, 20, 260),
		hud:     ui.NewHUD(),
		width:   float64(width),
		height:  float64(height),
	}

	bgRL := rl.Color{R: bg.R, G: bg.G, B: bg.B, A: 255}

	g.Start()
	for !rl.WindowShouldClose() {
		w.handleInput()

		// One scheduled frame per display refresh.
		sched.RunPending()

		rl.BeginDrawing()
		rl.ClearBackground(bgRL)
		surface.Present()
		w.drawUI()
		rl.EndDrawing()

		if run.done(g.loop.Frame()) {
			slog.Info("max frames reached", "frame", g.loop.Frame())
			break
		}
	}
	g.Stop()
	return nil
}

// drawUI draws the HUD and control panel and applies panel edits.
func (w *window) drawUI() {
	g := w.game
	sim := g.Simulation()

	w.hud.Draw(ui.HUDData{
		Particles: g.system.Count(),
		Palette:   sim.Palette,
		FPS:       rl.GetFPS(),
		Elapsed:   g.system.Elapsed(),
		Paused:    g.loop.Paused(),
	}, int32(rl.GetScreenHeight()))

	res := w.panel.Draw(sim, g.Presets())
	if res.Preset != "" {
		if err := g.ApplyPreset(res.Preset); err != nil {
			slog.Error("preset failed", "preset", res.Preset, "error", err)
		}
		return
	}
	if res.Changed {
		if err := g.SetSimulation(res.Simulation); err != nil {
			slog.Error("invalid settings", "error", err)
		}
	}
}
