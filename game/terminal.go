package game

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/flux/config"
	"github.com/pthm-cable/flux/renderer"
)

// RunTerminal renders into the terminal with half-block cells until the user quits.
// Frames run on a ticker goroutine; input arrives on the tcell event goroutine.
func RunTerminal(cfg *config.Config, opts Options, run RunOptions) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	return runTerminal(screen, cfg, opts, run)
}

// runTerminal drives an initialized screen and finalizes it before returning.
func runTerminal(screen tcell.Screen, cfg *config.Config, opts Options, run RunOptions) error {
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()
	screen.Clear()

	surface := renderer.NewTerminalSurface(screen)
	if bg, err := renderer.ParseColor(cfg.Screen.Background); err == nil {
		surface.Clear(bg)
	}

	sched := NewTickerScheduler(cfg.Terminal.FPS)
	defer sched.Stop()

	opts.FPS = cfg.Terminal.FPS
	g, err := NewGame(cfg, surface, sched, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := applyRunOptions(g, run); err != nil {
		return err
	}

	finished := make(chan struct{}, 1)
	g.SetFrameCallback(func(s FrameStats) {
		if !s.Skipped {
			surface.Present()
		}
		if run.done(s.Frame) {
			select {
			case finished <- struct{}{}:
			default:
			}
		}
	})

	quit := make(chan struct{})
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	t := &terminalInput{game: g, surface: surface, screen: screen}
	g.Start()
	for {
		select {
		case ev := <-events:
			if t.handle(ev) {
				g.Stop()
				return t.finish(run)
			}
		case <-finished:
			g.Stop()
			slog.Info("max frames reached", "frame", g.loop.Frame())
			return t.finish(run)
		}
	}
}

// terminalInput translates tcell events into game actions.
type terminalInput struct {
	game    *Game
	surface *renderer.TerminalSurface
	screen  tcell.Screen
}

// handle processes one event and reports whether the user asked to quit.
func (t *terminalInput) handle(ev tcell.Event) bool {
	g := t.game
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			return t.handleRune(ev.Rune())
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := renderer.CellToSurface(col, row)
		g.Pointer().Move(x, y)

	case *tcell.EventFocus:
		if !ev.Focused {
			g.Pointer().Leave()
		}

	case *tcell.EventResize:
		cols, rows := ev.Size()
		g.Loop().Post(func() {
			t.surface.Resize(cols, rows)
			t.surface.Clear(g.Loop().Settings().Background)
		})
		t.screen.Sync()
	}
	return false
}

// handleRune maps keys: q quits, space pauses, r reseeds, 1-9 pick a preset, l leaves.
func (t *terminalInput) handleRune(r rune) bool {
	g := t.game
	switch {
	case r == 'q':
		return true
	case r == ' ':
		g.TogglePause()
	case r == 'r':
		g.Reseed()
	case r == 'l':
		g.Pointer().Leave()
	case r >= '1' && r <= '9':
		presets := g.Presets()
		if i := int(r - '1'); i < len(presets) {
			if err := g.ApplyPreset(presets[i]); err != nil {
				slog.Error("preset failed", "preset", presets[i], "error", err)
			}
		}
	}
	return false
}

// finish writes the optional snapshot once frames have stopped.
func (t *terminalInput) finish(run RunOptions) error {
	if run.Snapshot == "" {
		return nil
	}
	return writeSnapshot(run.Snapshot, t.surface.Image())
}
