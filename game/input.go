package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard, pointer and window events between frames.
func (w *window) handleInput() {
	w.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		w.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		w.game.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		w.game.Reseed()
	}

	w.handlePointer()
}

// handlePointer mirrors mouse hover and touch into the shared pointer.
// The pointer is inactive while over the control panel or outside the window.
func (w *window) handlePointer() {
	ptr := w.game.Pointer()

	if rl.GetTouchPointCount() > 0 {
		pos := rl.GetTouchPosition(0)
		if w.panel.Contains(pos.X, pos.Y) {
			ptr.Leave()
			return
		}
		ptr.Move(float64(pos.X), float64(pos.Y))
		return
	}

	if !rl.IsCursorOnScreen() {
		ptr.Leave()
		return
	}
	pos := rl.GetMousePosition()
	if w.panel.Contains(pos.X, pos.Y) {
		ptr.Leave()
		return
	}
	ptr.Move(float64(pos.X), float64(pos.Y))
}

// handleResize resizes the render texture; the loop reinitializes particles on its next frame.
func (w *window) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	width := int32(rl.GetScreenWidth())
	height := int32(rl.GetScreenHeight())
	if float64(width) == w.width && float64(height) == w.height {
		return
	}
	w.width, w.height = float64(width), float64(height)
	w.surface.Resize(width, height)
}
