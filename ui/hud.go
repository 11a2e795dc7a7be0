package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds the values shown in the status line.
type HUDData struct {
	Particles int
	Palette   string
	FPS       int32
	Elapsed   float64
	Paused    bool
}

// HUD renders the status line in the bottom-left corner.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData, screenHeight int32) {
	t := h.renderer.Theme
	text := fmt.Sprintf("%d particles | %s | %d fps | t=%.2f", data.Particles, data.Palette, data.FPS, data.Elapsed)
	rl.DrawText(text, t.Padding, screenHeight-t.LineHeight-t.Padding, t.FontSize, t.LabelColor)

	if data.Paused {
		rl.DrawText("PAUSED", t.Padding, screenHeight-2*t.LineHeight-t.Padding, t.HeaderFontSize, rl.Yellow)
	}
}
