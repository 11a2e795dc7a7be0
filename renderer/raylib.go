package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaylibSurface draws into a persistent render texture so trails survive between frames.
// Draw calls must happen between Begin and End; Present blits the texture to the window.
type RaylibSurface struct {
	target        rl.RenderTexture2D
	width, height int32
	background    color.NRGBA
	loaded        bool
}

// NewRaylibSurface creates a surface of the given size cleared to background.
// Must be called after the raylib window is created.
func NewRaylibSurface(width, height int32, background color.NRGBA) *RaylibSurface {
	s := &RaylibSurface{background: background}
	s.Resize(width, height)
	return s
}

// Resize recreates the render texture. A non-positive size leaves the surface empty.
func (s *RaylibSurface) Resize(width, height int32) {
	s.Unload()
	s.width, s.height = width, height
	if width <= 0 || height <= 0 {
		return
	}
	s.target = rl.LoadRenderTexture(width, height)
	s.loaded = true

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(toRL(s.background))
	rl.EndTextureMode()
}

// Size returns the surface dimensions, or zero if no texture is loaded.
func (s *RaylibSurface) Size() (float64, float64) {
	if !s.loaded {
		return 0, 0
	}
	return float64(s.width), float64(s.height)
}

// Begin redirects drawing to the render texture.
func (s *RaylibSurface) Begin() {
	if s.loaded {
		rl.BeginTextureMode(s.target)
	}
}

// End restores drawing to the window.
func (s *RaylibSurface) End() {
	if s.loaded {
		rl.EndTextureMode()
	}
}

// FillRect draws a blended rectangle.
func (s *RaylibSurface) FillRect(x, y, w, h float64, c color.NRGBA) {
	rl.DrawRectangleRec(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}, toRL(c))
}

// FillCircle draws a blended filled circle.
func (s *RaylibSurface) FillCircle(x, y, radius float64, c color.NRGBA) {
	rl.DrawCircleV(rl.Vector2{X: float32(x), Y: float32(y)}, float32(radius), toRL(c))
}

// Present draws the render texture to the current framebuffer.
func (s *RaylibSurface) Present() {
	if !s.loaded {
		return
	}
	srcRect := rl.Rectangle{
		X:      0,
		Y:      0,
		Width:  float32(s.width),
		Height: -float32(s.height), // Negative to flip
	}
	rl.DrawTextureRec(s.target.Texture, srcRect, rl.Vector2{}, rl.White)
}

// Unload releases GPU resources.
func (s *RaylibSurface) Unload() {
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
		s.loaded = false
	}
}

func toRL(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
