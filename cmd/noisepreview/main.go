// Noise field preview tool - interactive visualization of the flow field with sliders.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/flux/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	gridSize     = 256
	panelWidth   = windowWidth - previewSize - 30
	arrowStep    = 32 // Preview pixels between flow arrows
)

// previewParams mirrors the simulation inputs that shape the field.
type previewParams struct {
	FlowScale float64
	Elapsed   float64
	Seed      int64
	Backend   int // Index into backends
	Arrows    bool
}

// backends lists the noise implementations the preview cycles through.
var backends = []string{systems.NoiseSimplex, systems.NoiseOpenSimplex, systems.NoisePerlin}

func defaultParams() previewParams {
	return previewParams{FlowScale: 0.005, Seed: 12345, Arrows: true}
}

// gradient runs from deep indigo through pink to white, blended in Lab space.
var gradient = []colorful.Color{
	mustHex("#1e1b4b"),
	mustHex("#4f46e5"),
	mustHex("#ec4899"),
	mustHex("#fbbf24"),
	mustHex("#ffffff"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Noise Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()

	grid := make([]float64, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	field := newField(params)
	animating := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			params.Elapsed += systems.TimeStep
			needsRegen = true
		}

		if needsRegen {
			sampleField(grid, field, params)
			updateTexture(texture, grid)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		if params.Arrows {
			drawArrows(field, params)
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		minVal, maxVal, mean := gridStats(grid)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Mean: %.3f", minVal, maxVal, mean), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Elapsed: %.3f", params.Elapsed), 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Flow Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Flow scale (noise frequency)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.001", "0.02",
			float32(params.FlowScale), 0.001, 0.02,
		)
		rl.DrawText(fmt.Sprintf("%.4f", params.FlowScale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if math.Abs(float64(newScale)-params.FlowScale) > 1e-6 {
			params.FlowScale = float64(newScale)
			needsRegen = true
		}
		panelY += 45

		rl.DrawText("Elapsed time", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newElapsed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "100",
			float32(params.Elapsed), 0, 100,
		)
		if math.Abs(float64(newElapsed)-params.Elapsed) > 1e-4 {
			params.Elapsed = float64(newElapsed)
			needsRegen = true
		}
		panelY += 45

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			field = newField(params)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			params.Elapsed = 0
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, backends[params.Backend]) {
			params.Backend = (params.Backend + 1) % len(backends)
			field = newField(params)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(params.Arrows, "Hide Arrows", "Show Arrows")) {
			params.Arrows = !params.Arrows
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			field = newField(params)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			field = newField(params)
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yamlLines(params) {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func yamlLines(p previewParams) []string {
	return []string{
		"simulation:",
		fmt.Sprintf("  flow_scale: %.4f", p.FlowScale),
		"noise:",
		fmt.Sprintf("  backend: %s", backends[p.Backend]),
		fmt.Sprintf("  seed: %d", p.Seed),
	}
}

func newField(p previewParams) systems.NoiseField {
	field, err := systems.NewNoiseField(backends[p.Backend], p.Seed)
	if err != nil {
		panic(err)
	}
	return field
}

// sampleAt evaluates the field the way the particle update does for a preview pixel.
func sampleAt(field systems.NoiseField, p previewParams, px, py float64) float64 {
	// Preview covers a 1280-unit wide area of the simulation.
	const worldPerPixel = 1280.0 / previewSize
	x := px * worldPerPixel
	y := py * worldPerPixel
	return field.Sample(x*p.FlowScale, y*p.FlowScale+p.Elapsed*0.1)
}

func sampleField(grid []float64, field systems.NoiseField, p previewParams) {
	scale := float64(previewSize) / gridSize
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			grid[y*gridSize+x] = sampleAt(field, p, (float64(x)+0.5)*scale, (float64(y)+0.5)*scale)
		}
	}
}

// drawArrows draws the flow direction on a coarse lattice over the preview.
func drawArrows(field systems.NoiseField, p previewParams) {
	for py := arrowStep / 2; py < previewSize; py += arrowStep {
		for px := arrowStep / 2; px < previewSize; px += arrowStep {
			angle := sampleAt(field, p, float64(px), float64(py)) * math.Pi * 4
			start := rl.Vector2{X: float32(10 + px), Y: float32(10 + py)}
			end := rl.Vector2{
				X: start.X + float32(math.Cos(angle))*arrowStep*0.4,
				Y: start.Y + float32(math.Sin(angle))*arrowStep*0.4,
			}
			rl.DrawLineV(start, end, rl.White)
			rl.DrawCircleV(end, 2, rl.White)
		}
	}
}

func gridStats(grid []float64) (minVal, maxVal, mean float64) {
	minVal, maxVal = math.Inf(1), math.Inf(-1)
	var sum float64
	for _, v := range grid {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
		sum += v
	}
	return minVal, maxVal, sum / float64(len(grid))
}

// updateTexture maps samples in [-1, 1] onto the gradient.
func updateTexture(texture rl.Texture2D, grid []float64) {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		t := (v + 1) / 2
		t = math.Max(0, math.Min(1, t)) * float64(len(gradient)-1)
		seg := int(t)
		if seg >= len(gradient)-1 {
			seg = len(gradient) - 2
		}
		c := gradient[seg].BlendLab(gradient[seg+1], t-float64(seg)).Clamped()
		r, g, b := c.RGB255()
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
