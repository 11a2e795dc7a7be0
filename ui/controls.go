package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flux/config"
)

// ControlPanel is the preset and slider panel drawn over the flow field.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlPanel creates a visible panel at the given position.
func NewControlPanel(x, y, width int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies over the visible panel.
func (c *ControlPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return rl.CheckCollisionPointRec(rl.Vector2{X: x, Y: y}, c.bounds(0))
}

// PanelResult reports what the user changed this frame.
type PanelResult struct {
	Preset     string                  // Preset button pressed, if any
	Simulation config.SimulationConfig // Slider-edited settings
	Changed    bool                    // Simulation differs from the input
}

// Draw renders the panel and returns the user's edits.
func (c *ControlPanel) Draw(sim config.SimulationConfig, presets []string) PanelResult {
	res := PanelResult{Simulation: sim}
	if !c.visible {
		return res
	}

	r := c.renderer
	t := r.Theme
	bounds := c.bounds(len(presets))
	r.DrawPanel(int32(bounds.X), int32(bounds.Y), int32(bounds.Width), int32(bounds.Height))

	x := c.x + t.Padding
	y := c.y + t.Padding
	inner := c.width - t.Padding*2

	y = r.DrawSectionHeader(x, y, "Flux")

	// Presets, two per row
	buttonW := (inner - t.Padding) / 2
	for i, name := range presets {
		bx := x + int32(i%2)*(buttonW+t.Padding)
		by := y + int32(i/2)*(t.ButtonHeight+4)
		if gui.Button(rl.Rectangle{X: float32(bx), Y: float32(by), Width: float32(buttonW), Height: float32(t.ButtonHeight)}, name) {
			res.Preset = name
		}
		if name == sim.Palette {
			rl.DrawRectangleLines(bx, by, buttonW, t.ButtonHeight, t.ActiveColor)
		}
	}
	y += int32((len(presets)+1)/2)*(t.ButtonHeight+4) + t.Padding

	for _, s := range Sliders {
		y = r.DrawLabelValue(x, y, s.Label, s.Text(&res.Simulation))
		rect := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: float32(t.SliderHeight)}
		v := gui.SliderBar(rect, "", "", float32(s.Get(&res.Simulation)), float32(s.Min), float32(s.Max))
		if s.Update(&res.Simulation, float64(v)) {
			res.Changed = true
		}
		y += t.SliderHeight + t.Padding/2
	}

	rl.DrawText("[H] hide  [Space] pause  [R] reseed", x, y, t.FontSize, t.LabelColor)
	return res
}

// bounds returns the panel rectangle for a given preset count.
func (c *ControlPanel) bounds(presetCount int) rl.Rectangle {
	t := c.renderer.Theme
	if presetCount == 0 {
		presetCount = 5
	}
	rows := int32((presetCount + 1) / 2)
	height := t.Padding*2 + t.LineHeight + 4 +
		rows*(t.ButtonHeight+4) + t.Padding +
		int32(len(Sliders))*(t.LineHeight+t.SliderHeight+t.Padding/2) +
		t.LineHeight
	return rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(height)}
}
