package renderer

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// upperHalf draws the top pixel as foreground and the bottom pixel as background.
const upperHalf = '▀'

// TerminalSurface renders a canvas to a terminal, two vertical pixels per cell.
type TerminalSurface struct {
	*Canvas
	screen tcell.Screen
}

// NewTerminalSurface creates a surface sized to the screen.
func NewTerminalSurface(screen tcell.Screen) *TerminalSurface {
	cols, rows := screen.Size()
	return &TerminalSurface{
		Canvas: NewCanvas(cols, rows*2),
		screen: screen,
	}
}

// Resize matches the canvas to a new terminal size in cells.
func (t *TerminalSurface) Resize(cols, rows int) {
	t.Canvas.Resize(cols, rows*2)
}

// CellToSurface converts a terminal cell position to surface coordinates at the cell center.
func CellToSurface(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row*2) + 1
}

// Present copies the canvas to the screen and shows it.
func (t *TerminalSurface) Present() {
	cols := t.width
	rows := t.height / 2
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := t.At(col, row*2)
			bottom := t.At(col, row*2+1)
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			t.screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
	t.screen.Show()
}

func toTcell(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
