// Package renderer provides drawing surfaces for the flow field.
package renderer

import "image/color"

// Surface is a 2D drawing target. Colors are non-premultiplied; A is the blend opacity.
type Surface interface {
	// Size returns the current surface dimensions. Zero means not yet laid out.
	Size() (width, height float64)
	FillRect(x, y, w, h float64, c color.NRGBA)
	FillCircle(x, y, radius float64, c color.NRGBA)
}

// WithAlpha returns c with its alpha set from a [0,1] opacity.
func WithAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	switch {
	case opacity <= 0:
		c.A = 0
	case opacity >= 1:
		c.A = 255
	default:
		c.A = uint8(opacity*255 + 0.5)
	}
	return c
}
