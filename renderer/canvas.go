package renderer

import (
	"image"
	"image/color"
	"math"
)

// Canvas is an in-memory raster surface with alpha blending.
// Channels are stored as float32 so repeated low-alpha fades converge to the
// background instead of stalling on 8-bit rounding.
type Canvas struct {
	width, height int
	pix           []float32 // r, g, b per pixel in [0, 255]
}

// NewCanvas creates a black canvas of the given pixel size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the canvas and clears it to black.
func (c *Canvas) Resize(width, height int) {
	c.width = max(width, 0)
	c.height = max(height, 0)
	n := c.width * c.height * 3
	if cap(c.pix) >= n {
		c.pix = c.pix[:n]
		clear(c.pix)
	} else {
		c.pix = make([]float32, n)
	}
}

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() (float64, float64) {
	return float64(c.width), float64(c.height)
}

// Clear fills the whole canvas with an opaque color.
func (c *Canvas) Clear(col color.NRGBA) {
	for i := 0; i < len(c.pix); i += 3 {
		c.pix[i] = float32(col.R)
		c.pix[i+1] = float32(col.G)
		c.pix[i+2] = float32(col.B)
	}
}

// FillRect blends col over the pixels whose centers fall inside the rectangle.
func (c *Canvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	x0, x1 := c.span(x, x+w, c.width)
	y0, y1 := c.span(y, y+h, c.height)
	if col.A == 0 || x0 >= x1 || y0 >= y1 {
		return
	}
	a := float32(col.A) / 255
	r, g, b := float32(col.R), float32(col.G), float32(col.B)
	for py := y0; py < y1; py++ {
		row := py * c.width * 3
		for px := x0; px < x1; px++ {
			c.blend(row+px*3, r, g, b, a)
		}
	}
}

// FillCircle blends col over the pixels whose centers lie within radius of (x, y).
// The pixel containing the center is always painted so sub-pixel dots stay visible.
func (c *Canvas) FillCircle(x, y, radius float64, col color.NRGBA) {
	if col.A == 0 || c.width == 0 || c.height == 0 {
		return
	}
	a := float32(col.A) / 255
	r, g, b := float32(col.R), float32(col.G), float32(col.B)

	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	if cx >= 0 && cx < c.width && cy >= 0 && cy < c.height {
		c.blend((cy*c.width+cx)*3, r, g, b, a)
	}

	x0, x1 := c.span(x-radius, x+radius, c.width)
	y0, y1 := c.span(y-radius, y+radius, c.height)
	r2 := radius * radius
	for py := y0; py < y1; py++ {
		dy := float64(py) + 0.5 - y
		row := py * c.width * 3
		for px := x0; px < x1; px++ {
			if px == cx && py == cy {
				continue
			}
			dx := float64(px) + 0.5 - x
			if dx*dx+dy*dy <= r2 {
				c.blend(row+px*3, r, g, b, a)
			}
		}
	}
}

// At returns the pixel color at (x, y).
func (c *Canvas) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return color.NRGBA{}
	}
	i := (y*c.width + x) * 3
	return color.NRGBA{R: to8(c.pix[i]), G: to8(c.pix[i+1]), B: to8(c.pix[i+2]), A: 255}
}

// Image copies the canvas into an image for encoding.
func (c *Canvas) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			img.SetNRGBA(x, y, c.At(x, y))
		}
	}
	return img
}

// span converts [lo, hi) in surface units to the pixel index range whose centers it covers.
func (c *Canvas) span(lo, hi float64, limit int) (int, int) {
	a := int(math.Ceil(lo - 0.5))
	b := int(math.Ceil(hi - 0.5))
	return max(a, 0), min(b, limit)
}

func (c *Canvas) blend(i int, r, g, b, a float32) {
	c.pix[i] += (r - c.pix[i]) * a
	c.pix[i+1] += (g - c.pix[i+1]) * a
	c.pix[i+2] += (b - c.pix[i+2]) * a
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
