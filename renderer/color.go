package renderer

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor converts a hex color ("#rrggbb" or "#rgb") to an opaque NRGBA.
func ParseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parsing color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// PaletteCache memoizes parsed palette colors.
// Unparseable entries resolve to white and are reported once.
type PaletteCache struct {
	colors map[string]color.NRGBA
}

// NewPaletteCache creates an empty cache.
func NewPaletteCache() *PaletteCache {
	return &PaletteCache{colors: make(map[string]color.NRGBA, 16)}
}

// Get returns the parsed color for hex.
func (pc *PaletteCache) Get(hex string) color.NRGBA {
	if c, ok := pc.colors[hex]; ok {
		return c
	}
	c, err := ParseColor(hex)
	if err != nil {
		slog.Warn("invalid palette color", "color", hex, "error", err)
		c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	pc.colors[hex] = c
	return c
}

// Warm parses every color in palette ahead of the first frame.
func (pc *PaletteCache) Warm(palette []string) {
	for _, hex := range palette {
		pc.Get(hex)
	}
}
