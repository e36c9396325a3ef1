package surface

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit RGB value. Cells carry *Color so that nil can mean
// "transparent, inherit from the layer below".
type Color struct {
	R, G, B uint8
}

// RGB returns a color pointer for the given components.
func RGB(r, g, b uint8) *Color {
	return &Color{R: r, G: g, B: b}
}

// Hex parses a color from a "#rrggbb" or "rrggbb" string.
func Hex(s string) (*Color, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return &Color{R: r, G: g, B: b}, nil
}

// Blend mixes this color toward other by t in [0,1] using LAB interpolation,
// which avoids the muddy midpoints plain RGB blending produces.
func (c *Color) Blend(other *Color, t float64) *Color {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	a := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	b := colorful.Color{R: float64(other.R) / 255, G: float64(other.G) / 255, B: float64(other.B) / 255}
	m := a.BlendLab(b, t).Clamped()
	r, g, bl := m.RGB255()
	return &Color{R: r, G: g, B: bl}
}

// ColorsEqual compares two optional colors; two nils are equal.
func ColorsEqual(a, b *Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
