package surface

import (
	"math"

	"github.com/odvcencio/scanline/pkg/sixel"
)

// CellMetrics describes the pixel footprint of one terminal cell. Some
// terminals report a fractional cell width; ActualWidth carries it when
// known, otherwise zero means "use PixelWidth".
type CellMetrics struct {
	PixelWidth  int
	PixelHeight int
	ActualWidth float64
}

// EffectiveWidth returns the fractional width when set, else the integer
// width.
func (m CellMetrics) EffectiveWidth() float64 {
	if m.ActualWidth > 0 {
		return m.ActualWidth
	}
	return float64(m.PixelWidth)
}

// Equal compares metrics exactly, fractional width included.
func (m CellMetrics) Equal(o CellMetrics) bool {
	return m.PixelWidth == o.PixelWidth &&
		m.PixelHeight == o.PixelHeight &&
		m.ActualWidth == o.ActualWidth
}

// CellToPixelRect converts a cell-space rectangle to pixel space.
func (m CellMetrics) CellToPixelRect(x, y, w, h int) sixel.Rect {
	x0 := int(math.Round(float64(x) * m.EffectiveWidth()))
	x1 := int(math.Round(float64(x+w) * m.EffectiveWidth()))
	return sixel.Rect{
		X: x0,
		Y: y * m.PixelHeight,
		W: x1 - x0,
		H: h * m.PixelHeight,
	}
}

// PixelToCellX converts a pixel column to the cell column containing it.
func (m CellMetrics) PixelToCellX(px int) int {
	return int(math.Floor(float64(px) / m.EffectiveWidth()))
}

// PixelToCellY converts a pixel row to the cell row containing it.
func (m CellMetrics) PixelToCellY(py int) int {
	if m.PixelHeight <= 0 {
		return 0
	}
	return py / m.PixelHeight
}

// CellsForPixels returns how many whole cells are needed to cover the given
// pixel extent.
func (m CellMetrics) CellsForPixels(pw, ph int) (cols, rows int) {
	cols = int(math.Ceil(float64(pw) / m.EffectiveWidth()))
	if m.PixelHeight > 0 {
		rows = (ph + m.PixelHeight - 1) / m.PixelHeight
	}
	return cols, rows
}
