// Package compose implements the lazy layered compositor: an ordered stack
// of cell sources and computed layers resolved on demand, with cycle-safe
// look-below queries and occlusion-aware extraction of visible image
// fragments.
package compose

import (
	"fmt"

	"github.com/odvcencio/scanline/pkg/surface"
)

// ComputeFunc produces the cell a computed layer contributes at a position
// in the layer's own coordinate space (composite position minus the layer
// offset). The context lets it query what lower layers resolve to, in
// composite coordinates; any query that would recurse back into the same
// cell is answered with an empty cell instead of looping.
type ComputeFunc func(x, y int, ctx *Context) surface.Cell

// layer is one stack entry: either a static source or a compute function,
// never both.
type layer struct {
	source  surface.Source
	compute ComputeFunc
	offsetX int
	offsetY int
}

// Composite is an ordered stack of layers over a fixed-size grid. Layer 0 is
// bottom-most; later layers paint over earlier ones. Resolution is lazy:
// nothing is stored per cell until Flatten.
type Composite struct {
	width    int
	height   int
	metrics  surface.CellMetrics
	layers   []layer
	computed int
}

// New creates an empty composite. Panics if either dimension is not
// positive.
func New(width, height int, metrics surface.CellMetrics) *Composite {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("compose: invalid size %dx%d", width, height))
	}
	return &Composite{width: width, height: height, metrics: metrics}
}

// Width returns the grid width in cells.
func (c *Composite) Width() int { return c.width }

// Height returns the grid height in cells.
func (c *Composite) Height() int { return c.height }

// Metrics returns the composite's cell metrics.
func (c *Composite) Metrics() surface.CellMetrics { return c.metrics }

// LayerCount returns how many layers are stacked.
func (c *Composite) LayerCount() int { return len(c.layers) }

// HasImages reports whether any static layer carries image cells.
func (c *Composite) HasImages() bool {
	for _, l := range c.layers {
		if l.source != nil && l.source.HasImages() {
			return true
		}
	}
	return false
}

// AddLayer appends a static source on top of the stack. When the source
// carries image content its cell metrics must equal the composite's; that is
// checked here, not at resolution time.
func (c *Composite) AddLayer(src surface.Source, offsetX, offsetY int) error {
	if src.HasImages() && !src.Metrics().Equal(c.metrics) {
		return fmt.Errorf("compose: layer %d cell metrics %+v do not match composite metrics %+v",
			len(c.layers), src.Metrics(), c.metrics)
	}
	c.layers = append(c.layers, layer{source: src, offsetX: offsetX, offsetY: offsetY})
	return nil
}

// AddComputedLayer appends a zero-storage layer whose cells are produced by
// fn on demand.
func (c *Composite) AddComputedLayer(offsetX, offsetY int, fn ComputeFunc) {
	c.layers = append(c.layers, layer{compute: fn, offsetX: offsetX, offsetY: offsetY})
	c.computed++
}

// ClearLayers drops every layer.
func (c *Composite) ClearLayers() {
	c.layers = c.layers[:0]
	c.computed = 0
}

// CellAt resolves the stack at (x, y) to a final cell. With no computed
// layers this is a plain bottom-up fold with no allocation; otherwise a
// resolution context carries the cycle-detection state.
func (c *Composite) CellAt(x, y int) surface.Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		panic(fmt.Sprintf("compose: cell (%d,%d) outside %dx%d grid", x, y, c.width, c.height))
	}
	if c.computed == 0 {
		acc := surface.UnwrittenCell()
		for i := range c.layers {
			acc = compositeCell(acc, c.staticCell(i, x, y))
		}
		return acc
	}
	return newContext(c).resolveUpTo(x, y, len(c.layers))
}

// staticCell reads layer i (which must be static) at composite position
// (x, y), returning the transparent sentinel outside the layer's bounds.
func (c *Composite) staticCell(i, x, y int) surface.Cell {
	l := c.layers[i]
	lx, ly := x-l.offsetX, y-l.offsetY
	if lx < 0 || ly < 0 || lx >= l.source.Width() || ly >= l.source.Height() {
		return surface.UnwrittenCell()
	}
	return l.source.CellAt(lx, ly)
}

// Flatten materializes every cell of the stack into a new eager surface.
// This is the only full-grid resolution; CellAt stays per-cell lazy.
func (c *Composite) Flatten() *surface.Surface {
	out := surface.NewWithMetrics(c.width, c.height, c.metrics)
	if c.computed == 0 {
		for y := 0; y < c.height; y++ {
			for x := 0; x < c.width; x++ {
				out.Set(x, y, c.CellAt(x, y))
			}
		}
		return out
	}
	ctx := newContext(c)
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			out.Set(x, y, ctx.resolveUpTo(x, y, len(c.layers)))
		}
	}
	return out
}

// compositeCell folds one layer's cell over the accumulated result below it.
// Color transparency resolves first, then continuation cells win, the
// unwritten sentinel passes through fully, anything visibly set wins, and a
// bare untouched space lets the lower result show.
func compositeCell(below, above surface.Cell) surface.Cell {
	explicitBG := above.Background != nil
	merged := above
	if merged.Background == nil {
		merged.Background = below.Background
	}
	if merged.Foreground == nil {
		merged.Foreground = below.Foreground
	}

	if merged.IsContinuation() {
		return merged
	}
	if above.IsUnwritten() {
		return below
	}
	if above.Content != " " || explicitBG || above.Foreground != nil ||
		above.Attrs != surface.AttrNone || above.Image != nil || above.Link != nil {
		return merged
	}
	return below
}
