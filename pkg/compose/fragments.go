package compose

import (
	"sort"

	"github.com/odvcencio/scanline/pkg/sixel"
	"github.com/odvcencio/scanline/pkg/surface"
)

// SixelFragments scans the stack for image anchor cells and returns, for
// each image, the fragments of it that are actually visible: the image's
// pixel rectangle minus any composite-bounds clipping and minus the pixel
// footprint of every opaque cell in a higher layer. Fully occluded images
// are dropped. Fragments come back in row-major render order.
//
// Only static layers are scanned for anchors; images carry tracked payloads
// whose lifetime a compute function cannot own, so computed layers never
// contribute fragments. They do still occlude images beneath them.
func (c *Composite) SixelFragments() []sixel.Fragment {
	boundsPx := c.metrics.CellToPixelRect(0, 0, c.width, c.height)
	ctx := newContext(c)

	type placed struct {
		frag     sixel.Fragment
		absolute sixel.Rect
	}
	var found []placed

	for li, l := range c.layers {
		if l.source == nil {
			continue
		}
		for y := 0; y < l.source.Height(); y++ {
			for x := 0; x < l.source.Width(); x++ {
				cell := l.source.CellAt(x, y)
				data := surface.ImagePayload(cell)
				if data == nil {
					continue
				}

				cellX := x + l.offsetX
				cellY := y + l.offsetY
				anchor := c.metrics.CellToPixelRect(cellX, cellY, 1, 1)
				imgRect := sixel.Rect{
					X: anchor.X,
					Y: anchor.Y,
					W: data.Pixels.Width(),
					H: data.Pixels.Height(),
				}

				vis := sixel.NewVisibility(cellX, cellY, li, data.Pixels, imgRect)
				vis.ClipTo(boundsPx)
				if vis.FullyOccluded() {
					// Entirely outside the grid; skip the occlusion walk.
					continue
				}
				c.applyOcclusions(ctx, vis, imgRect, li)
				if vis.FullyOccluded() {
					continue
				}

				for _, region := range vis.Regions() {
					local := sixel.Rect{
						X: region.X - imgRect.X,
						Y: region.Y - imgRect.Y,
						W: region.W,
						H: region.H,
					}
					found = append(found, placed{
						frag: sixel.Fragment{
							Pixels: data.Pixels,
							CellX:  cellX,
							CellY:  cellY,
							Region: local,
						},
						absolute: region,
					})
				}
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].absolute.Y != found[j].absolute.Y {
			return found[i].absolute.Y < found[j].absolute.Y
		}
		return found[i].absolute.X < found[j].absolute.X
	})

	out := make([]sixel.Fragment, len(found))
	for i, p := range found {
		out[i] = p.frag
	}
	return out
}

// applyOcclusions subtracts the pixel footprint of every opaque cell that a
// layer above imageLayer contributes inside the image's cell footprint.
func (c *Composite) applyOcclusions(ctx *Context, vis *sixel.Visibility, imgRect sixel.Rect, imageLayer int) {
	// Cell range the image can touch, clamped to the composite grid.
	x0 := max(0, c.metrics.PixelToCellX(imgRect.X))
	y0 := max(0, c.metrics.PixelToCellY(imgRect.Y))
	x1 := min(c.width-1, c.metrics.PixelToCellX(imgRect.Right()-1))
	y1 := min(c.height-1, c.metrics.PixelToCellY(imgRect.Bottom()-1))

	for hi := imageLayer + 1; hi < len(c.layers); hi++ {
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				cell := ctx.cellAtLayer(hi, cx, cy)
				if !occludes(cell) {
					continue
				}
				vis.Occlude(c.metrics.CellToPixelRect(cx, cy, 1, 1))
				if vis.FullyOccluded() {
					return
				}
			}
		}
	}
}

// occludes reports whether a higher-layer cell hides the pixels beneath it:
// an explicit background, visible text, an image of its own, or the trailing
// half of a wide glyph all count.
func occludes(cell surface.Cell) bool {
	if cell.Image != nil || cell.Background != nil {
		return true
	}
	if cell.IsContinuation() {
		return true
	}
	return cell.Content != " " && cell.Content != "" && !cell.IsUnwritten()
}
