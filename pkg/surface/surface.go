package surface

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/odvcencio/scanline/pkg/tracked"
)

// Region is a rectangle in cell space, half-open on the right and bottom.
type Region struct {
	X, Y, W, H int
}

// Empty reports whether the region has zero area.
func (r Region) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether the cell (x, y) lies inside r.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersect returns the overlap of two regions, empty when disjoint.
func (r Region) Intersect(o Region) Region {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.W, o.X+o.W)
	y2 := min(r.Y+r.H, o.Y+o.H)
	if x2 <= x1 || y2 <= y1 {
		return Region{}
	}
	return Region{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Surface is a fixed-size mutable grid of cells with row-major dense
// storage. It owns its cells outright; only its own methods mutate them.
// Fresh and cleared surfaces hold the Unwritten sentinel so that stacking
// keeps never-touched areas fully transparent.
type Surface struct {
	width   int
	height  int
	metrics CellMetrics
	cells   []Cell
}

// New creates a surface with default (zero) cell metrics. Panics if either
// dimension is not positive.
func New(width, height int) *Surface {
	return NewWithMetrics(width, height, CellMetrics{})
}

// NewWithMetrics creates a surface carrying explicit cell metrics, required
// when the surface will hold image cells. Panics if either dimension is not
// positive.
func NewWithMetrics(width, height int, metrics CellMetrics) *Surface {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("surface: invalid size %dx%d", width, height))
	}
	s := &Surface{
		width:   width,
		height:  height,
		metrics: metrics,
		cells:   make([]Cell, width*height),
	}
	for i := range s.cells {
		s.cells[i] = UnwrittenCell()
	}
	return s
}

// Width returns the grid width in cells.
func (s *Surface) Width() int { return s.width }

// Height returns the grid height in cells.
func (s *Surface) Height() int { return s.height }

// Metrics returns the surface's cell metrics.
func (s *Surface) Metrics() CellMetrics { return s.metrics }

// Bounds returns the surface extent as a Region at the origin.
func (s *Surface) Bounds() Region { return Region{W: s.width, H: s.height} }

// At returns the cell at (x, y). Panics out of bounds; use TryAt on paths
// where bounds failures are expected.
func (s *Surface) At(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		panic(fmt.Sprintf("surface: cell (%d,%d) outside %dx%d grid", x, y, s.width, s.height))
	}
	return s.cells[y*s.width+x]
}

// TryAt returns the cell at (x, y) and whether the position is in bounds.
func (s *Surface) TryAt(x, y int) (Cell, bool) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Cell{}, false
	}
	return s.cells[y*s.width+x], true
}

// CellAt implements Source. Identical to At.
func (s *Surface) CellAt(x, y int) Cell { return s.At(x, y) }

// Set stores a cell at (x, y). Panics out of bounds. The surface takes its
// own reference on any tracked handles the cell carries and drops the ones
// held by the cell being overwritten.
func (s *Surface) Set(x, y int, c Cell) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		panic(fmt.Sprintf("surface: cell (%d,%d) outside %dx%d grid", x, y, s.width, s.height))
	}
	s.store(y*s.width+x, c)
}

// TrySet stores a cell if (x, y) is in bounds, reporting whether it was.
func (s *Surface) TrySet(x, y int, c Cell) bool {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return false
	}
	s.store(y*s.width+x, c)
	return true
}

// store swaps the cell at index i, keeping reference counts balanced: one
// count per handle stored in the grid.
func (s *Surface) store(i int, c Cell) {
	c.Retain()
	s.cells[i].ReleaseRefs()
	s.cells[i] = c
}

// HasImages reports whether any cell carries an image handle.
func (s *Surface) HasImages() bool {
	for i := range s.cells {
		if s.cells[i].Image != nil {
			return true
		}
	}
	return false
}

// WriteText writes a string starting at (x, y), iterating grapheme clusters
// rather than code points. Clusters that begin left of column 0 are skipped
// while still advancing the virtual position; writing stops at the right
// edge. A wide cluster that would only partially fit is replaced by plain
// space cells padding the rest of the row. Each fitting cluster writes one
// primary cell plus width-1 continuation cells. Returns the count of columns
// written.
func (s *Surface) WriteText(x, y int, text string, fg, bg *Color, attrs Attribute) int {
	if y < 0 || y >= s.height {
		return 0
	}

	written := 0
	col := x
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.StepString(text, state)
		w := runewidth.StringWidth(cluster)
		if w <= 0 {
			continue
		}
		if col < 0 {
			col += w
			continue
		}
		if col >= s.width {
			break
		}
		if col+w > s.width {
			// A clipped wide glyph would render garbage; pad with spaces.
			for ; col < s.width; col++ {
				s.store(y*s.width+col, Cell{
					Content:    " ",
					Foreground: fg,
					Background: bg,
					Attrs:      attrs,
					Width:      1,
				})
				written++
			}
			break
		}

		s.store(y*s.width+col, Cell{
			Content:    cluster,
			Foreground: fg,
			Background: bg,
			Attrs:      attrs,
			Width:      w,
		})
		for i := 1; i < w; i++ {
			s.store(y*s.width+col+i, Cell{
				Content:    "",
				Background: bg,
				Width:      0,
			})
		}
		col += w
		written += w
	}
	return written
}

// WriteImage stamps an image anchor cell at (x, y); the surface retains its
// own reference on the handle. The image's payload must carry metrics equal
// to the surface's own; callers stacking image surfaces get that checked at
// composite-layer time.
func (s *Surface) WriteImage(x, y int, ref *tracked.Ref) bool {
	if x < 0 || x >= s.width || y < 0 || y >= s.height || ref == nil {
		return false
	}
	s.store(y*s.width+x, Cell{
		Content: " ",
		Width:   1,
		Image:   ref,
	})
	return true
}

// Fill writes a constant cell into region, clamped to the surface bounds.
func (s *Surface) Fill(region Region, c Cell) {
	region = region.Intersect(s.Bounds())
	for y := region.Y; y < region.Y+region.H; y++ {
		for x := region.X; x < region.X+region.W; x++ {
			s.store(y*s.width+x, c)
		}
	}
}

// Clear resets every cell to the Unwritten sentinel. Tracked references held
// by cells are released first.
func (s *Surface) Clear() {
	for i := range s.cells {
		s.cells[i].ReleaseRefs()
		s.cells[i] = UnwrittenCell()
	}
}

// Composite eagerly paints src onto this surface at the given offset,
// optionally restricted to clip (destination coordinates). The blend is
// one-sided: the source cell wins character, foreground, and attributes
// outright, but a nil source background inherits whatever background the
// destination already had.
func (s *Surface) Composite(src Source, offsetX, offsetY int, clip *Region) {
	area := s.Bounds().Intersect(Region{X: offsetX, Y: offsetY, W: src.Width(), H: src.Height()})
	if clip != nil {
		area = area.Intersect(*clip)
	}
	if area.Empty() {
		return
	}

	for y := area.Y; y < area.Y+area.H; y++ {
		for x := area.X; x < area.X+area.W; x++ {
			cell := src.CellAt(x-offsetX, y-offsetY)
			if cell.Background == nil {
				cell.Background = s.cells[y*s.width+x].Background
			}
			s.store(y*s.width+x, cell)
		}
	}
}

// Clone returns an independent deep copy of the cell grid. Tracked handles
// are shared with the original but retained, so clone and original each own
// one reference.
func (s *Surface) Clone() *Surface {
	out := &Surface{
		width:   s.width,
		height:  s.height,
		metrics: s.metrics,
		cells:   make([]Cell, len(s.cells)),
	}
	copy(out.cells, s.cells)
	for i := range out.cells {
		out.cells[i].Retain()
	}
	return out
}

// ReleaseRefs releases every tracked reference held by the surface's cells,
// leaving the cell contents otherwise untouched. Used before pooling.
func (s *Surface) ReleaseRefs() {
	for i := range s.cells {
		s.cells[i].ReleaseRefs()
		s.cells[i].Image = nil
		s.cells[i].Link = nil
	}
}
