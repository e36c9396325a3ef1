package surface

import (
	"github.com/odvcencio/scanline/pkg/tracked"
)

// Unwritten is the reserved sentinel for a cell that has never been written.
// It is distinct from an explicit space: an Unwritten cell is fully
// transparent during compositing. The code point is the first Private Use
// Area value and must never appear in legitimate caller input.
const Unwritten = ""

// Cell is the atomic rendering unit: one grapheme cluster with optional
// colors, attributes, display width, and optional tracked payload handles.
// Cells are value types; copying one does not change tracked reference
// counts — callers that duplicate ownership use Retain.
type Cell struct {
	// Content is a full grapheme cluster, not a single code unit. Empty for
	// continuation cells.
	Content string
	// Foreground and Background are nil when transparent (inherit from the
	// layer below).
	Foreground *Color
	Background *Color
	Attrs      Attribute
	// Width is the display width: 0 marks the continuation of a preceding
	// wide cell, 1 is normal, 2+ is a wide primary cell.
	Width int
	// Image and Link are optional reference-counted payload handles.
	Image *tracked.Ref
	Link  *tracked.Ref
}

// EmptyCell returns a bare default space with width 1.
func EmptyCell() Cell {
	return Cell{Content: " ", Width: 1}
}

// UnwrittenCell returns the fully transparent sentinel cell.
func UnwrittenCell() Cell {
	return Cell{Content: Unwritten, Width: 1}
}

// IsContinuation reports whether the cell trails a wide cell.
func (c Cell) IsContinuation() bool { return c.Width == 0 }

// IsUnwritten reports whether the cell carries the never-written sentinel.
func (c Cell) IsUnwritten() bool { return c.Content == Unwritten }

// Empty reports whether the cell is a plain default space with no styling,
// which compositing treats as transparent.
func (c Cell) Empty() bool {
	return c.Content == " " &&
		c.Foreground == nil &&
		c.Background == nil &&
		c.Attrs == AttrNone &&
		c.Image == nil
}

// SameVisual compares the parts of a cell that affect what the terminal
// shows: content, colors, attributes, and width. Tracked handles compare by
// the payload they point at, not handle identity.
func (c Cell) SameVisual(o Cell) bool {
	return c.Content == o.Content &&
		ColorsEqual(c.Foreground, o.Foreground) &&
		ColorsEqual(c.Background, o.Background) &&
		c.Attrs == o.Attrs &&
		c.Width == o.Width &&
		refsEqual(c.Image, o.Image) &&
		refsEqual(c.Link, o.Link)
}

// Retain increments the reference counts of any tracked handles the cell
// holds. Call when a copy takes ownership (cloning a surface, stashing a
// cell beyond the current frame).
func (c Cell) Retain() {
	c.Image.Retain()
	c.Link.Retain()
}

// ReleaseRefs decrements the reference counts of any tracked handles. Call
// before discarding an owned cell (pool eviction, clear-for-reuse).
func (c Cell) ReleaseRefs() {
	c.Image.Release()
	c.Link.Release()
}

func refsEqual(a, b *tracked.Ref) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Key() == b.Key()
}
