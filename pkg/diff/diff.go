// Package diff computes cell-level differences between surface snapshots and
// translates them into a minimal terminal escape-sequence stream.
package diff

import (
	"errors"
	"fmt"

	"github.com/odvcencio/scanline/pkg/surface"
)

// ErrDimensionMismatch is returned when two surfaces being compared are not
// the same size.
var ErrDimensionMismatch = errors.New("diff: surface dimensions differ")

// Change records one cell whose visual identity differs between two frames.
type Change struct {
	X, Y int
	Cell surface.Cell
}

// Diff is an immutable, row-major list of changed cells. Build it once with
// Compare and feed it to Encode.
type Diff struct {
	changes []Change
}

// Len returns the number of changed cells.
func (d *Diff) Len() int { return len(d.changes) }

// Empty reports whether nothing changed.
func (d *Diff) Empty() bool { return len(d.changes) == 0 }

// Changes returns the ordered change list. Callers must not mutate it.
func (d *Diff) Changes() []Change { return d.changes }

// Compare collects every cell whose character, colors, attributes, or width
// differ between two same-sized surfaces, in row-major order. Tracked
// handles compare by content, not identity.
func Compare(previous, current *surface.Surface) (*Diff, error) {
	if previous.Width() != current.Width() || previous.Height() != current.Height() {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch,
			previous.Width(), previous.Height(), current.Width(), current.Height())
	}

	d := &Diff{}
	for y := 0; y < current.Height(); y++ {
		for x := 0; x < current.Width(); x++ {
			cur := current.At(x, y)
			if !cur.SameVisual(previous.At(x, y)) {
				d.changes = append(d.changes, Change{X: x, Y: y, Cell: cur})
			}
		}
	}
	return d, nil
}

// CompareToEmpty diffs current against an all-default baseline, as if the
// previous frame had never been written.
func CompareToEmpty(current *surface.Surface) *Diff {
	baseline := surface.UnwrittenCell()
	d := &Diff{}
	for y := 0; y < current.Height(); y++ {
		for x := 0; x < current.Width(); x++ {
			cur := current.At(x, y)
			if !cur.SameVisual(baseline) {
				d.changes = append(d.changes, Change{X: x, Y: y, Cell: cur})
			}
		}
	}
	return d
}

// FullDiff marks every cell as changed, forcing a complete redraw.
func FullDiff(current *surface.Surface) *Diff {
	d := &Diff{changes: make([]Change, 0, current.Width()*current.Height())}
	for y := 0; y < current.Height(); y++ {
		for x := 0; x < current.Width(); x++ {
			d.changes = append(d.changes, Change{X: x, Y: y, Cell: current.At(x, y)})
		}
	}
	return d
}
