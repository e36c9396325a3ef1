package sixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectBasics(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 4, H: 5}

	assert.Equal(t, 6, r.Right())
	assert.Equal(t, 8, r.Bottom())
	assert.False(t, r.Empty())
	assert.True(t, Rect{}.Empty())
	assert.True(t, Rect{W: 3}.Empty())

	assert.True(t, r.Contains(2, 3))
	assert.True(t, r.Contains(5, 7))
	assert.False(t, r.Contains(6, 3))
	assert.False(t, r.Contains(2, 8))
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, Rect{5, 5, 5, 5}},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 2, 3, 3}, Rect{2, 2, 3, 3}},
		{"disjoint", Rect{0, 0, 5, 5}, Rect{5, 0, 5, 5}, Rect{}},
		{"touching corners", Rect{0, 0, 5, 5}, Rect{5, 5, 5, 5}, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersect(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersect(tt.a))
		})
	}
}

// area sums the pixel count of a rectangle list.
func area(rects []Rect) int {
	total := 0
	for _, r := range rects {
		if !r.Empty() {
			total += r.W * r.H
		}
	}
	return total
}

func TestRectSubtract(t *testing.T) {
	t.Run("hole outside leaves rect untouched", func(t *testing.T) {
		r := Rect{0, 0, 4, 4}
		got := r.Subtract(Rect{10, 10, 2, 2})
		require.Len(t, got, 1)
		assert.Equal(t, r, got[0])
	})

	t.Run("hole covering everything leaves nothing", func(t *testing.T) {
		got := Rect{2, 2, 4, 4}.Subtract(Rect{0, 0, 10, 10})
		assert.Empty(t, got)
	})

	t.Run("central hole yields four slices", func(t *testing.T) {
		got := Rect{0, 0, 10, 10}.Subtract(Rect{3, 3, 4, 4})
		assert.Len(t, got, 4)
	})

	t.Run("edge hole yields fewer slices", func(t *testing.T) {
		got := Rect{0, 0, 10, 10}.Subtract(Rect{0, 0, 10, 4})
		require.Len(t, got, 1)
		assert.Equal(t, Rect{0, 4, 10, 6}, got[0])
	})
}

// TestRectSubtractCompleteness checks the tiling property over a grid of
// hole placements: fragments are disjoint, inside r, miss the hole, and
// together with hole∩r cover r exactly.
func TestRectSubtractCompleteness(t *testing.T) {
	r := Rect{X: 1, Y: 1, W: 8, H: 6}

	holes := []Rect{
		{3, 2, 3, 3},   // interior
		{0, 0, 4, 4},   // overlapping top-left
		{7, 5, 10, 10}, // overlapping bottom-right
		{0, 3, 20, 2},  // horizontal band through
		{4, 0, 2, 20},  // vertical band through
		{1, 1, 8, 6},   // exact cover
		{12, 12, 2, 2}, // disjoint
	}

	for _, hole := range holes {
		frags := r.Subtract(hole)
		cut := r.Intersect(hole)

		// Disjoint fragments inside r, none touching the hole.
		for i, f := range frags {
			require.False(t, f.Empty())
			assert.Equal(t, f, f.Intersect(r), "fragment %v escapes %v", f, r)
			assert.True(t, f.Intersect(hole).Empty(), "fragment %v overlaps hole %v", f, hole)
			for j := i + 1; j < len(frags); j++ {
				assert.True(t, f.Intersect(frags[j]).Empty(),
					"fragments %v and %v overlap", f, frags[j])
			}
		}

		// Exact area conservation.
		cutArea := 0
		if !cut.Empty() {
			cutArea = cut.W * cut.H
		}
		assert.Equal(t, r.W*r.H, area(frags)+cutArea, "hole %v", hole)

		// Every pixel of r is accounted for on exactly one side.
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				inFrag := false
				for _, f := range frags {
					if f.Contains(x, y) {
						inFrag = true
						break
					}
				}
				assert.Equal(t, !cut.Contains(x, y), inFrag, "pixel (%d,%d) hole %v", x, y, hole)
			}
		}
	}
}
