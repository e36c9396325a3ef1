package diff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/scanline/pkg/sixel"
	"github.com/odvcencio/scanline/pkg/surface"
	"github.com/odvcencio/scanline/pkg/tracked"
)

func TestCompareIdentical(t *testing.T) {
	a := surface.New(6, 2)
	a.WriteText(0, 0, "stable", surface.RGB(200, 0, 0), nil, surface.AttrBold)
	b := a.Clone()
	defer b.ReleaseRefs()

	d, err := Compare(a, b)
	require.NoError(t, err)
	assert.True(t, d.Empty())
	assert.Equal(t, 0, d.Len())
}

func TestCompareDimensionMismatch(t *testing.T) {
	a := surface.New(4, 2)
	b := surface.New(4, 3)

	_, err := Compare(a, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.Contains(t, err.Error(), "4x2")
	assert.Contains(t, err.Error(), "4x3")
}

func TestCompareRowMajorOrder(t *testing.T) {
	prev := surface.New(4, 3)
	cur := surface.New(4, 3)
	cur.WriteText(2, 0, "a", nil, nil, surface.AttrNone)
	cur.WriteText(0, 2, "b", nil, nil, surface.AttrNone)
	cur.WriteText(3, 2, "c", nil, nil, surface.AttrNone)

	d, err := Compare(prev, cur)
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())

	changes := d.Changes()
	assert.Equal(t, [2]int{2, 0}, [2]int{changes[0].X, changes[0].Y})
	assert.Equal(t, [2]int{0, 2}, [2]int{changes[1].X, changes[1].Y})
	assert.Equal(t, [2]int{3, 2}, [2]int{changes[2].X, changes[2].Y})
}

func TestCompareTrackedHandlesByContent(t *testing.T) {
	metrics := surface.CellMetrics{PixelWidth: 8, PixelHeight: 16}
	buf := sixel.NewBuffer(8, 16)
	buf.Fill(sixel.Rect{W: 8, H: 16}, sixel.RGBA{R: 9, A: 255})

	// Same pixels acquired through independent stores must still compare
	// equal cell-for-cell.
	a := surface.NewWithMetrics(4, 2, metrics)
	a.WriteImage(1, 1, surface.NewImageRef(tracked.NewStore(), buf, metrics))
	b := surface.NewWithMetrics(4, 2, metrics)
	b.WriteImage(1, 1, surface.NewImageRef(tracked.NewStore(), buf.Clone(), metrics))

	d, err := Compare(a, b)
	require.NoError(t, err)
	assert.True(t, d.Empty())
}

func TestCompareToEmpty(t *testing.T) {
	cur := surface.New(10, 3)
	cur.WriteText(0, 0, "Hi", nil, nil, surface.AttrNone)

	d := CompareToEmpty(cur)
	assert.Equal(t, 2, d.Len())
}

func TestFullDiff(t *testing.T) {
	cur := surface.New(3, 2)
	d := FullDiff(cur)
	assert.Equal(t, 6, d.Len())
}

// The canonical two-letter frame: writing "Hi" in red on a blank surface
// must cost one cursor move, one style change, and two literal writes.
func TestEncodeRedHi(t *testing.T) {
	prev := surface.New(10, 3)
	cur := surface.New(10, 3)
	cur.WriteText(0, 0, "Hi", surface.RGB(255, 0, 0), nil, surface.AttrNone)

	d, err := Compare(prev, cur)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	tokens := Encode(d)
	require.Len(t, tokens, 4)
	assert.Equal(t, TokenPosition, tokens[0].Kind)
	assert.Equal(t, 0, tokens[0].Row)
	assert.Equal(t, 0, tokens[0].Col)
	assert.Equal(t, TokenStyle, tokens[1].Kind)
	assert.Equal(t, "0;38;2;255;0;0", tokens[1].SGR)
	assert.Equal(t, TokenText, tokens[2].Kind)
	assert.Equal(t, "H", tokens[2].Text)
	assert.Equal(t, "i", tokens[3].Text)

	assert.Equal(t, "\x1b[1;1H\x1b[0;38;2;255;0;0mHi", Render(tokens))
}

func TestEncodeSkipsRedundantPosition(t *testing.T) {
	prev := surface.New(8, 1)
	cur := surface.New(8, 1)
	cur.WriteText(0, 0, "ab", nil, nil, surface.AttrNone)
	cur.WriteText(5, 0, "c", nil, nil, surface.AttrNone)

	d, err := Compare(prev, cur)
	require.NoError(t, err)

	tokens := Encode(d)
	var positions []Token
	for _, tk := range tokens {
		if tk.Kind == TokenPosition {
			positions = append(positions, tk)
		}
	}
	// One move for the run at column 0, one jump to column 5.
	require.Len(t, positions, 2)
	assert.Equal(t, 0, positions[0].Col)
	assert.Equal(t, 5, positions[1].Col)
}

func TestEncodeWideCellAdvance(t *testing.T) {
	prev := surface.New(4, 1)
	cur := surface.New(4, 1)
	cur.WriteText(0, 0, "世x", nil, nil, surface.AttrNone)

	d, err := Compare(prev, cur)
	require.NoError(t, err)
	// Primary, continuation, and the following narrow cell all changed.
	require.Equal(t, 3, d.Len())

	tokens := Encode(d)
	// The continuation cell emits nothing; the wide glyph already moved the
	// cursor across it, so "x" needs no position token.
	require.Len(t, tokens, 4)
	assert.Equal(t, TokenPosition, tokens[0].Kind)
	assert.Equal(t, TokenStyle, tokens[1].Kind)
	assert.Equal(t, "世", tokens[2].Text)
	assert.Equal(t, "x", tokens[3].Text)
}

func TestEncodeAttributeTurnOffForcesReset(t *testing.T) {
	prev := surface.New(2, 1)
	cur := surface.New(2, 1)
	cur.WriteText(0, 0, "a", nil, nil, surface.AttrBold)
	cur.WriteText(1, 0, "b", nil, nil, surface.AttrNone)

	d, err := Compare(prev, cur)
	require.NoError(t, err)

	tokens := Encode(d)
	var styles []string
	for _, tk := range tokens {
		if tk.Kind == TokenStyle {
			styles = append(styles, tk.SGR)
		}
	}
	require.Len(t, styles, 2)
	assert.Equal(t, "0;1", styles[0])
	assert.Equal(t, "0", styles[1], "dropping bold needs a full reset")
}

func TestEncodeAttributeTurnOnIsIncremental(t *testing.T) {
	prev := surface.New(2, 1)
	cur := surface.New(2, 1)
	cur.WriteText(0, 0, "a", nil, nil, surface.AttrNone)
	cur.WriteText(1, 0, "b", nil, nil, surface.AttrBold|surface.AttrUnderline)

	d, err := Compare(prev, cur)
	require.NoError(t, err)

	tokens := Encode(d)
	var styles []string
	for _, tk := range tokens {
		if tk.Kind == TokenStyle {
			styles = append(styles, tk.SGR)
		}
	}
	require.Len(t, styles, 2)
	assert.Equal(t, "0", styles[0])
	assert.Equal(t, "1;4", styles[1], "adding attributes must not reset")
}

func TestEncodeColorUnsetForcesReset(t *testing.T) {
	prev := surface.New(2, 1)
	cur := surface.New(2, 1)
	cur.WriteText(0, 0, "a", surface.RGB(0, 255, 0), surface.RGB(0, 0, 255), surface.AttrNone)
	cur.WriteText(1, 0, "b", nil, nil, surface.AttrNone)

	d, err := Compare(prev, cur)
	require.NoError(t, err)

	tokens := Encode(d)
	var styles []string
	for _, tk := range tokens {
		if tk.Kind == TokenStyle {
			styles = append(styles, tk.SGR)
		}
	}
	require.Len(t, styles, 2)
	assert.Equal(t, "0;38;2;0;255;0;48;2;0;0;255", styles[0])
	assert.Equal(t, "0", styles[1])
}

func TestEncodeBackgroundOnlyChange(t *testing.T) {
	prev := surface.New(2, 1)
	cur := surface.New(2, 1)
	cur.WriteText(0, 0, "a", surface.RGB(1, 2, 3), nil, surface.AttrNone)
	cur.WriteText(1, 0, "b", surface.RGB(1, 2, 3), surface.RGB(9, 8, 7), surface.AttrNone)

	d, err := Compare(prev, cur)
	require.NoError(t, err)

	tokens := Encode(d)
	var styles []string
	for _, tk := range tokens {
		if tk.Kind == TokenStyle {
			styles = append(styles, tk.SGR)
		}
	}
	require.Len(t, styles, 2)
	assert.Equal(t, "48;2;9;8;7", styles[1], "unchanged foreground is not re-sent")
}

func TestEncodeUnwrittenRendersAsSpace(t *testing.T) {
	cur := surface.New(2, 1)
	tokens := Encode(FullDiff(cur))

	var texts []string
	for _, tk := range tokens {
		if tk.Kind == TokenText {
			texts = append(texts, tk.Text)
		}
	}
	assert.Equal(t, []string{" ", " "}, texts)
}

// applyDiff replays a change list onto a surface the way a terminal would
// consume the encoded stream.
func applyDiff(dst *surface.Surface, d *Diff) {
	for _, ch := range d.Changes() {
		dst.Set(ch.X, ch.Y, ch.Cell)
	}
}

func TestDiffRoundTrip(t *testing.T) {
	frameA := surface.New(12, 4)
	frameA.WriteText(0, 0, "status: idle", surface.RGB(128, 128, 128), nil, surface.AttrNone)
	frameA.WriteText(0, 2, "progress 0%", nil, nil, surface.AttrDim)

	frameB := surface.New(12, 4)
	frameB.WriteText(0, 0, "status: busy", surface.RGB(255, 255, 0), nil, surface.AttrBold)
	frameB.WriteText(0, 2, "progress 50%", nil, nil, surface.AttrDim)

	d, err := Compare(frameA, frameB)
	require.NoError(t, err)
	require.False(t, d.Empty())

	replayed := frameA.Clone()
	defer replayed.ReleaseRefs()
	applyDiff(replayed, d)

	verify, err := Compare(replayed, frameB)
	require.NoError(t, err)
	assert.True(t, verify.Empty(), "applying the diff must reproduce the target frame")
}
