package sixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferAccess(t *testing.T) {
	buf := NewBuffer(4, 3)
	assert.Equal(t, 4, buf.Width())
	assert.Equal(t, 3, buf.Height())
	assert.Equal(t, Rect{W: 4, H: 3}, buf.Bounds())

	p := RGBA{R: 9, G: 8, B: 7, A: 255}
	buf.Set(2, 1, p)
	assert.Equal(t, p, buf.At(2, 1))
	assert.Equal(t, p, buf.Row(1)[2])
	assert.Equal(t, RGBA{}, buf.At(0, 0))

	assert.Panics(t, func() { buf.At(4, 0) })
	assert.Panics(t, func() { buf.Set(0, 3, p) })
	assert.Panics(t, func() { NewBuffer(0, 5) })
}

func TestBufferFillClamps(t *testing.T) {
	buf := NewBuffer(4, 4)
	buf.Fill(Rect{X: 2, Y: 2, W: 10, H: 10}, RGBA{R: 1, A: 255})

	assert.True(t, buf.At(3, 3).Opaque())
	assert.False(t, buf.At(1, 1).Opaque())
}

func TestBufferCrop(t *testing.T) {
	buf := NewBuffer(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			buf.Set(x, y, RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	t.Run("interior", func(t *testing.T) {
		got := buf.Crop(Rect{X: 1, Y: 2, W: 3, H: 2})
		require.NotNil(t, got)
		assert.Equal(t, 3, got.Width())
		assert.Equal(t, 2, got.Height())
		assert.Equal(t, RGBA{R: 1, G: 2, A: 255}, got.At(0, 0))
		assert.Equal(t, RGBA{R: 3, G: 3, A: 255}, got.At(2, 1))
	})

	t.Run("clamped", func(t *testing.T) {
		got := buf.Crop(Rect{X: 4, Y: 4, W: 10, H: 10})
		require.NotNil(t, got)
		assert.Equal(t, 2, got.Width())
		assert.Equal(t, 2, got.Height())
	})

	t.Run("outside", func(t *testing.T) {
		assert.Nil(t, buf.Crop(Rect{X: 10, Y: 10, W: 2, H: 2}))
	})

	t.Run("crop is independent", func(t *testing.T) {
		got := buf.Crop(Rect{W: 2, H: 2})
		got.Set(0, 0, RGBA{R: 200, A: 255})
		assert.Equal(t, RGBA{A: 255}, buf.At(0, 0))
	})
}

func TestBufferVisibleRegions(t *testing.T) {
	buf := NewBuffer(10, 10)

	t.Run("no occluders", func(t *testing.T) {
		got := buf.VisibleRegions(nil)
		require.Len(t, got, 1)
		assert.Equal(t, buf.Bounds(), got[0])
	})

	t.Run("full occlusion", func(t *testing.T) {
		got := buf.VisibleRegions([]Rect{{W: 10, H: 10}})
		assert.Empty(t, got)
	})

	t.Run("two holes conserve area", func(t *testing.T) {
		holes := []Rect{{X: 0, Y: 0, W: 4, H: 4}, {X: 6, Y: 6, W: 4, H: 4}}
		got := buf.VisibleRegions(holes)
		assert.Equal(t, 100-16-16, area(got))
	})
}
