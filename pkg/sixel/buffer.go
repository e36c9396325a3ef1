package sixel

import "fmt"

// Buffer is a dense W×H grid of RGBA pixels, independent of any cell grid.
type Buffer struct {
	width  int
	height int
	pixels []RGBA
}

// NewBuffer creates a transparent buffer. Panics if either dimension is not
// positive; zero-area images indicate a caller bug.
func NewBuffer(width, height int) *Buffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("sixel: invalid buffer size %dx%d", width, height))
	}
	return &Buffer{
		width:  width,
		height: height,
		pixels: make([]RGBA, width*height),
	}
}

// Width returns the pixel width.
func (b *Buffer) Width() int { return b.width }

// Height returns the pixel height.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the buffer extent as a Rect anchored at the origin.
func (b *Buffer) Bounds() Rect { return Rect{W: b.width, H: b.height} }

// At returns the pixel at (x, y). Panics out of bounds.
func (b *Buffer) At(x, y int) RGBA {
	b.check(x, y)
	return b.pixels[y*b.width+x]
}

// Set stores a pixel at (x, y). Panics out of bounds.
func (b *Buffer) Set(x, y int, p RGBA) {
	b.check(x, y)
	b.pixels[y*b.width+x] = p
}

// Row returns the pixels of row y as a shared slice.
func (b *Buffer) Row(y int) []RGBA {
	b.check(0, y)
	return b.pixels[y*b.width : (y+1)*b.width]
}

// Fill sets every pixel inside region (clamped to the buffer) to p.
func (b *Buffer) Fill(region Rect, p RGBA) {
	region = region.Intersect(b.Bounds())
	for y := region.Y; y < region.Bottom(); y++ {
		row := b.Row(y)
		for x := region.X; x < region.Right(); x++ {
			row[x] = p
		}
	}
}

// Crop returns a new buffer holding the pixels of region. The region is
// clamped to the buffer bounds; a region entirely outside returns nil.
func (b *Buffer) Crop(region Rect) *Buffer {
	region = region.Intersect(b.Bounds())
	if region.Empty() {
		return nil
	}
	out := NewBuffer(region.W, region.H)
	for y := 0; y < region.H; y++ {
		src := b.Row(region.Y + y)
		copy(out.Row(y), src[region.X:region.Right()])
	}
	return out
}

// Clone returns an independent copy.
func (b *Buffer) Clone() *Buffer {
	out := NewBuffer(b.width, b.height)
	copy(out.pixels, b.pixels)
	return out
}

// Equal reports pixel-exact equality of dimensions and content.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i := range b.pixels {
		if b.pixels[i] != o.pixels[i] {
			return false
		}
	}
	return true
}

// VisibleRegions returns the parts of the buffer bounds that survive after
// subtracting every occluder. Occluders are in buffer-local coordinates.
// With no occluders the result is the full bounds.
func (b *Buffer) VisibleRegions(occluders []Rect) []Rect {
	return subtractAll([]Rect{b.Bounds()}, occluders)
}

func (b *Buffer) check(x, y int) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("sixel: pixel (%d,%d) outside %dx%d buffer", x, y, b.width, b.height))
	}
}
