package sixel

import (
	"image"

	"golang.org/x/image/draw"
)

// FromImage copies a stdlib image into a Buffer. Returns nil for empty
// images.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil
	}
	out := NewBuffer(bounds.Dx(), bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Set(x, y, RGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

// FromImageScaled resizes a stdlib image to width×height pixels and converts
// it. Returns nil when the target size is not positive.
func FromImageScaled(img image.Image, width, height int) *Buffer {
	if width <= 0 || height <= 0 {
		return nil
	}
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	return FromImage(scaled)
}
