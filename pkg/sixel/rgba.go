// Package sixel implements pixel buffers, rectangle geometry, and encoding to
// the DEC Sixel graphics wire format, including occlusion-aware fragmenting of
// partially covered images.
package sixel

// RGBA is a 32-bit pixel. Alpha below the opacity threshold is treated as a
// transparent hole by the encoder.
type RGBA struct {
	R, G, B, A uint8
}

// opacityThreshold is the minimum alpha considered opaque.
const opacityThreshold = 128

// Opaque reports whether the pixel is drawn at all.
func (p RGBA) Opaque() bool { return p.A >= opacityThreshold }

// Quantize reduces the pixel to 6 bits per channel and packs the result into
// an 18-bit value. Two pixels that quantize equal share a palette slot.
func (p RGBA) Quantize() uint32 {
	r := uint32(p.R) >> 2
	g := uint32(p.G) >> 2
	b := uint32(p.B) >> 2
	return r<<12 | g<<6 | b
}

// unpackQuantized expands an 18-bit packed value back to 8-bit channels.
func unpackQuantized(q uint32) (r, g, b uint8) {
	r = uint8(q>>12&0x3f) << 2
	g = uint8(q>>6&0x3f) << 2
	b = uint8(q&0x3f) << 2
	return r, g, b
}

// scale100 maps a 6-bit channel onto the 0-100 range Sixel color directives
// use.
func scale100(c6 uint32) int {
	return int(c6 * 100 / 63)
}

// distanceSq is the squared RGB distance between two packed quantized colors.
func distanceSq(a, b uint32) int {
	ar, ag, ab := unpackQuantized(a)
	br, bg, bb := unpackQuantized(b)
	dr := int(ar) - int(br)
	dg := int(ag) - int(bg)
	db := int(ab) - int(bb)
	return dr*dr + dg*dg + db*db
}
