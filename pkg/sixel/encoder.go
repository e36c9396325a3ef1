package sixel

import (
	"sort"
	"strconv"
	"strings"
)

// Wire-format pieces. Introducer parameters are aspect ratio 0, background
// mode 1 (keep), and horizontal grid 0.
const (
	introducer  = "\x1bP0;1;0q"
	terminator  = "\x1b\\"
	bandRewind  = '$'
	bandAdvance = '-'
)

// maxPalette is the hard slot limit of the Sixel color table we emit. Images
// with more distinct quantized colors collapse to nearest-match; that loss is
// silent by design.
const maxPalette = 256

// rleThreshold: runs of this length or shorter are written literally.
const rleThreshold = 3

// Encode converts a pixel buffer into a complete Sixel escape sequence.
// Pixels with alpha below the opacity threshold become transparent holes.
// Output is deterministic: the same buffer always encodes to the same bytes.
func Encode(b *Buffer) string {
	var out strings.Builder
	out.Grow(b.width*b.height/2 + 64)

	out.WriteString(introducer)
	out.WriteByte('"')
	out.WriteString("1;1;")
	out.WriteString(strconv.Itoa(b.width))
	out.WriteByte(';')
	out.WriteString(strconv.Itoa(b.height))

	palette, lookup := buildPalette(b)
	if len(palette) == 0 {
		// Nothing opaque to draw: raster header only.
		out.WriteString(terminator)
		return out.String()
	}

	for i, q := range palette {
		r, g, bl := unpackQuantized(q)
		out.WriteByte('#')
		out.WriteString(strconv.Itoa(i))
		out.WriteString(";2;")
		out.WriteString(strconv.Itoa(scale100(uint32(r) >> 2)))
		out.WriteByte(';')
		out.WriteString(strconv.Itoa(scale100(uint32(g) >> 2)))
		out.WriteByte(';')
		out.WriteString(strconv.Itoa(scale100(uint32(bl) >> 2)))
	}

	// colorIndex[x] is reused per row as scratch for palette lookups.
	bands := (b.height + 5) / 6
	column := make([]byte, b.width)

	for band := 0; band < bands; band++ {
		if band > 0 {
			out.WriteByte(bandAdvance)
		}
		y0 := band * 6

		first := true
		for idx := range palette {
			if !bandUsesColor(b, lookup, y0, idx) {
				continue
			}
			if !first {
				out.WriteByte(bandRewind)
			}
			first = false

			out.WriteByte('#')
			out.WriteString(strconv.Itoa(idx))

			for x := 0; x < b.width; x++ {
				var bits byte
				for dy := 0; dy < 6 && y0+dy < b.height; dy++ {
					p := b.At(x, y0+dy)
					if p.Opaque() && lookup[p.Quantize()] == idx {
						bits |= 1 << dy
					}
				}
				column[x] = '?' + bits
			}
			writeRuns(&out, column)
		}
	}

	out.WriteString(terminator)
	return out.String()
}

// buildPalette selects up to maxPalette quantized colors by descending
// frequency (ties break on ascending packed value) and returns the chosen
// list plus a lookup from every observed quantized color to its slot.
func buildPalette(b *Buffer) ([]uint32, map[uint32]int) {
	freq := make(map[uint32]int)
	for _, p := range b.pixels {
		if p.Opaque() {
			freq[p.Quantize()]++
		}
	}
	if len(freq) == 0 {
		return nil, nil
	}

	colors := make([]uint32, 0, len(freq))
	for q := range freq {
		colors = append(colors, q)
	}
	sort.Slice(colors, func(i, j int) bool {
		if freq[colors[i]] != freq[colors[j]] {
			return freq[colors[i]] > freq[colors[j]]
		}
		return colors[i] < colors[j]
	})

	palette := colors
	if len(palette) > maxPalette {
		palette = palette[:maxPalette]
	}

	lookup := make(map[uint32]int, len(freq))
	for i, q := range palette {
		lookup[q] = i
	}
	// Overflow colors snap to the nearest palette entry by squared RGB
	// distance.
	for _, q := range colors[len(palette):] {
		best, bestDist := 0, distanceSq(q, palette[0])
		for i := 1; i < len(palette); i++ {
			if d := distanceSq(q, palette[i]); d < bestDist {
				best, bestDist = i, d
			}
		}
		lookup[q] = best
	}
	return palette, lookup
}

// bandUsesColor reports whether any pixel in the 6-row band starting at y0
// maps to palette slot idx.
func bandUsesColor(b *Buffer, lookup map[uint32]int, y0, idx int) bool {
	for dy := 0; dy < 6 && y0+dy < b.height; dy++ {
		for _, p := range b.Row(y0 + dy) {
			if p.Opaque() && lookup[p.Quantize()] == idx {
				return true
			}
		}
	}
	return false
}

// writeRuns emits the column bytes with run-length compression. Runs longer
// than rleThreshold use the !count repeat directive; shorter runs stay
// literal.
func writeRuns(out *strings.Builder, column []byte) {
	for i := 0; i < len(column); {
		j := i + 1
		for j < len(column) && column[j] == column[i] {
			j++
		}
		run := j - i
		if run > rleThreshold {
			out.WriteByte('!')
			out.WriteString(strconv.Itoa(run))
			out.WriteByte(column[i])
		} else {
			for k := 0; k < run; k++ {
				out.WriteByte(column[i])
			}
		}
		i = j
	}
}
