// Package surface provides the cell-addressed framebuffer model: styled
// grapheme cells, cell metrics, and a fixed-size mutable grid with
// grapheme-width-aware writing and eager compositing.
package surface

// Attribute is a bitmask of text attributes.
type Attribute uint16

// Attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrBlink                   // Blinking text
	AttrReverse                 // Reverse video
	AttrHidden                  // Invisible text
	AttrStrikethrough           // Struck-through text
	AttrOverline                // Overlined text
)

// Has returns true if the attribute set contains attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with attr added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with attr removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}
