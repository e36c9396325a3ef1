package diff

import (
	"strconv"
	"strings"

	"github.com/odvcencio/scanline/pkg/surface"
)

// attrCodes maps each attribute bit to its SGR turn-on code, in emission
// order.
var attrCodes = []struct {
	attr surface.Attribute
	code string
}{
	{surface.AttrBold, "1"},
	{surface.AttrDim, "2"},
	{surface.AttrItalic, "3"},
	{surface.AttrUnderline, "4"},
	{surface.AttrBlink, "5"},
	{surface.AttrReverse, "7"},
	{surface.AttrHidden, "8"},
	{surface.AttrStrikethrough, "9"},
	{surface.AttrOverline, "53"},
}

// encodeState tracks what the terminal is assumed to look like mid-stream.
type encodeState struct {
	// cursor position the next literal write lands on; known only after the
	// first position token.
	cursorX, cursorY int
	posKnown         bool

	fg    *surface.Color
	bg    *surface.Color
	attrs surface.Attribute
	// known is false until the first style emission, which always resets.
	known bool
}

// Encode walks a diff in row-major order and produces the minimal token
// stream that brings a terminal showing the previous frame to the current
// one. Continuation cells are skipped; their wide predecessor already moved
// the cursor across them.
func Encode(d *Diff) []Token {
	var tokens []Token
	st := encodeState{}

	for _, ch := range d.Changes() {
		cell := ch.Cell
		if cell.IsContinuation() {
			continue
		}

		if !st.posKnown || ch.Y != st.cursorY || ch.X != st.cursorX {
			tokens = append(tokens, Token{Kind: TokenPosition, Row: ch.Y, Col: ch.X})
			st.cursorX, st.cursorY = ch.X, ch.Y
			st.posKnown = true
		}

		if sgr, changed := st.styleTo(cell); changed {
			tokens = append(tokens, Token{Kind: TokenStyle, SGR: sgr})
		}

		tokens = append(tokens, Token{Kind: TokenText, Text: printable(cell)})
		st.cursorX += max(1, cell.Width)
	}
	return tokens
}

// styleTo computes the SGR parameters moving the tracked style state to the
// cell's style, updating the state. changed is false when the terminal is
// already showing the right style.
func (st *encodeState) styleTo(cell surface.Cell) (sgr string, changed bool) {
	if st.known &&
		surface.ColorsEqual(st.fg, cell.Foreground) &&
		surface.ColorsEqual(st.bg, cell.Background) &&
		st.attrs == cell.Attrs {
		return "", false
	}

	// A reset is unavoidable when state is unknown, when an attribute bit
	// must turn off (SGR has no selective attribute-off that terminals agree
	// on), or when a set color must return to the default.
	reset := !st.known ||
		st.attrs&^cell.Attrs != 0 ||
		(st.fg != nil && cell.Foreground == nil) ||
		(st.bg != nil && cell.Background == nil)

	var params []string
	if reset {
		params = append(params, "0")
		st.fg, st.bg, st.attrs = nil, nil, surface.AttrNone
	}

	for _, ac := range attrCodes {
		if cell.Attrs.Has(ac.attr) && !st.attrs.Has(ac.attr) {
			params = append(params, ac.code)
		}
	}

	if !surface.ColorsEqual(st.fg, cell.Foreground) {
		params = append(params, colorParams(cell.Foreground, true))
	}
	if !surface.ColorsEqual(st.bg, cell.Background) {
		params = append(params, colorParams(cell.Background, false))
	}

	st.fg = cell.Foreground
	st.bg = cell.Background
	st.attrs = cell.Attrs
	st.known = true
	return strings.Join(params, ";"), true
}

// colorParams renders a color as explicit 24-bit SGR parameters, or the
// default-color code for nil.
func colorParams(c *surface.Color, fg bool) string {
	if c == nil {
		if fg {
			return "39"
		}
		return "49"
	}
	base := "48;2;"
	if fg {
		base = "38;2;"
	}
	return base + strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))
}

// printable maps cell content to the bytes actually written: the unwritten
// sentinel and empty content both render as a plain space.
func printable(cell surface.Cell) string {
	if cell.Content == "" || cell.IsUnwritten() {
		return " "
	}
	return cell.Content
}
