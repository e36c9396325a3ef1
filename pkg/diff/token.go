package diff

import (
	"strconv"
	"strings"
)

// TokenKind discriminates the three things a diff stream can emit.
type TokenKind uint8

const (
	// TokenPosition is an absolute cursor move.
	TokenPosition TokenKind = iota
	// TokenStyle is an SGR directive.
	TokenStyle
	// TokenText is literal grapheme output.
	TokenText
)

// Token is one unit of encoded output: a cursor move, a style change, or
// literal text.
type Token struct {
	Kind TokenKind
	// Row and Col are 0-based cell coordinates for TokenPosition.
	Row, Col int
	// SGR holds the parameter list (without the CSI prefix or trailing m)
	// for TokenStyle.
	SGR string
	// Text holds the grapheme cluster for TokenText.
	Text string
}

// String renders the token as the bytes sent to the terminal.
func (t Token) String() string {
	switch t.Kind {
	case TokenPosition:
		// ANSI cursor addressing is 1-based.
		return "\x1b[" + strconv.Itoa(t.Row+1) + ";" + strconv.Itoa(t.Col+1) + "H"
	case TokenStyle:
		return "\x1b[" + t.SGR + "m"
	default:
		return t.Text
	}
}

// Render concatenates a token stream into the final escape-sequence string.
func Render(tokens []Token) string {
	var out strings.Builder
	for _, t := range tokens {
		out.WriteString(t.String())
	}
	return out.String()
}
