// SPDX-License-Identifier: MIT
package lexer

type (
	// DelimKind identifies one of the paired delimiter families.
	DelimKind int

	// TokenKind identifies the coarse category of a lexed Token.
	TokenKind int

	// Token is a span of the normalized source.
	//
	// Tokens are produced once by the Lexer & never mutated.
	Token struct {
		Kind  TokenKind // The type of this Token
		Delim DelimKind // Delimiter family, set for Open & Close Tokens only
		Start int       // The starting position, (in bytes) of this Token
		End   int       // The end position, (in bytes, exclusive) of this Token
	}

	// delimiter pairs the TokenKind & DelimKind a bracket rune lexes to.
	delimiter struct {
		kind  TokenKind
		delim DelimKind
	}
)

// iota is used to define an incrementing number sequence for const
// declarations
const (
	_      DelimKind = iota // Consume 0 to start actual numbering at 1.
	Round                   // '(' ')'; uncertain speech, may hold a count marker.
	Square                  // '[' ']'; overlapping or disputed speech.
	Angle                   // '<' '>'; inline attribute codes.
)

const (
	_        TokenKind = iota // Consume 0 to start actual numbering at 1.
	NonDelim                  // Any maximal run of non-space, non-bracket runes.
	Open                      // Opening bracket.
	Close                     // Closing bracket.
)

// DelimKinds lists the delimiter families in their reporting order.
var DelimKinds = [...]DelimKind{Round, Square, Angle}

// Lookup table for the six bracket runes.
//
// Improves on performance compared to a switch over the runes.
var delimiters = [128]delimiter{
	'(': {Open, Round},
	')': {Close, Round},
	'[': {Open, Square},
	']': {Close, Square},
	'<': {Open, Angle},
	'>': {Close, Angle},
}

// String is the fmt.Stringer implementation for DelimKind.
func (d DelimKind) String() string {
	switch d {
	case Round:
		return "round"
	case Square:
		return "square"
	case Angle:
		return "angle"
	default:
		return "none"
	}
}

// OpenRune obtains the opening bracket of the DelimKind.
func (d DelimKind) OpenRune() rune {
	switch d {
	case Round:
		return '('
	case Square:
		return '['
	case Angle:
		return '<'
	}

	return eof
}

// CloseRune obtains the closing bracket of the DelimKind.
func (d DelimKind) CloseRune() rune {
	switch d {
	case Round:
		return ')'
	case Square:
		return ']'
	case Angle:
		return '>'
	}

	return eof
}

// String is the fmt.Stringer implementation for TokenKind.
func (k TokenKind) String() string {
	switch k {
	case NonDelim:
		return "non-delim"
	case Open:
		return "open"
	case Close:
		return "close"
	default:
		return "none"
	}
}

// IsDelim reports whether r is one of the six bracket runes.
func IsDelim(r rune) bool { return r >= 0 && r < 128 && delimiters[r].kind != 0 }
