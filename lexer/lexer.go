// SPDX-License-Identifier: MIT
package lexer

// REF: https://gitlab.com/fisherprime/hierarchy/-/blob/master/lexer/v2/lexer.go
// REF: https://go.dev/talks/2011/lex.slide

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

type (
	// NextOperation type for the next function to be executed
	NextOperation func() NextOperation

	// ValidationFunction type for functions that validate rune identities
	ValidationFunction func(rune) bool

	// Lexer splits a normalized segment into Tokens.
	//
	// The Lexer performs no legality checks beyond telling brackets from everything else, so one
	// malformed rune never prevents the rest of a segment from being analyzed.
	Lexer struct {
		debug  bool
		nfc    bool
		logger logrus.FieldLogger

		// source is the normalized input.
		source string
		// start is the byte position of the Token being lexed.
		start int
		// pos is the current byte position.
		pos int
		// width is the byte width of the last rune read by Next.
		width int

		tokens []Token

		openCounter  [len(DelimKinds) + 1]int
		closeCounter [len(DelimKinds) + 1]int
	}

	// Tokenized holds the normalized source & the Tokens lexed from it.
	Tokenized struct {
		Source string
		Tokens []Token
	}
)

const (
	eof rune = -1

	defTokenBufferSize = 16
)

// Improves on performance compared to ORs.
var whitespace = [256]bool{
	' ':  true,
	'\t': true,
	'\r': true,
	'\n': true,
	'\v': true,
	'\f': true,
}

// Tokenize normalizes the source & splits it into Tokens.
//
// The operation is a pure function of its input.
func Tokenize(source string, opts ...Option) *Tokenized {
	l := New(source, opts...)
	l.Lex()

	return l.Tokenized()
}

// Normalize collapses every run of whitespace into a single ASCII space & trims the ends.
func Normalize(source string) string { return strings.Join(strings.Fields(source), " ") }

// New creates a new Lexer for the input string.
//
// The source is normalized before any offset is computed.
func New(source string, opts ...Option) *Lexer {
	l := &Lexer{
		logger: logrus.New(),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.nfc {
		source = norm.NFC.String(source)
	}
	l.source = Normalize(source)

	l.tokens = make([]Token, 0, defTokenBufferSize)

	return l
}

// OpenCount obtains the number of opening brackets of a DelimKind lexed so far.
func (l *Lexer) OpenCount(d DelimKind) int { return l.openCounter[d] }

// CloseCount obtains the number of closing brackets of a DelimKind lexed so far.
func (l *Lexer) CloseCount(d DelimKind) int { return l.closeCounter[d] }

// Tokenized obtains the lexing result.
func (l *Lexer) Tokenized() *Tokenized {
	return &Tokenized{Source: l.source, Tokens: l.tokens}
}

// Lex lexes the input by executing state functions.
func (l *Lexer) Lex() {
	for stateFunction := l.LexWhitespace; stateFunction != nil; {
		stateFunction = stateFunction()
	}
}

// LexWhitespace skips whitespace & dispatches on the next rune.
func (l *Lexer) LexWhitespace() NextOperation {
	l.AcceptWhile(isWhitespace)
	// Ignore white spaces, discard instead of emit.
	l.Discard()

	next := l.Next()
	switch {
	case next == eof:
		return nil
	case IsDelim(next):
		return l.LexDelim
	default:
		return l.LexValue
	}
}

// LexDelim emits the bracket rune just read.
func (l *Lexer) LexDelim() NextOperation {
	d := delimiters[l.source[l.start]]

	switch d.kind {
	case Open:
		l.openCounter[d.delim]++
	case Close:
		l.closeCounter[d.delim]++
	}
	l.Emit(d.kind, d.delim)

	return l.LexWhitespace
}

// LexValue consumes a maximal run of non-space, non-bracket runes.
func (l *Lexer) LexValue() NextOperation {
	l.AcceptWhile(isValue)
	l.Emit(NonDelim, 0)

	return l.LexWhitespace
}

// Next return the Next rune in the input.
func (l *Lexer) Next() (r rune) {
	if l.pos >= len(l.source) {
		l.width = 0
		return eof
	}

	r, l.width = utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += l.width

	return
}

// Backup step back one rune.
//
// Can only be called once per call of Next.
func (l *Lexer) Backup() { l.pos -= l.width }

// Discard the input before the current position.
func (l *Lexer) Discard() { l.start = l.pos }

// AcceptWhile consumes runes while condition is true.
func (l *Lexer) AcceptWhile(fn ValidationFunction) {
	for {
		r := l.Next()
		if r == eof {
			return
		}

		// End of current token type.
		if !fn(r) {
			l.Backup()
			return
		}
	}
}

// Emit appends a Token spanning the input between the Token start & the current position.
func (l *Lexer) Emit(kind TokenKind, delim DelimKind) {
	tok := Token{Kind: kind, Delim: delim, Start: l.start, End: l.pos}

	if l.debug {
		l.logger.Debugf("lexer Emit: %s %q [%d:%d]", kind, l.source[tok.Start:tok.End], tok.Start, tok.End)
	}

	l.tokens = append(l.tokens, tok)
	l.Discard()
}

// Text obtains the source text spanned by a Token.
func (t *Tokenized) Text(tok Token) string { return t.Source[tok.Start:tok.End] }

// Len obtains the number of Tokens.
func (t *Tokenized) Len() int { return len(t.Tokens) }

// isWhitespace return true for whitespace.
func isWhitespace(r rune) bool {
	if r < 256 {
		return whitespace[r]
	}

	return unicode.IsSpace(r)
}

// isValue return true for any rune that may be part of a NonDelim Token.
func isValue(r rune) bool { return !isWhitespace(r) && !IsDelim(r) }
