// SPDX-License-Identifier: MIT

// Package parser validates tokenized segments against compiled rules.
//
// Validation is a single left-to-right pass over the Tokens that never aborts: every problem is
// recorded as a Mistake so a transcriber can fix a segment in one editing pass.
package parser

import (
	"regexp"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/dlukes/quetzal/lexer"
	"github.com/dlukes/quetzal/rules"
	"github.com/dlukes/quetzal/types"
)

type (
	// Parsed holds the outcome of validating a segment.
	Parsed struct {
		// Source is the normalized segment, all offsets refer to it.
		Source   string
		Tokens   []lexer.Token
		Nodes    []Node
		Mistakes []Mistake
	}

	// validator holds the state of a single validation pass.
	validator struct {
		cfg *rules.Config
		*Parsed

		// index is the current Token index.
		index int

		// opened holds, per DelimKind, the index of the still open bracket or noIndex.
		//
		// Same-kind nesting is not permitted so a single slot per kind suffices.
		opened [len(lexer.DelimKinds) + 1]int
	}
)

const noIndex = -1

// numeralRE matches count markers.
var numeralRE = regexp.MustCompile(`^-?[0-9]+(?:[,.][0-9]+)?$`)

// Validate walks the Tokens once, enforcing bracket balance, per-token lexical legality & attribute
// list well-formedness.
//
// Validate never fails; a nil cfg validates against empty rules.
func Validate(cfg *rules.Config, t *lexer.Tokenized) *Parsed {
	if cfg == nil {
		cfg = rules.MustCompile(rules.Lists{})
	}

	v := &validator{
		cfg: cfg,
		Parsed: &Parsed{
			Source:   t.Source,
			Tokens:   t.Tokens,
			Nodes:    make([]Node, 0, len(t.Tokens)),
			Mistakes: make([]Mistake, 0),
		},
	}
	for index := range v.opened {
		v.opened[index] = noIndex
	}

	for v.index = 0; v.index < len(v.Tokens); v.index++ {
		tok := v.Tokens[v.index]

		switch tok.Kind {
		case lexer.NonDelim:
			v.word(tok)
		case lexer.Open:
			v.open(tok.Delim)
		case lexer.Close:
			v.close(tok.Delim)
		}
	}
	v.finish()

	if cfg.Debug() {
		// Skip expensive operation if not debug.
		cfg.Logger().Debugf("parsed %q: %s", v.Source, spew.Sdump(v.Nodes, v.Mistakes))
	}

	return v.Parsed
}

// Parse tokenizes & validates a raw segment.
//
// The segment is normalized the way cfg normalized its entries; opts are applied after.
func Parse(cfg *rules.Config, source string, opts ...lexer.Option) *Parsed {
	if cfg != nil {
		opts = append(cfg.LexerOptions(), opts...)
	}

	return Validate(cfg, lexer.Tokenize(source, opts...))
}

func (v *validator) node(n Node) { v.Nodes = append(v.Nodes, n) }

func (v *validator) mistake(m Mistake) { v.Mistakes = append(v.Mistakes, m) }

// word classifies a non-delimiter Token.
//
// Count markers & blacklisted words are dropped, words with uncovered runs are kept.
func (v *validator) word(tok lexer.Token) {
	text := v.Source[tok.Start:tok.End]

	switch {
	case numeralRE.MatchString(text):
		if v.opened[lexer.Round] == noIndex {
			v.mistake(Mistake{Kind: BadToken, At: v.index})
			return
		}
	case v.cfg.WhitelistFirst() && v.cfg.Whitelisted(text):
	case v.cfg.Blacklisted(text):
		v.mistake(Mistake{Kind: BadToken, At: v.index})
		return
	case v.cfg.Whitelisted(text):
	default:
		for _, gap := range v.cfg.Tile(text) {
			v.mistake(Mistake{Kind: BadSubstr, Start: gap.Start, End: gap.End, At: v.index})
		}
	}

	v.node(Node{Kind: NodeToken, Token: tok})
}

// open handles an opening bracket.
//
// The outermost bracket of a kind stays authoritative, a nested one is reported & not recorded.
func (v *validator) open(d lexer.DelimKind) {
	nested := v.opened[d] != noIndex
	if nested {
		v.mistake(Mistake{Kind: NestedDelim, Delim: d, OutermostStart: v.opened[d], At: v.index})
	} else {
		v.opened[d] = v.index
		v.node(Node{Kind: NodeOpen, Delim: d})
	}

	if d == lexer.Angle {
		v.attrs(nested)
	}
}

func (v *validator) close(d lexer.DelimKind) {
	if v.opened[d] == noIndex {
		v.mistake(Mistake{Kind: ClosingUnopenedDelim, Delim: d, At: v.index})
		return
	}

	v.opened[d] = noIndex
	v.node(Node{Kind: NodeClose, Delim: d})
}

// attrs parses the attribute code list expected right after an opening angle bracket.
//
// The list is accepted all-or-nothing. The codes Token is consumed even when rejected, a missing
// one is not.
func (v *validator) attrs(nested bool) {
	next := v.index + 1
	if next >= len(v.Tokens) || v.Tokens[next].Kind != lexer.NonDelim {
		v.mistake(Mistake{Kind: MissingAttrs, At: next})
		return
	}
	v.index = next

	tok := v.Tokens[next]
	valid, codes := true, make(types.StringSlice, 0, 2)
	for _, code := range strings.Split(v.Source[tok.Start:tok.End], rules.AttrSeparator) {
		if !v.cfg.AllowedAttr(code) {
			v.mistake(Mistake{Kind: BadAttr, Attr: code, At: next})
			valid = false

			continue
		}
		codes.UniqueAppend(code)
	}

	if !valid || nested {
		return
	}

	codes.Sort()
	v.node(Node{Kind: NodeAttrList, Attrs: codes})
}

// finish reports the brackets left open, in DelimKinds order.
func (v *validator) finish() {
	for _, d := range lexer.DelimKinds {
		if start := v.opened[d]; start != noIndex {
			v.mistake(Mistake{Kind: UnclosedDelim, Delim: d, At: start})
		}
	}
}

// Valid reports whether the segment is free of mistakes.
func (p *Parsed) Valid() bool { return len(p.Mistakes) < 1 }

// TokenText obtains the source text of the Token at index, empty for an index past the end.
func (p *Parsed) TokenText(index int) string {
	if index < 0 || index >= len(p.Tokens) {
		return ""
	}
	tok := p.Tokens[index]

	return p.Source[tok.Start:tok.End]
}

// Text obtains the offending substring of a Mistake.
func (p *Parsed) Text(m Mistake) string {
	text := p.TokenText(m.At)
	if m.Kind == BadSubstr && m.End <= len(text) {
		return text[m.Start:m.End]
	}

	return text
}

// Span obtains the byte range of the source a Mistake points at.
//
// A Mistake past the last Token points at the end of the source.
func (p *Parsed) Span(m Mistake) (start, end int) {
	if m.At < 0 || m.At >= len(p.Tokens) {
		return len(p.Source), len(p.Source)
	}

	tok := p.Tokens[m.At]
	if m.Kind == BadSubstr {
		return tok.Start + m.Start, tok.Start + m.End
	}

	return tok.Start, tok.End
}
