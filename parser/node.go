// SPDX-License-Identifier: MIT
package parser

import (
	"encoding/json"
	"fmt"

	"github.com/dlukes/quetzal/lexer"
)

type (
	// NodeKind identifies the structural role of a Node.
	NodeKind int

	// Node is an accepted element of a segment.
	//
	// The Node sequence is the clean reading of a segment; rejected input never yields a Node.
	Node struct {
		Kind NodeKind
		// Token is the accepted span, set for NodeToken.
		Token lexer.Token
		// Delim is the bracket family, set for NodeOpen & NodeClose.
		Delim lexer.DelimKind
		// Attrs holds the attribute codes, sorted & deduplicated, set for NodeAttrList.
		Attrs []string
	}

	// MistakeKind identifies a problem found in a segment.
	MistakeKind int

	// Mistake points back at the offending part of a segment.
	//
	// At is always a Token index. Start & End are byte offsets relative to the start of the Token
	// at At, set for BadSubstr only.
	Mistake struct {
		Kind           MistakeKind
		At             int
		Start          int
		End            int
		OutermostStart int
		Delim          lexer.DelimKind
		Attr           string
	}
)

const (
	_            NodeKind = iota // Consume 0 to start actual numbering at 1.
	NodeToken                    // Accepted non-delimiter span.
	NodeOpen                     // Accepted opening bracket.
	NodeClose                    // Accepted closing bracket.
	NodeAttrList                 // Accepted attribute code list.
)

const (
	_ MistakeKind = iota // Consume 0 to start actual numbering at 1.

	// BadToken means a whole token was rejected; blacklisted or a count marker outside of a round
	// bracket span.
	BadToken

	// BadSubstr means a run of runes inside a token is not covered by any atom.
	BadSubstr

	// NestedDelim means a bracket was opened while another one of the same kind was still open.
	NestedDelim

	// ClosingUnopenedDelim means a closing bracket has no matching opening bracket.
	ClosingUnopenedDelim

	// UnclosedDelim means an opening bracket was never closed.
	UnclosedDelim

	// MissingAttrs means an opening angle bracket is not followed by attribute codes.
	MissingAttrs

	// BadAttr means a single attribute code is not allowed.
	BadAttr
)

var mistakeNames = [...]string{
	BadToken:             "bad_token",
	BadSubstr:            "bad_substr",
	NestedDelim:          "nested_delim",
	ClosingUnopenedDelim: "closing_unopened_delim",
	UnclosedDelim:        "unclosed_delim",
	MissingAttrs:         "missing_attrs",
	BadAttr:              "bad_attr",
}

var nodeNames = [...]string{
	NodeToken:    "token",
	NodeOpen:     "open",
	NodeClose:    "close",
	NodeAttrList: "attr_list",
}

// String is the fmt.Stringer implementation for NodeKind.
func (k NodeKind) String() string {
	if k > 0 && int(k) < len(nodeNames) {
		return nodeNames[k]
	}

	return "none"
}

// String is the fmt.Stringer implementation for MistakeKind.
func (k MistakeKind) String() string {
	if k > 0 && int(k) < len(mistakeNames) {
		return mistakeNames[k]
	}

	return "none"
}

// MarshalText implements encoding.TextMarshaler.
func (k MistakeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// String is the fmt.Stringer implementation for Mistake.
func (m Mistake) String() string {
	switch m.Kind {
	case BadSubstr:
		return fmt.Sprintf("%s at %d [%d:%d]", m.Kind, m.At, m.Start, m.End)
	case NestedDelim:
		return fmt.Sprintf("%s %s at %d, outermost at %d", m.Kind, m.Delim, m.At, m.OutermostStart)
	case ClosingUnopenedDelim, UnclosedDelim:
		return fmt.Sprintf("%s %s at %d", m.Kind, m.Delim, m.At)
	case BadAttr:
		return fmt.Sprintf("%s %q at %d", m.Kind, m.Attr, m.At)
	default:
		return fmt.Sprintf("%s at %d", m.Kind, m.At)
	}
}

// MarshalJSON implements json.Marshaler, omitting the fields irrelevant to the Mistake's kind.
func (m Mistake) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind           MistakeKind `json:"kind"`
		At             int         `json:"at"`
		Delim          string      `json:"delim,omitempty"`
		Start          *int        `json:"start,omitempty"`
		End            *int        `json:"end,omitempty"`
		OutermostStart *int        `json:"outermost_start,omitempty"`
		Attr           *string     `json:"attr,omitempty"`
	}

	w := wire{Kind: m.Kind, At: m.At}
	switch m.Kind {
	case BadSubstr:
		w.Start, w.End = &m.Start, &m.End
	case NestedDelim:
		w.Delim, w.OutermostStart = m.Delim.String(), &m.OutermostStart
	case ClosingUnopenedDelim, UnclosedDelim:
		w.Delim = m.Delim.String()
	case BadAttr:
		w.Attr = &m.Attr
	}

	return json.Marshal(w)
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind  string   `json:"kind"`
		Start *int     `json:"start,omitempty"`
		End   *int     `json:"end,omitempty"`
		Delim string   `json:"delim,omitempty"`
		Attrs []string `json:"attrs,omitempty"`
	}

	w := wire{Kind: n.Kind.String()}
	switch n.Kind {
	case NodeToken:
		w.Start, w.End = &n.Token.Start, &n.Token.End
	case NodeOpen, NodeClose:
		w.Delim = n.Delim.String()
	case NodeAttrList:
		w.Attrs = n.Attrs
	}

	return json.Marshal(w)
}
