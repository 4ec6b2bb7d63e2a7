// SPDX-License-Identifier: MIT
package parser

import (
	"strings"

	"github.com/dlukes/quetzal/lexer"
	"github.com/dlukes/quetzal/rules"
)

// Canonical transforms the accepted Nodes back into segment text.
//
// Rejected tokens are left out, attribute codes are written sorted & deduplicated, & no space is
// written after an opening or before a closing bracket.
func (p *Parsed) Canonical() string {
	var buffer strings.Builder

	prev := NodeKind(0)
	for _, n := range p.Nodes {
		if prev != 0 && prev != NodeOpen && n.Kind != NodeClose {
			buffer.WriteByte(' ')
		}
		prev = n.Kind

		switch n.Kind {
		case NodeToken:
			buffer.WriteString(p.Source[n.Token.Start:n.Token.End])
		case NodeOpen:
			buffer.WriteRune(n.Delim.OpenRune())
		case NodeClose:
			buffer.WriteRune(n.Delim.CloseRune())
		case NodeAttrList:
			buffer.WriteString(strings.Join(n.Attrs, rules.AttrSeparator))
		}
	}

	return buffer.String()
}

// Texts obtains the source text of every NodeToken, in order.
func (p *Parsed) Texts() (texts []string) {
	texts = make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if n.Kind == NodeToken {
			texts = append(texts, p.Source[n.Token.Start:n.Token.End])
		}
	}

	return
}

// Balance obtains the number of accepted opening minus closing brackets of a DelimKind.
func (p *Parsed) Balance(d lexer.DelimKind) (balance int) {
	for _, n := range p.Nodes {
		switch {
		case n.Kind == NodeOpen && n.Delim == d:
			balance++
		case n.Kind == NodeClose && n.Delim == d:
			balance--
		}
	}

	return
}
