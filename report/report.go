// SPDX-License-Identifier: MIT

// Package report renders validation mistakes for transcribers.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/dlukes/quetzal/parser"
	"github.com/dlukes/quetzal/rules"
)

type (
	// Reporter renders the mistakes of parsed segments.
	Reporter struct {
		rules  *rules.Config
		styled bool

		caretStyle   lipgloss.Style
		messageStyle lipgloss.Style
	}

	// Option defines the Reporter functional option type.
	Option func(*Reporter)
)

const indent = "  "

// New instantiates a Reporter.
func New(opts ...Option) *Reporter {
	r := &Reporter{
		caretStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		messageStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// WithRules enables attribute code suggestions.
func WithRules(cfg *rules.Config) Option { return func(r *Reporter) { r.rules = cfg } }

// WithStyle configures colored output.
func WithStyle(styled bool) Option { return func(r *Reporter) { r.styled = styled } }

// Render writes every mistake of a parsed segment, each followed by the source & a caret line
// under the offending text.
func (r *Reporter) Render(w io.Writer, p *parser.Parsed) (err error) {
	for index, m := range p.Mistakes {
		msg := fmt.Sprintf("%d: %s: %s", index+1, m.Kind, r.Message(p, m))
		if r.styled {
			msg = r.messageStyle.Render(msg)
		}

		carets := Highlight(p, m)
		if r.styled {
			trimmed := strings.TrimLeft(carets, " ")
			carets = carets[:len(carets)-len(trimmed)] + r.caretStyle.Render(trimmed)
		}

		if _, err = fmt.Fprintf(w, "%s\n%s%s\n%s%s\n", msg, indent, p.Source, indent, carets); err != nil {
			return
		}
	}

	return
}

// Message obtains a human readable description of a Mistake.
func (r *Reporter) Message(p *parser.Parsed, m parser.Mistake) string {
	switch m.Kind {
	case parser.BadToken:
		return fmt.Sprintf("token %q is not allowed here", p.Text(m))
	case parser.BadSubstr:
		return fmt.Sprintf("%q in %q is not made of allowed characters", p.Text(m), p.TokenText(m.At))
	case parser.NestedDelim:
		return fmt.Sprintf("%s bracket opened inside the one opened at token %d", m.Delim, m.OutermostStart+1)
	case parser.ClosingUnopenedDelim:
		return fmt.Sprintf("closing %s bracket %q was never opened", m.Delim, p.Text(m))
	case parser.UnclosedDelim:
		return fmt.Sprintf("%s bracket %q is never closed", m.Delim, p.Text(m))
	case parser.MissingAttrs:
		return "opening angle bracket must be followed by attribute codes"
	case parser.BadAttr:
		msg := fmt.Sprintf("unknown attribute code %q", m.Attr)
		if r.rules != nil {
			if suggestion, ok := r.rules.SuggestAttr(m.Attr); ok {
				msg += fmt.Sprintf(", did you mean %q?", suggestion)
			}
		}
		return msg
	default:
		return m.String()
	}
}

// Highlight obtains a line of carets under the text a Mistake points at.
//
// Columns are counted in grapheme clusters so the carets line up with the rendered source.
func Highlight(p *parser.Parsed, m parser.Mistake) string {
	start, end := p.Span(m)

	spaceLen := uniseg.GraphemeClusterCount(p.Source[:start])

	caretLen := uniseg.GraphemeClusterCount(p.Source[start:end])
	if caretLen < 1 {
		caretLen = 1
	}

	return strings.Repeat(" ", spaceLen) + strings.Repeat("^", caretLen)
}
