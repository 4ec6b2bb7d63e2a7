// SPDX-License-Identifier: MIT
package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dlukes/quetzal/parser"
	"github.com/dlukes/quetzal/rules"
)

func testRules(t *testing.T) *rules.Config {
	t.Helper()

	c, err := rules.Compile(rules.Lists{
		Atoms:      strings.Split("a á b č d e g i l m n o r", " "),
		AfterAngle: []string{"SM", "CIT"},
	})
	if err != nil {
		t.Fatalf("rules.Compile() error = %v", err)
	}

	return c
}

func TestHighlight(t *testing.T) {
	cfg := testRules(t)

	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "grapheme aligned",
			source: "čarala b%nga máro",
			want:   []string{strings.Repeat(" ", 8) + "^"},
		},
		{
			name:   "combining marks count once",
			source: "q\u0301a b%",
			want:   []string{"^", strings.Repeat(" ", 4) + "^"},
		},
		{
			name:   "past the end",
			source: "a <",
			want:   []string{"   ^", "  ^"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parser.Parse(cfg, tt.source)
			if len(p.Mistakes) != len(tt.want) {
				t.Fatalf("Parse(%q).Mistakes = %v, want %d mistakes", tt.source, p.Mistakes, len(tt.want))
			}

			for index, m := range p.Mistakes {
				if got := Highlight(p, m); got != tt.want[index] {
					t.Errorf("Highlight(%v) = %q, want %q", m, got, tt.want[index])
				}
			}
		})
	}
}

func TestReporter_Render(t *testing.T) {
	cfg := testRules(t)
	p := parser.Parse(cfg, "<CTI bala>")

	var buf bytes.Buffer
	if err := New(WithRules(cfg)).Render(&buf, p); err != nil {
		t.Fatalf("Reporter.Render() error = %v", err)
	}

	want := "1: bad_attr: unknown attribute code \"CTI\", did you mean \"CIT\"?\n" +
		"  <CTI bala>\n" +
		"   ^^^\n"
	if got := buf.String(); got != want {
		t.Errorf("Reporter.Render() = %q, want %q", got, want)
	}
}

func TestReporter_Render_Styled(t *testing.T) {
	cfg := testRules(t)
	p := parser.Parse(cfg, "b%nga")

	var buf bytes.Buffer
	if err := New(WithStyle(true)).Render(&buf, p); err != nil {
		t.Fatalf("Reporter.Render() error = %v", err)
	}

	if got := buf.String(); !strings.Contains(got, "b%nga") || !strings.Contains(got, "^") {
		t.Errorf("Reporter.Render() = %q, want the source & a caret", got)
	}
}

func TestReporter_Message(t *testing.T) {
	cfg := testRules(t)
	r := New(WithRules(cfg))

	tests := []struct {
		source string
		want   []string
	}{
		{source: "12", want: []string{`token "12" is not allowed here`}},
		{source: "]", want: []string{`closing square bracket "]" was never opened`}},
		{
			source: "((",
			want: []string{
				"round bracket opened inside the one opened at token 1",
				`round bracket "(" is never closed`,
			},
		},
		{source: "<>", want: []string{"opening angle bracket must be followed by attribute codes"}},
		{source: "<QWERTY>", want: []string{`unknown attribute code "QWERTY"`}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			p := parser.Parse(cfg, tt.source)
			if len(p.Mistakes) != len(tt.want) {
				t.Fatalf("Parse(%q).Mistakes = %v, want %d mistakes", tt.source, p.Mistakes, len(tt.want))
			}

			for index, m := range p.Mistakes {
				if got := r.Message(p, m); got != tt.want[index] {
					t.Errorf("Reporter.Message(%v) = %q, want %q", m, got, tt.want[index])
				}
			}
		})
	}
}
