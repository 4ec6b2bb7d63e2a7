// SPDX-License-Identifier: MIT

// Package rules compiles the caller-supplied token & attribute lists into the immutable matchers
// consulted while validating segments.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/dlukes/quetzal/lexer"
	"github.com/dlukes/quetzal/types"
)

type (
	// Lists holds the raw rule lists, as read from the caller's configuration.
	Lists struct {
		// Whitelist holds whole tokens accepted verbatim.
		Whitelist []string
		// Blacklist holds whole tokens always rejected.
		Blacklist []string
		// Atoms holds the graphemes & grapheme sequences ordinary words are built from.
		Atoms []string
		// AfterAngle holds the attribute codes allowed after an opening angle bracket.
		AfterAngle []string
	}

	// Config holds the compiled matchers.
	//
	// A Config is read-only once compiled & safe for concurrent use.
	Config struct {
		debug  bool
		logger logrus.FieldLogger

		whitelistFirst bool
		// nfc composes entries & segments alike.
		nfc bool

		whitelist  map[string]struct{}
		blacklist  map[string]struct{}
		afterAngle map[string]struct{}

		// atoms holds the atoms longest first.
		atoms types.StringSlice
		// atomRE matches a single atom, longest alternatives first.
		//
		// nil when no atoms are configured.
		atomRE *regexp.Regexp

		// attrs holds the allowed attribute codes, sorted.
		attrs types.StringSlice
	}

	// Span is a byte range, relative to the start of the examined word.
	Span struct {
		Start int
		End   int
	}

	// Option defines the Config functional option type.
	Option func(*Config)
)

const (
	// AttrSeparator splits the attribute codes following an opening angle bracket.
	AttrSeparator = "_"

	maxSuggestDistance = 2
)

// Rule compilation errors.
var (
	ErrInvalidRule = errors.New("invalid rule")

	ErrEmptyEntry   = errors.New("empty entry")
	ErrInvalidUTF8  = errors.New("invalid UTF-8")
	ErrUnmatchable  = errors.New("contains whitespace or a delimiter; no token can match it")
	ErrAttrSplitter = errors.New("contains the attribute separator " + AttrSeparator)
)

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(c *Config) { c.logger = logger } }

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(c *Config) { c.debug = debug } }

// WithWhitelistFirst consults the whitelist before the blacklist.
//
// By default a token on both lists is rejected.
func WithWhitelistFirst(whitelistFirst bool) Option {
	return func(c *Config) { c.whitelistFirst = whitelistFirst }
}

// WithUnicodeNormalization applies NFC normalization to every entry.
//
// Segments validated against the Config are normalized the same way, see LexerOptions.
func WithUnicodeNormalization(nfc bool) Option { return func(c *Config) { c.nfc = nfc } }

// Compile builds a Config from the rule Lists.
//
// Every malformed entry is reported, joined into a single error wrapping ErrInvalidRule.
func Compile(lists Lists, opts ...Option) (c *Config, err error) {
	c = &Config{logger: logrus.New()}
	for _, opt := range opts {
		opt(c)
	}

	var errs []error
	collect := func(list string, entries []string, check func(string) error) (out types.StringSlice) {
		out = make(types.StringSlice, 0, len(entries))
		for index, entry := range entries {
			if e := validateEntry(entry); e != nil {
				errs = append(errs, fmt.Errorf("%w: %s[%d] %q: %w", ErrInvalidRule, list, index, entry, e))
				continue
			}

			if c.nfc {
				entry = norm.NFC.String(entry)
			}
			if check != nil {
				if e := check(entry); e != nil {
					errs = append(errs, fmt.Errorf("%w: %s[%d] %q: %w", ErrInvalidRule, list, index, entry, e))
					continue
				}
			}

			out = append(out, entry)
		}

		return
	}

	c.whitelist = collect("whitelist", lists.Whitelist, nil).Set()
	c.blacklist = collect("blacklist", lists.Blacklist, nil).Set()

	c.attrs = collect("after-angle", lists.AfterAngle, func(entry string) error {
		if strings.Contains(entry, AttrSeparator) {
			return ErrAttrSplitter
		}
		return nil
	})
	c.attrs.SortedUnique()
	c.afterAngle = c.attrs.Set()

	c.atoms = collect("atoms", lists.Atoms, nil)
	c.atoms.SortedUnique()
	c.atoms.SortByLenDesc()

	if err = errors.Join(errs...); err != nil {
		c = nil
		return
	}

	if c.atomRE, err = compileAtoms(c.atoms); err != nil {
		err = fmt.Errorf("%w: atoms: %w", ErrInvalidRule, err)
		c = nil
		return
	}

	if c.debug {
		// Skip expensive operation if not debug.
		c.logger.Debugf("compiled rules: %s", spew.Sdump(c.whitelist, c.blacklist, c.attrs, c.atoms))
	}

	return
}

// MustCompile is like Compile but panics on error.
func MustCompile(lists Lists, opts ...Option) *Config {
	c, err := Compile(lists, opts...)
	if err != nil {
		panic(err)
	}

	return c
}

// compileAtoms builds an alternation of the atoms, which must already be sorted longest first.
//
// Leftmost-first alternation semantics prefer the earlier, longer alternatives.
func compileAtoms(atoms types.StringSlice) (*regexp.Regexp, error) {
	if len(atoms) < 1 {
		return nil, nil
	}

	quoted := make([]string, len(atoms))
	for index := range atoms {
		quoted[index] = regexp.QuoteMeta(atoms[index])
	}

	return regexp.Compile("(?:" + strings.Join(quoted, "|") + ")")
}

func validateEntry(entry string) error {
	switch {
	case entry == "":
		return ErrEmptyEntry
	case !utf8.ValidString(entry):
		return ErrInvalidUTF8
	case strings.IndexFunc(entry, func(r rune) bool { return unicode.IsSpace(r) || lexer.IsDelim(r) }) > -1:
		return ErrUnmatchable
	}

	return nil
}

// Logger obtains the logger.
func (c *Config) Logger() logrus.FieldLogger { return c.logger }

// Debug reports whether the debug option is set.
func (c *Config) Debug() bool { return c.debug }

// WhitelistFirst reports whether the whitelist takes precedence over the blacklist.
func (c *Config) WhitelistFirst() bool { return c.whitelistFirst }

// UnicodeNormalization reports whether entries & segments are NFC normalized.
func (c *Config) UnicodeNormalization() bool { return c.nfc }

// LexerOptions obtains the lexer.Options tokenizing segments the way the entries were normalized.
func (c *Config) LexerOptions() (opts []lexer.Option) {
	if c.nfc {
		opts = append(opts, lexer.WithUnicodeNormalization())
	}

	return
}

// Whitelisted reports whether the word is an exact whitelist entry.
func (c *Config) Whitelisted(word string) bool {
	_, ok := c.whitelist[word]
	return ok
}

// Blacklisted reports whether the word is an exact blacklist entry.
func (c *Config) Blacklisted(word string) bool {
	_, ok := c.blacklist[word]
	return ok
}

// AllowedAttr reports whether a single attribute code is allowed.
func (c *Config) AllowedAttr(code string) bool {
	_, ok := c.afterAngle[code]
	return ok
}

// Atoms obtains the compiled atoms, longest first.
func (c *Config) Atoms() []string { return append([]string(nil), c.atoms...) }

// Attrs obtains the allowed attribute codes, sorted.
func (c *Config) Attrs() []string { return append([]string(nil), c.attrs...) }

// Tile covers the word with non-overlapping, left-to-right, longest-first atom matches & returns
// the maximal runs left uncovered.
//
// Without atoms the whole word is a single gap.
func (c *Config) Tile(word string) (gaps []Span) {
	if c.atomRE == nil {
		if len(word) > 0 {
			gaps = []Span{{0, len(word)}}
		}
		return
	}

	prev := 0
	for _, loc := range c.atomRE.FindAllStringIndex(word, -1) {
		if loc[0] > prev {
			gaps = append(gaps, Span{prev, loc[0]})
		}
		prev = loc[1]
	}
	if prev < len(word) {
		gaps = append(gaps, Span{prev, len(word)})
	}

	return
}

// SuggestAttr obtains the allowed attribute code closest to code, if any is close enough.
func (c *Config) SuggestAttr(code string) (suggestion string, ok bool) {
	best := maxSuggestDistance + 1
	for _, attr := range c.attrs {
		dist := levenshtein.ComputeDistance(strings.ToUpper(code), strings.ToUpper(attr))
		if dist < best && dist < utf8.RuneCountInString(attr) {
			best, suggestion = dist, attr
		}
	}

	ok = best <= maxSuggestDistance

	return
}
