// SPDX-License-Identifier: MIT

// Package quetzal validates transcribed speech segments written in a bracket annotation
// convention.
//
// A Checker ties the lexer, the compiled rules & the parser together. Segments are independent of
// each other so batches are validated in parallel, each segment on a single goroutine.
package quetzal

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dlukes/quetzal/lexer"
	"github.com/dlukes/quetzal/parser"
	"github.com/dlukes/quetzal/rules"
)

type (
	// Checker validates segments against a rules.Config.
	//
	// Synchronization is unnecessary, a Checker is read-only once created.
	Checker struct {
		// cfg contains a pointer to a [Config] shared by all Checker operations.
		cfg *Config

		rules *rules.Config

		// poolSize is the number of goroutines used by CheckAll.
		poolSize int

		// maxSegmentLen is the byte length above which segments are refused, 0 for no limit.
		maxSegmentLen int
	}

	// Config defines configuration options for the [Checker]'s operations.
	Config struct {
		// Logger for [Checker] messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger
		Debug  bool
	}

	// Option defines the Checker functional option type.
	Option func(*Checker)
)

const (
	defPoolSize = 8
)

// Checking errors.
var (
	ErrSegmentTooLong = errors.New("segment exceeds the length limit")
)

var defConfig = DefConfig()

// DefConfig obtains the package's [Checker] default options.
func DefConfig() *Config {
	return &Config{
		Logger: logrus.New(),
		Debug:  false,
	}
}

// New instantiates a [Checker].
//
// A nil rules.Config checks against empty rules.
func New(cfg *rules.Config, options ...Option) *Checker {
	if cfg == nil {
		cfg = rules.MustCompile(rules.Lists{})
	}

	c := &Checker{
		cfg:      defConfig,
		rules:    cfg,
		poolSize: defPoolSize,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// WithConfig configures the [Checker] [Config].
//
// A nil cfg keeps the defaults, a nil Logger is replaced by the default one.
func WithConfig(cfg *Config) Option {
	return func(c *Checker) {
		switch {
		case cfg == nil:
			return
		case cfg.Logger == nil:
			cfg = &Config{Logger: defConfig.Logger, Debug: cfg.Debug}
		}

		c.cfg = cfg
	}
}

// WithPoolSize configures the number of goroutines used by [Checker.CheckAll].
func WithPoolSize(size int) Option {
	return func(c *Checker) {
		if size > 0 {
			c.poolSize = size
		}
	}
}

// WithMaxSegmentLen refuses segments longer than n bytes, before normalization.
func WithMaxSegmentLen(n int) Option { return func(c *Checker) { c.maxSegmentLen = n } }

// Config retrieves the [Checker]'s Config.
func (c *Checker) Config() *Config { return c.cfg }

// Rules retrieves the [Checker]'s compiled rules.
func (c *Checker) Rules() *rules.Config { return c.rules }

// Check tokenizes & validates a segment.
//
// Mistakes in the segment are never an error; only a segment exceeding the configured length limit
// is refused.
func (c *Checker) Check(segment string) (p *parser.Parsed, err error) {
	if c.maxSegmentLen > 0 && len(segment) > c.maxSegmentLen {
		err = fmt.Errorf("%w: %d > %d bytes", ErrSegmentTooLong, len(segment), c.maxSegmentLen)
		return
	}

	opts := append(c.rules.LexerOptions(), lexer.WithLogger(c.cfg.Logger), lexer.WithDebug(c.cfg.Debug))
	l := lexer.New(segment, opts...)
	l.Lex()

	tokenized := l.Tokenized()
	p = parser.Validate(c.rules, tokenized)

	if c.cfg.Debug {
		// Skip expensive operation if not debug.
		fields := logrus.Fields{
			"tokens":   tokenized.Len(),
			"mistakes": len(p.Mistakes),
		}
		for _, d := range lexer.DelimKinds {
			fields[d.String()+"_open"] = l.OpenCount(d)
			fields[d.String()+"_close"] = l.CloseCount(d)
			// Brackets left open after dropping the unmatched ones.
			fields[d.String()+"_balance"] = p.Balance(d)
		}
		c.cfg.Logger.WithFields(fields).Debugf("checked %q", p.Source)
	}

	return
}
