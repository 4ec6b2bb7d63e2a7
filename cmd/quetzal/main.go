// SPDX-License-Identifier: MIT

// quetzal - transcription segment validator
//
// Usage:
//
//	quetzal [-config file] [-json] [-color] [-debug] [segment...]
//
// Every argument is validated as one segment. If no segment is given, newline separated segments
// are read from stdin.
//
// Exit status is 0 when every segment is valid, 1 when any segment has mistakes & 2 on errors.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dlukes/quetzal"
	"github.com/dlukes/quetzal/internal/config"
	"github.com/dlukes/quetzal/parser"
	"github.com/dlukes/quetzal/report"
)

const (
	exitValid = iota
	exitMistakes
	exitError
)

const maxLineSize = 1 << 20

type jsonResult struct {
	Index     int              `json:"index"`
	Source    string           `json:"source,omitempty"`
	Valid     bool             `json:"valid"`
	Canonical string           `json:"canonical,omitempty"`
	Tokens    []string         `json:"tokens,omitempty"`
	Nodes     []parser.Node    `json:"nodes,omitempty"`
	Mistakes  []parser.Mistake `json:"mistakes,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("quetzal", flag.ContinueOnError)
	flags.SetOutput(stderr)

	cfgPath := flags.String("config", "", "TOML rules file (default $QUETZAL_CONFIG or the user config dir)")
	jsonOut := flags.Bool("json", false, "write one JSON object per segment")
	color := flags.Bool("color", false, "color the mistake report")
	debug := flags.Bool("debug", false, "log debug messages")
	if err := flags.Parse(args); err != nil {
		return exitError
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "quetzal: %v\n", err)
		return exitError
	}
	cfg.Log.Debug = cfg.Log.Debug || *debug

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(stderr, "quetzal: %v\n", err)
		return exitError
	}
	logger.SetOutput(stderr)

	rules, err := cfg.Compile(logger)
	if err != nil {
		fmt.Fprintf(stderr, "quetzal: %v\n", err)
		return exitError
	}

	segments := flags.Args()
	if len(segments) < 1 {
		if segments, err = readSegments(stdin); err != nil {
			fmt.Fprintf(stderr, "quetzal: read segments: %v\n", err)
			return exitError
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	checker := quetzal.New(rules,
		quetzal.WithConfig(&quetzal.Config{Logger: logger, Debug: cfg.Log.Debug}),
		quetzal.WithPoolSize(cfg.Check.PoolSize),
		quetzal.WithMaxSegmentLen(cfg.Check.MaxSegmentLen),
	)

	results, err := checker.CheckAll(ctx, segments)
	if err != nil {
		fmt.Fprintf(stderr, "quetzal: %v\n", err)
		return exitError
	}

	if *jsonOut {
		err = writeJSON(stdout, results)
	} else {
		err = writeText(stdout, results, report.New(report.WithRules(rules), report.WithStyle(*color)))
	}
	if err != nil {
		fmt.Fprintf(stderr, "quetzal: write results: %v\n", err)
		return exitError
	}

	stats := quetzal.Summarize(results)
	logger.WithFields(logrus.Fields{
		"segments": stats.Segments,
		"valid":    stats.Valid,
		"invalid":  stats.Invalid,
		"failed":   stats.Failed,
		"mistakes": stats.Mistakes,
	}).Info("done")

	switch {
	case stats.Failed > 0:
		return exitError
	case stats.Invalid > 0:
		return exitMistakes
	default:
		return exitValid
	}
}

// readSegments reads one segment per non-blank line.
func readSegments(r io.Reader) (segments []string, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			segments = append(segments, line)
		}
	}
	err = scanner.Err()

	return
}

func writeJSON(w io.Writer, results []quetzal.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, r := range results {
		out := jsonResult{Index: r.Index}
		if r.Err != nil {
			out.Error = r.Err.Error()
		} else {
			out.Source, out.Valid = r.Parsed.Source, r.Parsed.Valid()
			out.Canonical, out.Tokens = r.Parsed.Canonical(), r.Parsed.Texts()
			out.Nodes, out.Mistakes = r.Parsed.Nodes, r.Parsed.Mistakes
		}

		if err := enc.Encode(out); err != nil {
			return err
		}
	}

	return nil
}

func writeText(w io.Writer, results []quetzal.Result, reporter *report.Reporter) error {
	for _, r := range results {
		switch {
		case r.Err != nil:
			if _, err := fmt.Fprintf(w, "segment %d: error: %v\n", r.Index+1, r.Err); err != nil {
				return err
			}
		case r.Parsed.Valid():
			continue
		default:
			if _, err := fmt.Fprintf(w, "segment %d: %d mistake(s)\n", r.Index+1, len(r.Parsed.Mistakes)); err != nil {
				return err
			}
			if err := reporter.Render(w, r.Parsed); err != nil {
				return err
			}
		}
	}

	return nil
}
