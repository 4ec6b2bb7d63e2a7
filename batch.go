// SPDX-License-Identifier: MIT
package quetzal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/dlukes/quetzal/parser"
	"github.com/dlukes/quetzal/types"
)

type (
	// Result holds the outcome of checking one segment of a batch.
	Result struct {
		// Index is the segment's position in the batch.
		Index  int
		Parsed *parser.Parsed
		Err    error
	}

	// Stats summarizes a batch.
	Stats struct {
		Segments int
		Valid    int
		Invalid  int
		Failed   int
		Mistakes int
	}
)

// Batch errors.
var (
	ErrBatch    = errors.New("failed to check batch")
	ErrPanicked = errors.New("recovery from panic")
)

// CheckAll checks segments in parallel, returning Results in input order.
//
// Context cancellation stops the submission of further segments; their Results carry the context's
// error.
func (c *Checker) CheckAll(ctx context.Context, segments []string) (results []Result, err error) {
	results = make([]Result, len(segments))
	if len(segments) < 1 {
		return
	}

	var (
		wg      sync.WaitGroup
		invalid types.SafeCounter
	)

	pool, err := ants.NewPoolWithFunc(c.poolSize, func(arg interface{}) {
		index := arg.(int)
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				results[index].Err = fmt.Errorf("%w: %v", ErrPanicked, r)
			}
		}()

		p, e := c.Check(segments[index])
		results[index] = Result{Index: index, Parsed: p, Err: e}
		if p != nil && !p.Valid() {
			invalid.Inc()
		}
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrBatch, err)
		return
	}
	defer pool.Release()

	submitted := 0
submit:
	for ; submitted < len(segments); submitted++ {
		select {
		case <-ctx.Done():
			err = fmt.Errorf("%w: %w", ErrBatch, ctx.Err())
			break submit
		default:
		}

		results[submitted].Index = submitted
		wg.Add(1)
		if e := pool.Invoke(submitted); e != nil {
			wg.Done()
			err = fmt.Errorf("%w: %w", ErrBatch, e)
			break
		}
	}
	wg.Wait()

	for index := submitted; index < len(segments); index++ {
		results[index] = Result{Index: index, Err: err}
	}

	c.cfg.Logger.WithFields(logrus.Fields{
		"segments":  len(segments),
		"submitted": submitted,
		"invalid":   invalid.Value(),
	}).Debug("checked batch")

	return
}

// Summarize computes the Stats of a batch.
func Summarize(results []Result) (s Stats) {
	s.Segments = len(results)
	for _, r := range results {
		switch {
		case r.Err != nil || r.Parsed == nil:
			s.Failed++
		case r.Parsed.Valid():
			s.Valid++
		default:
			s.Invalid++
			s.Mistakes += len(r.Parsed.Mistakes)
		}
	}

	return
}
