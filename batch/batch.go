// Package batch generates many programs in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhamidi/smith/random"
	"github.com/dhamidi/smith/smith"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("batch")

// Program is one generated program and the seed that reproduces it.
type Program struct {
	Index int
	Seed  int64
	Text  string
}

// Options configures a batch run.
type Options struct {
	Grammar ebnf.Grammar
	Start   string
	// Seed is the seed of program 0; program i uses Seed+i. Zero picks one,
	// negative seeds are rejected.
	Seed    int64
	Count   int
	Workers int
	// Generator options applied to every program. They must not include
	// smith.WithSource: each program gets its own seeded source.
	Generator []smith.Option
}

// Run generates opts.Count programs using at most opts.Workers goroutines.
// Results are ordered by index and do not depend on scheduling.
func Run(ctx context.Context, opts Options) ([]Program, error) {
	if opts.Count < 0 {
		return nil, fmt.Errorf("negative count %d", opts.Count)
	}
	if opts.Seed < 0 {
		return nil, fmt.Errorf("negative seed %d", opts.Seed)
	}
	if opts.Grammar == nil {
		return nil, errors.New("no grammar")
	}
	workers := max(opts.Workers, 1)
	base := opts.Seed
	if base == 0 {
		base = random.New(0).Seed()
	}
	log.Infof("generating %d programs from %s with %d workers, seed %d", opts.Count, opts.Start, workers, base)

	results := make([]Program, opts.Count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range opts.Count {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			seed := base + int64(i)
			genOpts := append([]smith.Option{}, opts.Generator...)
			genOpts = append(genOpts, smith.WithSource(random.New(seed)))
			text, err := smith.New(opts.Grammar, genOpts...).Generate(opts.Start)
			if err != nil {
				return fmt.Errorf("program %d (seed %d): %w", i, seed, err)
			}
			results[i] = Program{Index: i, Seed: seed, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
