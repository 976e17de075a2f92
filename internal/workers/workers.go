package workers

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sjdillon/qthena/internal/logger"
	"github.com/sjdillon/qthena/internal/utils"
	"github.com/sjdillon/qthena/models"
)

// Result is the outcome of one command of a batch. Exactly one of
// ResultSet and Err is set.
type Result struct {
	Spec      models.CommandSpec
	ResultSet *models.ResultSet
	Err       error
}

// Batch runs commands through a shared Runner, at most concurrency at a time.
type Batch struct {
	runner      Runner
	concurrency int
	logger      *logger.Logger
}

// NewBatch creates a Batch. A concurrency below one runs commands one by one.
func NewBatch(runner Runner, concurrency int, log *logger.Logger) *Batch {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Batch{runner: runner, concurrency: concurrency, logger: log}
}

// Run executes every spec and returns their results in input order. It
// returns once all commands have finished; cancelling ctx cancels the
// commands still running.
func (b *Batch) Run(ctx context.Context, specs []models.CommandSpec) []Result {
	results := make([]Result, len(specs))

	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, spec := range specs {
		g.Go(func() error {
			rs, err := b.runner.Run(utils.WithBatchIndex(ctx, i), spec)
			results[i] = Result{Spec: spec, ResultSet: rs, Err: err}
			if err != nil {
				b.logger.Warn().Err(err).Int("batch_index", i).Msg("batch command failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	b.logger.Debug().
		Int("commands", len(specs)).
		Int("failed", Failed(results)).
		Msg("batch finished")

	return results
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
