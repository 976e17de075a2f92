package app

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/sjdillon/qthena/internal/workers"
	"github.com/sjdillon/qthena/models"
)

const defaultHistoryLimit = 20

// runCommand executes the queries given as arguments. A single query is
// streamed; several run as a batch and each result is printed in input
// order.
func (a *App) runCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	format := fs.String("format", "", "Output format: table, csv or json (default table on a terminal, csv otherwise)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, err := ParseFormat(*format, a.tty)
	if err != nil {
		return err
	}

	var specs []models.CommandSpec
	for _, q := range fs.Args() {
		if q = strings.TrimSpace(q); q != "" {
			specs = append(specs, models.CommandSpec{Query: q})
		}
	}

	switch len(specs) {
	case 0:
		return ErrNoQueries
	case 1:
		return a.runOne(ctx, specs[0], f)
	default:
		return a.runBatch(ctx, specs, f)
	}
}

func (a *App) runOne(ctx context.Context, spec models.CommandSpec, f Format) error {
	it, err := a.runner.Stream(ctx, spec)
	if err != nil {
		return err
	}
	defer it.Close()

	if f == FormatCSV {
		var cw *csvWriter
		for it.Next(ctx) {
			if cw == nil {
				cw = newCSVWriter(a.out, it.Columns())
			}
			if err := cw.Write(it.Row()); err != nil {
				return err
			}
		}
		if err := it.Err(); err != nil {
			return err
		}
		if cw == nil {
			cw = newCSVWriter(a.out, it.Columns())
		}
		return cw.Flush()
	}

	rs, err := it.Collect(ctx)
	if err != nil {
		return err
	}
	if f == FormatJSON {
		return writeJSON(a.out, newJSONResult(spec.Query, rs, nil))
	}
	return writeTable(a.out, rs)
}

func (a *App) runBatch(ctx context.Context, specs []models.CommandSpec, f Format) error {
	results := a.batch.Run(ctx, specs)

	for i, res := range results {
		if err := a.printResult(i, res, f); err != nil {
			return err
		}
	}

	if n := workers.Failed(results); n > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, n, len(results))
	}
	return nil
}

func (a *App) printResult(i int, res workers.Result, f Format) error {
	if f == FormatJSON {
		return writeJSON(a.out, newJSONResult(res.Spec.Query, res.ResultSet, res.Err))
	}

	if res.Err != nil {
		fmt.Fprintf(a.errOut, "query %d: %s\n", i+1, Describe(res.Err))
		return nil
	}

	if i > 0 {
		fmt.Fprintln(a.out)
	}
	if f == FormatCSV {
		return writeCSV(a.out, res.ResultSet)
	}
	fmt.Fprintln(a.out, headerStyle.Render(fmt.Sprintf("query %d: %s", i+1, truncate(oneLine(res.Spec.Query), 72))))
	return writeTable(a.out, res.ResultSet)
}

// historyCommand lists recorded executions newest first.
func (a *App) historyCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	state := fs.String("state", "", "Only show executions in this state (SUCCEEDED, FAILED, CANCELLED, TIMED_OUT)")
	limit := fs.Int("limit", defaultHistoryLimit, "Maximum number of executions")
	format := fs.String("format", "", "Output format: table, csv or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.history == nil {
		return ErrHistoryDisabled
	}

	f, err := ParseFormat(*format, a.tty)
	if err != nil {
		return err
	}

	filter := models.HistoryFilter{
		State: models.ExecutionState(strings.ToUpper(strings.TrimSpace(*state))),
		Limit: *limit,
	}
	if err := a.validator.Validate(ctx, filter); err != nil {
		return err
	}

	records, err := a.history.Recent(ctx, filter)
	if err != nil {
		return fmt.Errorf("list execution history: %w", err)
	}

	switch f {
	case FormatJSON:
		if records == nil {
			records = []models.ExecutionRecord{}
		}
		return writeJSON(a.out, records)
	case FormatCSV:
		return writeHistoryCSV(a.out, records)
	default:
		return writeHistoryTable(a.out, records)
	}
}
