// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sjdillon/qthena/internal/clients"
	"github.com/sjdillon/qthena/internal/config"
	"github.com/sjdillon/qthena/internal/logger"
	"github.com/sjdillon/qthena/internal/service"
	"github.com/sjdillon/qthena/internal/store"
	"github.com/sjdillon/qthena/internal/validators"
	"github.com/sjdillon/qthena/internal/workers"
)

// Usage is printed for an unknown or missing subcommand.
const Usage = `usage: qthena [flags] <command> [command flags] [args]

commands:
  run [-format table|csv|json] <sql>...     run one query, or several in parallel
  history [-state S] [-limit N] [-format F] list recorded executions
  version                                   print build information

flags (each also settable as a QTHENA_ environment variable or config file key):
  -c, -config FILE        JSON or TOML config file
  -region, -profile       AWS region and shared-config profile
  -endpoint-url URL       service endpoint override
  -output-location S3URL  default result location
  -workgroup, -database, -catalog
                          default query context
  -poll-interval, -poll-max-interval, -timeout DURATION
                          poll backoff and deadline
  -max-retries N          attempts per step on transport failure
  -page-size N            rows per result page
  -concurrency N          parallel queries in batch mode
  -history-dsn DSN        execution history (SQLite path or postgres:// URL)
  -log-level LEVEL        zerolog level
`

// App is the qthena command-line application.
type App struct {
	clients  *clients.Manager
	runner   *service.CommandRunner
	batch    *workers.Batch
	history  store.HistoryRepository
	storages *store.Storages

	validator validators.Validator

	out    io.Writer
	errOut io.Writer
	tty    bool

	logger *logger.Logger
}

type options struct {
	factory    clients.Factory
	history    store.HistoryRepository
	out        io.Writer
	errOut     io.Writer
	runnerOpts []service.Option
}

// Option customises NewApp.
type Option func(*options)

// WithFactory replaces the AWS SDK client factory.
func WithFactory(f clients.Factory) Option {
	return func(o *options) { o.factory = f }
}

// WithHistory uses repo instead of opening the configured history DSN.
func WithHistory(repo store.HistoryRepository) Option {
	return func(o *options) { o.history = repo }
}

// WithOutput redirects results to out and diagnostics to errOut.
func WithOutput(out, errOut io.Writer) Option {
	return func(o *options) {
		o.out = out
		o.errOut = errOut
	}
}

// WithRunnerOptions passes opts on to the command runner.
func WithRunnerOptions(opts ...service.Option) Option {
	return func(o *options) { o.runnerOpts = append(o.runnerOpts, opts...) }
}

// NewApp wires the application from cfg. When cfg.History.DSN is set the
// history database is opened and migrated, and every finished run is
// recorded in it.
func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...Option) (*App, error) {
	o := options{
		factory: clients.NewAWSFactory(cfg.AWS.EndpointURL),
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		history: o.history,
		out:     o.out,
		errOut:  o.errOut,
		tty:     isTerminal(o.out),
		logger:  log,

		validator: validators.NewCommandValidator(),
	}

	if a.history == nil && cfg.History.DSN != "" {
		storages, err := store.NewStorages(ctx, cfg.History, log)
		if err != nil {
			return nil, fmt.Errorf("open execution history: %w", err)
		}
		a.storages = storages
		a.history = storages.HistoryRepository
	}

	runnerOpts := o.runnerOpts
	if a.history != nil {
		runnerOpts = append([]service.Option{service.WithRecorder(a.history)}, runnerOpts...)
	}

	a.clients = clients.NewManager(o.factory, cfg.AWS, log)
	a.runner = service.NewCommandRunner(a.clients, cfg, log, runnerOpts...)
	a.batch = workers.NewBatch(a.runner, cfg.Workers.Concurrency, log)

	return a, nil
}

// Run dispatches args[0] to its subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.errOut, Usage)
		return ErrUnknownCommand
	}

	ctx = a.logger.WithContext(ctx)

	switch args[0] {
	case "run":
		return a.runCommand(ctx, args[1:])
	case "history":
		return a.historyCommand(ctx, args[1:])
	default:
		fmt.Fprint(a.errOut, Usage)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
}

// Close releases every client handle and the history database.
func (a *App) Close() error {
	a.clients.CloseAll()

	if a.storages != nil {
		return a.storages.Close()
	}
	return nil
}
