// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sjdillon/qthena/internal/adapter"
	"github.com/sjdillon/qthena/internal/clients"
	"github.com/sjdillon/qthena/internal/config"
	"github.com/sjdillon/qthena/internal/logger"
	"github.com/sjdillon/qthena/internal/utils"
	"github.com/sjdillon/qthena/internal/validators"
	"github.com/sjdillon/qthena/models"
)

const (
	stepSubmit = "submit"
	stepPoll   = "poll"
	stepFetch  = "fetch results"
)

// CommandRunner executes commands end to end. It keeps no per-execution
// state, so one runner may serve any number of concurrent callers.
type CommandRunner struct {
	clients   ClientProvider
	aws       config.AWS
	polling   config.Polling
	query     config.Query
	clock     Clock
	tokens    TokenGenerator
	recorder  ExecutionRecorder
	validator validators.Validator
	logger    *logger.Logger
}

// Option customises a CommandRunner.
type Option func(*CommandRunner)

// WithClock replaces the wall clock used by the poll loop.
func WithClock(c Clock) Option {
	return func(r *CommandRunner) { r.clock = c }
}

// WithRecorder stores every terminal outcome in rec.
func WithRecorder(rec ExecutionRecorder) Option {
	return func(r *CommandRunner) { r.recorder = rec }
}

// WithTokenGenerator replaces the idempotency token source.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(r *CommandRunner) { r.tokens = g }
}

// NewCommandRunner creates a runner that borrows handles from provider and
// takes its defaults and polling policy from cfg.
func NewCommandRunner(provider ClientProvider, cfg *config.Config, log *logger.Logger, opts ...Option) *CommandRunner {
	r := &CommandRunner{
		clients: provider,
		aws:     cfg.AWS,
		polling: cfg.Polling,
		query:   cfg.Query,
		clock:   realClock{},
		tokens:  utils.NewTokenGenerator(),
		logger:  log,

		validator: validators.NewCommandValidator(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.polling.MaxRetries < 1 {
		r.polling.MaxRetries = 1
	}
	return r
}

// Run executes spec and returns its complete result set.
func (r *CommandRunner) Run(ctx context.Context, spec models.CommandSpec) (*models.ResultSet, error) {
	it, err := r.Stream(ctx, spec)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	return it.Collect(ctx)
}

// Stream executes spec and, once it has succeeded, returns an iterator over
// its rows. Pages are fetched as the iterator advances. The caller must
// Close the iterator.
func (r *CommandRunner) Stream(ctx context.Context, spec models.CommandSpec) (*RowIterator, error) {
	spec, err := r.resolve(ctx, spec)
	if err != nil {
		return nil, err
	}

	x := &execution{
		runner: r,
		spec:   spec,
		log:    r.logger.With().Str("workgroup", spec.Workgroup).Logger(),
	}
	if i, ok := utils.GetBatchIndexFromContext(ctx); ok {
		x.log = x.log.With().Int("batch_index", i).Logger()
	}

	if err := x.submit(ctx); err != nil {
		return nil, err
	}

	if err := x.wait(ctx); err != nil {
		x.finish(ctx, 0, err)
		return nil, err
	}

	return newRowIterator(x), nil
}

// resolve validates spec and fills its empty fields from the configured
// defaults.
func (r *CommandRunner) resolve(ctx context.Context, spec models.CommandSpec) (models.CommandSpec, error) {
	if err := r.validator.Validate(ctx, spec); err != nil {
		return spec, err
	}
	if spec.OutputLocation == "" {
		spec.OutputLocation = r.query.OutputLocation
	}
	if spec.Workgroup == "" {
		spec.Workgroup = r.query.Workgroup
	}
	if spec.Database == "" {
		spec.Database = r.query.Database
	}
	if spec.Catalog == "" {
		spec.Catalog = r.query.Catalog
	}
	if spec.IdempotencyToken == "" {
		spec.IdempotencyToken = r.tokens.Generate()
	}
	if spec.Timeout <= 0 {
		spec.Timeout = r.polling.Timeout
	}
	return spec, nil
}

// execution is the state of one Stream call. It is owned by the goroutine
// running that call and by the iterator it returns.
type execution struct {
	runner *CommandRunner
	spec   models.CommandSpec
	exec   *models.CommandExecution

	handle *clients.Handle
	qs     adapter.QueryService

	log zerolog.Logger
}

// acquire borrows a handle for the configured region and profile.
func (x *execution) acquire(ctx context.Context) error {
	r := x.runner
	h, err := r.clients.Get(ctx, clients.ServiceAthena, r.aws.Region, r.aws.Profile)
	if err != nil {
		return err
	}

	qs, err := adapter.NewQueryService(h.Client(), r.query.PageSize)
	if err != nil {
		return err
	}

	x.handle = h
	x.qs = qs
	return nil
}

// do runs one remote step. A transport or credential failure invalidates the
// handle; the next attempt borrows a fresh one. Any other error is returned
// unchanged.
//
// Only this execution may swap its handle. A handle invalidated by anyone
// else fails the execution.
func (x *execution) do(ctx context.Context, step string, fn func(adapter.QueryService) error) error {
	attempts := x.runner.polling.MaxRetries

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if x.handle != nil && !x.handle.Valid() {
			return x.lostHandle(ctx, step, attempt-1)
		}
		if x.handle == nil {
			if err := x.acquire(ctx); err != nil {
				return err
			}
		}

		err := fn(x.qs)
		if err == nil {
			return nil
		}
		if !adapter.IsRecoverable(err) {
			return err
		}

		lastErr = err
		x.log.Warn().Err(err).
			Str("step", step).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Str("client", x.handle.Key().String()).
			Msg("transport failure, invalidating client")

		x.runner.clients.Invalidate(x.handle)
		x.handle = nil
		x.qs = nil
	}

	return &TransientInfrastructureError{Step: step, Attempts: attempts, Err: lastErr}
}

// lostHandle fails the execution after its handle was invalidated elsewhere.
// A still running execution is cancelled on a best-effort basis.
func (x *execution) lostHandle(ctx context.Context, step string, attempts int) error {
	x.log.Warn().
		Str("step", step).
		Str("client", x.handle.Key().String()).
		Msg("client handle invalidated during execution")

	x.handle = nil
	x.qs = nil
	if x.exec != nil && !x.exec.State.IsTerminal() {
		x.cancelRemote(ctx)
	}

	return &TransientInfrastructureError{Step: step, Attempts: attempts, Err: ErrHandleInvalidated}
}

func (x *execution) submit(ctx context.Context) error {
	var id string
	err := x.do(ctx, stepSubmit, func(qs adapter.QueryService) error {
		var err error
		id, err = qs.SubmitCommand(ctx, x.spec)
		return err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			x.log.Info().Err(ctxErr).Msg("submit interrupted")
			return interrupted("", ctxErr)
		}
		var se *adapter.ServiceError
		if errors.As(err, &se) {
			x.log.Info().Str("reason", se.Message).Msg("command rejected on submit")
			return &CommandError{State: models.StateFailed, Message: se.Message}
		}
		return err
	}

	x.exec = models.NewCommandExecution(id, x.runner.clock.Now())
	x.log = x.log.With().Str("execution_id", id).Logger()
	x.log.Info().Msg("command submitted")
	return nil
}

// wait polls until the execution reaches a terminal state. It returns nil
// only for SUCCEEDED.
func (x *execution) wait(ctx context.Context) error {
	clock := x.runner.clock
	deadline := x.exec.SubmittedAt.Add(x.spec.Timeout)
	backoff := newPollBackoff(x.runner.polling.Interval, x.runner.polling.MaxInterval)

	for {
		d := backoff.next()
		if remaining := deadline.Sub(clock.Now()); remaining < d {
			d = remaining
		}
		if err := clock.Sleep(ctx, d); err != nil {
			return x.abort(ctx, err)
		}

		if !clock.Now().Before(deadline) {
			return x.expire(ctx)
		}

		var status models.ExecutionStatus
		err := x.do(ctx, stepPoll, func(qs adapter.QueryService) error {
			var err error
			status, err = qs.GetExecutionStatus(ctx, x.exec.ID)
			return err
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return x.abort(ctx, ctxErr)
			}
			var se *adapter.ServiceError
			if errors.As(err, &se) {
				x.setState(models.StateFailed, se.Message)
				return x.commandError(nil)
			}
			return err
		}

		x.exec.PollCount++
		x.exec.LastPolledAt = clock.Now()
		x.exec.Status = status

		local := status.State.Local()
		x.setState(local, status.Message)

		switch local {
		case models.StateSucceeded:
			x.exec.ResultLocation = status.OutputLocation
			return nil
		case models.StateFailed, models.StateCancelled:
			return x.commandError(nil)
		}
	}
}

// expire cancels the execution remotely and reports TIMED_OUT.
func (x *execution) expire(ctx context.Context) error {
	x.cancelRemote(ctx)
	x.setState(models.StateTimedOut, fmt.Sprintf("no terminal state within %s", x.spec.Timeout))
	return x.commandError(nil)
}

// abort handles cancellation of the caller's context. A passed deadline is
// reported as TIMED_OUT, anything else as CANCELLED.
func (x *execution) abort(ctx context.Context, cause error) error {
	x.cancelRemote(ctx)
	x.setState(interruptedState(cause), cause.Error())
	return x.commandError(cause)
}

// interruptedState maps a caller's context error onto a terminal state.
func interruptedState(cause error) models.ExecutionState {
	if errors.Is(cause, context.DeadlineExceeded) {
		return models.StateTimedOut
	}
	return models.StateCancelled
}

// interrupted reports a caller cancellation that happened outside the poll
// loop, while submitting or reading results.
func interrupted(executionID string, cause error) *CommandError {
	return &CommandError{
		State:       interruptedState(cause),
		Message:     cause.Error(),
		ExecutionID: executionID,
		Err:         cause,
	}
}

// cancelRemote issues exactly one best-effort cancel request. Its failure is
// logged and otherwise ignored.
func (x *execution) cancelRemote(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), x.runner.polling.CancelTimeout)
	defer cancel()

	if x.handle == nil || !x.handle.Valid() {
		if err := x.acquire(ctx); err != nil {
			x.log.Warn().Err(err).Msg("no client for best-effort cancel")
			return
		}
	}

	if err := x.qs.CancelExecution(ctx, x.exec.ID); err != nil {
		x.log.Warn().Err(err).Msg("best-effort cancel failed")
		return
	}
	x.log.Info().Msg("cancel requested")
}

// setState moves the execution to next. An execution still SUBMITTED passes
// through RUNNING on its way to a remote outcome.
func (x *execution) setState(next models.ExecutionState, message string) {
	prev := x.exec.State
	if prev == models.StateSubmitted && (next == models.StateSucceeded || next == models.StateFailed) {
		x.setState(models.StateRunning, "")
		prev = x.exec.State
	}
	if err := x.exec.Transition(next); err != nil {
		x.log.Error().Err(err).Msg("unexpected state change ignored")
		return
	}
	if message != "" {
		x.exec.Message = message
	}
	if prev != next {
		x.log.Info().
			Str("from", prev.String()).
			Str("to", next.String()).
			Int("polls", x.exec.PollCount).
			Msg("execution state changed")
	}
}

func (x *execution) commandError(cause error) *CommandError {
	return &CommandError{
		State:       x.exec.State,
		Message:     x.exec.Message,
		ExecutionID: x.exec.ID,
		Err:         cause,
	}
}

// fetch returns one result page, retrying transport failures like any other
// step. A logical failure is reported as a FAILED CommandError.
func (x *execution) fetch(ctx context.Context, token string) (models.ResultPage, error) {
	var page models.ResultPage
	err := x.do(ctx, stepFetch, func(qs adapter.QueryService) error {
		var err error
		page, err = qs.GetResultPage(ctx, x.exec.ID, token)
		return err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return page, interrupted(x.exec.ID, ctxErr)
		}
		var se *adapter.ServiceError
		if errors.As(err, &se) {
			return page, &CommandError{
				State:       models.StateFailed,
				Message:     se.Message,
				ExecutionID: x.exec.ID,
			}
		}
		return page, err
	}
	return page, nil
}

// finish records a terminal outcome. Recording failures are only logged.
func (x *execution) finish(ctx context.Context, rows int, err error) {
	rec := x.runner.recorder
	if rec == nil || x.exec == nil || !x.exec.State.IsTerminal() {
		return
	}

	state, msg := x.exec.State, x.exec.Message
	if err != nil {
		// A run whose results could not be read is recorded with the
		// outcome of the read, never as SUCCEEDED.
		if ce, ok := IsCommandError(err); ok {
			state = ce.State
			if ce.Message != "" {
				msg = ce.Message
			}
		} else if state == models.StateSucceeded {
			x.log.Warn().Err(err).Msg("results not read, execution not recorded")
			return
		}
		if msg == "" {
			msg = err.Error()
		}
	}

	record := models.ExecutionRecord{
		ExecutionID: x.exec.ID,
		Query:       x.spec.Query,
		State:       state,
		Message:     msg,
		Workgroup:   x.spec.Workgroup,
		SubmittedAt: x.exec.SubmittedAt,
		FinishedAt:  x.runner.clock.Now(),
		PollCount:   x.exec.PollCount,
		RowCount:    rows,
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), x.runner.polling.CancelTimeout)
	defer cancel()

	if err := rec.Record(ctx, record); err != nil {
		x.log.Warn().Err(err).Msg("failed to record execution")
	}
}
