// SPDX-License-Identifier: Apache-2.0

package app

import (
	"errors"
	"fmt"

	"github.com/sjdillon/qthena/internal/clients"
	"github.com/sjdillon/qthena/internal/service"
	"github.com/sjdillon/qthena/models"
)

// Msg* constants are the human-readable prefixes printed on standard error
// when a command fails. Keeping them in one place keeps the wording of every
// subcommand consistent.
const (
	// MsgQueryFailed is printed when the service reports a logical failure
	// (syntax error, missing table, permission denied).
	MsgQueryFailed = "query failed"

	// MsgQueryTimedOut is printed when the poll deadline expired before the
	// query reached a terminal state.
	MsgQueryTimedOut = "query timed out"

	// MsgQueryCancelled is printed when the query was cancelled locally or
	// remotely.
	MsgQueryCancelled = "query cancelled"

	// MsgServiceUnreachable is printed when a step kept failing at the
	// transport level after every allowed attempt.
	MsgServiceUnreachable = "query service unreachable"

	// MsgClientSetupFailed is printed when credentials or the SDK client
	// could not be set up.
	MsgClientSetupFailed = "aws client setup failed"

	// MsgHistoryDisabled is printed by the history command when no history
	// DSN is configured.
	MsgHistoryDisabled = "execution history is disabled, set QTHENA_HISTORY_DSN or -history-dsn"

	// MsgUnknownCommand is printed for a subcommand qthena does not know.
	MsgUnknownCommand = "unknown command"

	// MsgNoQueries is printed when run is called without any SQL argument.
	MsgNoQueries = "no queries given"
)

var (
	// ErrUnknownCommand is returned by [App.Run] for an unknown subcommand.
	ErrUnknownCommand = errors.New(MsgUnknownCommand)
	// ErrNoQueries is returned by the run command without SQL arguments.
	ErrNoQueries = errors.New(MsgNoQueries)
	// ErrHistoryDisabled is returned by the history command when the store
	// is not configured.
	ErrHistoryDisabled = errors.New(MsgHistoryDisabled)
	// ErrBatchFailed is returned by the run command when at least one query
	// of a batch failed. Each failure has already been reported.
	ErrBatchFailed = errors.New("one or more queries failed")
	// ErrInvalidFormat is returned for an unknown -format value.
	ErrInvalidFormat = errors.New("invalid output format")
)

// Describe turns err into the one-line message shown to the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	if ce, ok := service.IsCommandError(err); ok {
		var prefix string
		switch ce.State {
		case models.StateTimedOut:
			prefix = MsgQueryTimedOut
		case models.StateCancelled:
			prefix = MsgQueryCancelled
		default:
			prefix = MsgQueryFailed
		}
		msg := prefix
		if ce.Message != "" {
			msg += ": " + ce.Message
		}
		if ce.ExecutionID != "" {
			msg += fmt.Sprintf(" (execution %s)", ce.ExecutionID)
		}
		return msg
	}

	var tie *service.TransientInfrastructureError
	if errors.As(err, &tie) {
		if errors.Is(tie.Err, service.ErrHandleInvalidated) {
			return fmt.Sprintf("%s: %s: %v", MsgServiceUnreachable, tie.Step, tie.Err)
		}
		return fmt.Sprintf("%s: %s gave up after %d attempts: %v", MsgServiceUnreachable, tie.Step, tie.Attempts, tie.Err)
	}

	var ce *clients.ConstructionError
	if errors.As(err, &ce) {
		return fmt.Sprintf("%s for %s: %v", MsgClientSetupFailed, ce.Key, ce.Err)
	}

	return err.Error()
}
