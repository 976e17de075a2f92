package service

import (
	"errors"
	"fmt"

	"github.com/sjdillon/qthena/internal/validators"
	"github.com/sjdillon/qthena/models"
)

var (
	ErrEmptyQuery     = validators.ErrEmptyQuery
	ErrIteratorClosed = errors.New("row iterator closed")
	// ErrHandleInvalidated is wrapped by the TransientInfrastructureError of
	// an execution whose client handle was invalidated by another caller.
	ErrHandleInvalidated = errors.New("client handle invalidated during execution")
)

// CommandError is a terminal, non-successful outcome of an execution:
// FAILED with the remote diagnostic message, CANCELLED, or TIMED_OUT.
// It is never retried.
type CommandError struct {
	State       models.ExecutionState
	Message     string
	ExecutionID string
	// Err is the local cause, if any (for example context.Canceled).
	Err error
}

func (e *CommandError) Error() string {
	msg := "command " + e.State.String()
	if e.ExecutionID != "" {
		msg += " (execution " + e.ExecutionID + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// TransientInfrastructureError reports a step that failed at the transport
// level on every allowed attempt.
type TransientInfrastructureError struct {
	Step     string
	Attempts int
	Err      error
}

func (e *TransientInfrastructureError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Step, e.Attempts, e.Err)
}

func (e *TransientInfrastructureError) Unwrap() error {
	return e.Err
}

// IsCommandError reports whether err carries a terminal command outcome and
// returns it.
func IsCommandError(err error) (*CommandError, bool) {
	var ce *CommandError
	ok := errors.As(err, &ce)
	return ce, ok
}
