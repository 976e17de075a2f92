// SPDX-License-Identifier: Apache-2.0

package models

import (
	"fmt"
	"time"
)

// ExecutionState is the local lifecycle state of a submitted command.
type ExecutionState string

const (
	StateSubmitted ExecutionState = "SUBMITTED"
	StateRunning   ExecutionState = "RUNNING"
	StateSucceeded ExecutionState = "SUCCEEDED"
	StateFailed    ExecutionState = "FAILED"
	StateCancelled ExecutionState = "CANCELLED"
	StateTimedOut  ExecutionState = "TIMED_OUT"
)

// IsTerminal reports whether no further transition may leave s.
func (s ExecutionState) IsTerminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled, StateTimedOut:
		return true
	}
	return false
}

// CanTransitionTo reports whether s -> next is a legal transition.
func (s ExecutionState) CanTransitionTo(next ExecutionState) bool {
	switch s {
	case StateSubmitted:
		return next == StateRunning || next == StateCancelled || next == StateTimedOut
	case StateRunning:
		return next == StateSucceeded || next == StateFailed ||
			next == StateCancelled || next == StateTimedOut
	}
	return false
}

func (s ExecutionState) String() string {
	return string(s)
}

// CommandExecution tracks one submitted command until it reaches a terminal
// state. It is owned by the poll loop that created it.
type CommandExecution struct {
	ID           string
	State        ExecutionState
	Message      string
	SubmittedAt  time.Time
	LastPolledAt time.Time
	PollCount    int
	// ResultLocation is set only once State is StateSucceeded.
	ResultLocation string
	Status         ExecutionStatus
}

// NewCommandExecution starts tracking id in StateSubmitted.
func NewCommandExecution(id string, submittedAt time.Time) *CommandExecution {
	return &CommandExecution{
		ID:          id,
		State:       StateSubmitted,
		SubmittedAt: submittedAt,
	}
}

// Transition moves the execution to next, refusing illegal transitions.
// Moving to the current state is a no-op.
func (e *CommandExecution) Transition(next ExecutionState) error {
	if e.State == next {
		return nil
	}
	if !e.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, e.State, next)
	}
	e.State = next
	return nil
}
