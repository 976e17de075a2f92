// SPDX-License-Identifier: Apache-2.0

// Package service runs commands end to end against the query service.
//
// [CommandRunner] submits a [models.CommandSpec] through a client handle
// borrowed from a [ClientProvider], polls the execution under capped
// exponential backoff until it reaches a terminal state, and then either
// streams the result pages ([CommandRunner.Stream]) or collects them
// ([CommandRunner.Run]).
//
// Every outcome other than success is reported as one of:
//   - *clients.ConstructionError: no client handle could be built.
//   - *TransientInfrastructureError: a step kept failing at the transport
//     level until its attempt budget ran out.
//   - *CommandError: the execution ended FAILED, CANCELLED or TIMED_OUT.
package service

import (
	"context"
	"time"

	"github.com/sjdillon/qthena/internal/clients"
	"github.com/sjdillon/qthena/models"
)

// ClientProvider hands out client handles. *clients.Manager implements it.
type ClientProvider interface {
	Get(ctx context.Context, service, region, profile string) (*clients.Handle, error)
	Invalidate(h *clients.Handle)
}

// ExecutionRecorder persists the outcome of finished executions.
type ExecutionRecorder interface {
	Record(ctx context.Context, rec models.ExecutionRecord) error
}

// TokenGenerator produces idempotency tokens for specs that do not carry one.
type TokenGenerator interface {
	Generate() string
}

// Clock is the time source of the poll loop.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}
