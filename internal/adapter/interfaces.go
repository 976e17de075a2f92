// SPDX-License-Identifier: Apache-2.0

// Package adapter provides the narrow query-service boundary the runner talks
// to.
//
// The primary abstraction is [QueryService], which decouples the runner from
// the SDK. The package ships an Athena implementation built on [AthenaAPI].
//
// Every error returned by a QueryService is classified by the sentinels in
// errors.go so callers can use [errors.Is]: [ErrTransport] and [ErrAuth] for
// failures that a fresh client may cure, [ErrService] for logical failures
// reported by the service, which must never be retried.
package adapter

import (
	"context"

	"github.com/sjdillon/qthena/models"
)

// QueryService submits commands to a managed query service and observes
// their executions.
type QueryService interface {
	// SubmitCommand starts spec remotely and returns the execution id.
	// spec.OutputLocation, when set, is where the service writes results.
	SubmitCommand(ctx context.Context, spec models.CommandSpec) (string, error)

	// GetExecutionStatus returns the current remote state of executionID,
	// including the service's diagnostic message on failure.
	GetExecutionStatus(ctx context.Context, executionID string) (models.ExecutionStatus, error)

	// GetResultPage returns one page of results. An empty pageToken asks for
	// the first page; the returned NextToken is empty on the last one.
	GetResultPage(ctx context.Context, executionID, pageToken string) (models.ResultPage, error)

	// CancelExecution asks the service to stop executionID.
	CancelExecution(ctx context.Context, executionID string) error
}
