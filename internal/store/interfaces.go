package store

import (
	"context"

	"github.com/sjdillon/qthena/models"
)

// HistoryRepository stores the outcome of finished executions.
type HistoryRepository interface {
	// Record inserts rec. A second record for the same execution id fails
	// with ErrExecutionAlreadyRecorded.
	Record(ctx context.Context, rec models.ExecutionRecord) error
	// Recent lists records newest first.
	Recent(ctx context.Context, filter models.HistoryFilter) ([]models.ExecutionRecord, error)
}

// ErrorClassificator maps a driver error onto an [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
