// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/sjdillon/qthena/internal/logger"
	"github.com/sjdillon/qthena/models"
)

const (
	// writeRetries is the number of extra attempts for a write that failed
	// with a retryable driver error.
	writeRetries      = 2
	writeRetryBackoff = 50 * time.Millisecond
)

// historyRepository is the SQL-backed implementation of [HistoryRepository].
// It reads and writes the "executions" table on PostgreSQL or SQLite,
// choosing the placeholder style from the connection's dialect.
type historyRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewHistoryRepository constructs a [HistoryRepository] backed by the
// provided database connection and logger.
func NewHistoryRepository(db *DB, logger *logger.Logger) HistoryRepository {
	logger.Debug().Str("dialect", string(db.dialect)).Msg("creating history repository")
	return &historyRepository{
		db:     db,
		logger: logger,
	}
}

// Record persists one execution outcome.
//
// Error handling:
//   - primary key violation → [ErrExecutionAlreadyRecorded].
//   - retryable driver errors (busy database, lost connection) are retried
//     with a short exponential backoff.
//   - any other driver-level error → wrapped in [ErrExecutingStatement].
func (r *historyRepository) Record(ctx context.Context, rec models.ExecutionRecord) error {
	query, args, err := buildInsertExecutionQuery(r.db.placeholders(), rec)
	if err != nil {
		r.logger.Err(err).Str("func", "*historyRepository.Record").Msg("error building query")
		return err
	}

	backoff := retry.WithMaxRetries(writeRetries, retry.NewExponential(writeRetryBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, query, args...)
		if err != nil && r.db.classify(err) == Retryable {
			r.logger.Warn().Err(err).Str("execution_id", rec.ExecutionID).Msg("retrying history write")
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if r.db.classify(err) == Duplicate {
			return fmt.Errorf("%w: %s", ErrExecutionAlreadyRecorded, rec.ExecutionID)
		}
		r.logger.Err(err).Str("func", "*historyRepository.Record").Msg("error inserting execution")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Recent returns recorded executions, newest first, optionally restricted
// to one state. A zero limit means 50.
func (r *historyRepository) Recent(ctx context.Context, filter models.HistoryFilter) ([]models.ExecutionRecord, error) {
	query, args, err := buildRecentExecutionsQuery(r.db.placeholders(), filter)
	if err != nil {
		r.logger.Err(err).Str("func", "*historyRepository.Recent").Msg("error building query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "*historyRepository.Recent").Msg("error querying executions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var out []models.ExecutionRecord
	for rows.Next() {
		var (
			rec   models.ExecutionRecord
			state string
		)
		if err := rows.Scan(
			&rec.ExecutionID,
			&rec.Query,
			&state,
			&rec.Message,
			&rec.Workgroup,
			&rec.SubmittedAt,
			&rec.FinishedAt,
			&rec.PollCount,
			&rec.RowCount,
		); err != nil {
			r.logger.Err(err).Str("func", "*historyRepository.Recent").Msg("error scanning execution")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		rec.State = models.ExecutionState(state)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return out, nil
}
