package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/sjdillon/qthena/models"
)

const (
	executionsTable = "executions"

	defaultHistoryLimit = 50
)

var executionColumns = []string{
	"execution_id",
	"query",
	"state",
	"message",
	"workgroup",
	"submitted_at",
	"finished_at",
	"poll_count",
	"row_count",
}

func buildInsertExecutionQuery(ph sq.PlaceholderFormat, rec models.ExecutionRecord) (string, []any, error) {
	query, args, err := sq.Insert(executionsTable).
		Columns(executionColumns...).
		Values(
			rec.ExecutionID,
			rec.Query,
			string(rec.State),
			rec.Message,
			rec.Workgroup,
			rec.SubmittedAt.UTC(),
			rec.FinishedAt.UTC(),
			rec.PollCount,
			rec.RowCount,
		).
		PlaceholderFormat(ph).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildRecentExecutionsQuery(ph sq.PlaceholderFormat, filter models.HistoryFilter) (string, []any, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	b := sq.Select(executionColumns...).
		From(executionsTable).
		OrderBy("finished_at DESC", "execution_id").
		Limit(uint64(limit))
	if filter.State != "" {
		b = b.Where(sq.Eq{"state": string(filter.State)})
	}

	query, args, err := b.PlaceholderFormat(ph).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
