// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"

	"github.com/sjdillon/qthena/models"
)

type athenaQueryService struct {
	api      AthenaAPI
	pageSize int32
}

// NewAthenaQueryService wraps an Athena client. pageSize is the number of
// rows requested per result page; zero leaves it to the service.
func NewAthenaQueryService(api AthenaAPI, pageSize int32) QueryService {
	return &athenaQueryService{api: api, pageSize: pageSize}
}

// NewQueryService returns the QueryService for a handle's client: clients
// that already implement QueryService are used as is, Athena clients are
// wrapped.
func NewQueryService(client any, pageSize int32) (QueryService, error) {
	switch c := client.(type) {
	case QueryService:
		return c, nil
	case AthenaAPI:
		return NewAthenaQueryService(c, pageSize), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedClient, client)
	}
}

func (a *athenaQueryService) SubmitCommand(ctx context.Context, spec models.CommandSpec) (string, error) {
	in := &athena.StartQueryExecutionInput{
		QueryString: aws.String(spec.Query),
	}
	if spec.IdempotencyToken != "" {
		in.ClientRequestToken = aws.String(spec.IdempotencyToken)
	}
	if spec.Workgroup != "" {
		in.WorkGroup = aws.String(spec.Workgroup)
	}
	if spec.OutputLocation != "" {
		in.ResultConfiguration = &types.ResultConfiguration{
			OutputLocation: aws.String(spec.OutputLocation),
		}
	}
	if spec.Database != "" || spec.Catalog != "" {
		qctx := &types.QueryExecutionContext{}
		if spec.Database != "" {
			qctx.Database = aws.String(spec.Database)
		}
		if spec.Catalog != "" {
			qctx.Catalog = aws.String(spec.Catalog)
		}
		in.QueryExecutionContext = qctx
	}

	out, err := a.api.StartQueryExecution(ctx, in)
	if err != nil {
		return "", mapSDKError("start query execution", err)
	}

	id := aws.ToString(out.QueryExecutionId)
	if id == "" {
		return "", &ServiceError{Op: "start query execution", Message: "no execution id returned"}
	}
	return id, nil
}

func (a *athenaQueryService) GetExecutionStatus(ctx context.Context, executionID string) (models.ExecutionStatus, error) {
	out, err := a.api.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
		QueryExecutionId: aws.String(executionID),
	})
	if err != nil {
		return models.ExecutionStatus{}, mapSDKError("get query execution", err)
	}

	qe := out.QueryExecution
	if qe == nil || qe.Status == nil {
		return models.ExecutionStatus{}, &ServiceError{
			Op:      "get query execution",
			Message: "execution " + executionID + " has no status",
		}
	}

	status := models.ExecutionStatus{
		State:       models.RemoteState(qe.Status.State),
		Message:     aws.ToString(qe.Status.StateChangeReason),
		SubmittedAt: aws.ToTime(qe.Status.SubmissionDateTime),
		CompletedAt: aws.ToTime(qe.Status.CompletionDateTime),
	}
	if status.Message == "" && qe.Status.AthenaError != nil {
		status.Message = aws.ToString(qe.Status.AthenaError.ErrorMessage)
	}
	if qe.ResultConfiguration != nil {
		status.OutputLocation = aws.ToString(qe.ResultConfiguration.OutputLocation)
	}
	if qe.Statistics != nil {
		status.DataScannedBytes = aws.ToInt64(qe.Statistics.DataScannedInBytes)
		status.EngineExecutionTime = time.Duration(aws.ToInt64(qe.Statistics.EngineExecutionTimeInMillis)) * time.Millisecond
	}

	return status, nil
}

func (a *athenaQueryService) GetResultPage(ctx context.Context, executionID, pageToken string) (models.ResultPage, error) {
	in := &athena.GetQueryResultsInput{
		QueryExecutionId: aws.String(executionID),
	}
	if pageToken != "" {
		in.NextToken = aws.String(pageToken)
	}
	if a.pageSize > 0 {
		in.MaxResults = aws.Int32(a.pageSize)
	}

	out, err := a.api.GetQueryResults(ctx, in)
	if err != nil {
		return models.ResultPage{}, mapSDKError("get query results", err)
	}

	page := models.ResultPage{NextToken: aws.ToString(out.NextToken)}
	if out.ResultSet == nil {
		return page, nil
	}

	if md := out.ResultSet.ResultSetMetadata; md != nil {
		page.Columns = make([]models.Column, 0, len(md.ColumnInfo))
		for _, ci := range md.ColumnInfo {
			page.Columns = append(page.Columns, models.Column{
				Name: aws.ToString(ci.Name),
				Type: aws.ToString(ci.Type),
			})
		}
	}

	rows := out.ResultSet.Rows
	// The first page of a SELECT starts with a row of column labels.
	if pageToken == "" && len(rows) > 0 && isHeaderRow(rows[0], page.Columns) {
		rows = rows[1:]
	}

	page.Rows = make([]models.Row, 0, len(rows))
	for _, r := range rows {
		row := make(models.Row, len(r.Data))
		for i, d := range r.Data {
			if d.VarCharValue != nil {
				row[i] = sql.NullString{String: *d.VarCharValue, Valid: true}
			}
		}
		page.Rows = append(page.Rows, row)
	}

	return page, nil
}

func (a *athenaQueryService) CancelExecution(ctx context.Context, executionID string) error {
	_, err := a.api.StopQueryExecution(ctx, &athena.StopQueryExecutionInput{
		QueryExecutionId: aws.String(executionID),
	})
	return mapSDKError("stop query execution", err)
}

func isHeaderRow(row types.Row, cols []models.Column) bool {
	if len(cols) == 0 || len(row.Data) != len(cols) {
		return false
	}
	for i, d := range row.Data {
		if d.VarCharValue == nil || *d.VarCharValue != cols[i].Name {
			return false
		}
	}
	return true
}
