package adapter

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/athena"
)

//go:generate mockgen -source=athena_api.go -destination=../mock/athena_api_mock.go -package=mock

// AthenaAPI is the subset of the aws-sdk-go-v2 Athena client used by the
// adapter.
type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
	StopQueryExecution(ctx context.Context, params *athena.StopQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error)
}

var _ AthenaAPI = (*athena.Client)(nil)
