// Package workers runs many independent commands with bounded concurrency.
//
// Each command gets its own slot in the result slice; a failure in one slot
// never cancels or alters the others.
package workers

import (
	"context"

	"github.com/sjdillon/qthena/models"
)

// Runner executes one command. *service.CommandRunner implements it.
//
// Implementations must be safe for concurrent use.
type Runner interface {
	Run(ctx context.Context, spec models.CommandSpec) (*models.ResultSet, error)
}
