// Package utils provides small helpers shared across qthena: type-safe
// context keys and idempotency token generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// BatchIndexCtxKey is the key used to store the position of a command within
// a batch. Batch workers set it so that runner log entries can be matched to
// the input that produced them.
var BatchIndexCtxKey = contextKey("batchIndex")

// WithBatchIndex returns a copy of ctx carrying the batch position i.
func WithBatchIndex(ctx context.Context, i int) context.Context {
	return context.WithValue(ctx, BatchIndexCtxKey, i)
}

// GetBatchIndexFromContext retrieves the batch position from the context.
//
// Returns the index and an ok flag:
//   - ok == true: value is found and has the correct int type
//   - ok == false: value is missing or has an unexpected type
func GetBatchIndexFromContext(ctx context.Context) (int, bool) {
	i, ok := ctx.Value(BatchIndexCtxKey).(int)
	return i, ok
}
