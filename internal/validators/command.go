// SPDX-License-Identifier: Apache-2.0

package validators

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sjdillon/qthena/models"
)

// Field name constants used to scope validation to a subset of fields.
const (
	// FieldQuery targets the SQL text of a command.
	FieldQuery = "query"

	// FieldOutputLocation targets the s3:// result prefix of a command.
	FieldOutputLocation = "output_location"

	// FieldIdempotencyToken targets the deduplication token of a command.
	FieldIdempotencyToken = "idempotency_token"

	// FieldTimeout targets the per-command poll deadline.
	FieldTimeout = "timeout"

	// FieldContext targets the database, catalog and workgroup names.
	FieldContext = "context"

	// FieldState targets the state filter of a history query.
	FieldState = "state"

	// FieldLimit targets the row limit of a history query.
	FieldLimit = "limit"
)

// Limits of the query service.
const (
	maxQueryLength = 262144
	minTokenLength = 32
	maxTokenLength = 128
	maxNameLength  = 255
)

// CommandValidator validates commands and history filters.
type CommandValidator struct{}

func NewCommandValidator() Validator {
	return &CommandValidator{}
}

// Validate dispatches on the dynamic type of obj. Supported types are
// models.CommandSpec and models.HistoryFilter, by value or pointer.
// Returns ErrUnsupportedType for anything else.
func (v *CommandValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CommandSpec:
		return v.validateCommandSpec(ctx, value, fields...)
	case *models.CommandSpec:
		return v.validateCommandSpec(ctx, *value, fields...)

	case models.HistoryFilter:
		return v.validateHistoryFilter(ctx, value, fields...)
	case *models.HistoryFilter:
		return v.validateHistoryFilter(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateCommandSpec checks a command. Optional fields are validated only
// when set; an empty token or zero timeout means the runner's default.
//
// Default validated fields: Query, OutputLocation, IdempotencyToken,
// Timeout, Context.
func (v *CommandValidator) validateCommandSpec(_ context.Context, spec models.CommandSpec, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldQuery, FieldOutputLocation, FieldIdempotencyToken, FieldTimeout, FieldContext}
	}

	for _, f := range fields {
		switch f {
		case FieldQuery:
			if strings.TrimSpace(spec.Query) == "" {
				return ErrEmptyQuery
			}
			if len(spec.Query) > maxQueryLength {
				return ErrQueryTooLong
			}
		case FieldOutputLocation:
			if spec.OutputLocation != "" && !strings.HasPrefix(spec.OutputLocation, "s3://") {
				return ErrInvalidOutputLocation
			}
		case FieldIdempotencyToken:
			if n := utf8.RuneCountInString(spec.IdempotencyToken); n != 0 && (n < minTokenLength || n > maxTokenLength) {
				return ErrInvalidIdempotencyToken
			}
		case FieldTimeout:
			if spec.Timeout < 0 {
				return ErrInvalidTimeout
			}
		case FieldContext:
			for _, name := range []string{spec.Database, spec.Catalog, spec.Workgroup} {
				if len(name) > maxNameLength {
					return ErrNameTooLong
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateHistoryFilter checks a history listing. State, when set, must be
// terminal; Limit must be positive.
func (v *CommandValidator) validateHistoryFilter(_ context.Context, filter models.HistoryFilter, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldState, FieldLimit}
	}

	for _, f := range fields {
		switch f {
		case FieldState:
			if filter.State != "" && !filter.State.IsTerminal() {
				return ErrInvalidState
			}
		case FieldLimit:
			if filter.Limit < 1 {
				return ErrInvalidLimit
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
