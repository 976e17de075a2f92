package validators

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sjdillon/qthena/models"
)

func TestCommandValidator_CommandSpec(t *testing.T) {
	v := NewCommandValidator()
	ctx := context.Background()

	valid := models.CommandSpec{
		Query:            "SELECT 1",
		OutputLocation:   "s3://bucket/prefix/",
		IdempotencyToken: "0190d7a8-4b0c-7d2e-9f3a-2c1b0e9d8f77",
		Timeout:          time.Minute,
	}

	tests := []struct {
		name   string
		mutate func(*models.CommandSpec)
		fields []string
		want   error
	}{
		{name: "valid", mutate: func(*models.CommandSpec) {}},
		{name: "defaults left empty", mutate: func(s *models.CommandSpec) {
			s.OutputLocation, s.IdempotencyToken, s.Timeout = "", "", 0
		}},
		{name: "empty query", mutate: func(s *models.CommandSpec) { s.Query = " \n" }, want: ErrEmptyQuery},
		{name: "query too long", mutate: func(s *models.CommandSpec) { s.Query = strings.Repeat("x", maxQueryLength+1) }, want: ErrQueryTooLong},
		{name: "non s3 location", mutate: func(s *models.CommandSpec) { s.OutputLocation = "https://bucket" }, want: ErrInvalidOutputLocation},
		{name: "short token", mutate: func(s *models.CommandSpec) { s.IdempotencyToken = "abc" }, want: ErrInvalidIdempotencyToken},
		{name: "long token", mutate: func(s *models.CommandSpec) { s.IdempotencyToken = strings.Repeat("a", 129) }, want: ErrInvalidIdempotencyToken},
		{name: "negative timeout", mutate: func(s *models.CommandSpec) { s.Timeout = -time.Second }, want: ErrInvalidTimeout},
		{name: "long workgroup", mutate: func(s *models.CommandSpec) { s.Workgroup = strings.Repeat("w", 256) }, want: ErrNameTooLong},
		{
			name:   "scoped to query ignores location",
			mutate: func(s *models.CommandSpec) { s.OutputLocation = "file:///tmp" },
			fields: []string{FieldQuery},
		},
		{name: "unknown field", mutate: func(*models.CommandSpec) {}, fields: []string{"nope"}, want: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid
			tt.mutate(&spec)

			err := v.Validate(ctx, spec, tt.fields...)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCommandValidator_PointerAccepted(t *testing.T) {
	err := NewCommandValidator().Validate(context.Background(), &models.CommandSpec{})

	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestCommandValidator_HistoryFilter(t *testing.T) {
	v := NewCommandValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.HistoryFilter{Limit: 10}))
	assert.NoError(t, v.Validate(ctx, &models.HistoryFilter{State: models.StateTimedOut, Limit: 1}))
	assert.ErrorIs(t, v.Validate(ctx, models.HistoryFilter{State: models.StateRunning, Limit: 1}), ErrInvalidState)
	assert.ErrorIs(t, v.Validate(ctx, models.HistoryFilter{State: "DONE", Limit: 1}), ErrInvalidState)
	assert.ErrorIs(t, v.Validate(ctx, models.HistoryFilter{}), ErrInvalidLimit)
	assert.NoError(t, v.Validate(ctx, models.HistoryFilter{}, FieldState))
}

func TestCommandValidator_UnsupportedType(t *testing.T) {
	assert.ErrorIs(t, NewCommandValidator().Validate(context.Background(), 42), ErrUnsupportedType)
}
