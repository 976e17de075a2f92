// SPDX-License-Identifier: Apache-2.0

package app

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjdillon/qthena/internal/adapter"
	"github.com/sjdillon/qthena/internal/clients"
	"github.com/sjdillon/qthena/internal/config"
	"github.com/sjdillon/qthena/internal/logger"
	"github.com/sjdillon/qthena/internal/service"
	"github.com/sjdillon/qthena/internal/validators"
	"github.com/sjdillon/qthena/models"
)

// ── fakes ────────────────────────────────────────────────────────────────────

// instantClock never blocks; every sleep advances it.
type instantClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *instantClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *instantClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

type cannedQuery struct {
	columns []models.Column
	rows    []models.Row
	failMsg string
}

// cannedService answers every registered query on the first poll.
type cannedService struct {
	mu      sync.Mutex
	queries map[string]cannedQuery
	byID    map[string]string
	n       int
}

func newCannedService() *cannedService {
	return &cannedService{
		queries: map[string]cannedQuery{
			"SELECT id, name FROM users": {
				columns: []models.Column{{Name: "id", Type: "integer"}, {Name: "name", Type: "varchar"}},
				rows: []models.Row{
					{{String: "1", Valid: true}, {String: "alice", Valid: true}},
					{{String: "2", Valid: true}, {}},
				},
			},
			"SELECT 1 AS one": {
				columns: []models.Column{{Name: "one", Type: "integer"}},
				rows:    []models.Row{{{String: "1", Valid: true}}},
			},
			"SELECT * FROM missing": {
				failMsg: "TABLE_NOT_FOUND: line 1:15: Table 'missing' does not exist",
			},
		},
		byID: make(map[string]string),
	}
}

func (s *cannedService) SubmitCommand(_ context.Context, spec models.CommandSpec) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.queries[spec.Query]; !ok {
		return "", &adapter.ServiceError{Op: "submit", Code: "InvalidRequestException", Message: "line 1:1: mismatched input"}
	}
	s.n++
	id := fmt.Sprintf("exec-%d", s.n)
	s.byID[id] = spec.Query
	return id, nil
}

func (s *cannedService) GetExecutionStatus(_ context.Context, id string) (models.ExecutionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.queries[s.byID[id]]
	if q.failMsg != "" {
		return models.ExecutionStatus{State: models.RemoteFailed, Message: q.failMsg}, nil
	}
	return models.ExecutionStatus{State: models.RemoteSucceeded, DataScannedBytes: 2048}, nil
}

func (s *cannedService) GetResultPage(_ context.Context, id, _ string) (models.ResultPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.queries[s.byID[id]]
	return models.ResultPage{Columns: q.columns, Rows: q.rows}, nil
}

func (s *cannedService) CancelExecution(context.Context, string) error {
	return nil
}

// memHistory is an in-memory history repository.
type memHistory struct {
	mu      sync.Mutex
	records []models.ExecutionRecord
	filters []models.HistoryFilter
	err     error
}

func (h *memHistory) Record(_ context.Context, rec models.ExecutionRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return nil
}

func (h *memHistory) Recent(_ context.Context, filter models.HistoryFilter) ([]models.ExecutionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.filters = append(h.filters, filter)
	if h.err != nil {
		return nil, h.err
	}

	var out []models.ExecutionRecord
	for _, rec := range h.records {
		if filter.State == "" || rec.State == filter.State {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExecutionID > out[j].ExecutionID })
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// ── fixture ──────────────────────────────────────────────────────────────────

type appFixture struct {
	app     *App
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	history *memHistory
}

func testConfig() *config.Config {
	return &config.Config{
		AWS: config.AWS{Region: "eu-west-1"},
		Polling: config.Polling{
			Interval:      time.Second,
			MaxInterval:   4 * time.Second,
			Timeout:       time.Minute,
			CancelTimeout: time.Second,
			MaxRetries:    3,
		},
		Query: config.Query{
			OutputLocation: "s3://results/qthena/",
			PageSize:       100,
		},
		Workers: config.Workers{Concurrency: 2},
	}
}

func newAppFixture(t *testing.T, withHistory bool) *appFixture {
	t.Helper()

	svc := newCannedService()
	f := &appFixture{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}

	opts := []Option{
		WithFactory(clients.FactoryFunc(func(context.Context, clients.Key) (any, func(), error) {
			return svc, nil, nil
		})),
		WithOutput(f.out, f.errOut),
		WithRunnerOptions(service.WithClock(&instantClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)})),
	}
	if withHistory {
		f.history = &memHistory{}
		opts = append(opts, WithHistory(f.history))
	}

	a, err := NewApp(context.Background(), testConfig(), logger.Nop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	f.app = a
	return f
}

// ── run ──────────────────────────────────────────────────────────────────────

func TestApp_Run_SingleQueryCSV(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"run", "-format", "csv", "SELECT id, name FROM users"})
	require.NoError(t, err)

	assert.Equal(t, "id,name\n1,alice\n2,\n", f.out.String())
}

func TestApp_Run_DefaultFormatIsCSVWhenNotATerminal(t *testing.T) {
	f := newAppFixture(t, false)

	require.NoError(t, f.app.Run(context.Background(), []string{"run", "SELECT 1 AS one"}))

	assert.Equal(t, "one\n1\n", f.out.String())
}

func TestApp_Run_SingleQueryJSON(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"run", "-format", "json", "SELECT id, name FROM users"})
	require.NoError(t, err)

	var got jsonResult
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))

	assert.Equal(t, "SELECT id, name FROM users", got.Query)
	assert.Equal(t, "exec-1", got.ExecutionID)
	assert.Equal(t, int64(2048), got.DataScannedBytes)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "alice", *got.Rows[0][1])
	assert.Nil(t, got.Rows[1][1], "NULL must be encoded as null")
	assert.Empty(t, got.Error)
}

func TestApp_Run_SingleQueryTable(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"run", "-format", "table", "SELECT id, name FROM users"})
	require.NoError(t, err)

	out := f.out.String()
	for _, want := range []string{"id", "name", "alice", nullCell, "2 rows", "2.0 KiB", "exec-1"} {
		assert.Contains(t, out, want)
	}
}

func TestApp_Run_RemoteFailureIsCommandError(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"run", "SELECT * FROM missing"})

	ce, ok := service.IsCommandError(err)
	require.True(t, ok)
	assert.Equal(t, models.StateFailed, ce.State)
	assert.Contains(t, Describe(err), "TABLE_NOT_FOUND")
	assert.Empty(t, f.out.String())
}

func TestApp_Run_BatchCSVKeepsInputOrder(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"run", "-format", "csv", "SELECT id, name FROM users", "SELECT 1 AS one"})
	require.NoError(t, err)

	assert.Equal(t, "id,name\n1,alice\n2,\n\none\n1\n", f.out.String())
	assert.Empty(t, f.errOut.String())
}

func TestApp_Run_BatchReportsEachFailure(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"run", "-format", "csv", "SELECT 1 AS one", "SELEC oops"})

	require.ErrorIs(t, err, ErrBatchFailed)
	assert.Equal(t, "one\n1\n", f.out.String())
	assert.Contains(t, f.errOut.String(), "query 2: query failed: line 1:1: mismatched input")
}

func TestApp_Run_BatchJSONOneLinePerQuery(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"run", "-format", "json", "SELECT 1 AS one", "SELECT * FROM missing"})
	require.ErrorIs(t, err, ErrBatchFailed)

	var lines []jsonResult
	sc := bufio.NewScanner(f.out)
	for sc.Scan() {
		var r jsonResult
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		lines = append(lines, r)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, "SELECT 1 AS one", lines[0].Query)
	assert.Empty(t, lines[0].Error)
	assert.Equal(t, "SELECT * FROM missing", lines[1].Query)
	assert.Contains(t, lines[1].Error, "TABLE_NOT_FOUND")
	assert.Nil(t, lines[1].Rows)
}

func TestApp_Run_NoQueries(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"run", "  "})

	assert.ErrorIs(t, err, ErrNoQueries)
}

func TestApp_Run_InvalidFormat(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"run", "-format", "xml", "SELECT 1 AS one"})

	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestApp_Run_UnknownCommandPrintsUsage(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"explain"})

	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, f.errOut.String(), "usage: qthena")
}

func TestApp_Run_NoArgs(t *testing.T) {
	f := newAppFixture(t, false)

	assert.ErrorIs(t, f.app.Run(context.Background(), nil), ErrUnknownCommand)
}

// ── history ──────────────────────────────────────────────────────────────────

func TestApp_Run_RecordsHistory(t *testing.T) {
	f := newAppFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.app.Run(ctx, []string{"run", "SELECT id, name FROM users"}))
	require.Error(t, f.app.Run(ctx, []string{"run", "SELECT * FROM missing"}))
	require.Error(t, f.app.Run(ctx, []string{"run", "SELEC oops"}))

	require.Len(t, f.history.records, 2, "a rejected submission has no execution to record")

	ok := f.history.records[0]
	assert.Equal(t, "exec-1", ok.ExecutionID)
	assert.Equal(t, models.StateSucceeded, ok.State)
	assert.Equal(t, 2, ok.RowCount)

	failed := f.history.records[1]
	assert.Equal(t, models.StateFailed, failed.State)
	assert.Contains(t, failed.Message, "TABLE_NOT_FOUND")
}

func TestApp_History_JSON(t *testing.T) {
	f := newAppFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.app.Run(ctx, []string{"run", "SELECT 1 AS one"}))
	require.Error(t, f.app.Run(ctx, []string{"run", "SELECT * FROM missing"}))
	f.out.Reset()

	err := f.app.Run(ctx, []string{"history", "-format", "json", "-state", "failed", "-limit", "5"})
	require.NoError(t, err)

	var got []models.ExecutionRecord
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "exec-2", got[0].ExecutionID)

	require.NotEmpty(t, f.history.filters)
	assert.Equal(t, models.HistoryFilter{State: models.StateFailed, Limit: 5}, f.history.filters[0])
}

func TestApp_History_EmptyJSONIsArray(t *testing.T) {
	f := newAppFixture(t, true)

	require.NoError(t, f.app.Run(context.Background(), []string{"history", "-format", "json"}))

	assert.Equal(t, "[]\n", f.out.String())
}

func TestApp_History_CSVAndTable(t *testing.T) {
	f := newAppFixture(t, true)
	ctx := context.Background()

	require.NoError(t, f.app.Run(ctx, []string{"run", "SELECT 1 AS one"}))

	f.out.Reset()
	require.NoError(t, f.app.Run(ctx, []string{"history", "-format", "csv"}))
	lines := strings.Split(strings.TrimSpace(f.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "execution_id,state,"))
	assert.True(t, strings.HasPrefix(lines[1], "exec-1,SUCCEEDED,"))

	f.out.Reset()
	require.NoError(t, f.app.Run(ctx, []string{"history", "-format", "table"}))
	assert.Contains(t, f.out.String(), "SELECT 1 AS one")
	assert.Contains(t, f.out.String(), "SUCCEEDED")
}

func TestApp_History_InvalidFilters(t *testing.T) {
	f := newAppFixture(t, true)
	ctx := context.Background()

	assert.ErrorIs(t, f.app.Run(ctx, []string{"history", "-state", "RUNNING"}), validators.ErrInvalidState)
	assert.ErrorIs(t, f.app.Run(ctx, []string{"history", "-limit", "0"}), validators.ErrInvalidLimit)
	assert.Empty(t, f.history.filters)
}

func TestApp_History_RepositoryError(t *testing.T) {
	f := newAppFixture(t, true)
	f.history.err = sql.ErrConnDone

	err := f.app.Run(context.Background(), []string{"history"})

	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestApp_History_Disabled(t *testing.T) {
	f := newAppFixture(t, false)

	err := f.app.Run(context.Background(), []string{"history"})

	assert.ErrorIs(t, err, ErrHistoryDisabled)
}
