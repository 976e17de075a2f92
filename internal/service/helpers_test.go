// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sjdillon/qthena/internal/adapter"
	"github.com/sjdillon/qthena/internal/clients"
	"github.com/sjdillon/qthena/internal/config"
	"github.com/sjdillon/qthena/internal/logger"
	"github.com/sjdillon/qthena/models"
)

// ── fake clock ───────────────────────────────────────────────────────────────

// fakeClock advances only when the poll loop sleeps.
type fakeClock struct {
	mu      sync.Mutex
	current time.Time
	sleeps  []time.Duration
	onSleep func(n int)
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	n := len(c.sleeps)
	hook := c.onSleep
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	if d > 0 {
		c.current = c.current.Add(d)
	}
	c.mu.Unlock()
	return nil
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// ── scripted query service ───────────────────────────────────────────────────

var errConnReset = fmt.Errorf("%w: read tcp: connection reset by peer", adapter.ErrTransport)

// script drives the remote side of one command, keyed by its query text.
type script struct {
	id         string
	submitErrs []error
	// statuses are returned poll by poll; the last one repeats.
	statuses  []models.ExecutionStatus
	pollErrs  []error
	pages     []models.ResultPage
	pageErrs  []error
	cancelErr error

	polls    int
	fetches  int
	pageByTk map[string]int
}

// scriptedService implements adapter.QueryService and is the client every
// handle wraps.
type scriptedService struct {
	mu      sync.Mutex
	scripts map[string]*script
	byID    map[string]*script

	submitted []models.CommandSpec
	submits   atomic.Int32
	cancels   atomic.Int32
}

func newScriptedService() *scriptedService {
	return &scriptedService{
		scripts: make(map[string]*script),
		byID:    make(map[string]*script),
	}
}

// on registers sc as the remote behaviour of query.
func (s *scriptedService) on(query string, sc *script) *scriptedService {
	if sc.id == "" {
		sc.id = fmt.Sprintf("exec-%d", len(s.byID)+1)
	}
	sc.pageByTk = make(map[string]int)
	for i := range sc.pages {
		if i == 0 {
			sc.pageByTk[""] = 0
			continue
		}
		sc.pageByTk[sc.pages[i-1].NextToken] = i
	}
	s.scripts[query] = sc
	s.byID[sc.id] = sc
	return s
}

func (s *scriptedService) SubmitCommand(_ context.Context, spec models.CommandSpec) (string, error) {
	s.submits.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitted = append(s.submitted, spec)
	sc, ok := s.scripts[spec.Query]
	if !ok {
		return "", &adapter.ServiceError{Op: "submit", Code: "InvalidRequestException", Message: "unknown query " + spec.Query}
	}
	if len(sc.submitErrs) > 0 {
		err := sc.submitErrs[0]
		sc.submitErrs = sc.submitErrs[1:]
		return "", err
	}
	return sc.id, nil
}

func (s *scriptedService) GetExecutionStatus(_ context.Context, id string) (models.ExecutionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.byID[id]
	if len(sc.pollErrs) > 0 {
		err := sc.pollErrs[0]
		sc.pollErrs = sc.pollErrs[1:]
		return models.ExecutionStatus{}, err
	}
	i := sc.polls
	if i >= len(sc.statuses) {
		i = len(sc.statuses) - 1
	}
	sc.polls++
	return sc.statuses[i], nil
}

func (s *scriptedService) GetResultPage(_ context.Context, id, token string) (models.ResultPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.byID[id]
	if len(sc.pageErrs) > 0 {
		err := sc.pageErrs[0]
		sc.pageErrs = sc.pageErrs[1:]
		return models.ResultPage{}, err
	}
	sc.fetches++
	if len(sc.pages) == 0 {
		return models.ResultPage{}, nil
	}
	i, ok := sc.pageByTk[token]
	if !ok {
		return models.ResultPage{}, &adapter.ServiceError{Op: "results", Message: "bad token " + token}
	}
	return sc.pages[i], nil
}

func (s *scriptedService) CancelExecution(_ context.Context, id string) error {
	s.cancels.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id].cancelErr
}

func (s *scriptedService) Submitted() []models.CommandSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CommandSpec(nil), s.submitted...)
}

// ── spies ────────────────────────────────────────────────────────────────────

// spyProvider counts Get and Invalidate calls on a real manager.
type spyProvider struct {
	*clients.Manager
	gets          atomic.Int32
	invalidations atomic.Int32
}

func (p *spyProvider) Get(ctx context.Context, service, region, profile string) (*clients.Handle, error) {
	p.gets.Add(1)
	return p.Manager.Get(ctx, service, region, profile)
}

func (p *spyProvider) Invalidate(h *clients.Handle) {
	p.invalidations.Add(1)
	p.Manager.Invalidate(h)
}

type spyRecorder struct {
	mu      sync.Mutex
	records []models.ExecutionRecord
	err     error
}

func (r *spyRecorder) Record(_ context.Context, rec models.ExecutionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return r.err
}

func (r *spyRecorder) Records() []models.ExecutionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ExecutionRecord(nil), r.records...)
}

type fixedToken string

func (t fixedToken) Generate() string { return string(t) }

// ── fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	svc      *scriptedService
	clock    *fakeClock
	provider *spyProvider
	builds   *atomic.Int32
	recorder *spyRecorder
	runner   *CommandRunner
}

func testConfig() *config.Config {
	return &config.Config{
		AWS: config.AWS{Region: "eu-west-1"},
		Polling: config.Polling{
			Interval:      time.Second,
			MaxInterval:   4 * time.Second,
			Timeout:       30 * time.Second,
			CancelTimeout: time.Second,
			MaxRetries:    3,
		},
		Query: config.Query{
			OutputLocation: "s3://results/qthena/",
			Workgroup:      "primary",
			Database:       "analytics",
			PageSize:       100,
		},
	}
}

func newFixture(t *testing.T, svc *scriptedService, cfg *config.Config) *fixture {
	t.Helper()

	builds := &atomic.Int32{}
	factory := clients.FactoryFunc(func(context.Context, clients.Key) (any, func(), error) {
		builds.Add(1)
		return svc, nil, nil
	})

	mgr := clients.NewManager(factory, cfg.AWS, logger.Nop())
	t.Cleanup(mgr.CloseAll)

	f := &fixture{
		svc:      svc,
		clock:    newFakeClock(),
		provider: &spyProvider{Manager: mgr},
		builds:   builds,
		recorder: &spyRecorder{},
	}
	f.runner = NewCommandRunner(f.provider, cfg, logger.Nop(),
		WithClock(f.clock),
		WithRecorder(f.recorder),
		WithTokenGenerator(fixedToken("0190d7a8-4b0c-7d2e-9f3a-2c1b0e9d8f77")),
	)
	return f
}

func status(state models.RemoteState) models.ExecutionStatus {
	return models.ExecutionStatus{State: state}
}

func succeeded() models.ExecutionStatus {
	return models.ExecutionStatus{
		State:            models.RemoteSucceeded,
		OutputLocation:   "s3://results/qthena/exec.csv",
		DataScannedBytes: 4096,
	}
}

func rows(values ...string) []models.Row {
	out := make([]models.Row, 0, len(values))
	for _, v := range values {
		out = append(out, models.Row{{String: v, Valid: true}})
	}
	return out
}

var errRecorder = errors.New("history unavailable")
