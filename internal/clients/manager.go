// SPDX-License-Identifier: Apache-2.0

package clients

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sjdillon/qthena/internal/config"
	"github.com/sjdillon/qthena/internal/logger"
)

// buildTimeout bounds one handle construction. The build is shared by every
// caller waiting on the key, so it does not follow any single caller's
// cancellation.
const buildTimeout = 30 * time.Second

// Manager hands out cached client handles keyed by (service, region,
// profile). It is safe for concurrent use; construct one per process and
// share it.
//
// Lookups of a cached, valid handle only take a read lock. Construction for
// a given key is collapsed with singleflight so concurrent callers never
// build duplicate handles.
type Manager struct {
	factory  Factory
	defaults config.AWS
	logger   *logger.Logger
	now      func() time.Time
	timeout  time.Duration

	mu      sync.RWMutex
	handles map[Key]*Handle
	closed  bool

	group singleflight.Group
}

// NewManager creates a Manager that builds handles with factory, resolving
// omitted region and profile from defaults.
func NewManager(factory Factory, defaults config.AWS, log *logger.Logger) *Manager {
	return &Manager{
		factory:  factory,
		defaults: defaults,
		logger:   log,
		now:      time.Now,
		timeout:  buildTimeout,
		handles:  make(map[Key]*Handle),
	}
}

// Get returns the cached handle for the key, or builds and caches a new one.
// Empty region or profile fall back to the configured defaults.
//
// A construction failure is returned as a *ConstructionError and is not
// retried. After CloseAll every call fails with ErrManagerClosed.
func (m *Manager) Get(ctx context.Context, service, region, profile string) (*Handle, error) {
	key := m.resolve(service, region, profile)

	if h, err := m.lookup(key); h != nil || err != nil {
		return h, err
	}

	v, err, _ := m.group.Do(key.groupKey(), func() (any, error) {
		if h, err := m.lookup(key); h != nil || err != nil {
			return h, err
		}
		return m.create(ctx, key)
	})
	if err != nil {
		return nil, err
	}

	return v.(*Handle), nil
}

// Invalidate marks h unusable and evicts it so the next Get for its key
// builds a fresh handle. A newer handle already cached for the same key is
// left alone. Invalidating twice is a no-op.
func (m *Manager) Invalidate(h *Handle) {
	if h == nil {
		return
	}

	m.mu.Lock()
	if cur, ok := m.handles[h.key]; ok && cur == h {
		delete(m.handles, h.key)
	}
	m.mu.Unlock()

	if h.Valid() {
		m.logger.Info().
			Str("key", h.key.String()).
			Time("created_at", h.createdAt).
			Msg("client handle invalidated")
	}
	h.retire()
}

// CloseAll releases every cached handle and refuses further Gets.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	handles := m.handles
	m.handles = make(map[Key]*Handle)
	m.closed = true
	m.mu.Unlock()

	for _, h := range handles {
		h.retire()
	}

	m.logger.Debug().Int("handles", len(handles)).Msg("client manager closed")
}

// Len returns the number of cached handles.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handles)
}

func (m *Manager) resolve(service, region, profile string) Key {
	if region == "" {
		region = m.defaults.Region
	}
	if profile == "" {
		profile = m.defaults.Profile
	}
	return Key{Service: service, Region: region, Profile: profile}
}

func (m *Manager) lookup(key Key) (*Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrManagerClosed
	}
	if h, ok := m.handles[key]; ok && h.Valid() {
		return h, nil
	}
	return nil, nil
}

func (m *Manager) create(ctx context.Context, key Key) (*Handle, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()

	client, release, err := m.factory.NewClient(ctx, key)
	if err != nil {
		m.logger.Err(err).Str("key", key.String()).Msg("failed to construct client")
		return nil, &ConstructionError{Key: key, Err: err}
	}

	h := &Handle{
		key:       key,
		client:    client,
		createdAt: m.now(),
		release:   release,
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		h.retire()
		return nil, ErrManagerClosed
	}
	m.handles[key] = h
	m.mu.Unlock()

	m.logger.Debug().Str("key", key.String()).Msg("client handle created")
	return h, nil
}

// IsConstructionError reports whether err came from a failed handle build.
func IsConstructionError(err error) bool {
	var ce *ConstructionError
	return errors.As(err, &ce)
}
