// SPDX-License-Identifier: Apache-2.0

package clients

import (
	"sync"
	"sync/atomic"
	"time"
)

// ServiceAthena is the service name of the query service client.
const ServiceAthena = "athena"

// Key scopes a cached handle.
type Key struct {
	Service string
	Region  string
	Profile string
}

func (k Key) String() string {
	profile := k.Profile
	if profile == "" {
		profile = "default"
	}
	return k.Service + "/" + k.Region + "/" + profile
}

// groupKey is unambiguous even when names contain the String separator.
func (k Key) groupKey() string {
	return k.Service + "\x00" + k.Region + "\x00" + k.Profile
}

// Handle is one configured connection to a remote service. Handles are owned
// by the [Manager]; callers borrow them and must not retain them past
// [Manager.CloseAll]. A handle is never modified after creation except for
// being marked invalid.
type Handle struct {
	key       Key
	client    any
	createdAt time.Time

	invalid     atomic.Bool
	releaseOnce sync.Once
	release     func()
}

// Key returns the (service, region, profile) the handle was built for.
func (h *Handle) Key() Key {
	return h.key
}

// Client returns the underlying SDK client.
func (h *Handle) Client() any {
	return h.client
}

// CreatedAt returns the construction time.
func (h *Handle) CreatedAt() time.Time {
	return h.createdAt
}

// Valid reports whether the handle has not been invalidated or closed.
func (h *Handle) Valid() bool {
	return !h.invalid.Load()
}

// retire marks the handle unusable and releases its transport resources.
func (h *Handle) retire() {
	h.invalid.Store(true)
	h.releaseOnce.Do(func() {
		if h.release != nil {
			h.release()
		}
	})
}
