// SPDX-License-Identifier: Apache-2.0

// Package clients owns the lifecycle of SDK client handles.
//
// [Manager] caches one handle per (service, region, profile), builds missing
// ones through a [Factory], evicts handles that callers report broken, and
// releases everything on [Manager.CloseAll]. [AWSFactory] is the production
// factory built on aws-sdk-go-v2.
package clients

import "context"

// Factory builds the SDK client for one key. release, when non-nil, frees
// the client's transport resources and is called exactly once when the
// handle is invalidated or the manager closes.
type Factory interface {
	NewClient(ctx context.Context, key Key) (client any, release func(), err error)
}

// FactoryFunc adapts a function to [Factory].
type FactoryFunc func(ctx context.Context, key Key) (any, func(), error)

func (f FactoryFunc) NewClient(ctx context.Context, key Key) (any, func(), error) {
	return f(ctx, key)
}
