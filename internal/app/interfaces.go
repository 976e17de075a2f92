// SPDX-License-Identifier: Apache-2.0

package app

import "context"

// Client defines the minimal lifecycle contract for a runnable command-line
// application.
type Client interface {
	// Run executes the subcommand named by args[0] and blocks until it is
	// done.
	Run(ctx context.Context, args []string) error
	// Close releases every resource the application holds.
	Close() error
}

var _ Client = (*App)(nil)
