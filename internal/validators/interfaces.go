// SPDX-License-Identifier: Apache-2.0

// Package validators checks commands and history queries before they reach
// the remote service or the database.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//
// Usage patterns:
//  1. Inject a Validator into the runner or the CLI.
//  2. Call Validate with context, value, and optional field names to enforce
//     the rules of the query service.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
