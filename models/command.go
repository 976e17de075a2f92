package models

import "time"

// CommandSpec describes one unit of work submitted to the query service.
// It is treated as immutable once handed to the runner.
type CommandSpec struct {
	// Query is the SQL text sent to the service.
	Query string `json:"query"`

	// OutputLocation is the s3:// prefix the service writes results to.
	// Empty means the configured default.
	OutputLocation string `json:"output_location,omitempty"`

	// Database and Catalog set the query execution context.
	Database string `json:"database,omitempty"`
	Catalog  string `json:"catalog,omitempty"`

	// Workgroup overrides the configured workgroup.
	Workgroup string `json:"workgroup,omitempty"`

	// IdempotencyToken lets the service deduplicate resubmissions of the
	// same request. Generated when empty.
	IdempotencyToken string `json:"idempotency_token,omitempty"`

	// Timeout bounds the whole poll loop. Zero means the configured
	// poll timeout.
	Timeout time.Duration `json:"timeout,omitempty"`
}
