// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the raw, flat configuration shared by every source.
// Environment variables, command-line flags and the optional config file
// each populate one StructuredConfig; the builder merges them and converts
// the result into a validated [Config].
//
// Struct tags:
//   - env: variable name below the QTHENA_ prefix (caarlos0/env).
//   - json: key in a JSON config file.
//   - toml: key in a TOML config file.
//
// Durations are expressed in (possibly fractional) seconds.
type StructuredConfig struct {
	// Region is the AWS region used when a caller does not name one.
	// Env: QTHENA_REGION
	Region string `env:"REGION" json:"region" toml:"region"`

	// Profile is the shared-config profile used when a caller does not name
	// one. Empty selects the SDK default credential chain.
	// Env: QTHENA_PROFILE
	Profile string `env:"PROFILE" json:"profile" toml:"profile"`

	// EndpointURL overrides the service endpoint, e.g. for a local emulator.
	// Env: QTHENA_ENDPOINT_URL
	EndpointURL string `env:"ENDPOINT_URL" json:"endpoint_url" toml:"endpoint_url"`

	// PollIntervalSeconds is the first wait between status polls.
	// Env: QTHENA_POLL_INTERVAL_SECONDS
	PollIntervalSeconds float64 `env:"POLL_INTERVAL_SECONDS" json:"poll_interval_seconds" toml:"poll_interval_seconds"`

	// PollMaxIntervalSeconds caps the exponential poll backoff.
	// Env: QTHENA_POLL_MAX_INTERVAL_SECONDS
	PollMaxIntervalSeconds float64 `env:"POLL_MAX_INTERVAL_SECONDS" json:"poll_max_interval_seconds" toml:"poll_max_interval_seconds"`

	// PollTimeoutSeconds bounds one run's poll loop.
	// Env: QTHENA_POLL_TIMEOUT_SECONDS
	PollTimeoutSeconds float64 `env:"POLL_TIMEOUT_SECONDS" json:"poll_timeout_seconds" toml:"poll_timeout_seconds"`

	// CancelTimeoutSeconds bounds the best-effort remote cancel request.
	// Env: QTHENA_CANCEL_TIMEOUT_SECONDS
	CancelTimeoutSeconds float64 `env:"CANCEL_TIMEOUT_SECONDS" json:"cancel_timeout_seconds" toml:"cancel_timeout_seconds"`

	// MaxRetries is the total number of attempts allowed for one step
	// (submit, poll, page fetch) when it fails at the transport level.
	// Env: QTHENA_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES" json:"max_retries" toml:"max_retries"`

	// ResultOutputLocation is the default s3:// prefix for query results.
	// Env: QTHENA_RESULT_OUTPUT_LOCATION
	ResultOutputLocation string `env:"RESULT_OUTPUT_LOCATION" json:"result_output_location" toml:"result_output_location"`

	// Workgroup, Database and Catalog are the default query context.
	// Env: QTHENA_WORKGROUP, QTHENA_DATABASE, QTHENA_CATALOG
	Workgroup string `env:"WORKGROUP" json:"workgroup" toml:"workgroup"`
	Database  string `env:"DATABASE" json:"database" toml:"database"`
	Catalog   string `env:"CATALOG" json:"catalog" toml:"catalog"`

	// PageSize is the number of rows requested per result page.
	// Env: QTHENA_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE" json:"page_size" toml:"page_size"`

	// Concurrency limits parallel runs in batch mode.
	// Env: QTHENA_CONCURRENCY
	Concurrency int `env:"CONCURRENCY" json:"concurrency" toml:"concurrency"`

	// HistoryDSN enables the execution history store. A postgres:// URL
	// selects PostgreSQL, anything else is a SQLite file path.
	// Env: QTHENA_HISTORY_DSN
	HistoryDSN string `env:"HISTORY_DSN" json:"history_dsn" toml:"history_dsn"`

	// LogLevel is a zerolog level name.
	// Env: QTHENA_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL" json:"log_level" toml:"log_level"`

	// ConfigFile is the optional path to a JSON or TOML config file.
	// Populated via QTHENA_CONFIG or the -c / -config flag.
	ConfigFile string `env:"CONFIG" json:"-" toml:"-"`
}

// Config is the typed, validated configuration. It is built once at start-up
// and must not be modified afterwards; components receive the sub-structs
// they need by value.
type Config struct {
	AWS     AWS
	Polling Polling
	Query   Query
	Workers Workers
	History History
	Log     Log
}

// AWS scopes the default client handles.
type AWS struct {
	Region      string
	Profile     string
	EndpointURL string
}

// Polling controls the poll loop and step retries.
type Polling struct {
	Interval      time.Duration
	MaxInterval   time.Duration
	Timeout       time.Duration
	CancelTimeout time.Duration
	MaxRetries    int
}

// Query holds the default query context.
type Query struct {
	OutputLocation string
	Workgroup      string
	Database       string
	Catalog        string
	PageSize       int32
}

// Workers holds batch execution settings.
type Workers struct {
	Concurrency int
}

// History configures the execution history store. Empty DSN disables it.
type History struct {
	DSN string
}

// Log configures the application logger.
type Log struct {
	Level string
}

// GetConfig loads, merges, and validates the configuration from all sources
// in the following priority order (last source wins for non-zero fields):
//  1. Built-in defaults
//  2. Config file (path taken from QTHENA_CONFIG or -c)
//  3. Environment variables
//  4. Command-line flags parsed from args
//
// It returns the typed config together with the positional arguments left
// over after flag parsing.
func GetConfig(args []string) (*Config, []string, error) {
	b := newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withFile()

	cfg, err := b.build()
	return cfg, b.rest, err
}

func defaults() *StructuredConfig {
	return &StructuredConfig{
		PollIntervalSeconds:    1,
		PollMaxIntervalSeconds: 20,
		PollTimeoutSeconds:     600,
		CancelTimeoutSeconds:   10,
		MaxRetries:             3,
		PageSize:               1000,
		Concurrency:            4,
		LogLevel:               "info",
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
