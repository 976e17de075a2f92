// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"math"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// maxPageSize is the largest page the query service returns.
const maxPageSize = 1000

// typed converts the merged raw configuration into a [Config].
func (cfg *StructuredConfig) typed() *Config {
	// Clamp before narrowing so out-of-range values stay out of range.
	pageSize := min(max(cfg.PageSize, math.MinInt32), math.MaxInt32)

	return &Config{
		AWS: AWS{
			Region:      strings.TrimSpace(cfg.Region),
			Profile:     strings.TrimSpace(cfg.Profile),
			EndpointURL: strings.TrimSpace(cfg.EndpointURL),
		},
		Polling: Polling{
			Interval:      seconds(cfg.PollIntervalSeconds),
			MaxInterval:   seconds(cfg.PollMaxIntervalSeconds),
			Timeout:       seconds(cfg.PollTimeoutSeconds),
			CancelTimeout: seconds(cfg.CancelTimeoutSeconds),
			MaxRetries:    cfg.MaxRetries,
		},
		Query: Query{
			OutputLocation: strings.TrimSpace(cfg.ResultOutputLocation),
			Workgroup:      strings.TrimSpace(cfg.Workgroup),
			Database:       strings.TrimSpace(cfg.Database),
			Catalog:        strings.TrimSpace(cfg.Catalog),
			PageSize:       int32(pageSize),
		},
		Workers: Workers{Concurrency: cfg.Concurrency},
		History: History{DSN: strings.TrimSpace(cfg.HistoryDSN)},
		Log:     Log{Level: strings.ToLower(strings.TrimSpace(cfg.LogLevel))},
	}
}

// validate checks that the final [Config] is complete and consistent before it
// is handed to any component. Every violation is reported, joined into one
// error.
func (cfg *Config) validate() error {
	var errs []error

	if cfg.AWS.Region == "" {
		errs = append(errs, ErrMissingRegion)
	}

	if cfg.AWS.EndpointURL != "" {
		if u, err := url.Parse(cfg.AWS.EndpointURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ErrInvalidEndpoint)
		}
	}

	switch {
	case cfg.Query.OutputLocation == "" && cfg.Query.Workgroup == "":
		errs = append(errs, ErrMissingOutputLocation)
	case cfg.Query.OutputLocation != "" && !strings.HasPrefix(cfg.Query.OutputLocation, "s3://"):
		errs = append(errs, ErrInvalidOutputLocation)
	}

	p := cfg.Polling
	if p.Interval <= 0 || p.MaxInterval < p.Interval || p.Timeout <= 0 || p.CancelTimeout <= 0 {
		errs = append(errs, ErrInvalidPolling)
	}

	if p.MaxRetries < 1 {
		errs = append(errs, ErrInvalidRetries)
	}

	if cfg.Query.PageSize < 1 || cfg.Query.PageSize > maxPageSize {
		errs = append(errs, ErrInvalidPageSize)
	}

	if cfg.Workers.Concurrency < 1 {
		errs = append(errs, ErrInvalidConcurrency)
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, ErrInvalidLogLevel)
	}

	return errors.Join(errs...)
}
