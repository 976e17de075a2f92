package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// parseFlags parses the configuration flags found in args and returns the
// remaining positional arguments.
//
// Flags:
//
//	-c/-config JSON or TOML config file path
//	-region AWS region
//	-profile AWS shared-config profile
//	-endpoint-url service endpoint override
//	-poll-interval first wait between polls (e.g. "500ms", "2s")
//	-poll-max-interval cap for the poll backoff
//	-timeout poll loop deadline (e.g. "10m")
//	-max-retries attempts per step on transport failure
//	-output-location default s3:// result location
//	-workgroup query workgroup
//	-database default database
//	-catalog default data catalog
//	-page-size rows per result page
//	-concurrency parallel runs in batch mode
//	-history-dsn execution history store
//	-log-level zerolog level name
func parseFlags(args []string) (*StructuredConfig, []string, error) {
	var (
		cfg             StructuredConfig
		pollInterval    time.Duration
		pollMaxInterval time.Duration
		timeout         time.Duration
	)

	fs := flag.NewFlagSet("qthena", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ConfigFile, "c", "", "Config file path")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Config file path (alias)")
	fs.StringVar(&cfg.Region, "region", "", "AWS region")
	fs.StringVar(&cfg.Profile, "profile", "", "AWS profile")
	fs.StringVar(&cfg.EndpointURL, "endpoint-url", "", "Service endpoint override")
	fs.DurationVar(&pollInterval, "poll-interval", 0, "First poll interval (e.g. 1s)")
	fs.DurationVar(&pollMaxInterval, "poll-max-interval", 0, "Poll backoff cap (e.g. 20s)")
	fs.DurationVar(&timeout, "timeout", 0, "Poll loop timeout (e.g. 10m)")
	fs.IntVar(&cfg.MaxRetries, "max-retries", 0, "Attempts per step on transport failure")
	fs.StringVar(&cfg.ResultOutputLocation, "output-location", "", "Result output location (s3://...)")
	fs.StringVar(&cfg.Workgroup, "workgroup", "", "Workgroup")
	fs.StringVar(&cfg.Database, "database", "", "Database")
	fs.StringVar(&cfg.Catalog, "catalog", "", "Data catalog")
	fs.IntVar(&cfg.PageSize, "page-size", 0, "Rows per result page")
	fs.IntVar(&cfg.Concurrency, "concurrency", 0, "Parallel runs in batch mode")
	fs.StringVar(&cfg.HistoryDSN, "history-dsn", "", "Execution history DSN")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg.PollIntervalSeconds = pollInterval.Seconds()
	cfg.PollMaxIntervalSeconds = pollMaxInterval.Seconds()
	cfg.PollTimeoutSeconds = timeout.Seconds()

	return &cfg, fs.Args(), nil
}
