package config

import "errors"

// Validation errors returned by [GetConfig] when the merged configuration is
// incomplete or inconsistent. Several may be joined into one error.
var (
	// ErrMissingRegion indicates that no default region was configured.
	ErrMissingRegion = errors.New("region is required")
	// ErrMissingOutputLocation indicates that neither a result output
	// location nor a workgroup (which may carry its own) was configured.
	ErrMissingOutputLocation = errors.New("result output location or workgroup is required")
	// ErrInvalidOutputLocation indicates an output location that is not an
	// s3:// URL.
	ErrInvalidOutputLocation = errors.New("result output location must be an s3:// url")
	// ErrInvalidEndpoint indicates an endpoint override that is not an
	// absolute URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint url")
	// ErrInvalidPolling indicates non-positive poll intervals or timeouts, or
	// a backoff cap below the base interval.
	ErrInvalidPolling = errors.New("invalid polling configuration")
	// ErrInvalidRetries indicates max retries below one.
	ErrInvalidRetries = errors.New("max retries must be at least 1")
	// ErrInvalidPageSize indicates a page size outside 1..1000.
	ErrInvalidPageSize = errors.New("page size must be between 1 and 1000")
	// ErrInvalidConcurrency indicates a batch concurrency below one.
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level")
)
