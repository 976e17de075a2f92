package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyQuery              = errors.New("command has no query text")
	ErrQueryTooLong            = errors.New("query text is too long")
	ErrInvalidOutputLocation   = errors.New("output location must be an s3:// url")
	ErrInvalidIdempotencyToken = errors.New("idempotency token must be 32 to 128 characters")
	ErrInvalidTimeout          = errors.New("timeout must not be negative")
	ErrNameTooLong             = errors.New("database, catalog or workgroup name is too long")
	ErrInvalidState            = errors.New("invalid execution state")
	ErrInvalidLimit            = errors.New("limit must be at least 1")
)
