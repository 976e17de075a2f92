package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks connection-level and transient infrastructure
	// failures (reset connections, timeouts, throttling, 5xx faults).
	ErrTransport = errors.New("transport error")
	// ErrAuth marks rejected or expired credentials; a freshly built client
	// re-resolves them.
	ErrAuth = errors.New("authentication error")
	// ErrService marks logical errors reported by the service (bad query,
	// permission denied, unknown execution). Never retried.
	ErrService = errors.New("service error")
	// ErrUnsupportedClient is returned by [NewQueryService] for a handle
	// client it cannot drive.
	ErrUnsupportedClient = errors.New("unsupported client type")
)

// ServiceError is a logical error reported by the service. It matches
// [ErrService] via errors.Is.
type ServiceError struct {
	Op      string
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}

// IsRecoverable reports whether err may be cured by invalidating the client
// handle and retrying the step.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrAuth)
}
