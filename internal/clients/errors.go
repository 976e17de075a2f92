package clients

import (
	"errors"
	"fmt"
)

var (
	// ErrManagerClosed is returned by [Manager.Get] after [Manager.CloseAll].
	ErrManagerClosed = errors.New("client manager is closed")

	// ErrUnknownService is returned by a factory asked for a service it
	// cannot build.
	ErrUnknownService = errors.New("unknown service")

	// ErrClientConstruction matches every *ConstructionError via errors.Is.
	ErrClientConstruction = errors.New("client construction failed")
)

// ConstructionError reports that credential or transport setup failed while
// building a handle. It is never retried by the manager.
type ConstructionError struct {
	Key Key
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct %s client: %v", e.Key, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrClientConstruction) match.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrClientConstruction
}
