package models

import "errors"

// ErrIllegalTransition is returned by [CommandExecution.Transition] when the
// requested state cannot follow the current one.
var ErrIllegalTransition = errors.New("illegal execution state transition")
