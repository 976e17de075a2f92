package models

import "time"

// RemoteState is the execution state as reported by the query service.
type RemoteState string

const (
	RemoteQueued    RemoteState = "QUEUED"
	RemoteRunning   RemoteState = "RUNNING"
	RemoteSucceeded RemoteState = "SUCCEEDED"
	RemoteFailed    RemoteState = "FAILED"
	RemoteCancelled RemoteState = "CANCELLED"
)

// Local maps a remote state onto the local execution lifecycle. Unknown
// values are treated as still running.
func (s RemoteState) Local() ExecutionState {
	switch s {
	case RemoteSucceeded:
		return StateSucceeded
	case RemoteFailed:
		return StateFailed
	case RemoteCancelled:
		return StateCancelled
	default:
		return StateRunning
	}
}

// ExecutionStatus is one poll response.
type ExecutionStatus struct {
	State          RemoteState
	Message        string
	OutputLocation string

	SubmittedAt time.Time
	CompletedAt time.Time

	DataScannedBytes    int64
	EngineExecutionTime time.Duration
}
