package models

import "time"

// ExecutionRecord is the persisted summary of one finished run.
type ExecutionRecord struct {
	ExecutionID string         `json:"execution_id"`
	Query       string         `json:"query"`
	State       ExecutionState `json:"state"`
	Message     string         `json:"message,omitempty"`
	Workgroup   string         `json:"workgroup,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	PollCount   int            `json:"poll_count"`
	RowCount    int            `json:"row_count"`
}

// HistoryFilter narrows a history listing.
type HistoryFilter struct {
	// State limits results to one terminal state when non-empty.
	State ExecutionState
	// Limit caps the number of records; zero means 50.
	Limit int
}
