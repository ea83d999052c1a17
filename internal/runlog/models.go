package runlog

import "time"

// RunRecord is one persisted ingestion run summary.
type RunRecord struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Documents  int       `json:"documents"`
	Chunks     int       `json:"chunks"`
	Failures   int       `json:"failures"`
}

// RunDocumentRecord is one document's outcome within a run.
type RunDocumentRecord struct {
	RunID     string `json:"run_id"`
	FileName  string `json:"file_name"`
	Chunks    int    `json:"chunks"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}
