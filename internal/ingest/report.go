package ingest

import "time"

// DocumentResult captures the outcome of ingesting one source document.
type DocumentResult struct {
	FileName string        `json:"file_name"`
	Chunks   int           `json:"chunks"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Error    string        `json:"error,omitempty"`
}

// Report summarizes a full ingestion run.
type Report struct {
	RunID       string           `json:"run_id"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	Results     []DocumentResult `json:"results"`
	TotalChunks int              `json:"total_chunks"`
	Failures    int              `json:"failures"`
}

// Documents returns the number of documents the run attempted.
func (r *Report) Documents() int {
	return len(r.Results)
}
