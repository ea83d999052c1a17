package runlog

import (
	"context"
	"database/sql"
	"fmt"

	"kbsearch/internal/ingest"
)

// RunStore defines the interface for run report persistence.
type RunStore interface {
	// RecordRun persists a finished run report and its per-document results.
	RecordRun(ctx context.Context, report *ingest.Report) error
	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
	// ListDocuments returns the per-document results of one run.
	ListDocuments(ctx context.Context, runID string) ([]RunDocumentRecord, error)
}

// RunRepo provides methods for run report operations.
// It implements the RunStore interface.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// RecordRun persists a run report transactionally: the summary row and every
// per-document row land together or not at all.
func (r *RunRepo) RecordRun(ctx context.Context, report *ingest.Report) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, finished_at, documents, chunks, failures) VALUES (?, ?, ?, ?, ?, ?)",
		report.RunID, report.StartedAt, report.FinishedAt, report.Documents(), report.TotalChunks, report.Failures,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, result := range report.Results {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO run_documents (run_id, file_name, chunks, elapsed_ms, error) VALUES (?, ?, ?, ?, ?)",
			report.RunID, result.FileName, result.Chunks, result.Elapsed.Milliseconds(), result.Error,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run document: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run report: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
// Returns an empty slice if no runs exist (not an error).
func (r *RunRepo) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, documents, chunks, failures FROM runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Documents, &run.Chunks, &run.Failures); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// ListDocuments returns the per-document results of one run, in insertion
// order.
func (r *RunRepo) ListDocuments(ctx context.Context, runID string) ([]RunDocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT run_id, file_name, chunks, elapsed_ms, error FROM run_documents WHERE run_id = ?",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query run documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []RunDocumentRecord
	for rows.Next() {
		var doc RunDocumentRecord
		if err := rows.Scan(&doc.RunID, &doc.FileName, &doc.Chunks, &doc.ElapsedMS, &doc.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}
