package handlers

import (
	"net/http"
	"strconv"

	"kbsearch/internal/contextutil"
	"kbsearch/internal/runlog"
)

// RunsHandler serves the persisted history of ingestion runs.
type RunsHandler struct {
	runs runlog.RunStore
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(runs runlog.RunStore) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// RunsResponse lists recent ingestion runs, newest first.
type RunsResponse struct {
	Runs []runlog.RunRecord `json:"runs"`
}

// RunDocumentsResponse lists the per-document results of one run.
type RunDocumentsResponse struct {
	RunID     string                     `json:"run_id"`
	Documents []runlog.RunDocumentRecord `json:"documents"`
}

// ServeHTTP handles GET /api/runs. Without parameters it lists recent runs;
// with ?run_id=<id> it returns that run's per-document results.
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if h.runs == nil {
		writeError(w, http.StatusNotFound, "Run history is not enabled")
		return
	}

	if runID := r.URL.Query().Get("run_id"); runID != "" {
		docs, err := h.runs.ListDocuments(ctx, runID)
		if err != nil {
			logger.ErrorContext(ctx, "failed to list run documents", "run_id", runID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list run documents")
			return
		}
		if docs == nil {
			docs = []runlog.RunDocumentRecord{}
		}
		writeJSON(w, http.StatusOK, RunDocumentsResponse{RunID: runID, Documents: docs})
		return
	}

	limit := 20
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	runs, err := h.runs.ListRuns(ctx, limit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	if runs == nil {
		runs = []runlog.RunRecord{}
	}

	writeJSON(w, http.StatusOK, RunsResponse{Runs: runs})
}
