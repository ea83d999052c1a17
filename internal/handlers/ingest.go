package handlers

import (
	"context"
	"net/http"
	"sync/atomic"

	"kbsearch/internal/contextutil"
	"kbsearch/internal/ingest"
)

// IngestRunner executes one ingestion run.
type IngestRunner interface {
	Run(ctx context.Context) (*ingest.Report, error)
}

// IngestHandler handles HTTP requests that trigger ingestion runs. At most
// one run may be in flight at a time; concurrent triggers get 409.
type IngestHandler struct {
	runner  IngestRunner
	running atomic.Bool
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(runner IngestRunner) *IngestHandler {
	return &IngestHandler{runner: runner}
}

// IngestStartedResponse acknowledges a background ingestion run.
type IngestStartedResponse struct {
	Status string `json:"status"`
}

// ServeHTTP handles POST /api/ingest. By default the run happens in the
// background and the handler replies 202 immediately; with ?wait=true the
// handler blocks and returns the finished run report.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if !h.running.CompareAndSwap(false, true) {
		logger.WarnContext(ctx, "ingestion already in progress")
		writeError(w, http.StatusConflict, "Ingestion already in progress")
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		defer h.running.Store(false)

		report, err := h.runner.Run(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "ingestion run failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Ingestion run failed")
			return
		}

		writeJSON(w, http.StatusOK, report)
		return
	}

	// Background run: detach from the request context so the run survives the
	// response, but keep the request's logger.
	go func() {
		defer h.running.Store(false)

		runCtx := context.WithValue(context.Background(), contextutil.LoggerKey(), logger)
		if _, err := h.runner.Run(runCtx); err != nil {
			logger.Error("background ingestion run failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, IngestStartedResponse{Status: "started"})
}
