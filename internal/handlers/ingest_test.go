package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"kbsearch/internal/ingest"
)

// stubRunner is a controllable IngestRunner for handler tests.
type stubRunner struct {
	mu      sync.Mutex
	calls   int
	report  *ingest.Report
	err     error
	block   chan struct{} // if non-nil, Run blocks until closed
	started chan struct{} // if non-nil, closed when Run begins
}

func (s *stubRunner) Run(ctx context.Context) (*ingest.Report, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
		s.started = nil
	}
	if s.block != nil {
		<-s.block
	}
	return s.report, s.err
}

func (s *stubRunner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestIngestHandler_WaitReturnsReport(t *testing.T) {
	runner := &stubRunner{
		report: &ingest.Report{RunID: "run-42", TotalChunks: 17},
	}
	handler := NewIngestHandler(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest?wait=true", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, body = %s", w.Code, w.Body.String())
	}

	var report ingest.Report
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.RunID != "run-42" || report.TotalChunks != 17 {
		t.Errorf("report = %+v", report)
	}
}

func TestIngestHandler_WaitRunError(t *testing.T) {
	runner := &stubRunner{err: errors.New("store down")}
	handler := NewIngestHandler(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest?wait=true", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %v, want 500", w.Code)
	}

	// A failed run must release the single-run guard.
	req = httptest.NewRequest(http.MethodPost, "/api/ingest?wait=true", nil)
	w = httptest.NewRecorder()
	runner.err = nil
	runner.report = &ingest.Report{RunID: "run-2"}

	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("second run after failure: status = %v, want 200", w.Code)
	}
}

func TestIngestHandler_BackgroundAccepted(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	runner := &stubRunner{
		report:  &ingest.Report{RunID: "run-1"},
		block:   block,
		started: started,
	}
	handler := NewIngestHandler(runner)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %v, want 202", w.Code)
	}

	var resp IngestStartedResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "started" {
		t.Errorf("status field = %q, want started", resp.Status)
	}

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("background run never started")
	}
	close(block)
}

func TestIngestHandler_ConcurrentRunsRejected(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	runner := &stubRunner{
		report:  &ingest.Report{RunID: "run-1"},
		block:   block,
		started: started,
	}
	handler := NewIngestHandler(runner)

	// First request starts a background run that blocks.
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("first request status = %v, want 202", w.Code)
	}

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("background run never started")
	}

	// Second request while the first is still running gets 409.
	req = httptest.NewRequest(http.MethodPost, "/api/ingest?wait=true", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("concurrent request status = %v, want 409", w.Code)
	}

	close(block)

	if got := runner.callCount(); got != 1 {
		t.Errorf("runner called %d times, want 1", got)
	}
}

func TestIngestHandler_MethodNotAllowed(t *testing.T) {
	handler := NewIngestHandler(&stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/ingest", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %v, want 405", w.Code)
	}
	if handler.running.Load() {
		t.Error("rejected request must not leave the guard set")
	}
}
