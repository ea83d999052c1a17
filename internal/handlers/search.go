package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"kbsearch/internal/contextutil"
	"kbsearch/internal/retriever"
)

// SearchHandler handles HTTP requests for retrieval queries.
type SearchHandler struct {
	searcher retriever.Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher retriever.Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// SearchRequest represents the HTTP request payload for retrieval queries.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResponse represents the HTTP response payload for retrieval queries.
type SearchResponse struct {
	Results []retriever.Result `json:"results"`
	Count   int                `json:"count"`
}

// ServeHTTP handles POST /api/search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		logger.WarnContext(ctx, "empty query in request")
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	results, err := h.searcher.Search(ctx, req.Query, req.Limit)
	if err != nil {
		h.handleSearchError(w, r, err)
		return
	}

	if results == nil {
		results = []retriever.Result{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Results: results,
		Count:   len(results),
	})
}

// handleSearchError maps retrieval errors to appropriate HTTP status codes.
func (h *SearchHandler) handleSearchError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "search failed", "error", err)

	errMsg := strings.ToLower(err.Error())

	// Embedding service errors -> 502
	if strings.Contains(errMsg, "embed") {
		writeError(w, http.StatusBadGateway, "Embedding service error")
		return
	}

	// Document store errors -> 503
	if strings.Contains(errMsg, "search failed") {
		writeError(w, http.StatusServiceUnavailable, "Document store unavailable")
		return
	}

	writeError(w, http.StatusInternalServerError, "Failed to process search")
}
