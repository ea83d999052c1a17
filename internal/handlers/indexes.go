package handlers

import (
	"net/http"

	"kbsearch/internal/contextutil"
	"kbsearch/internal/docstore"
)

// IndexesHandler reports the document store's search index states.
type IndexesHandler struct {
	store docstore.Store
}

// NewIndexesHandler creates a new IndexesHandler.
func NewIndexesHandler(store docstore.Store) *IndexesHandler {
	return &IndexesHandler{store: store}
}

// IndexesResponse lists the search indexes and the size of the corpus.
type IndexesResponse struct {
	Indexes    []docstore.IndexState `json:"indexes"`
	ChunkCount int64                 `json:"chunk_count"`
}

// ServeHTTP handles GET /api/indexes.
func (h *IndexesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	states, err := h.store.IndexStatus(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read index status", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Document store unavailable")
		return
	}
	if states == nil {
		states = []docstore.IndexState{}
	}

	count, err := h.store.Count(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count chunk records", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Document store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, IndexesResponse{
		Indexes:    states,
		ChunkCount: count,
	})
}
