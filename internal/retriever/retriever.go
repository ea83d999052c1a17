package retriever

import (
	"context"
	"errors"
	"fmt"

	"kbsearch/internal/contextutil"
	"kbsearch/internal/docstore"
	"kbsearch/internal/llm"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_searcher.go -package=mocks kbsearch/internal/retriever Searcher

// Result is one ranked passage returned to the caller.
type Result struct {
	FileName string  `json:"file_name"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}

// Searcher answers natural-language queries with ranked passages.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Options tunes retrieval behavior.
type Options struct {
	// VectorWeight and KeywordWeight steer hybrid rank fusion.
	VectorWeight  float64
	KeywordWeight float64
	// NumCandidates is the vector arm's over-fetch size.
	NumCandidates int
	// VectorOnly skips the hybrid query entirely.
	VectorOnly bool
	// DefaultLimit applies when the caller passes limit <= 0; MaxLimit caps
	// whatever the caller asks for.
	DefaultLimit int
	MaxLimit     int
}

// Retriever embeds the query and delegates ranking to the document store,
// preferring hybrid keyword+vector fusion and falling back to vector-only
// search when the backend cannot fuse.
type Retriever struct {
	embedder llm.Embedder
	store    docstore.Store
	opts     Options
}

// NewRetriever creates a retriever over the given embedder and store.
func NewRetriever(embedder llm.Embedder, store docstore.Store, opts Options) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		opts:     opts,
	}
}

// Search runs one retrieval request. The query must be non-empty; limit is
// defaulted and capped per Options.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	if limit <= 0 {
		limit = r.opts.DefaultLimit
	}
	if r.opts.MaxLimit > 0 && limit > r.opts.MaxLimit {
		limit = r.opts.MaxLimit
	}

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	params := docstore.SearchParams{
		Limit:         limit,
		NumCandidates: r.opts.NumCandidates,
		VectorWeight:  r.opts.VectorWeight,
		KeywordWeight: r.opts.KeywordWeight,
	}

	var hits []docstore.SearchResult
	if r.opts.VectorOnly {
		hits, err = r.store.VectorSearch(ctx, vector, params)
	} else {
		hits, err = r.store.HybridSearch(ctx, query, vector, params)
		if errors.Is(err, docstore.ErrHybridUnsupported) {
			logger.WarnContext(ctx, "store cannot fuse keyword and vector ranking, using vector-only search")
			hits, err = r.store.VectorSearch(ctx, vector, params)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, len(hits))
	for i, hit := range hits {
		results[i] = Result{
			FileName: hit.FileName,
			Text:     hit.Text,
			Score:    hit.Score,
		}
	}

	logger.InfoContext(ctx, "retrieval completed", "limit", limit, "results", len(results))
	return results, nil
}
