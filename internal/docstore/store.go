package docstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks kbsearch/internal/docstore Store

import (
	"context"
	"errors"
	"time"
)

// Names of the two search indexes every backend maintains over the chunk
// collection.
const (
	KeywordIndexName = "keyword_index"
	VectorIndexName  = "vector_index"
)

// ErrHybridUnsupported is returned by backends that cannot execute a fused
// keyword+vector query. Callers fall back to vector-only retrieval.
var ErrHybridUnsupported = errors.New("hybrid search is not supported by this store backend")

// ChunkRecord is the unit of storage and retrieval: one embedded passage of a
// source document.
type ChunkRecord struct {
	FileName   string    `bson:"file_name" json:"file_name"`
	ChunkID    int       `bson:"chunk_id" json:"chunk_id"`
	Text       string    `bson:"text" json:"text"`
	Embedding  []float32 `bson:"embedding" json:"embedding"`
	IngestedAt time.Time `bson:"ingested_at" json:"ingested_at"`
}

// SearchResult is one ranked hit projected down to the fields callers need.
type SearchResult struct {
	FileName string  `bson:"file_name" json:"file_name"`
	Text     string  `bson:"text" json:"text"`
	Score    float64 `bson:"score" json:"score"`
}

// SearchParams tunes a retrieval request.
type SearchParams struct {
	// Limit is the number of results to return.
	Limit int
	// NumCandidates is the vector arm's over-fetch size; must exceed Limit.
	NumCandidates int
	// VectorWeight and KeywordWeight steer the rank fusion. They only apply
	// to hybrid search.
	VectorWeight  float64
	KeywordWeight float64
}

// IndexState describes one search index as reported by the store.
type IndexState struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Queryable bool   `json:"queryable"`
}

// Store is the document store holding chunk records. Implementations wrap an
// external search-capable database; they do not build indexes themselves,
// they declare them and report readiness.
type Store interface {
	// EnsureIndexes declares the keyword and vector indexes. Idempotent: an
	// index that already exists is success, not an error.
	EnsureIndexes(ctx context.Context) error

	// IndexStatus reports each index's readiness. A non-ready index is not an
	// error; queries against it may simply come back empty.
	IndexStatus(ctx context.Context) ([]IndexState, error)

	// DeleteAll removes every chunk record (full-replace ingestion).
	DeleteAll(ctx context.Context) error

	// Insert bulk-inserts chunk records.
	Insert(ctx context.Context, chunks []ChunkRecord) error

	// Count returns the number of stored chunk records.
	Count(ctx context.Context) (int64, error)

	// HybridSearch runs the fused keyword+vector query and returns ranked
	// results. Backends without fusion support return ErrHybridUnsupported.
	HybridSearch(ctx context.Context, query string, vector []float32, params SearchParams) ([]SearchResult, error)

	// VectorSearch ranks purely by embedding similarity to the query vector.
	VectorSearch(ctx context.Context, vector []float32, params SearchParams) ([]SearchResult, error)
}
