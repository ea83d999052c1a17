package docstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"kbsearch/internal/contextutil"
)

// QdrantStore implements Store on Qdrant. Qdrant serves the vector arm only;
// it has no lexical relevance scoring, so HybridSearch reports
// ErrHybridUnsupported and callers retrieve by similarity alone.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	dims       int
}

// NewQdrantStore creates a Qdrant-backed store.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantStore(urlStr, collection string, dims int) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
		dims:       dims,
	}, nil
}

// EnsureIndexes creates the collection with a cosine vector index if absent
// and validates the vector size when it already exists.
func (s *QdrantStore) EnsureIndexes(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(s.dims),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		logger.InfoContext(ctx, "collection created", "collection", s.collection, "vector_size", s.dims)
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	config := info.Config
	if config == nil || config.Params == nil {
		return fmt.Errorf("collection config is invalid")
	}
	vectorsConfig := config.Params.GetVectorsConfig()
	if vectorsConfig == nil {
		return fmt.Errorf("collection vectors config is invalid")
	}
	params := vectorsConfig.GetParams()
	if params == nil {
		return fmt.Errorf("collection vector params are invalid")
	}
	if int(params.Size) != s.dims {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", s.dims, params.Size)
	}

	logger.DebugContext(ctx, "collection validated", "collection", s.collection, "vector_size", s.dims)
	return nil
}

// IndexStatus reports the collection's optimizer status as the vector
// index's readiness. Qdrant has no separate keyword index to report.
func (s *QdrantStore) IndexStatus(ctx context.Context) ([]IndexState, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection info: %w", err)
	}

	status := "unknown"
	if info.Status != 0 {
		status = info.Status.String()
	}

	return []IndexState{
		{
			Name:      VectorIndexName,
			Type:      "vectorSearch",
			Status:    status,
			Queryable: info.Status == qdrant.CollectionStatus_Green,
		},
	}, nil
}

// DeleteAll removes every point in the collection.
func (s *QdrantStore) DeleteAll(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelectorFilter(&qdrant.Filter{}),
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}

	logger.InfoContext(ctx, "cleared chunk collection", "collection", s.collection)
	return nil
}

// Insert upserts one point per chunk record. Point IDs are derived
// deterministically from (file_name, chunk_id) so re-ingesting the same
// corpus never duplicates points.
func (s *QdrantStore) Insert(ctx context.Context, chunks []ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(chunkPointID(chunk.FileName, chunk.ChunkID)),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"file_name":   chunk.FileName,
				"chunk_id":    chunk.ChunkID,
				"text":        chunk.Text,
				"ingested_at": chunk.IngestedAt.UTC().Format(time.RFC3339),
			}),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d points: %w", len(points), err)
	}
	return nil
}

// chunkPointID maps a chunk's identity to a stable UUID for Qdrant.
func chunkPointID(fileName string, chunkID int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("kbsearch/%s#%d", fileName, chunkID))).String()
}

// Count returns the exact number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context) (int64, error) {
	exact := true
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return int64(count), nil
}

// HybridSearch is unsupported: Qdrant has no keyword-relevance arm to fuse.
func (s *QdrantStore) HybridSearch(ctx context.Context, query string, vector []float32, params SearchParams) ([]SearchResult, error) {
	return nil, ErrHybridUnsupported
}

// VectorSearch ranks points by cosine similarity to the query vector.
func (s *QdrantStore) VectorSearch(ctx context.Context, vector []float32, params SearchParams) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	limit := uint64(params.Limit)
	scoredPoints, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		result := SearchResult{Score: float64(point.Score)}
		if point.Payload != nil {
			if v, ok := point.Payload["file_name"]; ok {
				result.FileName = v.GetStringValue()
			}
			if v, ok := point.Payload["text"]; ok {
				result.Text = v.GetStringValue()
			}
		}
		results = append(results, result)
	}

	logger.InfoContext(ctx, "vector search completed", "collection", s.collection, "limit", params.Limit, "results", len(results))
	return results, nil
}
