package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"kbsearch/internal/contextutil"
)

// MongoStore implements Store on MongoDB with Atlas Search. The keyword index
// is a BM25-scored text index over the text field; the vector index is an ANN
// index over the embedding field; hybrid queries fuse both arms server-side
// with $rankFusion.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	dims   int
}

// NewMongoStore connects to MongoDB and verifies the connection. A failed
// ping is fatal: an unreachable store aborts the whole run.
func NewMongoStore(ctx context.Context, uri, database, collection string, dims int) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("document store unreachable at %s: %w", uri, err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
		dims:   dims,
	}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes declares the keyword and vector search indexes. Atlas builds
// them in the background; "already exists" is success.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	models := []mongo.SearchIndexModel{
		{
			Definition: keywordIndexDefinition(),
			Options:    options.SearchIndexes().SetName(KeywordIndexName),
		},
		{
			Definition: vectorIndexDefinition(s.dims),
			Options:    options.SearchIndexes().SetName(VectorIndexName).SetType("vectorSearch"),
		},
	}

	if _, err := s.coll.SearchIndexes().CreateMany(ctx, models); err != nil {
		if isIndexAlreadyExists(err) {
			logger.DebugContext(ctx, "search indexes already exist", "collection", s.coll.Name())
			return nil
		}
		return fmt.Errorf("failed to create search indexes: %w", err)
	}

	logger.InfoContext(ctx, "search indexes requested, building in background",
		"keyword_index", KeywordIndexName, "vector_index", VectorIndexName)
	return nil
}

// keywordIndexDefinition maps only the text field with a standard analyzer;
// nothing else is indexed for lexical search.
func keywordIndexDefinition() bson.D {
	return bson.D{
		{Key: "mappings", Value: bson.D{
			{Key: "dynamic", Value: false},
			{Key: "fields", Value: bson.D{
				{Key: "text", Value: bson.D{
					{Key: "type", Value: "string"},
					{Key: "analyzer", Value: "lucene.standard"},
				}},
			}},
		}},
	}
}

// vectorIndexDefinition declares an ANN index over the embedding field with
// cosine similarity and the embedding model's dimensionality.
func vectorIndexDefinition(dims int) bson.D {
	return bson.D{
		{Key: "fields", Value: bson.A{
			bson.D{
				{Key: "type", Value: "vector"},
				{Key: "path", Value: "embedding"},
				{Key: "numDimensions", Value: dims},
				{Key: "similarity", Value: "cosine"},
			},
		}},
	}
}

// isIndexAlreadyExists reports whether err is the server telling us the
// search index was created before. Idempotent creation treats that as success.
func isIndexAlreadyExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 68 || cmdErr.Name == "IndexAlreadyExists"
	}
	return false
}

// IndexStatus lists the collection's search indexes with their build state.
func (s *MongoStore) IndexStatus(ctx context.Context) ([]IndexState, error) {
	cursor, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$listSearchIndexes", Value: bson.D{}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list search indexes: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var states []IndexState
	for cursor.Next(ctx) {
		var doc struct {
			Name      string `bson:"name"`
			Type      string `bson:"type"`
			Status    string `bson:"status"`
			Queryable bool   `bson:"queryable"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode index status: %w", err)
		}
		indexType := doc.Type
		if indexType == "" {
			indexType = "search"
		}
		states = append(states, IndexState{
			Name:      doc.Name,
			Type:      indexType,
			Status:    doc.Status,
			Queryable: doc.Queryable,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("index status cursor error: %w", err)
	}

	return states, nil
}

// DeleteAll removes every chunk record from the collection.
func (s *MongoStore) DeleteAll(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	res, err := s.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to delete chunk records: %w", err)
	}

	logger.InfoContext(ctx, "cleared chunk collection", "collection", s.coll.Name(), "deleted", res.DeletedCount)
	return nil
}

// Insert bulk-inserts chunk records.
func (s *MongoStore) Insert(ctx context.Context, chunks []ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]interface{}, len(chunks))
	for i := range chunks {
		docs[i] = chunks[i]
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert %d chunk records: %w", len(chunks), err)
	}
	return nil
}

// Count returns the number of stored chunk records.
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count chunk records: %w", err)
	}
	return count, nil
}

// HybridSearch issues a single $rankFusion aggregation combining the vector
// and keyword arms with the configured weights.
func (s *MongoStore) HybridSearch(ctx context.Context, query string, vector []float32, params SearchParams) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	pipeline := hybridPipeline(query, vector, params)
	results, err := s.aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("hybrid search failed: %w", err)
	}

	logger.InfoContext(ctx, "hybrid search completed", "limit", params.Limit, "results", len(results))
	return results, nil
}

// VectorSearch issues a $vectorSearch aggregation ranking purely by
// similarity to the query vector.
func (s *MongoStore) VectorSearch(ctx context.Context, vector []float32, params SearchParams) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	pipeline := vectorPipeline(vector, params)
	results, err := s.aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	logger.InfoContext(ctx, "vector search completed", "limit", params.Limit, "results", len(results))
	return results, nil
}

func (s *MongoStore) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]SearchResult, error) {
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var results []SearchResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// hybridPipeline builds the $rankFusion aggregation: a vector-similarity arm
// over-fetching numCandidates candidates and a keyword arm scored lexically,
// fused by weight, projected down to file_name/text/score.
func hybridPipeline(query string, vector []float32, params SearchParams) mongo.Pipeline {
	vectorArm := bson.A{
		bson.D{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: VectorIndexName},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: params.NumCandidates},
			{Key: "limit", Value: params.Limit},
		}}},
	}

	keywordArm := bson.A{
		bson.D{{Key: "$search", Value: bson.D{
			{Key: "index", Value: KeywordIndexName},
			{Key: "text", Value: bson.D{
				{Key: "query", Value: query},
				{Key: "path", Value: "text"},
			}},
		}}},
		bson.D{{Key: "$limit", Value: params.Limit}},
	}

	return mongo.Pipeline{
		{{Key: "$rankFusion", Value: bson.D{
			{Key: "input", Value: bson.D{
				{Key: "pipelines", Value: bson.D{
					{Key: "vector", Value: vectorArm},
					{Key: "keyword", Value: keywordArm},
				}},
			}},
			{Key: "combination", Value: bson.D{
				{Key: "weights", Value: bson.D{
					{Key: "vector", Value: params.VectorWeight},
					{Key: "keyword", Value: params.KeywordWeight},
				}},
			}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "file_name", Value: 1},
			{Key: "text", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
		}}},
	}
}

// vectorPipeline builds the vector-only aggregation.
func vectorPipeline(vector []float32, params SearchParams) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: VectorIndexName},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: params.NumCandidates},
			{Key: "limit", Value: params.Limit},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "file_name", Value: 1},
			{Key: "text", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
}
