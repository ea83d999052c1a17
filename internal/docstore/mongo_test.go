package docstore

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// lookup returns the value for key in a bson.D, failing the test if absent.
func lookup(t *testing.T, d bson.D, key string) interface{} {
	t.Helper()
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("key %q not found in %v", key, d)
	return nil
}

func asD(t *testing.T, v interface{}) bson.D {
	t.Helper()
	d, ok := v.(bson.D)
	if !ok {
		t.Fatalf("expected bson.D, got %T", v)
	}
	return d
}

func TestHybridPipeline_VectorArm(t *testing.T) {
	vector := []float32{0.1, 0.2}
	params := SearchParams{Limit: 5, NumCandidates: 50, VectorWeight: 0.6, KeywordWeight: 0.4}

	pipeline := hybridPipeline("query", vector, params)
	if len(pipeline) != 2 {
		t.Fatalf("pipeline has %d stages, want 2", len(pipeline))
	}
	fusion := asD(t, lookup(t, pipeline[0], "$rankFusion"))
	pipelines := asD(t, lookup(t, asD(t, lookup(t, fusion, "input")), "pipelines"))

	vectorArm, ok := lookup(t, pipelines, "vector").(bson.A)
	if !ok || len(vectorArm) != 1 {
		t.Fatalf("vector arm = %v", lookup(t, pipelines, "vector"))
	}
	search := asD(t, lookup(t, vectorArm[0].(bson.D), "$vectorSearch"))

	if got := lookup(t, search, "index"); got != VectorIndexName {
		t.Errorf("vector arm index = %v, want %s", got, VectorIndexName)
	}
	if got := lookup(t, search, "path"); got != "embedding" {
		t.Errorf("vector arm path = %v, want embedding", got)
	}
	if got := lookup(t, search, "numCandidates"); got != 50 {
		t.Errorf("numCandidates = %v, want 50", got)
	}
	if got := lookup(t, search, "limit"); got != 5 {
		t.Errorf("limit = %v, want 5", got)
	}
}

func TestHybridPipeline_KeywordArm(t *testing.T) {
	params := SearchParams{Limit: 5, NumCandidates: 50, VectorWeight: 0.6, KeywordWeight: 0.4}

	pipeline := hybridPipeline("reset password", []float32{0.1}, params)
	fusion := asD(t, lookup(t, pipeline[0], "$rankFusion"))
	pipelines := asD(t, lookup(t, asD(t, lookup(t, fusion, "input")), "pipelines"))

	keywordArm := lookup(t, pipelines, "keyword").(bson.A)
	if len(keywordArm) != 2 {
		t.Fatalf("keyword arm has %d stages, want 2 ($search + $limit)", len(keywordArm))
	}

	search := asD(t, lookup(t, keywordArm[0].(bson.D), "$search"))
	if got := lookup(t, search, "index"); got != KeywordIndexName {
		t.Errorf("keyword arm index = %v, want %s", got, KeywordIndexName)
	}
	textClause := asD(t, lookup(t, search, "text"))
	if got := lookup(t, textClause, "query"); got != "reset password" {
		t.Errorf("text query = %v", got)
	}
	if got := lookup(t, textClause, "path"); got != "text" {
		t.Errorf("text path = %v, want text", got)
	}

	if got := lookup(t, keywordArm[1].(bson.D), "$limit"); got != 5 {
		t.Errorf("keyword arm limit = %v, want 5", got)
	}
}

func TestHybridPipeline_WeightsAndProjection(t *testing.T) {
	params := SearchParams{Limit: 3, NumCandidates: 30, VectorWeight: 0.7, KeywordWeight: 0.3}

	pipeline := hybridPipeline("q", []float32{0.5}, params)
	fusion := asD(t, lookup(t, pipeline[0], "$rankFusion"))

	weights := asD(t, lookup(t, asD(t, lookup(t, fusion, "combination")), "weights"))
	if got := lookup(t, weights, "vector"); got != 0.7 {
		t.Errorf("vector weight = %v, want 0.7", got)
	}
	if got := lookup(t, weights, "keyword"); got != 0.3 {
		t.Errorf("keyword weight = %v, want 0.3", got)
	}

	project := asD(t, lookup(t, pipeline[1], "$project"))
	if got := lookup(t, project, "_id"); got != 0 {
		t.Errorf("_id projection = %v, want 0", got)
	}
	score := asD(t, lookup(t, project, "score"))
	if got := lookup(t, score, "$meta"); got != "searchScore" {
		t.Errorf("score $meta = %v, want searchScore", got)
	}
}

func TestVectorPipeline(t *testing.T) {
	vector := []float32{0.9, 0.8}
	params := SearchParams{Limit: 4, NumCandidates: 40}

	pipeline := vectorPipeline(vector, params)
	if len(pipeline) != 2 {
		t.Fatalf("pipeline has %d stages, want 2", len(pipeline))
	}

	search := asD(t, lookup(t, pipeline[0], "$vectorSearch"))
	if got := lookup(t, search, "index"); got != VectorIndexName {
		t.Errorf("index = %v, want %s", got, VectorIndexName)
	}
	if got := lookup(t, search, "path"); got != "embedding" {
		t.Errorf("path = %v, want embedding", got)
	}
	if got := lookup(t, search, "numCandidates"); got != 40 {
		t.Errorf("numCandidates = %v, want 40", got)
	}
	if got := lookup(t, search, "limit"); got != 4 {
		t.Errorf("limit = %v, want 4", got)
	}

	project := asD(t, lookup(t, pipeline[1], "$project"))
	score := asD(t, lookup(t, project, "score"))
	if got := lookup(t, score, "$meta"); got != "vectorSearchScore" {
		t.Errorf("score $meta = %v, want vectorSearchScore", got)
	}
}

func TestKeywordIndexDefinition(t *testing.T) {
	def := keywordIndexDefinition()

	mappings := asD(t, lookup(t, def, "mappings"))
	if got := lookup(t, mappings, "dynamic"); got != false {
		t.Errorf("dynamic = %v, want false", got)
	}

	fields := asD(t, lookup(t, mappings, "fields"))
	textField := asD(t, lookup(t, fields, "text"))
	if got := lookup(t, textField, "type"); got != "string" {
		t.Errorf("text field type = %v, want string", got)
	}
	if got := lookup(t, textField, "analyzer"); got != "lucene.standard" {
		t.Errorf("analyzer = %v, want lucene.standard", got)
	}
}

func TestVectorIndexDefinition(t *testing.T) {
	def := vectorIndexDefinition(384)

	fields, ok := lookup(t, def, "fields").(bson.A)
	if !ok || len(fields) != 1 {
		t.Fatalf("fields = %v, want one entry", lookup(t, def, "fields"))
	}

	field := fields[0].(bson.D)
	if got := lookup(t, field, "type"); got != "vector" {
		t.Errorf("type = %v, want vector", got)
	}
	if got := lookup(t, field, "path"); got != "embedding" {
		t.Errorf("path = %v, want embedding", got)
	}
	if got := lookup(t, field, "numDimensions"); got != 384 {
		t.Errorf("numDimensions = %v, want 384", got)
	}
	if got := lookup(t, field, "similarity"); got != "cosine" {
		t.Errorf("similarity = %v, want cosine", got)
	}
}

func TestIsIndexAlreadyExists(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "code 68",
			err:  mongo.CommandError{Code: 68, Message: "index already exists"},
			want: true,
		},
		{
			name: "named error",
			err:  mongo.CommandError{Name: "IndexAlreadyExists", Message: "dup"},
			want: true,
		},
		{
			name: "other command error",
			err:  mongo.CommandError{Code: 13, Name: "Unauthorized"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isIndexAlreadyExists(tt.err); got != tt.want {
				t.Errorf("isIndexAlreadyExists(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
