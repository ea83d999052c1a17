package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel  string
	LogFormat string

	// Document store
	StoreBackend     string // "mongo" or "qdrant"
	MongoURI         string
	MongoDatabase    string
	MongoCollection  string
	QdrantURL        string
	QdrantCollection string

	// Embedding service (OpenAI-compatible)
	EmbeddingBaseURL    string
	EmbeddingAPIKey     string
	EmbeddingModelName  string
	EmbeddingDimensions int

	// Document conversion service
	ConverterBaseURL string

	// Chunking
	ChunkMaxChars int
	ChunkOverlap  int

	// Retrieval
	VectorWeight  float64
	KeywordWeight float64
	NumCandidates int
	DefaultLimit  int
	MaxLimit      int
	SearchMode    string // "hybrid" or "vector"

	// Document source
	SourceBackend string // "filesystem" or "s3"
	DataDir       string
	S3Bucket      string
	S3Prefix      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Region      string
	S3UseSSL      bool

	// Run history
	RunLogPath string

	APIPort       string
	IngestOnStart bool
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for .env
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		StoreBackend:     getEnv("STORE_BACKEND", "mongo"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "kbsearch"),
		MongoCollection:  getEnv("MONGO_COLLECTION", "chunks"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "chunks"),

		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", "dummy-key"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL", "all-MiniLM-L6-v2"),

		ConverterBaseURL: getEnv("CONVERTER_BASE_URL", ""),

		SearchMode: getEnv("SEARCH_MODE", "hybrid"),

		SourceBackend: getEnv("SOURCE_BACKEND", "filesystem"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Prefix:      getEnv("S3_PREFIX", ""),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),

		RunLogPath: getEnv("RUNLOG_PATH", "./data/kbsearch-runs.db"),

		APIPort: getEnv("API_PORT", "9000"),
	}

	// EMBEDDING_DIMENSIONS must match the output vector size of the embedding
	// model. If the dimensionality changes, the vector index must be rebuilt.
	dimsStr := getEnv("EMBEDDING_DIMENSIONS", "")
	if dimsStr == "" {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS is required")
	}
	dims, err := strconv.Atoi(dimsStr)
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS must be a valid integer: %w", err)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS must be greater than 0")
	}
	cfg.EmbeddingDimensions = dims

	cfg.ChunkMaxChars, err = getEnvInt("CHUNK_MAX_CHARS", 800)
	if err != nil {
		return nil, err
	}
	cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 150)
	if err != nil {
		return nil, err
	}
	if cfg.ChunkMaxChars <= 0 {
		return nil, fmt.Errorf("CHUNK_MAX_CHARS must be greater than 0")
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkMaxChars {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_MAX_CHARS)")
	}

	cfg.VectorWeight, err = getEnvFloat("VECTOR_WEIGHT", 0.6)
	if err != nil {
		return nil, err
	}
	cfg.KeywordWeight, err = getEnvFloat("KEYWORD_WEIGHT", 0.4)
	if err != nil {
		return nil, err
	}
	cfg.NumCandidates, err = getEnvInt("NUM_CANDIDATES", 50)
	if err != nil {
		return nil, err
	}
	cfg.DefaultLimit, err = getEnvInt("DEFAULT_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	cfg.MaxLimit, err = getEnvInt("MAX_LIMIT", 20)
	if err != nil {
		return nil, err
	}
	if cfg.DefaultLimit <= 0 || cfg.MaxLimit < cfg.DefaultLimit {
		return nil, fmt.Errorf("DEFAULT_LIMIT must be positive and at most MAX_LIMIT (got %d and %d)", cfg.DefaultLimit, cfg.MaxLimit)
	}
	// The vector arm over-fetches NUM_CANDIDATES rows before fusion; it must
	// cover the largest limit a request is allowed to ask for.
	if cfg.NumCandidates <= cfg.MaxLimit {
		return nil, fmt.Errorf("NUM_CANDIDATES must exceed MAX_LIMIT (got %d and %d)", cfg.NumCandidates, cfg.MaxLimit)
	}

	cfg.S3UseSSL = getEnv("S3_USE_SSL", "false") == "true"
	cfg.IngestOnStart = getEnv("INGEST_ON_START", "false") == "true"

	switch cfg.StoreBackend {
	case "mongo", "qdrant":
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be \"mongo\" or \"qdrant\", got %q", cfg.StoreBackend)
	}
	switch cfg.SearchMode {
	case "hybrid", "vector":
	default:
		return nil, fmt.Errorf("SEARCH_MODE must be \"hybrid\" or \"vector\", got %q", cfg.SearchMode)
	}
	switch cfg.SourceBackend {
	case "filesystem":
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when SOURCE_BACKEND is \"s3\"")
		}
	default:
		return nil, fmt.Errorf("SOURCE_BACKEND must be \"filesystem\" or \"s3\", got %q", cfg.SourceBackend)
	}

	// Create the run log directory if it doesn't exist
	runLogDir := filepath.Dir(cfg.RunLogPath)
	if err := os.MkdirAll(runLogDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run log directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

// getEnvFloat gets a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return parsed, nil
}
