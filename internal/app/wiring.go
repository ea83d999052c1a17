// Package app holds the wiring shared by the API server and the one-shot
// ingestion binary: logger setup and backend selection from config.
package app

import (
	"context"
	"log/slog"
	"os"

	"kbsearch/internal/config"
	"kbsearch/internal/docstore"
	"kbsearch/internal/source"
)

// InitLogger builds the process-wide logger from config (JSON or text
// handler, level by name) and installs it as the slog default.
func InitLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLogLevel(cfg.LogLevel),
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// NewStore builds the configured document store backend. The returned close
// function is a no-op for backends without an explicit disconnect.
func NewStore(ctx context.Context, cfg *config.Config) (docstore.Store, func(), error) {
	switch cfg.StoreBackend {
	case "qdrant":
		store, err := docstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection, cfg.EmbeddingDimensions)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		store, err := docstore.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.EmbeddingDimensions)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			_ = store.Close(context.Background())
		}, nil
	}
}

// NewLister builds the configured document source.
func NewLister(cfg *config.Config) (source.Lister, error) {
	if cfg.SourceBackend == "s3" {
		return source.NewS3Lister(source.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
		})
	}
	return source.NewFilesystemLister(cfg.DataDir), nil
}

// ParseLogLevel maps a level name to a slog.Level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
