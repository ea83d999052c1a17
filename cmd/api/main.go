package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"

	"kbsearch/internal/app"
	"kbsearch/internal/config"
	"kbsearch/internal/converter"
	"kbsearch/internal/http"
	"kbsearch/internal/ingest"
	"kbsearch/internal/llm"
	"kbsearch/internal/retriever"
	"kbsearch/internal/runlog"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app.InitLogger(cfg)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	ctx := context.Background()

	// Initialize run history database
	db, err := runlog.New(cfg.RunLogPath)
	if err != nil {
		log.Fatalf("Failed to open run log database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := runlog.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	runRepo := runlog.NewRunRepo(db)
	slog.Info("Run log database initialized", "path", cfg.RunLogPath)

	// Initialize document store
	store, closeStore, err := app.NewStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}
	defer closeStore()

	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure search indexes: %v", err)
	}
	slog.Info("Document store ready", "backend", cfg.StoreBackend)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingDimensions)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.EmbeddingDimensions {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.EmbeddingDimensions, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "model", cfg.EmbeddingModelName, "dimensions", cfg.EmbeddingDimensions)

	// Initialize document source
	lister, err := app.NewLister(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize document source: %v", err)
	}

	conv := converter.NewDocConverter(cfg.ConverterBaseURL)

	pipeline := ingest.NewPipeline(lister, conv, embedder, store, runRepo, cfg.ChunkMaxChars, cfg.ChunkOverlap)

	searcher := retriever.NewRetriever(embedder, store, retriever.Options{
		VectorWeight:  cfg.VectorWeight,
		KeywordWeight: cfg.KeywordWeight,
		NumCandidates: cfg.NumCandidates,
		VectorOnly:    cfg.SearchMode == "vector",
		DefaultLimit:  cfg.DefaultLimit,
		MaxLimit:      cfg.MaxLimit,
	})
	slog.Info("Retriever initialized", "mode", cfg.SearchMode)

	deps := &http.Deps{
		Searcher: searcher,
		Store:    store,
		Runner:   pipeline,
		Runs:     runRepo,
	}
	router := http.NewRouter(deps)

	// Optionally ingest in background after the router is ready
	if cfg.IngestOnStart {
		go func() {
			slog.Info("Starting background ingestion run")
			if _, err := pipeline.Run(context.Background()); err != nil {
				slog.Error("Ingestion run failed", "error", err)
			}
		}()
	}

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
