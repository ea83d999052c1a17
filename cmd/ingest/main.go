package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"kbsearch/internal/app"
	"kbsearch/internal/config"
	"kbsearch/internal/converter"
	"kbsearch/internal/ingest"
	"kbsearch/internal/llm"
	"kbsearch/internal/runlog"
)

// One-shot ingestion: list, convert, chunk, embed and store the whole source
// corpus, print the run report, and exit non-zero if the run itself failed.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app.InitLogger(cfg)

	ctx := context.Background()

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

	store, closeStore, err := app.NewStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}
	defer closeStore()

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingDimensions)
	conv := converter.NewDocConverter(cfg.ConverterBaseURL)

	lister, err := app.NewLister(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize document source: %v", err)
	}

	pipeline := ingest.NewPipeline(lister, conv, embedder, store, runRepo, cfg.ChunkMaxChars, cfg.ChunkOverlap)

	report, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("Ingestion run failed: %v", err)
	}

	slog.Info("Ingestion run finished",
		"run_id", report.RunID,
		"documents", report.Documents(),
		"total_chunks", report.TotalChunks,
		"failures", report.Failures,
		"elapsed", report.FinishedAt.Sub(report.StartedAt))

	if report.Failures > 0 {
		os.Exit(1)
	}
}
