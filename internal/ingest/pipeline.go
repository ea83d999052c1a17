package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kbsearch/internal/chunker"
	"kbsearch/internal/contextutil"
	"kbsearch/internal/converter"
	"kbsearch/internal/docstore"
	"kbsearch/internal/llm"
	"kbsearch/internal/source"
)

// RunRecorder persists finished run reports. Implementations must tolerate
// partial reports; recording failures never fail the run itself.
type RunRecorder interface {
	RecordRun(ctx context.Context, report *Report) error
}

// Pipeline orchestrates a full-replace ingestion: list the source documents,
// convert each to plain text, chunk, embed in one batch per document, and
// insert the chunk records into the document store.
type Pipeline struct {
	lister    source.Lister
	converter converter.Converter
	embedder  llm.Embedder
	store     docstore.Store
	recorder  RunRecorder
	maxChars  int
	overlap   int
}

// NewPipeline creates an ingestion pipeline. recorder may be nil, in which
// case run reports are only logged.
func NewPipeline(
	lister source.Lister,
	conv converter.Converter,
	embedder llm.Embedder,
	store docstore.Store,
	recorder RunRecorder,
	maxChars, overlap int,
) *Pipeline {
	return &Pipeline{
		lister:    lister,
		converter: conv,
		embedder:  embedder,
		store:     store,
		recorder:  recorder,
		maxChars:  maxChars,
		overlap:   overlap,
	}
}

// Run executes one ingestion run. Per-document failures are recorded in the
// report and do not abort the run; an unreachable store or source does.
//
// The previous corpus is only deleted after the source listing succeeds and
// is non-empty, so a misconfigured source never wipes a working index.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	logger := contextutil.LoggerFromContext(ctx)

	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	if err := p.store.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure search indexes: %w", err)
	}

	if states, err := p.store.IndexStatus(ctx); err != nil {
		logger.WarnContext(ctx, "failed to read index status", "error", err)
	} else {
		for _, state := range states {
			if !state.Queryable {
				logger.WarnContext(ctx, "search index not yet queryable",
					"index", state.Name, "status", state.Status)
			}
		}
	}

	docs, err := p.lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list source documents: %w", err)
	}

	if len(docs) == 0 {
		logger.WarnContext(ctx, "no documents found in source, keeping existing corpus")
		report.FinishedAt = time.Now().UTC()
		p.record(ctx, report)
		return report, nil
	}

	logger.InfoContext(ctx, "starting ingestion run", "run_id", report.RunID, "documents", len(docs))

	if err := p.store.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear existing corpus: %w", err)
	}

	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		start := time.Now()
		chunks, err := p.ingestDocument(ctx, doc)
		result := DocumentResult{
			FileName: doc.Name,
			Chunks:   chunks,
			Elapsed:  time.Since(start),
		}
		if err != nil {
			result.Error = err.Error()
			report.Failures++
			logger.ErrorContext(ctx, "failed to ingest document", "file_name", doc.Name, "error", err)
		} else {
			report.TotalChunks += chunks
			logger.InfoContext(ctx, "ingested document",
				"file_name", doc.Name, "chunks", chunks, "elapsed", result.Elapsed)
		}
		report.Results = append(report.Results, result)
	}

	report.FinishedAt = time.Now().UTC()
	logger.InfoContext(ctx, "ingestion run completed",
		"run_id", report.RunID,
		"documents", report.Documents(),
		"total_chunks", report.TotalChunks,
		"failures", report.Failures)

	p.record(ctx, report)
	return report, nil
}

// ingestDocument processes a single document end to end and returns the
// number of chunks inserted.
func (p *Pipeline) ingestDocument(ctx context.Context, doc source.Document) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	reader, err := p.lister.Open(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("failed to open document: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	text, err := p.converter.Convert(ctx, doc.Name, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to convert document: %w", err)
	}

	chunks := chunker.Split(text, p.maxChars, p.overlap)
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "document produced no chunks", "file_name", doc.Name)
		return 0, nil
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	now := time.Now().UTC()
	records := make([]docstore.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = docstore.ChunkRecord{
			FileName:   doc.Name,
			ChunkID:    i,
			Text:       chunk,
			Embedding:  embeddings[i],
			IngestedAt: now,
		}
	}

	if err := p.store.Insert(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to insert chunk records: %w", err)
	}

	return len(records), nil
}

func (p *Pipeline) record(ctx context.Context, report *Report) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.RecordRun(ctx, report); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to record run report",
			"run_id", report.RunID, "error", err)
	}
}
