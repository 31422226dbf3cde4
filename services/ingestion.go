package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ai-tutor-backend/internal/telemetry"
	"ai-tutor-backend/internal/vectorindex"
	"ai-tutor-backend/models"
)

// IngestionService runs the full document pipeline: per-page
// extraction, semantic index build, persistence. The index holds one
// document at a time; ingesting a new deck replaces it.
type IngestionService struct {
	extractor *PageExtractor
	index     *vectorindex.Index
	store     DocStore
	metrics   *telemetry.Metrics
}

func NewIngestionService(extractor *PageExtractor, index *vectorindex.Index, store DocStore) *IngestionService {
	return &IngestionService{
		extractor: extractor,
		index:     index,
		store:     store,
	}
}

// SetMetrics enables ingestion duration recording. Optional.
func (s *IngestionService) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

// Process extracts, indexes and stores the document registered under
// doc. The document's status moves pending -> processing -> completed,
// or failed with the error recorded.
func (s *IngestionService) Process(ctx context.Context, doc *models.Document) error {
	tracer := otel.Tracer("ingestion")
	ctx, span := tracer.Start(ctx, "ingest.process")
	defer span.End()
	span.SetAttributes(attribute.String("doc.id", doc.ID))

	log.Printf("📥 Processing document %s (%s)", doc.ID, doc.Name)
	start := time.Now()

	doc.Status = models.StatusProcessing
	if err := s.store.Save(ctx, doc); err != nil {
		return err
	}

	pages, err := s.extractor.ExtractPages(ctx, doc.PDFPath)
	if err != nil {
		s.fail(ctx, doc, fmt.Errorf("extraction failed: %w", err))
		if s.metrics != nil {
			s.metrics.RecordIngestion(time.Since(start).Seconds(), "failed")
		}
		return err
	}
	doc.PageContexts = pages
	span.SetAttributes(attribute.Int("doc.pages", len(pages)))

	if err := s.index.Build(ctx, doc); err != nil {
		// The document is still usable without semantic retrieval;
		// QA falls back to the full document.
		log.Printf("⚠️ Index build failed for %s: %v", doc.ID, err)
	}

	now := time.Now()
	doc.Status = models.StatusCompleted
	doc.ProcessedAt = &now
	doc.ErrorMessage = ""
	if err := s.store.Save(ctx, doc); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordIngestion(time.Since(start).Seconds(), "completed")
	}
	log.Printf("✅ Document %s processed: %d pages", doc.ID, len(pages))
	return nil
}

// RebuildIndex re-embeds a stored document, used when the index is
// missing at query time (e.g. after a restart).
func (s *IngestionService) RebuildIndex(ctx context.Context, doc *models.Document) error {
	log.Printf("ℹ️ Rebuilding index for document %s", doc.ID)
	return s.index.Build(ctx, doc)
}

func (s *IngestionService) fail(ctx context.Context, doc *models.Document, cause error) {
	doc.Status = models.StatusFailed
	doc.ErrorMessage = cause.Error()
	if err := s.store.Save(ctx, doc); err != nil {
		log.Printf("⚠️ Failed to record failure for %s: %v", doc.ID, err)
	}
}
