package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"ai-tutor-backend/services"
)

const (
	TaskIngestDoc = "doc:ingest"
)

type IngestDocPayload struct {
	DocID string `json:"doc_id"`
}

// NewIngestDocTask enqueues full processing of an uploaded document.
// Large decks with OCR and captioning can run for minutes, so the
// timeout is generous.
func NewIngestDocTask(docID string) (*asynq.Task, error) {
	payload, err := json.Marshal(IngestDocPayload{DocID: docID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskIngestDoc,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("critical"),
	), nil
}

// TaskProcessor wires queue tasks to the ingestion pipeline.
type TaskProcessor struct {
	ingestion *services.IngestionService
	store     services.DocStore
}

func NewTaskProcessor(ingestion *services.IngestionService, store services.DocStore) *TaskProcessor {
	return &TaskProcessor{
		ingestion: ingestion,
		store:     store,
	}
}

func (p *TaskProcessor) IngestDoc(ctx context.Context, t *asynq.Task) error {
	var payload IngestDocPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	log.Printf("Processing ingest task: doc=%s", payload.DocID)

	doc, err := p.store.Get(ctx, payload.DocID)
	if err != nil {
		return err
	}
	if doc == nil {
		// Document was deleted before the worker got to it.
		return fmt.Errorf("document %s not found: %w", payload.DocID, asynq.SkipRetry)
	}

	return p.ingestion.Process(ctx, doc)
}
