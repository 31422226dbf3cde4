package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-co-op/gocron"

	"ai-tutor-backend/internal/config"
	"ai-tutor-backend/models"
)

// Janitor runs periodic maintenance: documents stuck in processing are
// marked failed, and PDF files whose document was deleted are removed.
// Both situations come from crashed workers or interrupted uploads.
type Janitor struct {
	cfg       *config.Config
	store     DocStore
	scheduler *gocron.Scheduler

	// Documents processing longer than this are considered stuck.
	staleAfter time.Duration
}

func NewJanitor(cfg *config.Config, store DocStore) *Janitor {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()

	return &Janitor{
		cfg:        cfg,
		store:      store,
		scheduler:  s,
		staleAfter: time.Hour,
	}
}

// Start schedules the maintenance jobs and runs them in the background.
func (j *Janitor) Start() error {
	if _, err := j.scheduler.Every(15).Minutes().Tag("stale-documents").Do(j.sweepStaleDocuments); err != nil {
		return err
	}
	if _, err := j.scheduler.Every(1).Hour().Tag("orphaned-pdfs").Do(j.sweepOrphanedPDFs); err != nil {
		return err
	}

	j.scheduler.StartAsync()
	log.Println("🧹 Janitor started (stale sweep: 15m, orphan sweep: 1h)")
	return nil
}

func (j *Janitor) Stop() {
	j.scheduler.Stop()
}

func (j *Janitor) sweepStaleDocuments() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	summaries, err := j.store.List(ctx)
	if err != nil {
		log.Printf("⚠️ Janitor: failed to list documents: %v", err)
		return
	}

	for _, sum := range summaries {
		if sum.Status != models.StatusProcessing && sum.Status != models.StatusPending {
			continue
		}
		doc, err := j.store.Get(ctx, sum.ID)
		if err != nil || doc == nil {
			continue
		}
		if time.Since(doc.UploadedAt) < j.staleAfter {
			continue
		}
		doc.Status = models.StatusFailed
		doc.ErrorMessage = "processing timed out"
		if err := j.store.Save(ctx, doc); err != nil {
			log.Printf("⚠️ Janitor: failed to mark %s failed: %v", doc.ID, err)
			continue
		}
		log.Printf("🧹 Janitor: marked stale document %s as failed", doc.ID)
	}
}

func (j *Janitor) sweepOrphanedPDFs() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	summaries, err := j.store.List(ctx)
	if err != nil {
		log.Printf("⚠️ Janitor: failed to list documents: %v", err)
		return
	}
	known := make(map[string]bool, len(summaries))
	for _, sum := range summaries {
		known[sum.ID] = true
	}

	pdfDir := filepath.Join(j.cfg.FileStorageDir, "pdfs")
	entries, err := os.ReadDir(pdfDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Janitor: failed to read %s: %v", pdfDir, err)
		}
		return
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".pdf") {
			continue
		}
		docID := strings.TrimSuffix(name, ".pdf")
		if known[docID] {
			continue
		}
		if err := os.Remove(filepath.Join(pdfDir, name)); err != nil {
			log.Printf("⚠️ Janitor: failed to remove orphan %s: %v", name, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("🧹 Janitor: removed %d orphaned PDF files", removed)
	}
}
