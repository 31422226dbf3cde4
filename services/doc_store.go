package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"ai-tutor-backend/models"
	"ai-tutor-backend/utils"
)

// DocStore holds ingested documents. Implementations keep the full
// page contexts; the vector index is rebuilt on demand and never
// persisted here.
type DocStore interface {
	Save(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, docID string) (*models.Document, error)
	List(ctx context.Context) ([]models.DocumentSummary, error)
	Delete(ctx context.Context, docID string) error
}

// DiskDocStore keeps documents in memory and mirrors them to gzipped
// JSON files so a restart does not lose ingested decks.
type DiskDocStore struct {
	mu      sync.RWMutex
	docsDir string
	docs    map[string]*models.Document
}

// NewDiskDocStore creates the store and loads any persisted documents.
// Files that fail to load are skipped, not fatal.
func NewDiskDocStore(docsDir string) (*DiskDocStore, error) {
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create docs directory: %w", err)
	}

	s := &DiskDocStore{
		docsDir: docsDir,
		docs:    make(map[string]*models.Document),
	}
	s.loadFromDisk()
	return s, nil
}

func (s *DiskDocStore) Save(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.ID] = doc
	if err := s.saveToDisk(doc); err != nil {
		// Persistence is best effort; memory stays authoritative.
		log.Printf("⚠️ Failed to persist document %s: %v", doc.ID, err)
	}
	return nil
}

func (s *DiskDocStore) Get(_ context.Context, docID string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[docID]
	if !ok {
		return nil, nil
	}
	return doc, nil
}

func (s *DiskDocStore) List(_ context.Context) ([]models.DocumentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]models.DocumentSummary, 0, len(s.docs))
	for _, doc := range s.docs {
		summaries = append(summaries, models.DocumentSummary{
			ID:     doc.ID,
			Name:   doc.Name,
			Status: doc.Status,
			Pages:  doc.PageCount(),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

func (s *DiskDocStore) Delete(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, docID)
	if err := os.Remove(s.docPath(docID)); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Failed to remove persisted document %s: %v", docID, err)
	}
	return nil
}

func (s *DiskDocStore) docPath(docID string) string {
	return filepath.Join(s.docsDir, docID+".json.gz")
}

func (s *DiskDocStore) saveToDisk(doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	compressed, err := utils.CompressData(data, utils.CompressionGzip)
	if err != nil {
		return err
	}
	return os.WriteFile(s.docPath(doc.ID), compressed, 0o644)
}

func (s *DiskDocStore) loadFromDisk() {
	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		log.Printf("⚠️ Failed to read docs directory: %v", err)
		return
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json.gz") {
			continue
		}
		path := filepath.Join(s.docsDir, entry.Name())
		compressed, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️ Skipping %s: %v", entry.Name(), err)
			continue
		}
		data, err := utils.DecompressData(compressed, utils.CompressionGzip)
		if err != nil {
			log.Printf("⚠️ Skipping %s: %v", entry.Name(), err)
			continue
		}
		var doc models.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			log.Printf("⚠️ Skipping %s: %v", entry.Name(), err)
			continue
		}
		s.docs[doc.ID] = &doc
		loaded++
	}
	if loaded > 0 {
		log.Printf("📚 Loaded %d persisted documents", loaded)
	}
}
