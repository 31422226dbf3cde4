package models

import (
	"time"
)

// PageContext holds everything extracted from a single PDF page.
// PageContext (the merged field) is derived from RawText, OCRText and
// Captions at ingestion time and is never edited afterwards.
type PageContext struct {
	PageID      int      `bson:"page_id" json:"page_id"` // 1-based, stable per document
	RawText     string   `bson:"raw_text" json:"raw_text"`
	OCRText     string   `bson:"ocr_text" json:"ocr_text"`
	Captions    []string `bson:"captions" json:"captions"`
	PageContext string   `bson:"page_context" json:"page_context"`
	Tokens      int      `bson:"tokens" json:"tokens"` // whitespace token count of PageContext
}

// Document is one ingested slide deck with its per-page contexts.
// The vector index is not persisted with the document; it is rebuilt
// on demand from PageContexts.
type Document struct {
	ID           string        `bson:"_id" json:"id"`
	Name         string        `bson:"name" json:"name"`
	PDFPath      string        `bson:"pdf_path,omitempty" json:"pdf_path,omitempty"`
	PageContexts []PageContext `bson:"page_contexts" json:"page_contexts"`
	Status       string        `bson:"status" json:"status"`
	ErrorMessage string        `bson:"error_message,omitempty" json:"error_message,omitempty"`
	UploadedAt   time.Time     `bson:"uploaded_at" json:"uploaded_at"`
	ProcessedAt  *time.Time    `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
}

// PageCount returns the number of ingested pages.
func (d *Document) PageCount() int {
	return len(d.PageContexts)
}

// Page returns the 0-based page at idx, or nil when out of range.
func (d *Document) Page(idx int) *PageContext {
	if idx < 0 || idx >= len(d.PageContexts) {
		return nil
	}
	return &d.PageContexts[idx]
}

// Document processing status constants.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// RetrievalResult is one semantic-index hit. Score is the backend's
// similarity (higher = more similar); 0.0 when the backend reports
// none. Results are ephemeral and never persisted.
type RetrievalResult struct {
	PageID int     `json:"page_id"` // 1-based, as stored in the index
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

// Citation points from generated answer text back to a source page.
type Citation struct {
	PageID int `json:"page_id"` // 0-based, frontend convention
}

// Flashcard is a single question/answer study card.
type Flashcard struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// QuizItem is a multiple-choice question with exactly four options.
// Answer always equals one of Options.
type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}
