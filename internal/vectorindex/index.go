package vectorindex

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"ai-tutor-backend/internal/ai"
	"ai-tutor-backend/models"
)

// PagesCollection holds the per-page embeddings of the active document.
const PagesCollection = "pages"

// Index embeds page contexts and serves semantic retrieval over them.
// Query failures are swallowed: retrieval is best effort and the QA
// path has a full-document fallback.
type Index struct {
	embedder   ai.Embedder
	collection *Collection
}

func NewIndex(embedder ai.Embedder, store *Store) *Index {
	return &Index{
		embedder:   embedder,
		collection: store.Collection(PagesCollection),
	}
}

// Build replaces the index contents with the document's page contexts.
// Pages with an empty context are skipped; stored ids stay aligned with
// 1-based page numbers regardless.
func (ix *Index) Build(ctx context.Context, doc *models.Document) error {
	var texts []string
	var pageIDs []int
	for _, pc := range doc.PageContexts {
		if strings.TrimSpace(pc.PageContext) == "" {
			continue
		}
		texts = append(texts, pc.PageContext)
		pageIDs = append(pageIDs, pc.PageID)
	}

	if len(texts) == 0 {
		// Still clear: a rebuild for an empty document must not
		// leave the previous document's pages behind.
		return ix.collection.Rebuild(ctx, nil)
	}

	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d pages: %w", len(texts), err)
	}

	entries := make([]Entry, len(texts))
	for i := range texts {
		entries[i] = Entry{
			ID:       strconv.Itoa(pageIDs[i]),
			PageID:   pageIDs[i],
			Document: texts[i],
			Vector:   vectors[i],
		}
	}
	return ix.collection.Rebuild(ctx, entries)
}

// Query returns up to k pages most similar to the query text, best
// first. A blank query or any backend failure yields an empty result.
func (ix *Index) Query(ctx context.Context, query string, k int) []models.RetrievalResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if k < 1 {
		k = 1
	}

	vectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		log.Printf("⚠️ Query embedding failed: %v", err)
		return nil
	}

	hits, err := ix.collection.Query(ctx, vectors[0], k)
	if err != nil {
		log.Printf("⚠️ Vector query failed: %v", err)
		return nil
	}

	results := make([]models.RetrievalResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, models.RetrievalResult{
			PageID: h.PageID,
			Text:   h.Document,
			Score:  h.Score,
		})
	}
	return results
}

// Count reports the number of indexed pages.
func (ix *Index) Count(ctx context.Context) int {
	n, err := ix.collection.Count(ctx)
	if err != nil {
		return 0
	}
	return n
}
