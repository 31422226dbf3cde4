package services

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	"ai-tutor-backend/internal/textproc"
	"ai-tutor-backend/internal/vectorindex"
	"ai-tutor-backend/models"
)

// Context blocks are capped so the prompt stays within budget.
const (
	contextSnippetLen = 500
	maxCitations      = 5
	minContextChars   = 20
)

var slideCitation = regexp.MustCompile(`(?i)\[Slide\s+(\d+)\]`)

// ContextSelection is the retrieval outcome for one question: the
// formatted context blocks handed to the LLM and the pages they came
// from.
type ContextSelection struct {
	Contexts  []string
	Citations []models.Citation
}

// Retriever picks slide contexts for a question. The pinned page (the
// slide the student is looking at) is always considered first, then
// semantic hits fill the rest.
type Retriever struct {
	index *vectorindex.Index
}

func NewRetriever(index *vectorindex.Index) *Retriever {
	return &Retriever{index: index}
}

// SelectContext builds the context blocks for a question. pinnedPage is
// 0-based; a nil or out-of-range pin is ignored. Pages whose context
// trims below 20 characters carry no signal and are skipped.
func (r *Retriever) SelectContext(ctx context.Context, doc *models.Document, question string, pinnedPage *int, k int) ContextSelection {
	var sel ContextSelection
	totalPages := doc.PageCount()

	if pinnedPage != nil {
		if pc := doc.Page(*pinnedPage); pc != nil {
			text := pc.PageContext
			if len(strings.TrimSpace(text)) > minContextChars {
				sel.Contexts = append(sel.Contexts,
					textproc.FormatSlideContext("Current Slide", *pinnedPage+1, text, contextSnippetLen))
				sel.Citations = append(sel.Citations, models.Citation{PageID: *pinnedPage})
			}
		}
	}

	results := r.index.Query(ctx, question, k)
	log.Printf("🔍 Retrieved %d candidate pages for question", len(results))

	for _, res := range results {
		if len(strings.TrimSpace(res.Text)) <= minContextChars {
			continue
		}
		// Stored page ids are 1-based; citations are 0-based.
		pageID := res.PageID - 1
		if pageID < 0 || pageID >= totalPages {
			log.Printf("⚠️ Ignoring hit with invalid page_id %d (doc has %d pages)", res.PageID, totalPages)
			continue
		}
		sel.Contexts = append(sel.Contexts,
			textproc.FormatSlideContext("Slide", pageID+1, res.Text, contextSnippetLen))
		sel.Citations = append(sel.Citations, models.Citation{PageID: pageID})
	}

	sel.Citations = dedupCitations(sel.Citations, maxCitations)
	return sel
}

// ContextString joins the selected blocks, falling back to the whole
// document when retrieval produced nothing usable.
func (sel ContextSelection) ContextString(doc *models.Document) string {
	if len(sel.Contexts) > 0 {
		return strings.Join(sel.Contexts, "\n\n")
	}
	parts := make([]string, 0, len(doc.PageContexts))
	for _, pc := range doc.PageContexts {
		parts = append(parts, pc.PageContext)
	}
	return strings.Join(parts, "\n\n")
}

// ExtractCitations pulls the [Slide N] markers the model actually used
// in its answer. Slide numbers are 1-based in answers, 0-based in
// citations; out-of-range and repeated slides are dropped.
func ExtractCitations(answer string, totalPages int) []models.Citation {
	var citations []models.Citation
	seen := map[int]bool{}
	for _, m := range slideCitation.FindAllStringSubmatch(answer, -1) {
		slideNum, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pageID := slideNum - 1
		if pageID < 0 || pageID >= totalPages || seen[pageID] {
			continue
		}
		citations = append(citations, models.Citation{PageID: pageID})
		seen[pageID] = true
	}
	return citations
}

func dedupCitations(citations []models.Citation, limit int) []models.Citation {
	if len(citations) > limit {
		citations = citations[:limit]
	}
	seen := map[int]bool{}
	var out []models.Citation
	for _, c := range citations {
		if seen[c.PageID] {
			continue
		}
		out = append(out, c)
		seen[c.PageID] = true
	}
	return out
}
