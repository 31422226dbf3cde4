package routes

import (
	"log"
	"net/http"

	"ai-tutor-backend/internal/config"
	"ai-tutor-backend/internal/vectorindex"
	"ai-tutor-backend/models"
	"ai-tutor-backend/services"
	"ai-tutor-backend/utils"

	"github.com/gin-gonic/gin"
)

// HandleQA answers a question against an ingested document. The
// retrieval selector builds slide contexts, the model answers with
// [Slide N] citations, and only the citations the model actually used
// come back to the caller.
func HandleQA(cfg *config.Config, store services.DocStore, retriever *services.Retriever, tutor *services.TutorService, ingestion *services.IngestionService, index *vectorindex.Index) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := loadDocument(c, store)
		if !ok {
			return
		}

		var req models.QARequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		k := req.K
		if k <= 0 {
			k = cfg.RetrievalK
		}
		log.Printf("❓ Q&A request: doc=%s, k=%d, page_id=%v, model=%q", doc.ID, k, req.PageID, req.Model)

		ctx := c.Request.Context()

		// After a restart the index is empty; rebuild from the stored
		// page contexts before querying.
		if index.Count(ctx) == 0 && doc.PageCount() > 0 {
			if err := ingestion.RebuildIndex(ctx, doc); err != nil {
				log.Printf("⚠️ Failed to rebuild index: %v", err)
			}
		}

		sel := retriever.SelectContext(ctx, doc, req.Question, req.PageID, k)

		contexts := sel.Contexts
		if len(contexts) == 0 {
			// Retrieval found nothing usable; hand the model the
			// whole document instead of nothing.
			contexts = []string{sel.ContextString(doc)}
		}

		answer := tutor.Answer(ctx, contexts, req.Question, req.Model)
		log.Printf("✅ Answer generated: %d chars", len(answer))

		citations := services.ExtractCitations(answer, doc.PageCount())
		if citations == nil {
			citations = []models.Citation{}
		}
		usedContexts := sel.Contexts
		if usedContexts == nil {
			usedContexts = []string{}
		}

		c.JSON(http.StatusOK, models.QAResponse{
			Answer:       answer,
			Citations:    citations,
			UsedContexts: usedContexts,
		})
	}
}
