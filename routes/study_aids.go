package routes

import (
	"log"
	"net/http"

	"ai-tutor-backend/models"
	"ai-tutor-backend/services"
	"ai-tutor-backend/utils"

	"github.com/gin-gonic/gin"
)

// Study-aid endpoints all follow the same shape: resolve the document,
// resolve the requested page (0-based), generate from its merged page
// context.

func bindStudyAidPage(c *gin.Context, store services.DocStore) (*models.PageContext, *models.StudyAidRequest, bool) {
	doc, ok := loadDocument(c, store)
	if !ok {
		return nil, nil, false
	}

	var req models.StudyAidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
		return nil, nil, false
	}

	page := doc.Page(req.PageID)
	if page == nil {
		utils.RespondWithNotFound(c, "Page not found")
		return nil, nil, false
	}
	return page, &req, true
}

// HandleExplain generates a short tutorial for one page.
func HandleExplain(store services.DocStore, tutor *services.TutorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, req, ok := bindStudyAidPage(c, store)
		if !ok {
			return
		}
		log.Printf("💡 Explain request: page_id=%d, model=%q", req.PageID, req.Model)
		explanation := tutor.Explain(c.Request.Context(), page.PageContext, req.Model)
		c.JSON(http.StatusOK, models.ExplainResponse{Explanation: explanation})
	}
}

// HandleFlashcards generates flashcards for one page.
func HandleFlashcards(store services.DocStore, tutor *services.TutorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, req, ok := bindStudyAidPage(c, store)
		if !ok {
			return
		}
		log.Printf("🎴 Flashcards request: page_id=%d, model=%q", req.PageID, req.Model)
		cards := tutor.Flashcards(c.Request.Context(), page.PageContext, req.Model)
		if cards == nil {
			cards = []models.Flashcard{}
		}
		c.JSON(http.StatusOK, models.FlashcardsResponse{Flashcards: cards})
	}
}

// HandleQuiz generates a multiple-choice quiz for one page.
func HandleQuiz(store services.DocStore, tutor *services.TutorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, req, ok := bindStudyAidPage(c, store)
		if !ok {
			return
		}
		log.Printf("📝 Quiz request: page_id=%d, model=%q", req.PageID, req.Model)
		items := tutor.Quiz(c.Request.Context(), page.PageContext, req.Model)
		c.JSON(http.StatusOK, models.QuizResponse{Quiz: items})
	}
}

// HandleCheatsheet generates a compact cheatsheet for one page.
func HandleCheatsheet(store services.DocStore, tutor *services.TutorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, req, ok := bindStudyAidPage(c, store)
		if !ok {
			return
		}
		log.Printf("📋 Cheatsheet request: page_id=%d, model=%q", req.PageID, req.Model)
		content := tutor.Cheatsheet(c.Request.Context(), page.PageContext, req.Model)
		c.JSON(http.StatusOK, models.CheatsheetResponse{Cheatsheet: content})
	}
}
