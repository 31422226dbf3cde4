package routes

import (
	"net/http"
	"strconv"

	"ai-tutor-backend/models"
	"ai-tutor-backend/services"
	"ai-tutor-backend/utils"

	"github.com/gin-gonic/gin"
)

// HandleGetDocument returns a document's status and page count.
func HandleGetDocument(store services.DocStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := loadDocument(c, store)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":            doc.ID,
			"name":          doc.Name,
			"status":        doc.Status,
			"pages":         doc.PageCount(),
			"uploaded_at":   doc.UploadedAt,
			"processed_at":  doc.ProcessedAt,
			"error_message": doc.ErrorMessage,
		})
	}
}

// HandleListPages returns all page contexts of a document.
func HandleListPages(store services.DocStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := loadDocument(c, store)
		if !ok {
			return
		}
		pages := doc.PageContexts
		if pages == nil {
			pages = []models.PageContext{}
		}
		c.JSON(http.StatusOK, gin.H{"pages": pages})
	}
}

// HandleGetPage returns one page context. The URL page id is 0-based,
// matching what the frontend viewer tracks.
func HandleGetPage(store services.DocStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := loadDocument(c, store)
		if !ok {
			return
		}

		pageID, err := strconv.Atoi(c.Param("pageID"))
		if err != nil {
			utils.RespondWithBadRequest(c, "Invalid page id", nil)
			return
		}
		page := doc.Page(pageID)
		if page == nil {
			utils.RespondWithNotFound(c, "Page not found")
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// loadDocument resolves the :docID parameter, writing the error
// response itself when the document is missing.
func loadDocument(c *gin.Context, store services.DocStore) (*models.Document, bool) {
	docID := c.Param("docID")
	doc, err := store.Get(c.Request.Context(), docID)
	if err != nil {
		utils.RespondWithInternalError(c, "Failed to load document", nil)
		return nil, false
	}
	if doc == nil {
		utils.RespondWithNotFound(c, "Document not found")
		return nil, false
	}
	return doc, true
}
