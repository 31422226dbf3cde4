package routes

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-tutor-backend/internal/config"
	"ai-tutor-backend/internal/queue"
	"ai-tutor-backend/models"
	"ai-tutor-backend/services"
	"ai-tutor-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// HandleDocumentUpload ingests an uploaded slide-deck PDF. Small files
// are processed inline; files over the sync limit are queued and the
// client polls the document status.
func HandleDocumentUpload(cfg *config.Config, store services.DocStore, ingestion *services.IngestionService, queueClient *asynq.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "file_too_large", "File size exceeds maximum limit", nil)
			return
		}

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "no_file", "No PDF file provided", nil)
			return
		}
		defer file.Close()

		ct := header.Header.Get("Content-Type")
		if !strings.Contains(ct, "pdf") && !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_file_type", "Only PDF files are allowed", nil)
			return
		}
		if header.Size > cfg.MaxFileSize {
			utils.RespondWithError(c, http.StatusBadRequest, "file_too_large", "File size exceeds maximum limit", nil)
			return
		}

		// Basic PDF header validation without loading the whole file
		headerBuf := make([]byte, 5)
		if _, err := io.ReadFull(file, headerBuf); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_file", "Cannot read file header", nil)
			return
		}
		if string(headerBuf[:4]) != "%PDF" {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_pdf", "File does not appear to be a valid PDF", nil)
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			utils.RespondWithInternalError(c, "Failed to reset file for saving", nil)
			return
		}

		docID := uuid.NewString()

		uploadDir := filepath.Join(cfg.FileStorageDir, "pdfs")
		if err := os.MkdirAll(uploadDir, 0755); err != nil {
			utils.RespondWithInternalError(c, "Failed to create upload directory", nil)
			return
		}

		filePath := filepath.Join(uploadDir, fmt.Sprintf("%s.pdf", docID))
		dst, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to open destination", nil)
			return
		}
		defer dst.Close()
		if _, err := io.Copy(dst, io.LimitReader(file, cfg.MaxFileSize)); err != nil {
			utils.RespondWithInternalError(c, "Failed to save file", nil)
			return
		}

		doc := &models.Document{
			ID:         docID,
			Name:       header.Filename,
			PDFPath:    filePath,
			Status:     models.StatusPending,
			UploadedAt: time.Now(),
		}
		if err := store.Save(c.Request.Context(), doc); err != nil {
			os.Remove(filePath)
			utils.RespondWithInternalError(c, "Failed to register document", nil)
			return
		}

		// Queue large decks or explicit async requests; OCR and
		// captioning can take minutes.
		wantsAsync := c.PostForm("async") == "true"
		if queueClient != nil && (wantsAsync || header.Size > cfg.SyncProcessingLimit) {
			task, err := queue.NewIngestDocTask(docID)
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to create processing task", nil)
				return
			}
			info, err := queueClient.Enqueue(task)
			if err != nil {
				utils.RespondWithInternalError(c, "Failed to enqueue processing task", nil)
				return
			}
			log.Printf("📤 Queued ingestion of %s (task %s)", docID, info.ID)
			c.JSON(http.StatusAccepted, models.IngestResponse{
				DocID:  docID,
				Name:   header.Filename,
				Status: models.StatusPending,
				TaskID: info.ID,
			})
			return
		}

		if err := ingestion.Process(c.Request.Context(), doc); err != nil {
			utils.RespondWithInternalError(c, "Document processing failed", err.Error())
			return
		}

		c.JSON(http.StatusOK, models.IngestResponse{
			DocID:  docID,
			Name:   header.Filename,
			Status: doc.Status,
			Pages:  doc.PageCount(),
		})
	}
}

// HandleListDocuments lists all ingested documents.
func HandleListDocuments(store services.DocStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := store.List(c.Request.Context())
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list documents", nil)
			return
		}
		if summaries == nil {
			summaries = []models.DocumentSummary{}
		}
		c.JSON(http.StatusOK, gin.H{"documents": summaries})
	}
}

// HandleDeleteDocument removes a document, its stored file and its
// persisted contexts.
func HandleDeleteDocument(store services.DocStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		docID := c.Param("docID")

		doc, err := store.Get(c.Request.Context(), docID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load document", nil)
			return
		}
		if doc == nil {
			utils.RespondWithNotFound(c, "Document not found")
			return
		}

		if doc.PDFPath != "" {
			if err := os.Remove(doc.PDFPath); err != nil && !os.IsNotExist(err) {
				log.Printf("⚠️ Failed to remove PDF file %s: %v", doc.PDFPath, err)
			}
		}
		if err := store.Delete(c.Request.Context(), docID); err != nil {
			utils.RespondWithInternalError(c, "Failed to delete document", nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": docID})
	}
}
