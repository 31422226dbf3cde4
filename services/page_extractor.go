package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ai-tutor-backend/internal/config"
	"ai-tutor-backend/internal/textproc"
	"ai-tutor-backend/models"
)

// PageExtractor turns a slide-deck PDF into per-page contexts. Each
// page independently collects its text layer, an OCR fallback when the
// text layer is too thin, and captions for its embedded images; one
// bad page or image never fails the document.
type PageExtractor struct {
	config  *config.Config
	pdf     *PDFBackend
	ocr     *OCRClient
	caption *CaptionClient
}

func NewPageExtractor(cfg *config.Config, pdf *PDFBackend, ocr *OCRClient, caption *CaptionClient) *PageExtractor {
	return &PageExtractor{
		config:  cfg,
		pdf:     pdf,
		ocr:     ocr,
		caption: caption,
	}
}

// ExtractPages processes every page of the PDF at path. Page ids are
// dense and 1-based: page N of the file is always element N-1.
func (e *PageExtractor) ExtractPages(ctx context.Context, path string) ([]models.PageContext, error) {
	tracer := otel.Tracer("page-extractor")
	ctx, span := tracer.Start(ctx, "extract.pages")
	defer span.End()

	texts, err := e.pdf.PageTexts(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract page texts: %w", err)
	}
	span.SetAttributes(attribute.Int("extract.pages", len(texts)))

	// Embedded image extraction is best effort; a structurally odd
	// PDF still gets text and OCR.
	imagesByPage, err := e.pdf.PageImages(ctx, path)
	if err != nil {
		log.Printf("⚠️ Image extraction failed, continuing without captions: %v", err)
		imagesByPage = nil
	}

	pages := make([]models.PageContext, 0, len(texts))
	for i, rawText := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageID := i + 1

		ocrText := ""
		if len(strings.TrimSpace(rawText)) < e.config.ShortTextThreshold {
			ocrText = e.ocrPage(ctx, path, pageID)
		}

		var captions []string
		for _, img := range imagesByPage[pageID] {
			text := e.caption.Caption(ctx, NormalizeImage(img.Data), img.Name+".png")
			if text != "" {
				captions = append(captions, text)
			}
		}

		pageContext := textproc.MergeFields(rawText, ocrText, captions)
		pages = append(pages, models.PageContext{
			PageID:      pageID,
			RawText:     rawText,
			OCRText:     ocrText,
			Captions:    captions,
			PageContext: pageContext,
			Tokens:      textproc.WordTokens(pageContext),
		})

		log.Printf("📄 Page %d: raw=%d chars, ocr=%d chars, captions=%d, tokens=%d",
			pageID, len(rawText), len(ocrText), len(captions), pages[i].Tokens)
	}

	return pages, nil
}

// ocrPage renders one page and runs it through the OCR sidecar. Any
// failure in the render-OCR chain yields an empty string.
func (e *PageExtractor) ocrPage(ctx context.Context, path string, pageID int) string {
	bitmap, err := e.pdf.RenderPage(ctx, path, pageID)
	if err != nil {
		log.Printf("⚠️ Page %d render failed, skipping OCR: %v", pageID, err)
		return ""
	}
	return e.ocr.ExtractText(ctx, bitmap, fmt.Sprintf("page-%d.png", pageID))
}
