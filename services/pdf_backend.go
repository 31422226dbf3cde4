package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"ai-tutor-backend/internal/config"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFBackend reads slide decks: per-page text, embedded images and
// rendered page bitmaps. Text comes from the pure-Go reader, image
// extraction from pdfcpu, and page rendering shells out to poppler's
// pdftoppm when it is installed.
type PDFBackend struct {
	config *config.Config
}

func NewPDFBackend(cfg *config.Config) *PDFBackend {
	return &PDFBackend{config: cfg}
}

// PageImage is one embedded image with the 1-based page it appears on.
type PageImage struct {
	PageNr int
	Name   string
	Data   []byte
}

// PageCount reads the page count without extracting anything.
func (b *PDFBackend) PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfContext, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	return pdfContext.PageCount, nil
}

// PageTexts returns the text layer of every page, index 0 = page 1. A
// page whose text layer cannot be read yields an empty string instead
// of failing the whole document.
func (b *PDFBackend) PageTexts(path string) ([]string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat PDF file: %w", err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF (%d bytes): %w", stat.Size(), err)
	}
	defer f.Close()

	pages := reader.NumPage()
	texts := make([]string, pages)
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			fmt.Printf("Warning: failed to extract text from page %d: %v\n", i, err)
			continue
		}
		texts[i-1] = text
	}
	return texts, nil
}

// PageImages extracts the embedded images of all pages, grouped by
// 1-based page number.
func (b *PDFBackend) PageImages(ctx context.Context, path string) (map[int][]PageImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	images, err := api.ExtractImagesRaw(f, nil, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	// One map of object number to image per processed page.
	out := make(map[int][]PageImage)
	for _, pageImages := range images {
		for _, img := range pageImages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			data, err := io.ReadAll(img)
			if err != nil {
				fmt.Printf("Warning: failed to read image %s on page %d: %v\n", img.Name, img.PageNr, err)
				continue
			}
			out[img.PageNr] = append(out[img.PageNr], PageImage{
				PageNr: img.PageNr,
				Name:   img.Name,
				Data:   data,
			})
		}
	}
	return out, nil
}

// RenderPage rasterizes one page (1-based) to PNG for the OCR
// fallback. Requires pdftoppm on PATH; callers treat an error as "no
// bitmap available" and move on.
func (b *PDFBackend) RenderPage(ctx context.Context, path string, pageNum int) ([]byte, error) {
	if !hasBinary("pdftoppm") {
		return nil, fmt.Errorf("pdftoppm not available")
	}

	renderCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pageArg := strconv.Itoa(pageNum)
	cmd := exec.CommandContext(renderCtx, "pdftoppm",
		"-png",
		"-r", strconv.Itoa(b.config.RenderDPI),
		"-f", pageArg,
		"-l", pageArg,
		path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("pdftoppm produced no output for page %d", pageNum)
	}
	return stdout.Bytes(), nil
}

// NormalizeImage re-encodes an embedded image as RGB(A) PNG so the
// caption service never sees CMYK or exotic encodings. Undecodable
// data passes through unchanged.
func NormalizeImage(data []byte) []byte {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	if format == "png" {
		return data
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return data
	}
	return buf.Bytes()
}

// hasBinary checks if a binary executable exists in PATH
func hasBinary(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
