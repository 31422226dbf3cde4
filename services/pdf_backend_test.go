package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-tutor-backend/internal/config"
)

// writeMinimalPDF assembles a valid single-page PDF with no embedded
// images. Object offsets are computed while writing, so the xref table
// is always correct.
func writeMinimalPDF(t *testing.T) string {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefPos)

	path := filepath.Join(t.TempDir(), "deck.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestPDFBackendPageCount(t *testing.T) {
	backend := NewPDFBackend(&config.Config{})

	n, err := backend.PageCount(writeMinimalPDF(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPDFBackendPageCountMissingFile(t *testing.T) {
	backend := NewPDFBackend(&config.Config{})

	_, err := backend.PageCount(filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}

func TestPDFBackendPageImages(t *testing.T) {
	backend := NewPDFBackend(&config.Config{})

	// A deck without figures yields an empty map, not an error.
	out, err := backend.PageImages(context.Background(), writeMinimalPDF(t))
	require.NoError(t, err)
	assert.Empty(t, out)
}
