package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-tutor-backend/internal/config"
	"ai-tutor-backend/models"
)

func TestJanitorSweepStaleDocuments(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskDocStore(t.TempDir())
	require.NoError(t, err)

	stale := &models.Document{
		ID:         "stale",
		Status:     models.StatusProcessing,
		UploadedAt: time.Now().Add(-2 * time.Hour),
	}
	fresh := &models.Document{
		ID:         "fresh",
		Status:     models.StatusProcessing,
		UploadedAt: time.Now(),
	}
	done := &models.Document{
		ID:         "done",
		Status:     models.StatusCompleted,
		UploadedAt: time.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, store.Save(ctx, stale))
	require.NoError(t, store.Save(ctx, fresh))
	require.NoError(t, store.Save(ctx, done))

	j := NewJanitor(&config.Config{}, store)
	j.sweepStaleDocuments()

	got, _ := store.Get(ctx, "stale")
	assert.Equal(t, models.StatusFailed, got.Status)
	assert.Equal(t, "processing timed out", got.ErrorMessage)

	got, _ = store.Get(ctx, "fresh")
	assert.Equal(t, models.StatusProcessing, got.Status)

	got, _ = store.Get(ctx, "done")
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestJanitorSweepOrphanedPDFs(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskDocStore(t.TempDir())
	require.NoError(t, err)

	storageDir := t.TempDir()
	pdfDir := filepath.Join(storageDir, "pdfs")
	require.NoError(t, os.MkdirAll(pdfDir, 0o755))

	require.NoError(t, store.Save(ctx, &models.Document{ID: "kept", Status: models.StatusCompleted}))
	require.NoError(t, os.WriteFile(filepath.Join(pdfDir, "kept.pdf"), []byte("%PDF-"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(pdfDir, "orphan.pdf"), []byte("%PDF-"), 0o600))

	j := NewJanitor(&config.Config{FileStorageDir: storageDir}, store)
	j.sweepOrphanedPDFs()

	_, err = os.Stat(filepath.Join(pdfDir, "kept.pdf"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(pdfDir, "orphan.pdf"))
	assert.True(t, os.IsNotExist(err))
}
