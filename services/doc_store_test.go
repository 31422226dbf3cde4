package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-tutor-backend/models"
)

func testDocument(id string) *models.Document {
	return &models.Document{
		ID:     id,
		Name:   id + ".pdf",
		Status: models.StatusCompleted,
		PageContexts: []models.PageContext{
			{PageID: 1, RawText: "hello", PageContext: "TEXT:\nhello", Tokens: 2},
			{PageID: 2, RawText: "world", PageContext: "TEXT:\nworld", Tokens: 2},
		},
		UploadedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestDiskDocStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		store, err := NewDiskDocStore(t.TempDir())
		require.NoError(t, err)

		doc := testDocument("doc-a")
		require.NoError(t, store.Save(ctx, doc))

		got, err := store.Get(ctx, "doc-a")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, doc.Name, got.Name)
		assert.Equal(t, 2, got.PageCount())
	})

	t.Run("missing document", func(t *testing.T) {
		store, err := NewDiskDocStore(t.TempDir())
		require.NoError(t, err)

		got, err := store.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list is sorted", func(t *testing.T) {
		store, err := NewDiskDocStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, testDocument("doc-b")))
		require.NoError(t, store.Save(ctx, testDocument("doc-a")))

		summaries, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "doc-a", summaries[0].ID)
		assert.Equal(t, "doc-b", summaries[1].ID)
		assert.Equal(t, 2, summaries[0].Pages)
	})

	t.Run("delete", func(t *testing.T) {
		store, err := NewDiskDocStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, testDocument("doc-a")))
		require.NoError(t, store.Delete(ctx, "doc-a"))

		got, err := store.Get(ctx, "doc-a")
		require.NoError(t, err)
		assert.Nil(t, got)

		// Deleting twice is fine.
		require.NoError(t, store.Delete(ctx, "doc-a"))
	})

	t.Run("survives restart", func(t *testing.T) {
		dir := t.TempDir()

		store, err := NewDiskDocStore(dir)
		require.NoError(t, err)
		doc := testDocument("doc-a")
		require.NoError(t, store.Save(ctx, doc))

		reopened, err := NewDiskDocStore(dir)
		require.NoError(t, err)
		got, err := reopened.Get(ctx, "doc-a")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, doc.Name, got.Name)
		assert.Equal(t, doc.PageContexts, got.PageContexts)
		assert.True(t, doc.UploadedAt.Equal(got.UploadedAt))
	})
}
