package vectorindex

import (
	"context"
	"strings"
	"testing"

	"ai-tutor-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps known words onto fixed unit vectors so similarity
// ordering is deterministic.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		switch {
		case strings.Contains(t, "networks"):
			out[i] = []float32{1, 0, 0}
		case strings.Contains(t, "databases"):
			out[i] = []float32{0, 1, 0}
		default:
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewIndex(fakeEmbedder{}, store)
}

func testDoc() *models.Document {
	return &models.Document{
		ID: "doc-1",
		PageContexts: []models.PageContext{
			{PageID: 1, PageContext: "TEXT:\nintro to networks"},
			{PageID: 2, PageContext: "TEXT:\nintro to databases"},
			{PageID: 3, PageContext: "TEXT:\nclosing remarks"},
		},
	}
}

func TestBuildAndQuery(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	require.NoError(t, ix.Build(ctx, testDoc()))
	assert.Equal(t, 3, ix.Count(ctx))

	results := ix.Query(ctx, "question about networks", 2)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].PageID)
	assert.Contains(t, results[0].Text, "networks")
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestBuildStoresStringifiedPageIDs(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	require.NoError(t, ix.Build(ctx, testDoc()))

	hits, err := ix.collection.Query(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	ids := make(map[int]string, len(hits))
	for _, h := range hits {
		ids[h.PageID] = h.ID
	}
	assert.Equal(t, map[int]string{1: "1", 2: "2", 3: "3"}, ids)
}

func TestBuildIsDestructive(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	require.NoError(t, ix.Build(ctx, testDoc()))

	replacement := &models.Document{
		ID: "doc-2",
		PageContexts: []models.PageContext{
			{PageID: 1, PageContext: "TEXT:\nonly page about databases"},
		},
	}
	require.NoError(t, ix.Build(ctx, replacement))
	assert.Equal(t, 1, ix.Count(ctx))

	results := ix.Query(ctx, "networks", 5)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].PageID)
}

func TestBuildEmptyDocumentClears(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	require.NoError(t, ix.Build(ctx, testDoc()))
	require.NoError(t, ix.Build(ctx, &models.Document{ID: "empty"}))
	assert.Equal(t, 0, ix.Count(ctx))
}

func TestBuildSkipsBlankPages(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	doc := &models.Document{
		ID: "doc-3",
		PageContexts: []models.PageContext{
			{PageID: 1, PageContext: "TEXT:\nnetworks"},
			{PageID: 2, PageContext: "   "},
			{PageID: 3, PageContext: "TEXT:\ndatabases"},
		},
	}
	require.NoError(t, ix.Build(ctx, doc))
	assert.Equal(t, 2, ix.Count(ctx))

	results := ix.Query(ctx, "databases", 1)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].PageID)
}

func TestQueryBlankAndClamp(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)
	require.NoError(t, ix.Build(ctx, testDoc()))

	assert.Empty(t, ix.Query(ctx, "   ", 3))

	// non-positive k is treated as 1
	results := ix.Query(ctx, "networks", 0)
	assert.Len(t, results, 1)
}
