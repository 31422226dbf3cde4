package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-tutor-backend/internal/vectorindex"
	"ai-tutor-backend/models"
)

// axisEmbedder maps texts onto fixed unit vectors by keyword so
// retrieval ordering is deterministic.
type axisEmbedder struct{}

func (axisEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		lower := strings.ToLower(t)
		switch {
		case strings.Contains(lower, "graph"):
			out[i] = []float32{1, 0, 0}
		case strings.Contains(lower, "database"):
			out[i] = []float32{0, 1, 0}
		default:
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

func newRetrieverFixture(t *testing.T) (*Retriever, *models.Document) {
	t.Helper()

	store, err := vectorindex.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	index := vectorindex.NewIndex(axisEmbedder{}, store)

	doc := &models.Document{
		ID:   "doc-1",
		Name: "algorithms.pdf",
		PageContexts: []models.PageContext{
			{PageID: 1, PageContext: "TEXT:\nGraph algorithms and shortest paths in weighted networks."},
			{PageID: 2, PageContext: "TEXT:\nRelational database normalization and SQL schema design."},
			{PageID: 3, PageContext: "short"},
		},
	}
	require.NoError(t, index.Build(context.Background(), doc))

	return NewRetriever(index), doc
}

func TestSelectContext(t *testing.T) {
	ctx := context.Background()

	t.Run("semantic hits", func(t *testing.T) {
		retriever, doc := newRetrieverFixture(t)

		sel := retriever.SelectContext(ctx, doc, "How do graph shortest paths work?", nil, 2)
		require.NotEmpty(t, sel.Contexts)
		assert.True(t, strings.HasPrefix(sel.Contexts[0], "[Slide 1]:"))
		require.NotEmpty(t, sel.Citations)
		assert.Equal(t, 0, sel.Citations[0].PageID)
	})

	t.Run("pinned page comes first", func(t *testing.T) {
		retriever, doc := newRetrieverFixture(t)

		pinned := 1
		sel := retriever.SelectContext(ctx, doc, "How do graph shortest paths work?", &pinned, 2)
		require.NotEmpty(t, sel.Contexts)
		assert.True(t, strings.HasPrefix(sel.Contexts[0], "[Current Slide 2]:"))
		assert.Equal(t, 1, sel.Citations[0].PageID)
	})

	t.Run("short pages are skipped", func(t *testing.T) {
		retriever, doc := newRetrieverFixture(t)

		pinned := 2 // "short", under the signal threshold
		sel := retriever.SelectContext(ctx, doc, "anything about databases", &pinned, 3)
		for _, c := range sel.Contexts {
			assert.NotContains(t, c, "Current Slide")
			assert.NotContains(t, c, "[Slide 3]")
		}
	})

	t.Run("out-of-range pin is ignored", func(t *testing.T) {
		retriever, doc := newRetrieverFixture(t)

		pinned := 99
		sel := retriever.SelectContext(ctx, doc, "database normalization", &pinned, 1)
		require.NotEmpty(t, sel.Contexts)
		assert.True(t, strings.HasPrefix(sel.Contexts[0], "[Slide 2]:"))
	})
}

func TestContextStringFallback(t *testing.T) {
	doc := &models.Document{
		PageContexts: []models.PageContext{
			{PageID: 1, PageContext: "first page"},
			{PageID: 2, PageContext: "second page"},
		},
	}

	var sel ContextSelection
	assert.Equal(t, "first page\n\nsecond page", sel.ContextString(doc))

	sel.Contexts = []string{"[Slide 1]: first page"}
	assert.Equal(t, "[Slide 1]: first page", sel.ContextString(doc))
}

func TestExtractCitations(t *testing.T) {
	answer := "See [Slide 3] for the proof, also [slide 3] again, " +
		"[Slide 1] for definitions and [Slide 9999] which does not exist."

	citations := ExtractCitations(answer, 5)
	require.Len(t, citations, 2)
	assert.Equal(t, 2, citations[0].PageID)
	assert.Equal(t, 0, citations[1].PageID)

	assert.Empty(t, ExtractCitations("no citations here", 5))
	assert.Empty(t, ExtractCitations("[Slide 0] is not a page", 5))
}
