package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-tutor-backend/internal/ai"
	"ai-tutor-backend/internal/cache"
	"ai-tutor-backend/internal/config"
)

// newTutorFixture wires a TutorService to a fake local model server
// that counts generation calls. Each response embeds the call number,
// so a cached reply is distinguishable from a fresh one.
func newTutorFixture(t *testing.T) (*TutorService, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"response":"generated %d","done":true}`, n)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		AppMode:     config.ModeLocal,
		OllamaModel: "phi3:mini",
	}
	generator := ai.NewGenerator(cfg, nil, ai.NewOllamaClient(srv.URL))
	return NewTutorService(generator, cache.NewLRU(16)), &calls
}

func TestTutorServiceCachesResponses(t *testing.T) {
	ctx := context.Background()
	tutor, calls := newTutorFixture(t)

	first := tutor.Explain(ctx, "slide about graphs", "")
	require.Equal(t, "generated 1", first)

	// identical operation, mode, model and prompt serve from cache
	second := tutor.Explain(ctx, "slide about graphs", "")
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load())
}

func TestTutorServiceCacheKeyIsolation(t *testing.T) {
	ctx := context.Background()
	tutor, calls := newTutorFixture(t)

	tutor.Explain(ctx, "slide about graphs", "")
	assert.Equal(t, int64(1), calls.Load())

	// a different operation over the same page misses
	tutor.Cheatsheet(ctx, "slide about graphs", "")
	assert.Equal(t, int64(2), calls.Load())

	// a different page context misses
	tutor.Explain(ctx, "slide about databases", "")
	assert.Equal(t, int64(3), calls.Load())

	// a model override changes the key
	tutor.Explain(ctx, "slide about graphs", "llama3.2:1b")
	assert.Equal(t, int64(4), calls.Load())

	// repeats of all four still hit
	tutor.Explain(ctx, "slide about graphs", "")
	tutor.Cheatsheet(ctx, "slide about graphs", "")
	tutor.Explain(ctx, "slide about databases", "")
	tutor.Explain(ctx, "slide about graphs", "llama3.2:1b")
	assert.Equal(t, int64(4), calls.Load())
}

func TestTutorServiceAnswerUsesContexts(t *testing.T) {
	ctx := context.Background()
	tutor, calls := newTutorFixture(t)

	contexts := []string{"[Slide 1]: graphs", "", "[Slide 2]: trees"}
	out := tutor.Answer(ctx, contexts, "what is a graph?", "")
	require.Equal(t, "generated 1", out)

	// blank blocks are dropped before rendering, so the key is stable
	again := tutor.Answer(ctx, []string{"[Slide 1]: graphs", "[Slide 2]: trees"}, "what is a graph?", "")
	assert.Equal(t, out, again)
	assert.Equal(t, int64(1), calls.Load())
}
