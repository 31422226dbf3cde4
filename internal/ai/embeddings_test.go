package ai

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"embedding":[3,4]}`))
	}))
	defer srv.Close()

	e := &OllamaEmbedder{
		baseURL:    srv.URL,
		model:      "nomic-embed-text",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	vecs, err := e.Embed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	for _, v := range vecs {
		if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
			t.Errorf("expected normalized [0.6 0.8], got %v", v)
		}
	}
}

func TestOllamaEmbedderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := &OllamaEmbedder{
		baseURL:    srv.URL,
		model:      "nomic-embed-text",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}

	if _, err := e.Embed(context.Background(), []string{"one"}); err == nil {
		t.Fatal("expected error for server failure")
	}
}

func TestGoogleEmbedderIntegration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set, skipping integration test")
	}

	e := &GoogleEmbedder{apiKey: apiKey, model: "text-embedding-004"}
	defer e.Close()

	vecs, err := e.Embed(context.Background(), []string{"slide about graphs", "slide about databases"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	for i, v := range vecs {
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		if math.Abs(sum-1.0) > 1e-3 {
			t.Errorf("vector %d is not unit length: %f", i, sum)
		}
	}
}
