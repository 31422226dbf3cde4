package ai

import (
	"context"
	"log"
	"strings"
	"time"

	"ai-tutor-backend/internal/config"
)

// GenerationConfig is the immutable per-call backend selection. It is
// resolved once from the request's model override and passed down, so
// concurrent requests with different overrides never interfere.
type GenerationConfig struct {
	Mode            string // config.ModeCloud | config.ModeLocal
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

const (
	maxAttempts    = 3
	baseBackoff    = 500 * time.Millisecond
	maxBackoff     = 4 * time.Second
	stubPromptHead = 80
)

// Generator routes generation calls to Gemini or Ollama. Backend
// failures degrade to sentinel answers instead of errors so study-aid
// endpoints always return usable text.
type Generator struct {
	cfg    *config.Config
	gemini *GeminiClient
	ollama *OllamaClient
}

func NewGenerator(cfg *config.Config, gemini *GeminiClient, ollama *OllamaClient) *Generator {
	return &Generator{cfg: cfg, gemini: gemini, ollama: ollama}
}

// Known local model families. A request for one of these routes to
// Ollama even when the app default is cloud.
var localModelPrefixes = []string{"llama3", "phi3", "mistral", "gemma"}

// ResolveModel maps an optional per-request model override to a
// concrete backend config. Tags with an explicit variant suffix
// ("phi3:mini") are always local.
func (g *Generator) ResolveModel(override string) GenerationConfig {
	gen := GenerationConfig{
		Mode:            g.cfg.AppMode,
		Temperature:     0.7,
		MaxOutputTokens: 2048,
	}
	if gen.Mode == config.ModeLocal {
		gen.Model = g.cfg.OllamaModel
	} else {
		gen.Model = g.cfg.GeminiModel
	}

	override = strings.TrimSpace(override)
	if override == "" {
		return gen
	}

	gen.Model = override
	if strings.Contains(override, ":") {
		gen.Mode = config.ModeLocal
		return gen
	}
	for _, prefix := range localModelPrefixes {
		if strings.HasPrefix(strings.ToLower(override), prefix) {
			gen.Mode = config.ModeLocal
			return gen
		}
	}
	gen.Mode = config.ModeCloud
	return gen
}

// Generate produces text for the prompt. Transient failures are
// retried with doubled backoff; exhausted cloud calls fall back to the
// local backend when enabled, and a final failure yields a sentinel
// string rather than an error.
func (g *Generator) Generate(ctx context.Context, gen GenerationConfig, prompt string) string {
	if gen.Mode == config.ModeLocal {
		return g.generateLocal(ctx, gen, prompt)
	}

	text, err := g.withRetries(ctx, func() (string, error) {
		return g.gemini.Generate(ctx, gen, prompt)
	})
	if err == nil {
		return text
	}

	log.Printf("⚠️ Gemini generation failed after %d attempts: %v", maxAttempts, err)
	if g.cfg.CloudFallbackToLocal {
		log.Printf("🔄 Falling back to local model %s", g.cfg.OllamaModel)
		local := gen
		local.Mode = config.ModeLocal
		local.Model = g.cfg.OllamaModel
		return g.generateLocal(ctx, local, prompt)
	}
	return "[gemini-error] " + err.Error()
}

func (g *Generator) generateLocal(ctx context.Context, gen GenerationConfig, prompt string) string {
	text, err := g.withRetries(ctx, func() (string, error) {
		return g.ollama.Generate(ctx, gen, prompt)
	})
	if err == nil {
		return text
	}

	log.Printf("⚠️ Ollama generation failed after %d attempts: %v", maxAttempts, err)
	head := prompt
	if len(head) > stubPromptHead {
		head = head[:stubPromptHead]
	}
	return "[ollama-stub] " + head
}

func (g *Generator) withRetries(ctx context.Context, call func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := call()
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", lastErr
}
