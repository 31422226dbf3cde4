package services

import (
	"context"
	"log"

	"ai-tutor-backend/internal/ai"
	"ai-tutor-backend/internal/cache"
	"ai-tutor-backend/internal/telemetry"
	"ai-tutor-backend/models"
)

// TutorService runs the generation operations behind the study-aid
// endpoints. Raw model output is cached per (operation, mode, model,
// prompt); parsing runs on every call so parser fixes apply to cached
// responses too.
type TutorService struct {
	generator *ai.Generator
	cache     cache.Cache
	metrics   *telemetry.Metrics
}

func NewTutorService(generator *ai.Generator, responseCache cache.Cache) *TutorService {
	return &TutorService{generator: generator, cache: responseCache}
}

// SetMetrics enables cache hit/miss recording. Optional.
func (t *TutorService) SetMetrics(m *telemetry.Metrics) {
	t.metrics = m
}

// generate resolves the backend once per call, then serves from cache
// or invokes the model.
func (t *TutorService) generate(ctx context.Context, operation, prompt, modelOverride string) string {
	gen := t.generator.ResolveModel(modelOverride)
	key := cache.Key(operation, gen.Mode, gen.Model, prompt)

	cached, hit := t.cache.Get(ctx, key)
	if t.metrics != nil {
		t.metrics.RecordCacheLookup(operation, hit)
	}
	if hit {
		log.Printf("💾 %s: cache hit (mode=%s model=%s)", operation, gen.Mode, gen.Model)
		return cached
	}

	log.Printf("🤖 %s: generating (mode=%s model=%s)", operation, gen.Mode, gen.Model)
	out := t.generator.Generate(ctx, gen, prompt)
	t.cache.Set(ctx, key, out)
	return out
}

// Explain produces a short tutorial for one page.
func (t *TutorService) Explain(ctx context.Context, pageContext, modelOverride string) string {
	return t.generate(ctx, "explain_page", ai.RenderExplainPrompt(pageContext), modelOverride)
}

// Answer responds to a question over the selected slide contexts.
func (t *TutorService) Answer(ctx context.Context, contexts []string, question, modelOverride string) string {
	prompt := ai.RenderAnswerPrompt(ai.RenderCtxBlocks(contexts), question)
	return t.generate(ctx, "answer_question", prompt, modelOverride)
}

// Flashcards generates and parses Q/A cards for one page. At least 3
// cards come back for any non-empty page context.
func (t *TutorService) Flashcards(ctx context.Context, pageContext, modelOverride string) []models.Flashcard {
	raw := t.generate(ctx, "make_flashcards", ai.RenderFlashcardsPrompt(pageContext), modelOverride)
	cards := ParseFlashcards(raw, pageContext)
	log.Printf("✅ Generated %d flashcards", len(cards))
	return cards
}

// Quiz generates and parses multiple-choice items for one page. At
// least 4 items come back for any non-empty page context.
func (t *TutorService) Quiz(ctx context.Context, pageContext, modelOverride string) []models.QuizItem {
	raw := t.generate(ctx, "make_quiz", ai.RenderQuizPrompt(pageContext), modelOverride)
	items := ParseQuiz(raw, pageContext)
	log.Printf("✅ Generated %d quiz questions", len(items))
	return items
}

// Cheatsheet produces a compact markdown reference for one page.
func (t *TutorService) Cheatsheet(ctx context.Context, pageContext, modelOverride string) string {
	return t.generate(ctx, "make_cheatsheet", ai.RenderCheatsheetPrompt(pageContext), modelOverride)
}
