package ai

import (
	"testing"

	"ai-tutor-backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func testGenerator() *Generator {
	cfg := &config.Config{
		AppMode:     config.ModeCloud,
		GeminiModel: "gemini-2.0-flash",
		OllamaModel: "phi3:mini",
	}
	return NewGenerator(cfg, nil, nil)
}

func TestResolveModelDefaults(t *testing.T) {
	g := testGenerator()

	gen := g.ResolveModel("")
	assert.Equal(t, config.ModeCloud, gen.Mode)
	assert.Equal(t, "gemini-2.0-flash", gen.Model)
	assert.Equal(t, float32(0.7), gen.Temperature)
	assert.Equal(t, int32(2048), gen.MaxOutputTokens)
}

func TestResolveModelLocalDefault(t *testing.T) {
	g := testGenerator()
	g.cfg.AppMode = config.ModeLocal

	gen := g.ResolveModel("")
	assert.Equal(t, config.ModeLocal, gen.Mode)
	assert.Equal(t, "phi3:mini", gen.Model)
}

func TestResolveModelOverrides(t *testing.T) {
	g := testGenerator()

	// variant tags route local
	gen := g.ResolveModel("llama3.2:1b")
	assert.Equal(t, config.ModeLocal, gen.Mode)
	assert.Equal(t, "llama3.2:1b", gen.Model)

	// known local families without a tag still route local
	gen = g.ResolveModel("phi3")
	assert.Equal(t, config.ModeLocal, gen.Mode)

	// anything else is a cloud model
	gen = g.ResolveModel("gemini-1.5-pro")
	assert.Equal(t, config.ModeCloud, gen.Mode)
	assert.Equal(t, "gemini-1.5-pro", gen.Model)
}

func TestResolveModelDoesNotMutateConfig(t *testing.T) {
	g := testGenerator()

	_ = g.ResolveModel("phi3:mini")
	assert.Equal(t, config.ModeCloud, g.cfg.AppMode)
	assert.Equal(t, "gemini-2.0-flash", g.cfg.GeminiModel)
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
