// Package inference talks to hosted text-generation models.
package inference

import (
	"context"
	"fmt"

	"agrisense/internal/config"
)

// Provider names accepted in INFERENCE_PROVIDER.
const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
)

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Params are the fixed sampling parameters sent with every request.
type Params struct {
	MaxNewTokens int
	Temperature  float64
}

// New builds the generator selected by cfg.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	params := Params{MaxNewTokens: cfg.MaxNewTokens, Temperature: cfg.Temperature}
	switch cfg.InferenceProvider {
	case ProviderHuggingFace, "":
		return NewHuggingFace(HuggingFaceConfig{
			BaseURL: cfg.HFInferenceURL,
			Model:   cfg.AIModel,
			Token:   cfg.HFToken,
			Params:  params,
		}), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.AIModel, params)
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.InferenceProvider)
	}
}
