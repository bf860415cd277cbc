package embedding

import (
	"fmt"
	"time"

	"github.com/hyperjump/niteru/internal/config"
)

// NewFromConfig constructs the embedding provider selected by cfg.Provider:
// "openai" (OpenAI-compatible HTTP service), "onnx" (local model, requires
// CGO), or "mock" (deterministic, for tests and offline runs).
func NewFromConfig(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIEmbedder(OpenAIConfig{
			BaseURL:    cfg.BaseURL,
			APIKeyEnv:  cfg.APIKeyEnv,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Timeout:    time.Duration(cfg.TimeoutSecs) * time.Second,
			CacheSize:  cfg.CacheSize,
		})
	case "onnx":
		return NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}
}
