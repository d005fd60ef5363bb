// Package llm exposes the language-model capabilities the reading pipeline
// needs: sentence simplification, contextual definitions, and image-query
// optimization.
package llm

import (
	"context"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/config"
	"github.com/abelbrown/glossia/internal/types"
)

// Provider is one language-model backend.
type Provider interface {
	// Simplify rewrites sentence in clear modern English and lists the
	// difficult words and phrases it contains.
	Simplify(ctx context.Context, sentence string) (*types.SimplificationResponse, error)

	// WordMeaning returns a short definition of word as used in context.
	WordMeaning(ctx context.Context, word, context string) (string, error)

	// OptimizeImageQuery turns a word plus its context into a short visual
	// search query.
	OptimizeImageQuery(ctx context.Context, req types.ImageQueryRequest) (string, error)

	// ProviderName identifies the backend in logs and stats.
	ProviderName() string

	// HealthCheck verifies the backend is reachable with the configured
	// credentials.
	HealthCheck(ctx context.Context) error
}

// New builds the provider named by cfg.Provider.
func New(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg)
	case "claude":
		return NewClaude(cfg)
	case "mock":
		return NewMock(), nil
	}
	return nil, apperr.Config("unknown LLM provider %q", cfg.Provider)
}

// optimizedQueryResponse is the strict JSON shape the image-query prompt
// demands.
type optimizedQueryResponse struct {
	OptimizedQuery string `json:"optimized_query"`
}
