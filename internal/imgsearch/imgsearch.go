// Package imgsearch finds illustrative images for vocabulary words.
package imgsearch

import (
	"context"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/config"
	"github.com/abelbrown/glossia/internal/types"
)

// Provider is one image-search backend.
type Provider interface {
	// SearchImages returns up to count hits for query. count <= 0 selects
	// the configured default.
	SearchImages(ctx context.Context, query string, count int) ([]types.ImageResult, error)

	// ProviderName identifies the backend in logs and stats.
	ProviderName() string

	// HealthCheck verifies the backend answers a minimal query.
	HealthCheck(ctx context.Context) error
}

// New builds the provider named by cfg.Provider.
func New(cfg config.ImageConfig) (Provider, error) {
	switch cfg.Provider {
	case "brave":
		return NewBrave(cfg)
	case "mock":
		return NewMock(), nil
	}
	return nil, apperr.Config("unknown image provider %q", cfg.Provider)
}
