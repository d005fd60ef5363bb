package imgsearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/config"
	"github.com/abelbrown/glossia/internal/logging"
	"github.com/abelbrown/glossia/internal/transport"
	"github.com/abelbrown/glossia/internal/types"
)

const braveSearchBase = "https://api.search.brave.com/res/v1"

// minImageDimension filters out thumbnails and icons; entries with unknown
// dimensions pass through.
const minImageDimension = 275

// Brave searches images through the Brave Search API.
type Brave struct {
	client  *transport.Client
	cfg     config.ImageConfig
	baseURL string
}

// NewBrave validates cfg and builds the provider.
func NewBrave(cfg config.ImageConfig) (*Brave, error) {
	if cfg.APIKey == "" {
		return nil, apperr.Config("Brave API key is required")
	}
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = config.DefaultImageCount
	}
	if cfg.MaxCount <= 0 {
		cfg.MaxCount = config.DefaultImageMaxCount
	}

	retry := transport.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}

	return &Brave{
		client:  transport.NewClient(cfg.Timeout, transport.WithRetry(retry)),
		cfg:     cfg,
		baseURL: braveSearchBase,
	}, nil
}

// clampCount maps count into [1, MaxCount], with <= 0 meaning the default.
func (b *Brave) clampCount(count int) int {
	if count <= 0 {
		count = b.cfg.DefaultCount
	}
	if count < 1 {
		count = 1
	}
	if count > b.cfg.MaxCount {
		count = b.cfg.MaxCount
	}
	return count
}

// braveImageResponse mirrors the relevant parts of the Brave images payload.
// The image URL shows up in different fields depending on result type.
type braveImageResponse struct {
	Results []struct {
		URL        string `json:"url"`
		Src        string `json:"src"`
		Title      string `json:"title"`
		Properties struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"properties"`
		Thumbnail struct {
			Src    string `json:"src"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"thumbnail"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"results"`
}

// SearchImages queries Brave and filters the hits: entries without a URL are
// dropped, as are entries whose known dimensions fall below 275x275.
func (b *Brave) SearchImages(ctx context.Context, query string, count int) ([]types.ImageResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.API("Search query cannot be empty")
	}

	count = b.clampCount(count)
	searchURL := fmt.Sprintf("%s/images/search?q=%s&count=%d", b.baseURL, url.QueryEscape(query), count)
	headers := map[string]string{"X-Subscription-Token": b.cfg.APIKey}

	var resp braveImageResponse
	if err := b.client.Get(ctx, searchURL, headers, &resp); err != nil {
		return nil, err
	}

	images := make([]types.ImageResult, 0, len(resp.Results))
	for _, item := range resp.Results {
		u := item.Properties.URL
		if u == "" {
			u = item.URL
		}
		if u == "" {
			u = item.Src
		}
		if u == "" {
			continue
		}
		width, height := item.Properties.Width, item.Properties.Height
		if width == 0 && height == 0 {
			width, height = item.Width, item.Height
		}
		if width > 0 && height > 0 &&
			(width < minImageDimension || height < minImageDimension) {
			continue
		}

		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		thumb := item.Thumbnail.Src
		if thumb == "" {
			thumb = u
		}

		images = append(images, types.ImageResult{
			URL:          u,
			ThumbnailURL: thumb,
			Title:        title,
			Width:        width,
			Height:       height,
		})
	}

	logging.Debug("image search complete", "provider", "Brave", "query", query, "results", len(images))
	return images, nil
}

// ProviderName identifies the backend.
func (b *Brave) ProviderName() string { return "Brave" }

// HealthCheck runs a minimal search and requires at least one hit.
func (b *Brave) HealthCheck(ctx context.Context) error {
	results, err := b.SearchImages(ctx, "test", 1)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return apperr.API("Brave Search API returned no results for test query")
	}
	return nil
}
