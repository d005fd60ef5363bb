package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/config"
	"github.com/abelbrown/glossia/internal/logging"
	"github.com/abelbrown/glossia/internal/transport"
	"github.com/abelbrown/glossia/internal/types"
)

const anthropicVersion = "2023-06-01"

// Claude talks to an Anthropic-style messages endpoint.
type Claude struct {
	client  *transport.Client
	cfg     config.LLMConfig
	baseURL string
	model   string
}

// NewClaude validates cfg and builds the provider.
func NewClaude(cfg config.LLMConfig) (*Claude, error) {
	if cfg.APIKey == "" {
		return nil, apperr.Config("Claude API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultClaudeBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultClaudeModel
	}

	retry := transport.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}

	return &Claude{
		client:  transport.NewClient(cfg.Timeout, transport.WithRetry(retry)),
		cfg:     cfg,
		baseURL: baseURL,
		model:   model,
	}, nil
}

func (c *Claude) headers() map[string]string {
	return map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}
}

type messagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// completion sends one user prompt and returns the text of the first
// content block.
func (c *Claude) completion(ctx context.Context, prompt string) (string, error) {
	maxTokens := c.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	req := messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	}
	if c.cfg.Temperature > 0 {
		t := c.cfg.Temperature
		req.Temperature = &t
	}

	var resp messagesResponse
	if err := c.client.PostWithBreaker(ctx, c.baseURL+"/messages", req, &resp, c.headers()); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return "", apperr.API("Invalid response format from Claude")
	}
	return strings.TrimSpace(resp.Content[0].Text), nil
}

// Simplify rewrites sentence and extracts its difficult vocabulary.
func (c *Claude) Simplify(ctx context.Context, sentence string) (*types.SimplificationResponse, error) {
	logging.Debug("simplifying sentence", "provider", "Claude", "chars", len(sentence))

	prompt := fmt.Sprintf(
		"You are a helpful assistant that simplifies text and identifies difficult words. "+
			`Respond with JSON in this format: {"simplified": "simplified text", "words": [{"word": "word", "meaning": "definition", "is_phrase": false}]}`+
			"\n\nSimplify this sentence and identify difficult words: %s",
		sentence)

	content, err := c.completion(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseSimplification(content, sentence), nil
}

// WordMeaning returns a short definition of word as used in context.
func (c *Claude) WordMeaning(ctx context.Context, word, context string) (string, error) {
	prompt := fmt.Sprintf("What does the word '%s' mean in this context: '%s'? Provide a brief definition.",
		word, context)
	return c.completion(ctx, prompt)
}

// OptimizeImageQuery returns a visual search query for the word.
func (c *Claude) OptimizeImageQuery(ctx context.Context, req types.ImageQueryRequest) (string, error) {
	prompt := fmt.Sprintf(
		"Optimize this word for image search: '%s'. Context: '%s'. "+
			"Make it more specific and visual. Respond with just the optimized query.",
		req.Word, req.SentenceContext)

	query, err := c.completion(ctx, prompt)
	if err != nil {
		return "", err
	}
	if query == "" {
		return "", apperr.Parse("empty image query from Claude")
	}
	return query, nil
}

// ProviderName identifies the backend.
func (c *Claude) ProviderName() string { return "Claude" }

// HealthCheck issues a minimal completion; there is no dedicated endpoint.
func (c *Claude) HealthCheck(ctx context.Context) error {
	_, err := c.completion(ctx, "Hello")
	return err
}
