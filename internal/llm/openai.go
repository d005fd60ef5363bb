package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/config"
	"github.com/abelbrown/glossia/internal/logging"
	"github.com/abelbrown/glossia/internal/transport"
	"github.com/abelbrown/glossia/internal/types"
)

// OpenAI talks to an OpenAI-style chat-completions endpoint.
type OpenAI struct {
	client  *transport.Client
	cfg     config.LLMConfig
	baseURL string
	model   string
}

// NewOpenAI validates cfg and builds the provider.
func NewOpenAI(cfg config.LLMConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, apperr.Config("OpenAI API key is required")
	}
	if !strings.HasPrefix(cfg.APIKey, "sk-") {
		return nil, apperr.Config("OpenAI API key must start with sk-")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultOpenAIModel
	}

	retry := transport.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}

	return &OpenAI{
		client:  transport.NewClient(cfg.Timeout, transport.WithRetry(retry)),
		cfg:     cfg,
		baseURL: baseURL,
		model:   model,
	}, nil
}

func (o *OpenAI) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + o.cfg.APIKey}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string         `json:"model"`
	Messages            []chatMessage  `json:"messages"`
	ResponseFormat      map[string]any `json:"response_format,omitempty"`
	Temperature         *float64       `json:"temperature,omitempty"`
	MaxCompletionTokens int            `json:"max_completion_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// completion sends one user prompt and returns the raw completion text.
// jsonMode requests the strict json_object response format.
func (o *OpenAI) completion(ctx context.Context, prompt string, jsonMode bool, temperature float64, maxTokens int) (string, error) {
	req := chatRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if jsonMode {
		req.ResponseFormat = map[string]any{"type": "json_object"}
	}
	req.Temperature = &temperature
	if maxTokens > 0 {
		req.MaxCompletionTokens = maxTokens
	}

	var resp chatResponse
	url := o.baseURL + "/chat/completions"
	if err := o.client.PostWithBreaker(ctx, url, req, &resp, o.headers()); err != nil {
		return "", o.decorate(err, url)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", apperr.API("Invalid response format from OpenAI - missing content field")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// decorate rewrites transport errors with provider-specific guidance while
// keeping their kind.
func (o *OpenAI) decorate(err error, url string) error {
	e, ok := apperr.As(err)
	if !ok {
		return err
	}
	switch e.Kind {
	case apperr.KindAuthentication:
		return apperr.Authentication(
			"OpenAI authentication failed. Please check your API key and ensure it's valid. Model: "+o.model,
			e.Status, "invalid_api_key", e.ProviderCode)
	case apperr.KindBadRequest:
		return apperr.BadRequest(
			"OpenAI request invalid: "+e.Message+". Model: "+o.model+", URL: "+url,
			"invalid_request", e.ProviderCode)
	}
	return err
}

// Simplify rewrites sentence and extracts its difficult vocabulary.
func (o *OpenAI) Simplify(ctx context.Context, sentence string) (*types.SimplificationResponse, error) {
	logging.Debug("simplifying sentence", "provider", "OpenAI", "chars", len(sentence))

	content, err := o.completion(ctx, buildSimplifyPrompt(sentence), true, 1, o.cfg.MaxTokens)
	if err != nil {
		return nil, err
	}
	result := parseSimplification(content, sentence)
	logging.Debug("simplification complete", "words", len(result.Words))
	return result, nil
}

// WordMeaning returns a short definition of word as used in context.
func (o *OpenAI) WordMeaning(ctx context.Context, word, context string) (string, error) {
	return o.completion(ctx, buildWordMeaningPrompt(word, context), false, 1, 30)
}

// OptimizeImageQuery returns a visual search query for the word. Unlike the
// simplify path, a malformed completion here is a Parse error; the caller
// falls back to the bare word.
func (o *OpenAI) OptimizeImageQuery(ctx context.Context, req types.ImageQueryRequest) (string, error) {
	content, err := o.completion(ctx, buildImageQueryPrompt(req), true, 1, o.cfg.MaxTokens)
	if err != nil {
		return "", err
	}

	var parsed optimizedQueryResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil || parsed.OptimizedQuery == "" {
		return "", apperr.Parse("invalid JSON response for image query optimization: %q", content)
	}
	return parsed.OptimizedQuery, nil
}

// ProviderName identifies the backend.
func (o *OpenAI) ProviderName() string { return "OpenAI" }

// HealthCheck lists models and verifies the configured one is available.
func (o *OpenAI) HealthCheck(ctx context.Context) error {
	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	url := o.baseURL + "/models"
	if err := o.client.Get(ctx, url, o.headers(), &resp); err != nil {
		if e, ok := apperr.As(err); ok && e.Kind == apperr.KindAuthentication {
			return apperr.Authentication(
				"OpenAI health check failed: Invalid API key or insufficient permissions",
				e.Status, "invalid_api_key", e.ProviderCode)
		}
		return apperr.API("OpenAI health check failed: %v", err)
	}

	if len(resp.Data) == 0 {
		return apperr.API("OpenAI health check returned empty model list")
	}
	found := false
	for _, m := range resp.Data {
		if m.ID == o.model {
			found = true
			break
		}
	}
	if !found {
		logging.Warn("configured model not in available models", "model", o.model)
	}
	logging.Debug("health check ok", "provider", "OpenAI", "models", len(resp.Data))
	return nil
}
