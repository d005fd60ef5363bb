package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			APIKey:      "sk-test123",
			BaseURL:     DefaultOpenAIBaseURL,
			Model:       DefaultOpenAIModel,
			Timeout:     DefaultLLMTimeout,
			MaxRetries:  3,
			Temperature: 0.7,
			MaxTokens:   1000,
		},
		Image: ImageConfig{
			Provider:     "mock",
			Timeout:      DefaultImageTimeout,
			MaxRetries:   3,
			DefaultCount: 5,
			MaxCount:     20,
		},
		Vocab: VocabConfig{PromotionThreshold: 12},
		Log:   LogConfig{Level: "debug", Format: "pretty"},
		Theme: "dark",
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		substr string
	}{
		{"unknown llm provider", func(c *Config) { c.LLM.Provider = "gemini" }, "must be a valid value"},
		{"openai key missing", func(c *Config) { c.LLM.APIKey = "" }, "OPENAI_API_KEY"},
		{"openai key bad prefix", func(c *Config) { c.LLM.APIKey = "pk-nope" }, "sk-"},
		{"temperature too high", func(c *Config) { c.LLM.Temperature = 2.5 }, "no greater than"},
		{"temperature negative", func(c *Config) { c.LLM.Temperature = -0.1 }, "no less than"},
		{"zero max tokens", func(c *Config) { c.LLM.MaxTokens = 0 }, "cannot be blank"},
		{"unknown image provider", func(c *Config) { c.Image.Provider = "bing" }, "must be a valid value"},
		{"brave without key", func(c *Config) { c.Image.Provider = "brave" }, "BRAVE_API_KEY"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "must be a valid value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q does not mention %q", err, tt.substr)
			}
		})
	}
}

func TestClaudeRequiresKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "claude"
	cfg.LLM.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("claude provider without a key should be rejected")
	}

	// Claude keys have no mandated prefix.
	cfg.LLM.APIKey = "anything"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("claude key format should not be constrained: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"LLM_PROVIDER", "LLM_TIMEOUT", "LLM_MAX_RETRIES", "LLM_TEMPERATURE",
		"LLM_MAX_TOKENS", "IMAGE_PROVIDER", "WORD_PROMOTION_THRESHOLD",
		"LOG_LEVEL", "LOG_FORMAT", "DEFAULT_THEME",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLM.Provider != "mock" {
		t.Errorf("default LLM provider = %q, want mock", cfg.LLM.Provider)
	}
	if cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("default timeout = %v, want 30s", cfg.LLM.Timeout)
	}
	if cfg.Vocab.PromotionThreshold != 12 {
		t.Errorf("default promotion threshold = %d, want 12", cfg.Vocab.PromotionThreshold)
	}
	if cfg.Log.Format != "pretty" {
		t.Errorf("default log format = %q, want pretty", cfg.Log.Format)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-live456")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("LLM_TIMEOUT", "10")
	t.Setenv("WORD_PROMOTION_THRESHOLD", "3")
	t.Setenv("IMAGE_PROVIDER", "mock")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LLM.APIKey != "sk-live456" {
		t.Errorf("APIKey = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("Model = %q, want override", cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != DefaultOpenAIBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.LLM.Timeout)
	}
	if cfg.Vocab.PromotionThreshold != 3 {
		t.Errorf("PromotionThreshold = %d, want 3", cfg.Vocab.PromotionThreshold)
	}
}
