// Package config loads the environment-driven application configuration.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"

	"github.com/abelbrown/glossia/internal/apperr"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultClaudeBaseURL = "https://api.anthropic.com/v1"
	DefaultClaudeModel   = "claude-3-5-haiku-20241022"

	DefaultLLMTimeout    = 30 * time.Second
	DefaultLLMMaxRetries = 3
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 1000

	DefaultImageTimeout    = 30 * time.Second
	DefaultImageMaxRetries = 3
	DefaultImageCount      = 5
	DefaultImageMaxCount   = 20

	DefaultPromotionThreshold = 12
)

// LLMConfig configures a single language-model provider.
type LLMConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
	MaxTokens   int
}

// ImageConfig configures the image-search provider.
type ImageConfig struct {
	Provider     string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	DefaultCount int
	MaxCount     int
}

// VocabConfig configures vocabulary tracking.
type VocabConfig struct {
	// PromotionThreshold is the encounter count at which a word is
	// considered learned.
	PromotionThreshold int
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string
	Format string // pretty, compact or json
}

// Config is the full application configuration, assembled from the
// environment by Load.
type Config struct {
	LLM   LLMConfig
	Image ImageConfig
	Vocab VocabConfig
	Log   LogConfig
	Theme string
}

// Load reads a .env file if present, then the environment, and validates the
// result. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LLM: LLMConfig{
			Provider:    envOr("LLM_PROVIDER", "mock"),
			Timeout:     envSeconds("LLM_TIMEOUT", DefaultLLMTimeout),
			MaxRetries:  envInt("LLM_MAX_RETRIES", DefaultLLMMaxRetries),
			Temperature: envFloat("LLM_TEMPERATURE", DefaultTemperature),
			MaxTokens:   envInt("LLM_MAX_TOKENS", DefaultMaxTokens),
		},
		Image: ImageConfig{
			Provider:     envOr("IMAGE_PROVIDER", "mock"),
			APIKey:       os.Getenv("BRAVE_API_KEY"),
			Timeout:      envSeconds("IMAGE_TIMEOUT", DefaultImageTimeout),
			MaxRetries:   envInt("IMAGE_MAX_RETRIES", DefaultImageMaxRetries),
			DefaultCount: envInt("IMAGE_DEFAULT_COUNT", DefaultImageCount),
			MaxCount:     envInt("IMAGE_MAX_COUNT", DefaultImageMaxCount),
		},
		Vocab: VocabConfig{
			PromotionThreshold: envInt("WORD_PROMOTION_THRESHOLD", DefaultPromotionThreshold),
		},
		Log: LogConfig{
			Level:  envOr("LOG_LEVEL", "debug"),
			Format: envOr("LOG_FORMAT", "pretty"),
		},
		Theme: envOr("DEFAULT_THEME", "dark"),
	}

	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.LLM.BaseURL = envOr("OPENAI_BASE_URL", DefaultOpenAIBaseURL)
		cfg.LLM.Model = envOr("OPENAI_MODEL", DefaultOpenAIModel)
	case "claude":
		cfg.LLM.APIKey = os.Getenv("CLAUDE_API_KEY")
		cfg.LLM.BaseURL = envOr("CLAUDE_BASE_URL", DefaultClaudeBaseURL)
		cfg.LLM.Model = envOr("CLAUDE_MODEL", DefaultClaudeModel)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperr.Config("invalid configuration: %v", err)
	}
	return cfg, nil
}

// Validate checks provider names, key formats and numeric ranges.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(&c.LLM,
		validation.Field(&c.LLM.Provider, validation.Required, validation.In("openai", "claude", "mock")),
		validation.Field(&c.LLM.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&c.LLM.MaxTokens, validation.Required, validation.Min(1)),
		validation.Field(&c.LLM.MaxRetries, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	if c.LLM.Provider == "openai" {
		if c.LLM.APIKey == "" {
			return validation.NewError("config_openai_key", "OPENAI_API_KEY is required for the openai provider")
		}
		if !strings.HasPrefix(c.LLM.APIKey, "sk-") {
			return validation.NewError("config_openai_key", "OPENAI_API_KEY must start with sk-")
		}
	}
	if c.LLM.Provider == "claude" && c.LLM.APIKey == "" {
		return validation.NewError("config_claude_key", "CLAUDE_API_KEY is required for the claude provider")
	}

	err = validation.ValidateStruct(&c.Image,
		validation.Field(&c.Image.Provider, validation.Required, validation.In("brave", "mock")),
		validation.Field(&c.Image.DefaultCount, validation.Min(1)),
		validation.Field(&c.Image.MaxCount, validation.Min(1)),
	)
	if err != nil {
		return err
	}
	if c.Image.Provider == "brave" && c.Image.APIKey == "" {
		return validation.NewError("config_brave_key", "BRAVE_API_KEY is required for the brave provider")
	}

	return validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Format, validation.In("pretty", "compact", "json")),
	)
}

// HomeDir returns the per-user data directory, creating it if needed.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", apperr.Config("cannot resolve home directory: %v", err)
	}
	dir := filepath.Join(home, ".glossia")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperr.Config("cannot create %s: %v", dir, err)
	}
	return dir, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
