package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/cocowutech/placement/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller -> retry -> logging -> base.
	logged := WithLogging(base, eventRepo)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// DiscoverConfig fills in the API key for the configured provider from
// the standard vendor env vars when the PLACEMENT_-prefixed ones are
// unset. Returns an error if no key can be found for a non-mock provider.
func DiscoverConfig(cfg Config) (Config, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			cfg.Gemini.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
		}
		if cfg.Gemini.APIKey == "" {
			return cfg, fmt.Errorf("no Gemini API key: set PLACEMENT_GEMINI_API_KEY or GEMINI_API_KEY")
		}
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			cfg.OpenAI.APIKey = firstEnv("OPENAI_API_KEY")
		}
		if cfg.OpenAI.APIKey == "" {
			return cfg, fmt.Errorf("no OpenAI API key: set PLACEMENT_OPENAI_API_KEY or OPENAI_API_KEY")
		}
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			cfg.Anthropic.APIKey = firstEnv("ANTHROPIC_API_KEY")
		}
		if cfg.Anthropic.APIKey == "" {
			return cfg, fmt.Errorf("no Anthropic API key: set PLACEMENT_ANTHROPIC_API_KEY or ANTHROPIC_API_KEY")
		}
	}
	return cfg, nil
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}
