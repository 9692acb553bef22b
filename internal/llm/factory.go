package llm

import (
	"context"
	"fmt"
)

// NewProvider builds the configured provider wrapped as
// caller -> retry -> logging -> base. It returns nil, nil when the LLM
// is disabled.
func NewProvider(ctx context.Context, cfg Config, recorder EventRecorder, opts ...LoggingOption) (Provider, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if !cfg.LogBodies {
		opts = append(opts, WithoutBodies())
	}
	return WithRetry(WithLogging(base, recorder, opts...), cfg.Retry), nil
}
