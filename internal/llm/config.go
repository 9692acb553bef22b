package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter",
	// "mock" or "none". "none" disables the LLM and questions come from
	// the deterministic fallback.
	Provider string `koanf:"provider"`

	Anthropic  AnthropicConfig  `koanf:"anthropic"`
	OpenAI     OpenAIConfig     `koanf:"openai"`
	Gemini     GeminiConfig     `koanf:"gemini"`
	OpenRouter OpenRouterConfig `koanf:"openrouter"`
	Retry      RetryConfig      `koanf:"retry"`

	// LogBodies stores full request and response bodies with each event.
	LogBodies bool `koanf:"log_bodies"`
}

type AnthropicConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

type GeminiConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

type OpenRouterConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts"`
	InitialWait time.Duration `koanf:"initial_wait"`
	MaxWait     time.Duration `koanf:"max_wait"`
	Multiplier  float64       `koanf:"multiplier"`
}

const ProviderNone = "none"

// DefaultConfig returns a Config with sensible defaults. The provider is
// left empty so DiscoverConfig can fill it in.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		LogBodies: true,
	}
}

// DiscoverConfig probes the conventional API key variables in priority
// order (Gemini, OpenAI, Anthropic, OpenRouter) and fills in the first
// provider found. It reports false when none is set.
func DiscoverConfig(base Config) (Config, bool) {
	probes := []struct {
		env   string
		apply func(*Config, string)
	}{
		{"GEMINI_API_KEY", func(c *Config, k string) { c.Provider, c.Gemini.APIKey = "gemini", k }},
		{"OPENAI_API_KEY", func(c *Config, k string) { c.Provider, c.OpenAI.APIKey = "openai", k }},
		{"ANTHROPIC_API_KEY", func(c *Config, k string) { c.Provider, c.Anthropic.APIKey = "anthropic", k }},
		{"OPENROUTER_API_KEY", func(c *Config, k string) { c.Provider, c.OpenRouter.APIKey = "openrouter", k }},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg := base
			p.apply(&cfg, k)
			return cfg, true
		}
	}
	return base, false
}

// Enabled reports whether an LLM provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	missing := func(name string) error {
		return fmt.Errorf("llm.%s.api_key is required for the %s provider", name, name)
	}
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return missing("anthropic")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return missing("openai")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return missing("gemini")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return missing("openrouter")
		}
	case "mock", ProviderNone, "":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("llm.retry.max_attempts must be at least 1")
	}
	return nil
}
