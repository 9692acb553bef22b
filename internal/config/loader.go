package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/abhisek/skillcheck/internal/llm"
)

const envPrefix = "SKILLCHECK_"

// Load builds a Config by layering, low to high:
//  1. defaults (New)
//  2. YAML file at path, or at SKILLCHECK_CONFIG when path is empty
//  3. env vars with the SKILLCHECK_ prefix; "__" separates levels, so
//     SKILLCHECK_LLM__ANTHROPIC__API_KEY sets llm.anthropic.api_key
//
// When no LLM provider is configured, the standard provider API key
// variables are probed.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.LLM.Provider == "" {
		if discovered, ok := llm.DiscoverConfig(cfg.LLM); ok {
			cfg.LLM = discovered
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	q := c.Quiz
	switch {
	case q.QuestionsPerSkill <= 0:
		return ErrQuestionsPerSkill
	case q.TimeLimit <= 0:
		return ErrTimeLimit
	case q.PollMaxRetries < 0 || q.PollInterval < 0:
		return ErrPollPolicy
	case q.GenerationConcurrency <= 0:
		return ErrConcurrency
	case c.Server.Addr == "":
		return ErrServerAddr
	}
	return c.LLM.Validate()
}
