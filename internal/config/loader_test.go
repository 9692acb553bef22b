package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, envPrefix) {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Quiz.QuestionsPerSkill)
	assert.Equal(t, 15*time.Second, cfg.Quiz.TimeLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.Quiz.AnswerAdvanceDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Quiz.TimeoutAdvanceDelay)
	assert.Equal(t, 5, cfg.Quiz.PollMaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Quiz.PollInterval)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "", cfg.LLM.Provider)
	assert.False(t, cfg.LLM.Enabled())
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "skillcheck.yaml")
	yaml := `
db: /tmp/from-file.db
server:
  addr: ":9000"
quiz:
  questions_per_skill: 6
  time_limit: 20s
llm:
  provider: openai
  openai:
    api_key: sk-file
    model: gpt-4o
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("SKILLCHECK_QUIZ__QUESTIONS_PER_SKILL", "4")
	t.Setenv("SKILLCHECK_LLM__OPENAI__API_KEY", "sk-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-file.db", cfg.DB)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Quiz.QuestionsPerSkill, "env overrides file")
	assert.Equal(t, 20*time.Second, cfg.Quiz.TimeLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.Quiz.AnswerAdvanceDelay, "defaults survive")
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-env", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))
	t.Setenv("SKILLCHECK_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DiscoversProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)

	// An explicit choice wins over discovery.
	t.Setenv("SKILLCHECK_LLM__PROVIDER", "none")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.LLM.Provider)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want error
	}{
		{"zero questions", "SKILLCHECK_QUIZ__QUESTIONS_PER_SKILL", "0", ErrQuestionsPerSkill},
		{"zero time limit", "SKILLCHECK_QUIZ__TIME_LIMIT", "0s", ErrTimeLimit},
		{"negative retries", "SKILLCHECK_QUIZ__POLL_MAX_RETRIES", "-1", ErrPollPolicy},
		{"zero concurrency", "SKILLCHECK_QUIZ__GENERATION_CONCURRENCY", "0", ErrConcurrency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ProviderWithoutKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKILLCHECK_LLM__PROVIDER", "anthropic")
	_, err := Load("")
	assert.Error(t, err)
}
