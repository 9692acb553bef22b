// Package config loads skillcheck settings from defaults, an optional YAML
// file and SKILLCHECK_ environment variables, in that order.
package config

import (
	"time"

	"github.com/abhisek/skillcheck/internal/llm"
)

// Config is the full application configuration.
type Config struct {
	// DB is the SQLite path. Empty means store.DefaultDBPath.
	DB string `koanf:"db"`

	Log    LogConfig    `koanf:"log"`
	Server ServerConfig `koanf:"server"`
	LLM    llm.Config   `koanf:"llm"`
	Quiz   QuizConfig   `koanf:"quiz"`
}

// LogConfig configures zap and the rotating log file.
type LogConfig struct {
	Level      string `koanf:"level"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// QuizConfig tunes generation and the quiz session.
type QuizConfig struct {
	QuestionsPerSkill     int           `koanf:"questions_per_skill"`
	TimeLimit             time.Duration `koanf:"time_limit"`
	AnswerAdvanceDelay    time.Duration `koanf:"answer_advance_delay"`
	TimeoutAdvanceDelay   time.Duration `koanf:"timeout_advance_delay"`
	PollMaxRetries        int           `koanf:"poll_max_retries"`
	PollInterval          time.Duration `koanf:"poll_interval"`
	GenerationTimeout     time.Duration `koanf:"generation_timeout"`
	GenerationConcurrency int           `koanf:"generation_concurrency"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		LLM: llm.DefaultConfig(),
		Quiz: QuizConfig{
			QuestionsPerSkill:     10,
			TimeLimit:             15 * time.Second,
			AnswerAdvanceDelay:    500 * time.Millisecond,
			TimeoutAdvanceDelay:   1500 * time.Millisecond,
			PollMaxRetries:        5,
			PollInterval:          5 * time.Second,
			GenerationTimeout:     30 * time.Second,
			GenerationConcurrency: 4,
		},
	}
}
