package questiongen

import "time"

// Config controls generation.
type Config struct {
	// Validators run in order on every externally generated question.
	Validators []Validator

	// QuestionsPerSkill is the number of questions generated per skill.
	QuestionsPerSkill int

	// Timeout bounds one external generation call. After it elapses the
	// fallback generator fills the set.
	Timeout time.Duration

	// Concurrency caps parallel per-skill generation calls.
	Concurrency int

	// MaxTokensPerQuestion sizes the LLM response budget.
	MaxTokensPerQuestion int

	Temperature float64
}

// DefaultConfig returns the standard validator chain and defaults.
func DefaultConfig() Config {
	return Config{
		Validators:           DefaultValidators(),
		QuestionsPerSkill:    10,
		Timeout:              30 * time.Second,
		Concurrency:          4,
		MaxTokensPerQuestion: 220,
		Temperature:          0.7,
	}
}
