package config

import "errors"

var (
	ErrQuestionsPerSkill = errors.New("quiz.questions_per_skill must be positive")
	ErrTimeLimit         = errors.New("quiz.time_limit must be positive")
	ErrPollPolicy        = errors.New("quiz.poll_max_retries and quiz.poll_interval must not be negative")
	ErrConcurrency       = errors.New("quiz.generation_concurrency must be positive")
	ErrServerAddr        = errors.New("server.addr must not be empty")
)
