package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/config"
	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/logging"
	"github.com/abhisek/skillcheck/internal/metrics"
	"github.com/abhisek/skillcheck/internal/questiongen"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/store"
)

const envPrefix = "SKILLCHECK_"

func lookupEnv(name string) string {
	return os.Getenv(envPrefix + name)
}

// deps is everything a command needs to reach the quiz engine.
type deps struct {
	cfg     *config.Config
	dbPath  string
	logger  *zap.Logger
	store   *store.Store
	metrics *metrics.Manager
	service *quiz.Service
}

// openDeps loads config, opens the store and wires the quiz service. A nil
// console keeps log lines out of the terminal.
func openDeps(cmd *cobra.Command, console io.Writer) (*deps, error) {
	ctx := cmdContext(cmd)

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	if cfg.Log.File == "" {
		cfg.Log.File = logging.DefaultFile(dbPath)
	}
	logger, err := logging.New(cfg.Log, logging.Options{Console: console})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	m := metrics.NewManager(metrics.WithRuntimeCollectors())

	provider, err := llm.NewProvider(ctx, cfg.LLM, st, llm.LogTo(logger), llm.ObserveWith(m))
	if err != nil {
		st.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}

	genCfg := questiongen.DefaultConfig()
	genCfg.QuestionsPerSkill = cfg.Quiz.QuestionsPerSkill
	genCfg.Timeout = cfg.Quiz.GenerationTimeout
	genCfg.Concurrency = cfg.Quiz.GenerationConcurrency

	var gen questiongen.Generator
	if provider != nil {
		gen = questiongen.NewLLMGenerator(provider, genCfg)
		logger.Info("question generation enabled",
			zap.String("provider", provider.Name()),
			zap.String("model", provider.ModelID()))
	} else {
		logger.Info("no LLM provider configured, using fallback questions")
	}
	bank := questiongen.NewBank(gen, genCfg,
		questiongen.WithLogger(logger),
		questiongen.WithObserver(m))

	svc := quiz.NewService(st, bank,
		quiz.WithServiceLogger(logger),
		quiz.WithServiceObserver(m))

	return &deps{
		cfg:     cfg,
		dbPath:  dbPath,
		logger:  logger,
		store:   st,
		metrics: m,
		service: svc,
	}, nil
}

func (d *deps) sessionConfig() quiz.SessionConfig {
	return quiz.SessionConfig{
		TimeLimit:    d.cfg.Quiz.TimeLimit,
		AnswerDelay:  d.cfg.Quiz.AnswerAdvanceDelay,
		TimeoutDelay: d.cfg.Quiz.TimeoutAdvanceDelay,
	}
}

func (d *deps) pollPolicy() quiz.PollPolicy {
	return quiz.PollPolicy{
		MaxRetries: d.cfg.Quiz.PollMaxRetries,
		Interval:   d.cfg.Quiz.PollInterval,
	}
}

func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		d.logger.Warn("close store", zap.Error(err))
	}
	_ = d.logger.Sync()
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
