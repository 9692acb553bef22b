package questiongen

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/skillcheck/internal/llm"
)

// Observer receives generation outcomes, typically for metrics.
type Observer interface {
	QuestionsGenerated(source Source, n int)
	GenerationFailed(reason string)
	QuestionRejected(validator string)
}

type nopObserver struct{}

func (nopObserver) QuestionsGenerated(Source, int) {}
func (nopObserver) GenerationFailed(string)        {}
func (nopObserver) QuestionRejected(string)        {}

// Bank turns generation requests into complete question sets. Generate
// never fails: whatever the external generator cannot supply is
// synthesized by the fallback.
type Bank struct {
	gen      Generator
	fallback Fallback
	config   Config
	logger   *zap.Logger
	observer Observer
}

// Option configures a Bank.
type Option func(*Bank)

// WithLogger sets the logger used for dropped items and generator errors.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bank) { b.logger = l }
}

// WithObserver sets the outcome observer.
func WithObserver(o Observer) Option {
	return func(b *Bank) { b.observer = o }
}

// NewBank creates a Bank. gen may be nil, in which case every question is
// synthesized.
func NewBank(gen Generator, cfg Config, opts ...Option) *Bank {
	if len(cfg.Validators) == 0 {
		cfg.Validators = DefaultValidators()
	}
	b := &Bank{
		gen:      gen,
		config:   cfg,
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// QuestionsPerSkill returns the configured set size per skill.
func (b *Bank) QuestionsPerSkill() int {
	if b.config.QuestionsPerSkill <= 0 {
		return DefaultConfig().QuestionsPerSkill
	}
	return b.config.QuestionsPerSkill
}

// Generate returns exactly req.Count questions for req.Target: validated
// external questions first, then synthesized ones.
func (b *Bank) Generate(ctx context.Context, req Request) []Question {
	if req.Count <= 0 {
		return nil
	}

	log := b.logger.With(
		zap.String("quiz_id", req.QuizID),
		zap.String("skill_id", req.Target.SkillID),
		zap.Int("level", int(req.Target.Level)),
	)

	out := make([]Question, 0, req.Count)
	seen := dedupSet{}

	for _, q := range b.external(ctx, req, log) {
		if len(out) == req.Count {
			break
		}
		q.SkillID = req.Target.SkillID
		q.Source = SourceLLM
		if verr := Validate(&q, b.config.Validators); verr != nil {
			log.Debug("dropped generated question", zap.String("validator", verr.Validator), zap.String("reason", verr.Message))
			b.observer.QuestionRejected(verr.Validator)
			continue
		}
		if !seen.add(q.Text) {
			log.Debug("dropped duplicate question", zap.String("text", q.Text))
			b.observer.QuestionRejected("dedup")
			continue
		}
		out = append(out, q)
	}
	external := len(out)
	b.observer.QuestionsGenerated(SourceLLM, external)

	for i := 0; len(out) < req.Count; i++ {
		q := b.fallback.Question(req.Target, i)
		if !seen.add(q.Text) {
			continue
		}
		out = append(out, q)
	}
	if synthesized := len(out) - external; synthesized > 0 {
		b.observer.QuestionsGenerated(SourceFallback, synthesized)
		log.Info("filled question set from fallback",
			zap.Int("external", external),
			zap.Int("synthesized", synthesized))
	}

	return out
}

// external calls the configured generator under the generation timeout.
// Errors are logged and reported as an empty result.
func (b *Bank) external(ctx context.Context, req Request, log *zap.Logger) []Question {
	if b.gen == nil {
		return nil
	}

	if b.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.Timeout)
		defer cancel()
	}

	items, err := b.gen.Generate(ctx, req)
	if err != nil {
		reason := llm.FailureReason(err)
		log.Warn("question generation failed, using fallback", zap.String("reason", reason), zap.Error(err))
		b.observer.GenerationFailed(reason)
		return nil
	}
	return items
}

// GenerateAll generates count questions for each target in parallel and
// returns them concatenated in target order.
func (b *Bank) GenerateAll(ctx context.Context, quizID string, targets []Target, count int) []Question {
	sets := make([][]Question, len(targets))

	var g errgroup.Group
	if b.config.Concurrency > 0 {
		g.SetLimit(b.config.Concurrency)
	}
	for i, t := range targets {
		g.Go(func() error {
			sets[i] = b.Generate(ctx, Request{QuizID: quizID, Target: t, Count: count})
			return nil
		})
	}
	_ = g.Wait()

	var out []Question
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}
