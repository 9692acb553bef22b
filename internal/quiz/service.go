package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/questiongen"
	"github.com/abhisek/skillcheck/internal/skill"
)

// Observer receives completion outcomes, typically for metrics.
type Observer interface {
	QuizCompleted()
	DuplicateSubmission()
	ApplicationSyncFailed()
}

type nopObserver struct{}

func (nopObserver) QuizCompleted()         {}
func (nopObserver) DuplicateSubmission()   {}
func (nopObserver) ApplicationSyncFailed() {}

// Submission is the outcome of Submit.
type Submission struct {
	Quiz   *Quiz
	Result Result

	// Duplicate is set when the quiz had already been completed; Result is
	// then the stored one.
	Duplicate bool

	// ApplicationSynced reports whether the linked application was moved
	// to quiz_completed. Always true for practice quizzes.
	ApplicationSynced bool
	SyncErr           error
}

// Report is what a principal may see of a quiz's outcome.
type Report struct {
	Quiz              *Quiz
	ApplicationStatus ApplicationStatus
	Visible           bool
	Result            *Result
}

// Service implements the quiz operations. Every operation takes the acting
// principal explicitly.
type Service struct {
	store    Store
	bank     *questiongen.Bank
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
	newID    func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger.
func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithServiceObserver sets the completion observer.
func WithServiceObserver(o Observer) ServiceOption {
	return func(s *Service) { s.observer = o }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
func NewService(store Store, bank *questiongen.Bank, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		bank:     bank,
		logger:   zap.NewNop(),
		observer: nopObserver{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateForApplication creates the pending assessment quiz of an
// application. An application has at most one quiz; an existing one is
// returned as is.
func (s *Service) CreateForApplication(ctx context.Context, p Principal, applicationID string) (*Quiz, error) {
	if err := requireEmployee(p); err != nil {
		return nil, err
	}
	app, err := s.store.Application(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}
	if app.EmployeeID != p.ID {
		return nil, ErrForbidden
	}

	existing, err := s.store.QuizByApplication(ctx, applicationID)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("look up quiz: %w", err)
	}

	return s.create(ctx, p.ID, applicationID)
}

// CreatePractice creates a pending practice quiz over the candidate's own
// skills.
func (s *Service) CreatePractice(ctx context.Context, p Principal) (*Quiz, error) {
	if err := requireEmployee(p); err != nil {
		return nil, err
	}
	return s.create(ctx, p.ID, "")
}

func (s *Service) create(ctx context.Context, ownerID, applicationID string) (*Quiz, error) {
	q := &Quiz{
		ID:            s.newID(),
		OwnerID:       ownerID,
		ApplicationID: applicationID,
		Status:        StatusPending,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateQuiz(ctx, q); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	s.logger.Info("quiz created",
		zap.String("quiz_id", q.ID),
		zap.String("owner_id", ownerID),
		zap.Bool("practice", q.Practice()))
	return q, nil
}

// Generate builds the question set of a quiz that has not been started,
// replacing any previous set.
func (s *Service) Generate(ctx context.Context, p Principal, quizID string) ([]Question, error) {
	q, err := s.load(ctx, p, quizID, false)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusPending {
		return nil, ErrAlreadyStarted
	}

	sel, err := s.selection(ctx, q)
	if err != nil {
		return nil, err
	}

	var generated []questiongen.Question
	if sel.GeneralFit {
		generated = []questiongen.Question{questiongen.GeneralFit()}
	} else {
		targets, err := s.targets(ctx, sel.Skills)
		if err != nil {
			return nil, err
		}
		generated = s.bank.GenerateAll(ctx, q.ID, targets, s.bank.QuestionsPerSkill())
	}

	questions := make([]Question, len(generated))
	for i, g := range generated {
		questions[i] = Question{
			ID:            s.newID(),
			QuizID:        q.ID,
			SkillID:       g.SkillID,
			Position:      i,
			Text:          g.Text,
			Options:       g.Options,
			CorrectAnswer: g.CorrectAnswer,
			Explanation:   g.Explanation,
			Source:        g.Source,
		}
	}
	if err := s.store.ReplaceQuestions(ctx, q.ID, questions); err != nil {
		return nil, fmt.Errorf("save questions: %w", err)
	}

	s.logger.Info("questions generated",
		zap.String("quiz_id", q.ID),
		zap.Int("questions", len(questions)),
		zap.Bool("general_fit", sel.GeneralFit))
	return questions, nil
}

func (s *Service) selection(ctx context.Context, q *Quiz) (skill.Selection, error) {
	candidate, err := s.store.CandidateSkills(ctx, q.OwnerID)
	if err != nil {
		return skill.Selection{}, fmt.Errorf("load candidate skills: %w", err)
	}
	if q.Practice() {
		return skill.Practice(candidate), nil
	}

	app, err := s.store.Application(ctx, q.ApplicationID)
	if err != nil {
		return skill.Selection{}, fmt.Errorf("load application: %w", err)
	}
	job, err := s.store.JobSkills(ctx, app.JobID)
	if err != nil {
		return skill.Selection{}, fmt.Errorf("load job skills: %w", err)
	}
	return skill.Match(job, candidate), nil
}

func (s *Service) targets(ctx context.Context, assoc []skill.Association) ([]questiongen.Target, error) {
	ids := make([]string, len(assoc))
	for i, a := range assoc {
		ids[i] = a.SkillID
	}
	known, err := s.store.Skills(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}

	targets := make([]questiongen.Target, len(assoc))
	for i, a := range assoc {
		name := known[a.SkillID].Name
		if name == "" {
			name = a.SkillID
		}
		targets[i] = questiongen.Target{SkillID: a.SkillID, Name: name, Level: a.Level}
	}
	return targets, nil
}

// Get returns a quiz the principal may see.
func (s *Service) Get(ctx context.Context, p Principal, quizID string) (*Quiz, error) {
	return s.load(ctx, p, quizID, true)
}

// Questions returns the current question set. It is a plain read and may
// be repeated while waiting for generation.
func (s *Service) Questions(ctx context.Context, p Principal, quizID string) ([]Question, error) {
	if _, err := s.load(ctx, p, quizID, true); err != nil {
		return nil, err
	}
	return s.store.Questions(ctx, quizID)
}

// Answers returns the recorded answers of a quiz.
func (s *Service) Answers(ctx context.Context, p Principal, quizID string) ([]Answer, error) {
	if _, err := s.load(ctx, p, quizID, true); err != nil {
		return nil, err
	}
	return s.store.Answers(ctx, quizID)
}

// ListQuizzes returns the principal's own quizzes.
func (s *Service) ListQuizzes(ctx context.Context, p Principal) ([]Quiz, error) {
	if err := requireEmployee(p); err != nil {
		return nil, err
	}
	return s.store.ListQuizzes(ctx, p.ID)
}

// Start moves a pending quiz to in progress. Starting a quiz that is
// already in progress is a no-op.
func (s *Service) Start(ctx context.Context, p Principal, quizID string) (*Quiz, error) {
	q, err := s.load(ctx, p, quizID, false)
	if err != nil {
		return nil, err
	}
	switch q.Status {
	case StatusInProgress:
		return q, nil
	case StatusCompleted:
		return nil, ErrAlreadyCompleted
	}

	if _, err := s.store.StartQuiz(ctx, quizID, s.now()); err != nil {
		return nil, fmt.Errorf("start quiz: %w", err)
	}
	return s.store.Quiz(ctx, quizID)
}

// RecordAnswer stores the answer to one question, graded at write time.
// When skipped is set, text is ignored and the skip sentinel is stored.
// Questions are answered in asking order (see AskOrder); any other
// question is rejected with ErrOutOfOrder.
func (s *Service) RecordAnswer(ctx context.Context, p Principal, quizID, questionID, text string, skipped bool) (*Answer, error) {
	q, err := s.load(ctx, p, quizID, false)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusInProgress {
		return nil, ErrNotActive
	}

	questions, err := s.store.Questions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	var question *Question
	for i := range questions {
		if questions[i].ID == questionID {
			question = &questions[i]
			break
		}
	}
	if question == nil {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrNotFound)
	}

	answers, err := s.store.Answers(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = true
	}
	if answered[questionID] {
		return nil, ErrAnswerExists
	}
	if next, ok := nextOpen(questions, answered); ok && next != questionID {
		return nil, ErrOutOfOrder
	}

	if !skipped && !question.HasOption(text) {
		return nil, ErrInvalidChoice
	}

	a := grade(question, text, skipped)
	a.ID = s.newID()
	a.CreatedAt = s.now()
	if err := s.store.InsertAnswer(ctx, &a); err != nil {
		return nil, fmt.Errorf("save answer: %w", err)
	}
	return &a, nil
}

// Submit grades the quiz and completes it. Only the first completion is
// written; later calls return the stored result with Duplicate set. A
// job-linked quiz then moves its application to quiz_completed; failure of
// that step is reported in the Submission, not as an error.
func (s *Service) Submit(ctx context.Context, p Principal, quizID string) (*Submission, error) {
	q, err := s.load(ctx, p, quizID, false)
	if err != nil {
		return nil, err
	}
	if q.Status == StatusPending {
		return nil, ErrNotActive
	}

	questions, err := s.store.Questions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	answers, err := s.store.Answers(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	if len(answers) == 0 && q.Status != StatusCompleted {
		return nil, ErrSubmitNotAllowed
	}

	res := Score(questions, answers)
	if err := res.Skills.Validate(skillIDs(questions)); err != nil {
		return nil, err
	}

	err = s.store.CompleteQuiz(ctx, quizID, res, s.now())
	if errors.Is(err, ErrAlreadyCompleted) {
		return s.duplicate(ctx, quizID)
	}
	if err != nil {
		return nil, fmt.Errorf("complete quiz: %w", err)
	}
	s.observer.QuizCompleted()

	done, err := s.store.Quiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("reload quiz: %w", err)
	}
	sub := &Submission{Quiz: done, Result: res, ApplicationSynced: true}
	s.logger.Info("quiz completed",
		zap.String("quiz_id", quizID),
		zap.Int("score", res.Overall),
		zap.Int("answers", len(answers)),
		zap.Int("questions", len(questions)))

	if !done.Practice() {
		if err := s.store.UpdateApplicationStatus(ctx, done.ApplicationID, ApplicationQuizCompleted); err != nil {
			s.logger.Warn("application status update failed",
				zap.String("quiz_id", quizID),
				zap.String("application_id", done.ApplicationID),
				zap.Error(err))
			s.observer.ApplicationSyncFailed()
			sub.ApplicationSynced = false
			sub.SyncErr = err
		}
	}
	return sub, nil
}

func (s *Service) duplicate(ctx context.Context, quizID string) (*Submission, error) {
	s.observer.DuplicateSubmission()
	s.logger.Info("ignored duplicate submission", zap.String("quiz_id", quizID))

	q, err := s.store.Quiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("reload quiz: %w", err)
	}
	res, _ := q.Result()
	return &Submission{Quiz: q, Result: res, Duplicate: true, ApplicationSynced: true}, nil
}

// SyncApplication retries moving a completed quiz's application to
// quiz_completed.
func (s *Service) SyncApplication(ctx context.Context, p Principal, quizID string) error {
	q, err := s.load(ctx, p, quizID, false)
	if err != nil {
		return err
	}
	if q.Practice() {
		return ErrNoApplication
	}
	if q.Status != StatusCompleted {
		return ErrNotActive
	}
	if err := s.store.UpdateApplicationStatus(ctx, q.ApplicationID, ApplicationQuizCompleted); err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return nil
}

// Results returns the outcome of a quiz as the principal may see it.
// Practice quizzes are visible to their owner once completed.
func (s *Service) Results(ctx context.Context, p Principal, quizID string) (*Report, error) {
	q, err := s.load(ctx, p, quizID, true)
	if err != nil {
		return nil, err
	}
	r := &Report{Quiz: q}

	if q.Practice() {
		r.Visible = true
	} else {
		app, err := s.store.Application(ctx, q.ApplicationID)
		if err != nil {
			return nil, fmt.Errorf("load application: %w", err)
		}
		r.ApplicationStatus = app.Status
		r.Visible = CanView(p.Role, app.Status)
	}

	if res, ok := q.Result(); ok && r.Visible {
		r.Result = &res
	}
	return r, nil
}

// Session opens a session over the quiz for its owner.
func (s *Service) Session(ctx context.Context, p Principal, quizID string, rng *rand.Rand, cfg SessionConfig) (*Session, error) {
	q, err := s.load(ctx, p, quizID, false)
	if err != nil {
		return nil, err
	}
	questions, err := s.store.Questions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	answers, err := s.store.Answers(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	return NewSession(q, questions, answers, p, s, rng, cfg)
}

// load fetches the quiz and checks access. The owner always has access;
// with employerView set, so does the employer of the linked job.
func (s *Service) load(ctx context.Context, p Principal, quizID string, employerView bool) (*Quiz, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	q, err := s.store.Quiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz %s: %w", quizID, err)
	}

	switch p.Role {
	case RoleEmployee:
		if q.OwnerID == p.ID {
			return q, nil
		}
	case RoleEmployer:
		if !employerView || q.Practice() {
			break
		}
		app, err := s.store.Application(ctx, q.ApplicationID)
		if err != nil {
			return nil, fmt.Errorf("load application: %w", err)
		}
		job, err := s.store.Job(ctx, app.JobID)
		if err != nil {
			return nil, fmt.Errorf("load job: %w", err)
		}
		if job.EmployerID == p.ID {
			return q, nil
		}
	}
	return nil, ErrForbidden
}

func requireEmployee(p Principal) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Role != RoleEmployee {
		return ErrForbidden
	}
	return nil
}

func skillIDs(questions []Question) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, q := range questions {
		if !seen[q.SkillID] {
			seen[q.SkillID] = true
			ids = append(ids, q.SkillID)
		}
	}
	return ids
}
