package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Phase is the quiz-level state of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// QuestionState is the state of one question within a session.
type QuestionState int

const (
	Unanswered QuestionState = iota
	Answered
	Skipped
	TimedOut
	Submitted
)

func (s QuestionState) String() string {
	switch s {
	case Unanswered:
		return "unanswered"
	case Answered:
		return "answered"
	case Skipped:
		return "skipped"
	case TimedOut:
		return "timed_out"
	case Submitted:
		return "submitted"
	default:
		return fmt.Sprintf("QuestionState(%d)", int(s))
	}
}

// Backend persists session transitions. *Service implements it.
type Backend interface {
	Start(ctx context.Context, p Principal, quizID string) (*Quiz, error)
	RecordAnswer(ctx context.Context, p Principal, quizID, questionID, text string, skipped bool) (*Answer, error)
	Submit(ctx context.Context, p Principal, quizID string) (*Submission, error)
}

// SessionConfig holds the session timings.
type SessionConfig struct {
	TimeLimit    time.Duration
	AnswerDelay  time.Duration
	TimeoutDelay time.Duration
}

// DefaultSessionConfig returns a 15s limit with 500ms and 1500ms advance
// delays.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TimeLimit:    15 * time.Second,
		AnswerDelay:  500 * time.Millisecond,
		TimeoutDelay: 1500 * time.Millisecond,
	}
}

type skillGroup struct {
	SkillID   string
	questions []int
	complete  bool
}

// TickResult reports what a Tick did.
type TickResult struct {
	Remaining time.Duration
	TimedOut  bool
	Choice    string
	// Delay is how long the driver should wait before calling Advance.
	Delay time.Duration
}

// Session drives one candidate through a quiz: skill by skill, question by
// question. It is synchronous; the caller owns the clock, feeding elapsed
// time through Tick and calling Advance once an advance delay has passed.
// A failed write leaves the session where it was.
type Session struct {
	quizID    string
	principal Principal
	backend   Backend
	rng       *rand.Rand
	config    SessionConfig

	questions []Question
	states    []QuestionState
	outcomes  []QuestionState
	answers   []string
	skills    []skillGroup

	phase          Phase
	skillIdx       int
	pos            int // position within the active skill
	awaitAdvance   bool
	betweenSkills  bool
	timer          *Countdown
	submission     *Submission
	recordedAnswer bool
}

// NewSession builds a session over questions in generation order. Existing
// answers mark their questions submitted so an interrupted quiz resumes at
// the first open question. rng picks the timeout answer.
func NewSession(q *Quiz, questions []Question, existing []Answer, p Principal, backend Backend, rng *rand.Rand, cfg SessionConfig) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNotReady
	}
	if rng == nil {
		return nil, errors.New("session requires a random source")
	}

	s := &Session{
		quizID:    q.ID,
		principal: p,
		backend:   backend,
		rng:       rng,
		config:    cfg,
		questions: questions,
		states:    make([]QuestionState, len(questions)),
		outcomes:  make([]QuestionState, len(questions)),
		answers:   make([]string, len(questions)),
		timer:     NewCountdown(cfg.TimeLimit),
	}

	bySkill := make(map[string]int)
	for i, qq := range questions {
		at, ok := bySkill[qq.SkillID]
		if !ok {
			at = len(s.skills)
			bySkill[qq.SkillID] = at
			s.skills = append(s.skills, skillGroup{SkillID: qq.SkillID})
		}
		s.skills[at].questions = append(s.skills[at].questions, i)
	}

	answered := make(map[string]*Answer, len(existing))
	for i := range existing {
		answered[existing[i].QuestionID] = &existing[i]
	}
	for i, qq := range questions {
		a, ok := answered[qq.ID]
		if !ok {
			continue
		}
		s.states[i] = Submitted
		s.answers[i] = a.Text
		s.outcomes[i] = Answered
		if a.Skipped() {
			s.outcomes[i] = Skipped
		}
		s.recordedAnswer = true
	}
	for i := range s.skills {
		s.skills[i].complete = s.skillDone(i)
	}

	switch q.Status {
	case StatusCompleted:
		s.phase = PhaseCompleted
		if res, ok := q.Result(); ok {
			s.submission = &Submission{Quiz: q, Result: res}
		}
	case StatusInProgress:
		s.phase = PhaseInProgress
		s.seek()
	}
	return s, nil
}

// Begin moves the quiz to in progress and activates the first open
// question.
func (s *Session) Begin(ctx context.Context) error {
	switch s.phase {
	case PhaseCompleted:
		return ErrAlreadyCompleted
	case PhaseInProgress:
		return nil
	}
	if _, err := s.backend.Start(ctx, s.principal, s.quizID); err != nil {
		return fmt.Errorf("start quiz: %w", err)
	}
	s.phase = PhaseInProgress
	s.seek()
	return nil
}

// seek positions on the first skill that is not complete and the first
// open question in it, starting the countdown.
func (s *Session) seek() {
	for s.skillIdx < len(s.skills) && s.skills[s.skillIdx].complete {
		s.skillIdx++
	}
	if s.skillIdx >= len(s.skills) {
		s.skillIdx = len(s.skills) - 1
		s.pos = len(s.skills[s.skillIdx].questions) - 1
		s.betweenSkills = true
		s.timer.Stop()
		return
	}
	s.betweenSkills = false
	s.pos = 0
	for s.states[s.current()] == Submitted {
		s.pos++
	}
	s.timer.Reset()
}

func (s *Session) current() int {
	return s.skills[s.skillIdx].questions[s.pos]
}

func (s *Session) skillDone(i int) bool {
	for _, qi := range s.skills[i].questions {
		if s.states[qi] != Submitted {
			return false
		}
	}
	return true
}

// Phase returns the quiz-level state.
func (s *Session) Phase() Phase { return s.phase }

// Active returns the active question, if one is being asked.
func (s *Session) Active() (Question, bool) {
	if s.phase != PhaseInProgress || s.betweenSkills {
		return Question{}, false
	}
	return s.questions[s.current()], true
}

// ActiveState returns the state of the active question.
func (s *Session) ActiveState() QuestionState {
	if _, ok := s.Active(); !ok {
		return Submitted
	}
	return s.states[s.current()]
}

// Outcome returns how the question at index i was resolved and the text
// that was recorded for it.
func (s *Session) Outcome(i int) (QuestionState, string) {
	return s.outcomes[i], s.answers[i]
}

// Questions returns the session's questions in order.
func (s *Session) Questions() []Question { return s.questions }

// State returns the state of question i.
func (s *Session) State(i int) QuestionState { return s.states[i] }

// SkillIDs returns the skills in visiting order.
func (s *Session) SkillIDs() []string {
	out := make([]string, len(s.skills))
	for i, g := range s.skills {
		out[i] = g.SkillID
	}
	return out
}

// Position returns the active skill index, the active question index
// within that skill, and the number of questions in the skill.
func (s *Session) Position() (skill, question, total int) {
	return s.skillIdx, s.pos, len(s.skills[s.skillIdx].questions)
}

// ActiveIndex returns the index of the active question in Questions.
func (s *Session) ActiveIndex() int { return s.current() }

// SkillComplete reports whether skill i is complete.
func (s *Session) SkillComplete(i int) bool { return s.skills[i].complete }

// BetweenSkills reports whether the active skill is complete and the
// session waits for NextSkill or Submit.
func (s *Session) BetweenSkills() bool { return s.betweenSkills }

// AwaitingAdvance reports whether the active question is resolved and the
// session waits for Advance.
func (s *Session) AwaitingAdvance() bool { return s.awaitAdvance }

// Remaining returns the time left on the active question.
func (s *Session) Remaining() time.Duration { return s.timer.Remaining() }

// TimeLimit returns the full per-question limit.
func (s *Session) TimeLimit() time.Duration { return s.timer.Limit() }

// AllSkillsComplete reports whether every skill is complete.
func (s *Session) AllSkillsComplete() bool {
	for _, g := range s.skills {
		if !g.complete {
			return false
		}
	}
	return true
}

// HasNextSkill reports whether a skill follows the active one.
func (s *Session) HasNextSkill() bool {
	for i := s.skillIdx + 1; i < len(s.skills); i++ {
		if !s.skills[i].complete {
			return true
		}
	}
	return false
}

// Submission returns the completion outcome once submitted.
func (s *Session) Submission() *Submission { return s.submission }

func (s *Session) activeOpen() (int, error) {
	if s.phase != PhaseInProgress {
		return 0, ErrNotActive
	}
	if s.betweenSkills {
		return 0, ErrNoActiveQuestion
	}
	if s.awaitAdvance {
		return 0, ErrAdvancePending
	}
	i := s.current()
	if s.states[i] != Unanswered {
		return 0, ErrNoActiveQuestion
	}
	return i, nil
}

// record persists an outcome for question i. State changes only after the
// write succeeds.
func (s *Session) record(ctx context.Context, i int, text string, outcome QuestionState) error {
	q := s.questions[i]
	if _, err := s.backend.RecordAnswer(ctx, s.principal, s.quizID, q.ID, text, outcome == Skipped); err != nil {
		return fmt.Errorf("record answer for question %d: %w", q.Position, err)
	}
	s.timer.Stop()
	s.states[i] = Submitted
	s.outcomes[i] = outcome
	s.answers[i] = text
	if outcome == Skipped {
		s.answers[i] = SkippedAnswer
	}
	s.recordedAnswer = true
	return nil
}

// Answer records choice for the active question. Once the write is
// acknowledged it returns the delay after which the driver must call
// Advance.
func (s *Session) Answer(ctx context.Context, choice string) (time.Duration, error) {
	i, err := s.activeOpen()
	if err != nil {
		return 0, err
	}
	if !s.questions[i].HasOption(choice) {
		return 0, ErrInvalidChoice
	}
	s.states[i] = Answered
	if err := s.record(ctx, i, choice, Answered); err != nil {
		s.states[i] = Unanswered
		return 0, err
	}
	s.awaitAdvance = true
	return s.config.AnswerDelay, nil
}

// Skip records a skip for the active question and advances immediately.
func (s *Session) Skip(ctx context.Context) error {
	i, err := s.activeOpen()
	if err != nil {
		return err
	}
	s.states[i] = Skipped
	if err := s.record(ctx, i, SkippedAnswer, Skipped); err != nil {
		s.states[i] = Unanswered
		return err
	}
	s.awaitAdvance = true
	return s.Advance()
}

// Tick feeds elapsed time to the active question's countdown. When it
// reaches zero on an unanswered question, a random option of that question
// is recorded and the driver should call Advance after the returned delay.
// If the write fails the countdown stays expired and the next Tick retries.
func (s *Session) Tick(ctx context.Context, elapsed time.Duration) (TickResult, error) {
	i, err := s.activeOpen()
	if err != nil {
		return TickResult{Remaining: s.timer.Remaining()}, nil
	}
	if !s.timer.Tick(elapsed) {
		return TickResult{Remaining: s.timer.Remaining()}, nil
	}

	opts := s.questions[i].Options
	choice := opts[s.rng.IntN(len(opts))]
	s.states[i] = TimedOut
	if err := s.record(ctx, i, choice, TimedOut); err != nil {
		s.states[i] = Unanswered
		return TickResult{}, err
	}
	s.awaitAdvance = true
	return TickResult{TimedOut: true, Choice: choice, Delay: s.config.TimeoutDelay}, nil
}

// Advance moves past the resolved active question. After the last question
// of a skill the skill is marked complete and the session waits between
// skills; it never submits on its own.
func (s *Session) Advance() error {
	if s.phase != PhaseInProgress {
		return ErrNotActive
	}
	if !s.awaitAdvance {
		return ErrNoActiveQuestion
	}
	s.awaitAdvance = false

	g := &s.skills[s.skillIdx]
	for s.pos+1 < len(g.questions) {
		s.pos++
		if s.states[s.current()] != Submitted {
			s.timer.Reset()
			return nil
		}
	}
	g.complete = s.skillDone(s.skillIdx)
	s.betweenSkills = true
	s.timer.Stop()
	return nil
}

// NextSkill activates the next incomplete skill.
func (s *Session) NextSkill() error {
	if s.phase != PhaseInProgress {
		return ErrNotActive
	}
	if !s.betweenSkills || !s.HasNextSkill() {
		return ErrNoActiveQuestion
	}
	s.skillIdx++
	s.seek()
	return nil
}

// CanSubmit reports whether Submit is allowed: every skill is complete, or
// at least one answer or skip has been recorded.
func (s *Session) CanSubmit() bool {
	if s.phase != PhaseInProgress {
		return false
	}
	return s.AllSkillsComplete() || s.recordedAnswer
}

// Submit completes the quiz. The session is terminal afterwards.
func (s *Session) Submit(ctx context.Context) (*Submission, error) {
	if s.phase == PhaseCompleted {
		return s.submission, ErrAlreadyCompleted
	}
	if !s.CanSubmit() {
		return nil, ErrSubmitNotAllowed
	}
	sub, err := s.backend.Submit(ctx, s.principal, s.quizID)
	if err != nil {
		return nil, fmt.Errorf("submit quiz: %w", err)
	}
	s.timer.Stop()
	s.awaitAdvance = false
	s.phase = PhaseCompleted
	s.submission = sub
	return sub, nil
}
