// Package take is the screen a candidate answers a quiz on.
package take

import (
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/screens/results"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
)

const tickInterval = time.Second

// TakeScreen drives a quiz.Session from key presses and clock ticks. All
// session calls happen inside Update, so the session is never shared with
// a command goroutine.
type TakeScreen struct {
	env      *screen.Env
	quiz     *quiz.Quiz
	sess     *quiz.Session
	names    map[string]string
	choice   components.MultiChoice
	shownFor int
	lastTick time.Time
	notice   string
	errMsg   string
	quitting bool
}

var _ screen.Screen = (*TakeScreen)(nil)
var _ screen.KeyHintProvider = (*TakeScreen)(nil)

// New creates the screen over an opened session.
func New(env *screen.Env, q *quiz.Quiz, sess *quiz.Session) *TakeScreen {
	return &TakeScreen{
		env:      env,
		quiz:     q,
		sess:     sess,
		names:    env.SkillNames(sess.SkillIDs()),
		shownFor: -1,
	}
}

func (s *TakeScreen) Init() tea.Cmd {
	if err := s.sess.Begin(s.env.Ctx); err != nil {
		s.errMsg = "Could not start the quiz: " + err.Error()
		return nil
	}
	s.lastTick = time.Now()
	s.sync()
	return tick()
}

func (s *TakeScreen) Title() string {
	if s.quiz.Practice() {
		return "Practice Quiz"
	}
	return "Assessment"
}

func (s *TakeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.quitting:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave (progress is saved)"},
			{Key: "N", Description: "Keep going"},
		}
	case s.sess.BetweenSkills():
		hints := []layout.KeyHint{}
		if s.sess.HasNextSkill() {
			hints = append(hints, layout.KeyHint{Key: "N", Description: "Next skill"})
		}
		return append(hints,
			layout.KeyHint{Key: "F", Description: "Finish and submit"},
			layout.KeyHint{Key: "Q", Description: "Leave"})
	case s.sess.AwaitingAdvance():
		return []layout.KeyHint{{Key: "…", Description: "Next question coming up"}}
	}
	hints := []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Pick"},
		{Key: "S", Description: "Skip"},
	}
	if s.sess.CanSubmit() {
		hints = append(hints, layout.KeyHint{Key: "F", Description: "Finish"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Leave"})
}

func (s *TakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s, s.handleTick(time.Time(msg))
	case advanceMsg:
		s.handleAdvance(msg)
		return s, nil
	case components.PickMsg:
		return s, s.handlePick(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *TakeScreen) handleTick(now time.Time) tea.Cmd {
	if s.sess.Phase() != quiz.PhaseInProgress {
		return nil
	}
	elapsed := now.Sub(s.lastTick)
	s.lastTick = now
	if elapsed <= 0 {
		return tick()
	}

	res, err := s.sess.Tick(s.env.Ctx, elapsed)
	if err != nil {
		s.env.Log().Warn("timeout answer not saved, retrying", zap.Error(err))
		s.errMsg = "Could not save the timed-out answer. Retrying..."
		return tick()
	}
	if !res.TimedOut {
		return tick()
	}

	s.errMsg = ""
	s.notice = "Time's up. An answer was picked for you."
	idx := s.sess.ActiveIndex()
	s.choice = s.choice.Lock(res.Choice, s.revealIndex(), true)
	return tea.Batch(tick(), advanceAfter(res.Delay, idx))
}

func (s *TakeScreen) handleAdvance(msg advanceMsg) {
	if !s.sess.AwaitingAdvance() || s.sess.ActiveIndex() != msg.index {
		return
	}
	if err := s.sess.Advance(); err != nil {
		s.errMsg = err.Error()
		return
	}
	s.lastTick = time.Now()
	s.sync()
}

func (s *TakeScreen) handlePick(msg components.PickMsg) tea.Cmd {
	idx := s.sess.ActiveIndex()
	delay, err := s.sess.Answer(s.env.Ctx, msg.Option)
	if errors.Is(err, quiz.ErrAdvancePending) || errors.Is(err, quiz.ErrNoActiveQuestion) {
		// The question was resolved by a timeout while the pick was queued.
		return nil
	}
	if err != nil {
		s.errMsg = "Answer not saved: " + err.Error()
		return nil
	}
	s.errMsg = ""
	s.choice = s.choice.Lock(msg.Option, s.revealIndex(), false)
	return advanceAfter(delay, idx)
}

func (s *TakeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if s.quitting {
		switch key {
		case "y", "Y":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N":
			s.quitting = false
		}
		return s, nil
	}

	switch key {
	case "q", "Q":
		s.quitting = true
		return s, nil
	case "f", "F":
		return s, s.submit()
	}

	if s.sess.BetweenSkills() {
		if key == "n" || key == "N" {
			if err := s.sess.NextSkill(); err != nil {
				s.errMsg = err.Error()
				return s, nil
			}
			s.lastTick = time.Now()
			s.sync()
		}
		return s, nil
	}

	if s.sess.AwaitingAdvance() {
		return s, nil
	}
	if key == "s" || key == "S" {
		if err := s.sess.Skip(s.env.Ctx); err != nil {
			s.errMsg = "Skip not saved: " + err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.lastTick = time.Now()
		s.sync()
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

func (s *TakeScreen) submit() tea.Cmd {
	if !s.sess.CanSubmit() {
		s.errMsg = "Answer at least one question before submitting."
		return nil
	}
	sub, err := s.sess.Submit(s.env.Ctx)
	if err != nil && !errors.Is(err, quiz.ErrAlreadyCompleted) {
		s.errMsg = "Submit failed: " + err.Error()
		return nil
	}
	if sub != nil && !sub.ApplicationSynced {
		s.env.Log().Warn("quiz submitted but application not updated",
			zap.String("quiz_id", s.quiz.ID), zap.Error(sub.SyncErr))
	}
	next := results.New(s.env, s.quiz.ID)
	if sub != nil && !sub.ApplicationSynced {
		next = next.WithSyncWarning()
	}
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// sync rebuilds the selector when a new question becomes active.
func (s *TakeScreen) sync() {
	q, ok := s.sess.Active()
	if !ok {
		s.shownFor = -1
		return
	}
	if idx := s.sess.ActiveIndex(); idx != s.shownFor {
		s.choice = components.NewMultiChoice(q.Options)
		s.shownFor = idx
		s.notice = ""
	}
}

// revealIndex is the correct option index for practice quizzes and -1
// for assessments, whose answer key stays hidden.
func (s *TakeScreen) revealIndex() int {
	if !s.quiz.Practice() {
		return -1
	}
	q, ok := s.sess.Active()
	if !ok {
		return -1
	}
	for i, o := range q.Options {
		if o == q.CorrectAnswer {
			return i
		}
	}
	return -1
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func advanceAfter(d time.Duration, index int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return advanceMsg{index: index}
	})
}
