// Package loading waits for a quiz's question set and opens the session.
package loading

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/screens/results"
	"github.com/abhisek/skillcheck/internal/screens/take"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// GeneratedMsg reports the end of a background generation run.
type GeneratedMsg struct {
	QuizID string
	Err    error
}

type sessionMsg struct {
	sess *quiz.Session
	err  error
}

// LoadingScreen polls for questions with the bounded retry policy. When
// retries run out it asks the user to refresh by hand.
type LoadingScreen struct {
	env      *screen.Env
	quiz     *quiz.Quiz
	spinner  spinner.Model
	cancel   context.CancelFunc
	polling  bool
	notReady bool
	errMsg   string
}

var _ screen.Screen = (*LoadingScreen)(nil)
var _ screen.Closer = (*LoadingScreen)(nil)
var _ screen.KeyHintProvider = (*LoadingScreen)(nil)

func New(env *screen.Env, q *quiz.Quiz) *LoadingScreen {
	return &LoadingScreen{
		env:  env,
		quiz: q,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Selected)),
	}
}

// Generate runs question generation for q in the background.
func Generate(env *screen.Env, q *quiz.Quiz) tea.Cmd {
	return func() tea.Msg {
		_, err := env.Service.Generate(env.Ctx, env.Principal, q.ID)
		return GeneratedMsg{QuizID: q.ID, Err: err}
	}
}

func (s *LoadingScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.poll())
}

func (s *LoadingScreen) Title() string {
	return "Preparing Quiz"
}

func (s *LoadingScreen) KeyHints() []layout.KeyHint {
	if s.notReady {
		return []layout.KeyHint{
			{Key: "R", Description: "Refresh"},
			{Key: "G", Description: "Generate again"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *LoadingScreen) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *LoadingScreen) poll() tea.Cmd {
	s.Close()
	ctx, cancel := context.WithCancel(s.env.Ctx)
	s.cancel = cancel
	s.polling = true
	s.notReady = false

	env, q := s.env, s.quiz
	return func() tea.Msg {
		fetch := func(ctx context.Context) ([]quiz.Question, error) {
			return env.Service.Questions(ctx, env.Principal, q.ID)
		}
		if _, err := quiz.WaitForQuestions(ctx, fetch, env.Poll); err != nil {
			return sessionMsg{err: err}
		}
		sess, err := env.Service.Session(ctx, env.Principal, q.ID, env.Rand(), env.Session)
		return sessionMsg{sess: sess, err: err}
	}
}

func (s *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case GeneratedMsg:
		if msg.QuizID == s.quiz.ID && msg.Err != nil {
			s.env.Log().Warn("question generation failed", zap.String("quiz_id", msg.QuizID), zap.Error(msg.Err))
			s.errMsg = "Question generation failed: " + msg.Err.Error()
		}
		return s, nil

	case sessionMsg:
		s.polling = false
		switch {
		case errors.Is(msg.err, quiz.ErrNotReady):
			s.notReady = true
			return s, nil
		case errors.Is(msg.err, context.Canceled):
			return s, nil
		case msg.err != nil:
			s.errMsg = msg.err.Error()
			return s, nil
		}
		var next screen.Screen = take.New(s.env, s.quiz, msg.sess)
		if msg.sess.Phase() == quiz.PhaseCompleted {
			next = results.New(s.env, s.quiz.ID)
		}
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.polling {
			return s, nil
		}
		switch msg.String() {
		case "r", "R":
			s.errMsg = ""
			return s, tea.Batch(s.spinner.Tick, s.poll())
		case "g", "G":
			s.errMsg = ""
			return s, tea.Batch(Generate(s.env, s.quiz), s.spinner.Tick, s.poll())
		}
	}
	return s, nil
}

func (s *LoadingScreen) View(width, height int) string {
	var body string
	switch {
	case s.polling:
		body = layout.Center(s.spinner.View()+" "+theme.Body.Render("Preparing your questions..."), width)
	case s.notReady:
		body = layout.Center(theme.Title.Render("Questions are not ready yet"), width) + "\n\n" +
			layout.Center(theme.Subtitle.Render("Press R to check again or G to generate a new set."), width)
	}
	if s.errMsg != "" {
		body += "\n\n" + layout.Center(theme.ErrorText.Render(s.errMsg), width)
	}
	return "\n\n" + body
}
