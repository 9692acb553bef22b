// Package results shows a quiz outcome, subject to the visibility rule.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

type reportMsg struct {
	report *quiz.Report
	names  map[string]string
	err    error
}

type syncedMsg struct {
	err error
}

// ResultsScreen displays the report of one quiz.
type ResultsScreen struct {
	env         *screen.Env
	quizID      string
	report      *quiz.Report
	names       map[string]string
	errMsg      string
	syncWarning bool
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

func New(env *screen.Env, quizID string) *ResultsScreen {
	return &ResultsScreen{env: env, quizID: quizID}
}

// WithSyncWarning flags that the application status update failed on
// submit, offering a retry.
func (s *ResultsScreen) WithSyncWarning() *ResultsScreen {
	s.syncWarning = true
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "R", Description: "Refresh"},
	}
	if s.syncWarning {
		hints = append(hints, layout.KeyHint{Key: "U", Description: "Retry application update"})
	}
	return hints
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.report, s.names = msg.report, msg.names
	case syncedMsg:
		if msg.err != nil {
			s.errMsg = "Application update failed: " + msg.err.Error()
			return s, nil
		}
		s.syncWarning = false
		s.errMsg = ""
		return s, s.load()
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "r", "R":
			return s, s.load()
		case "u", "U":
			if s.syncWarning {
				return s, s.sync()
			}
		}
	}
	return s, nil
}

func (s *ResultsScreen) load() tea.Cmd {
	env, id := s.env, s.quizID
	return func() tea.Msg {
		r, err := env.Service.Results(env.Ctx, env.Principal, id)
		if err != nil {
			return reportMsg{err: err}
		}
		var ids []string
		if r.Result != nil {
			for _, sc := range r.Result.Skills {
				ids = append(ids, sc.SkillID)
			}
		}
		return reportMsg{report: r, names: env.SkillNames(ids)}
	}
}

func (s *ResultsScreen) sync() tea.Cmd {
	env, id := s.env, s.quizID
	return func() tea.Msg {
		return syncedMsg{err: env.Service.SyncApplication(env.Ctx, env.Principal, id)}
	}
}

func (s *ResultsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	switch {
	case s.report == nil && s.errMsg == "":
		b.WriteString(layout.Center(theme.Hint.Render("Loading results..."), width))
	case s.report == nil:
	case s.report.Quiz.Status != quiz.StatusCompleted:
		b.WriteString(layout.Center(theme.Subtitle.Render("This quiz has not been submitted yet."), width))
	case s.report.Result == nil:
		b.WriteString(s.renderHidden(width))
	default:
		b.WriteString(s.renderScores(width))
	}

	if s.syncWarning {
		b.WriteString("\n\n")
		b.WriteString(layout.Center(lipgloss.NewStyle().Foreground(theme.Accent).Render("Your answers are saved, but the application status could not be updated. Press U to retry."), width))
	}
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Center(theme.ErrorText.Render(s.errMsg), width))
	}
	return b.String()
}

func (s *ResultsScreen) renderHidden(width int) string {
	return layout.Center(theme.Title.Render("Quiz submitted"), width) + "\n\n" +
		layout.Center(theme.Subtitle.Render(fmt.Sprintf(
			"Your score is shared once the employer reviews your application.\nApplication status: %s",
			s.report.ApplicationStatus)), width)
}

func (s *ResultsScreen) renderScores(width int) string {
	res := s.report.Result
	var b strings.Builder
	b.WriteString(layout.Center(theme.Title.Render(fmt.Sprintf("Overall score: %d%%", res.Overall)), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Center(theme.Muted.Render("Skills"), width))
	b.WriteString("\n")
	b.WriteString(layout.Center(layout.Divider(width), width))
	b.WriteString("\n\n")

	barWidth := min(width-8, 64)
	for _, sc := range res.Skills {
		label := fmt.Sprintf("%-18s", truncate(s.names[sc.SkillID], 18))
		bar := components.NewProgressBar(label, float64(sc.Percent)/100, barWidth)
		bar.Suffix = fmt.Sprintf("%3d%%  %d/%d", sc.Percent, sc.Correct, sc.Total)
		b.WriteString(layout.Center(bar.View(), width))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
