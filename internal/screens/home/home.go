// Package home lists the candidate's quizzes.
package home

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/screens/loading"
	"github.com/abhisek/skillcheck/internal/screens/results"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

type quizzesMsg struct {
	quizzes []quiz.Quiz
	err     error
}

type createdMsg struct {
	quiz *quiz.Quiz
	err  error
}

// HomeScreen is the first screen: a menu of quizzes plus a practice entry.
type HomeScreen struct {
	env      *screen.Env
	menu     components.Menu
	loaded   bool
	errMsg   string
	creating bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

func New(env *screen.Env) *HomeScreen {
	return &HomeScreen{env: env}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) Refresh() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) Title() string {
	return "My Quizzes"
}

func (h *HomeScreen) load() tea.Cmd {
	env := h.env
	return func() tea.Msg {
		qs, err := env.Service.ListQuizzes(env.Ctx, env.Principal)
		return quizzesMsg{quizzes: qs, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizzesMsg:
		h.loaded = true
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.setItems(msg.quizzes)
		return h, nil

	case createdMsg:
		h.creating = false
		if msg.err != nil {
			h.errMsg = "Could not create a practice quiz: " + msg.err.Error()
			return h, nil
		}
		return h, h.open(msg.quiz, true)

	case tea.KeyMsg:
		var cmd tea.Cmd
		h.menu, cmd = h.menu.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) setItems(qs []quiz.Quiz) {
	selected := h.menu.Selected
	items := []components.MenuItem{{
		Label:  "Start a practice quiz",
		Detail: "on your own skills",
		Action: h.createPractice,
	}}
	for i := range qs {
		q := qs[i]
		label := "Practice quiz"
		if !q.Practice() {
			label = "Application " + shortID(q.ApplicationID)
		}
		items = append(items, components.MenuItem{
			Label:  label,
			Detail: fmt.Sprintf("%s · %s", statusLabel(q.Status), q.CreatedAt.Local().Format("Jan 2 15:04")),
			Action: func() tea.Cmd { return h.open(&q, false) },
		})
	}
	h.menu = components.NewMenu(items)
	h.menu.Selected = min(selected, len(items)-1)
}

func (h *HomeScreen) createPractice() tea.Cmd {
	if h.creating {
		return nil
	}
	h.creating = true
	env := h.env
	return func() tea.Msg {
		q, err := env.Service.CreatePractice(env.Ctx, env.Principal)
		return createdMsg{quiz: q, err: err}
	}
}

// open routes a quiz to its screen. With generate set a question set is
// built in the background while the loading screen polls for it.
func (h *HomeScreen) open(q *quiz.Quiz, generate bool) tea.Cmd {
	if q.Status == quiz.StatusCompleted {
		next := results.New(h.env, q.ID)
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
	next := loading.New(h.env, q)
	push := func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	if !generate {
		return push
	}
	return tea.Sequence(push, loading.Generate(h.env, q))
}

func (h *HomeScreen) View(width, height int) string {
	out := "\n" + layout.Center(theme.Title.Render("Skill assessments"), width) + "\n\n"
	switch {
	case !h.loaded:
		out += layout.Center(theme.Hint.Render("Loading..."), width)
	case len(h.menu.Items) > 0:
		out += h.menu.View()
	}
	if h.creating {
		out += "\n" + theme.Hint.Render("  Creating practice quiz...")
	}
	if h.errMsg != "" {
		out += "\n\n" + layout.Center(theme.ErrorText.Render(h.errMsg), width)
	}
	return out
}

func statusLabel(s quiz.Status) string {
	switch s {
	case quiz.StatusPending:
		return "not started"
	case quiz.StatusInProgress:
		return "in progress"
	case quiz.StatusCompleted:
		return "submitted"
	}
	return string(s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
