package home

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/questiongen"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/screens/loading"
	"github.com/abhisek/skillcheck/internal/screens/results"
	"github.com/abhisek/skillcheck/internal/store"
)

func testEnv(t *testing.T, p quiz.Principal) *screen.Env {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:home_%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return &screen.Env{
		Ctx:       context.Background(),
		Service:   quiz.NewService(st, questiongen.NewBank(nil, questiongen.DefaultConfig())),
		Skills:    st,
		Principal: p,
	}
}

var enter = tea.KeyPressMsg{Code: tea.KeyEnter}

func TestHome_ListsQuizzes(t *testing.T) {
	p := quiz.Principal{ID: "emp-1", Role: quiz.RoleEmployee}
	env := testEnv(t, p)
	if _, err := env.Service.CreatePractice(env.Ctx, p); err != nil {
		t.Fatal(err)
	}

	h := New(env)
	h.Update(h.Init()())
	if len(h.menu.Items) != 2 {
		t.Fatalf("expected practice entry plus one quiz, got %d items", len(h.menu.Items))
	}
	if !strings.Contains(h.View(100, 30), "not started") {
		t.Error("expected quiz status in view")
	}

	// Selecting the pending quiz opens the loading screen.
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(enter)
	if cmd == nil {
		t.Fatal("expected an open command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*loading.LoadingScreen); !ok {
		t.Errorf("expected loading screen, got %T", push.Screen)
	}
}

func TestHome_CreatePractice(t *testing.T) {
	p := quiz.Principal{ID: "emp-1", Role: quiz.RoleEmployee}
	env := testEnv(t, p)
	h := New(env)
	h.Update(h.Init()())

	_, cmd := h.Update(enter)
	if cmd == nil || !h.creating {
		t.Fatal("expected practice creation to start")
	}
	msg := cmd()
	if _, cmd := h.Update(enter); cmd != nil {
		t.Error("a second create must wait for the first")
	}
	_, next := h.Update(msg)
	if next == nil {
		t.Fatalf("expected navigation after create: %s", h.errMsg)
	}

	qs, err := env.Service.ListQuizzes(env.Ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 || !qs[0].Practice() {
		t.Errorf("expected one practice quiz, got %+v", qs)
	}
}

func TestHome_CompletedOpensResults(t *testing.T) {
	h := &HomeScreen{env: testEnv(t, quiz.Principal{ID: "emp-1", Role: quiz.RoleEmployee})}
	cmd := h.open(&quiz.Quiz{ID: "q1", Status: quiz.StatusCompleted}, false)
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*results.ResultsScreen); !ok {
		t.Errorf("expected results screen, got %T", push.Screen)
	}
}

func TestHome_EmployerSeesError(t *testing.T) {
	h := New(testEnv(t, quiz.Principal{ID: "boss-1", Role: quiz.RoleEmployer}))
	h.Update(h.Init()())
	if h.errMsg == "" {
		t.Error("expected an error for an employer principal")
	}
}
