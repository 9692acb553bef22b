package loading

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/skillcheck/internal/questiongen"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/router"
	"github.com/abhisek/skillcheck/internal/screen"
	"github.com/abhisek/skillcheck/internal/screens/take"
	"github.com/abhisek/skillcheck/internal/skill"
	"github.com/abhisek/skillcheck/internal/store"
)

var candidate = quiz.Principal{ID: "emp-1", Role: quiz.RoleEmployee}

func testEnv(t *testing.T) *screen.Env {
	t.Helper()
	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:loading_%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.CreateSkill(ctx, skill.Skill{ID: "go", Name: "Go"}); err != nil {
		t.Fatalf("create skill: %v", err)
	}
	if err := st.SetCandidateSkills(ctx, candidate.ID, []skill.Association{{SkillID: "go", Level: 3}}); err != nil {
		t.Fatalf("set skills: %v", err)
	}

	cfg := questiongen.DefaultConfig()
	cfg.QuestionsPerSkill = 2
	return &screen.Env{
		Ctx:       ctx,
		Service:   quiz.NewService(st, questiongen.NewBank(nil, cfg)),
		Skills:    st,
		Principal: candidate,
		Session:   quiz.DefaultSessionConfig(),
		Poll:      quiz.PollPolicy{MaxRetries: 0},
	}
}

func TestLoading_NotReadyAfterRetries(t *testing.T) {
	env := testEnv(t)
	q, err := env.Service.CreatePractice(env.Ctx, candidate)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s := New(env, q)
	msg := s.poll()()
	s.Update(msg)

	if !s.notReady {
		t.Fatal("expected not-ready state once retries run out")
	}
	if s.polling {
		t.Error("polling flag should clear")
	}
	if !strings.Contains(s.View(100, 30), "not ready") {
		t.Error("view should ask for a manual refresh")
	}
}

func TestLoading_GenerateThenOpen(t *testing.T) {
	env := testEnv(t)
	q, err := env.Service.CreatePractice(env.Ctx, candidate)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s := New(env, q)

	gen := Generate(env, q)().(GeneratedMsg)
	if gen.Err != nil {
		t.Fatalf("generate: %v", gen.Err)
	}
	s.Update(gen)

	_, cmd := s.Update(s.poll()())
	if cmd == nil {
		t.Fatalf("expected navigation, got error %q", s.errMsg)
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := replace.Screen.(*take.TakeScreen); !ok {
		t.Errorf("expected take screen, got %T", replace.Screen)
	}
}

func TestLoading_GenerationFailureShown(t *testing.T) {
	env := testEnv(t)
	q, _ := env.Service.CreatePractice(env.Ctx, candidate)
	s := New(env, q)

	s.Update(GeneratedMsg{QuizID: q.ID, Err: quiz.ErrAlreadyStarted})
	if !strings.Contains(s.errMsg, "generation failed") {
		t.Errorf("errMsg = %q", s.errMsg)
	}

	s.errMsg = ""
	s.Update(GeneratedMsg{QuizID: "other", Err: quiz.ErrAlreadyStarted})
	if s.errMsg != "" {
		t.Error("failures of other quizzes must be ignored")
	}
}
