package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/questiongen"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/skill"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seed creates two skills, a job requiring both and one application.
func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	for _, sk := range []skill.Skill{
		{ID: "python", Name: "Python"},
		{ID: "sql", Name: "SQL", Description: "Relational queries"},
	} {
		if err := s.CreateSkill(ctx, sk); err != nil {
			t.Fatalf("create skill: %v", err)
		}
	}
	if err := s.CreateJob(ctx, &quiz.Job{ID: "job-1", EmployerID: "emp-1", Title: "Data Engineer", CreatedAt: t0}); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if err := s.SetJobSkills(ctx, "job-1", []skill.Association{
		{SkillID: "sql", Level: 2},
		{SkillID: "python", Level: 4},
	}); err != nil {
		t.Fatalf("set job skills: %v", err)
	}
	if err := s.CreateApplication(ctx, &quiz.Application{
		ID: "app-1", JobID: "job-1", EmployeeID: "cand-1", CreatedAt: t0, UpdatedAt: t0,
	}); err != nil {
		t.Fatalf("create application: %v", err)
	}
}

func newQuiz(t *testing.T, s *Store, id, appID string) *quiz.Quiz {
	t.Helper()
	q := &quiz.Quiz{ID: id, OwnerID: "cand-1", ApplicationID: appID, Status: quiz.StatusPending, CreatedAt: t0}
	if err := s.CreateQuiz(context.Background(), q); err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return q
}

func testQuestions(quizID string, n int) []quiz.Question {
	qs := make([]quiz.Question, n)
	for i := range qs {
		qs[i] = quiz.Question{
			ID:            fmt.Sprintf("%s-q%d", quizID, i),
			QuizID:        quizID,
			SkillID:       "python",
			Position:      i,
			Text:          fmt.Sprintf("Question %d?", i),
			Options:       []string{"A. one", "B. two", "C. three", "D. four"},
			CorrectAnswer: "B. two",
			Explanation:   "two is right",
			Source:        questiongen.SourceFallback,
		}
	}
	return qs
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// In-memory databases report journal_mode "memory", so WAL is
		// checked in TestOpenFile.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skillcheck.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}

	// Migration is idempotent.
	s.Close()
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("SKILLCHECK_DB", filepath.Join(dir, "explicit", "x.db"))
	p, err := DefaultDBPath()
	if err != nil || p != filepath.Join(dir, "explicit", "x.db") {
		t.Fatalf("got %q, %v", p, err)
	}

	t.Setenv("SKILLCHECK_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil || p != filepath.Join(dir, "skillcheck", "skillcheck.db") {
		t.Fatalf("got %q, %v", p, err)
	}
	if _, err := os.Stat(filepath.Dir(p)); err != nil {
		t.Fatalf("parent dir not created: %v", err)
	}
}

func TestCatalog(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	if err := s.CreateSkill(ctx, skill.Skill{ID: "py2", Name: "Python"}); err == nil {
		t.Fatal("expected duplicate skill name to fail")
	}

	sk, err := s.SkillByName(ctx, "SQL")
	if err != nil || sk.ID != "sql" || sk.Description != "Relational queries" {
		t.Fatalf("SkillByName = %+v, %v", sk, err)
	}
	if _, err := s.SkillByName(ctx, "Rust"); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := s.Skills(ctx, []string{"python", "missing"})
	if err != nil || len(got) != 1 || got["python"].Name != "Python" {
		t.Fatalf("Skills = %v, %v", got, err)
	}

	assocs, err := s.JobSkills(ctx, "job-1")
	if err != nil {
		t.Fatalf("JobSkills: %v", err)
	}
	if len(assocs) != 2 || assocs[0].SkillID != "sql" || assocs[1].Level != 4 {
		t.Fatalf("job skills lost order: %+v", assocs)
	}

	if err := s.SetJobSkills(ctx, "job-1", []skill.Association{{SkillID: "sql", Level: 9}}); !errors.Is(err, skill.ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}

	jobs, err := s.ListJobs(ctx, "emp-1")
	if err != nil || len(jobs) != 1 || jobs[0].Title != "Data Engineer" || !jobs[0].CreatedAt.Equal(t0) {
		t.Fatalf("ListJobs = %+v, %v", jobs, err)
	}
}

func TestCandidateSkills(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	for _, a := range []skill.Association{
		{SkillID: "python", Level: 2},
		{SkillID: "sql", Level: 3},
		{SkillID: "python", Level: 5},
	} {
		if err := s.AddCandidateSkill(ctx, "cand-1", a); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	got, err := s.CandidateSkills(ctx, "cand-1")
	if err != nil {
		t.Fatalf("CandidateSkills: %v", err)
	}
	if len(got) != 2 || got[0].SkillID != "python" || got[0].Level != 5 || got[1].SkillID != "sql" {
		t.Fatalf("unexpected candidate skills: %+v", got)
	}
}

func TestApplications(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	dup := &quiz.Application{ID: "app-2", JobID: "job-1", EmployeeID: "cand-1", CreatedAt: t0, UpdatedAt: t0}
	if err := s.CreateApplication(ctx, dup); err == nil {
		t.Fatal("expected second application to the same job to fail")
	}

	if err := s.UpdateApplicationStatus(ctx, "app-1", quiz.ApplicationInterview); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.SetInterviewDetails(ctx, "app-1", "Tuesday 10:00"); err != nil {
		t.Fatalf("details: %v", err)
	}
	app, err := s.Application(ctx, "app-1")
	if err != nil {
		t.Fatalf("Application: %v", err)
	}
	if app.Status != quiz.ApplicationInterview || app.InterviewDetails != "Tuesday 10:00" {
		t.Fatalf("unexpected application: %+v", app)
	}

	if err := s.UpdateApplicationStatus(ctx, "nope", quiz.ApplicationInterview); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateApplicationStatus(ctx, "app-1", "bogus"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}

	list, err := s.ListApplications(ctx, "", "cand-1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListApplications = %+v, %v", list, err)
	}
}

func TestQuizLifecycle(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()
	newQuiz(t, s, "quiz-1", "app-1")

	q, err := s.QuizByApplication(ctx, "app-1")
	if err != nil || q.ID != "quiz-1" || q.Practice() || q.Status != quiz.StatusPending {
		t.Fatalf("QuizByApplication = %+v, %v", q, err)
	}
	if q.StartedAt != nil || q.Score != nil || q.SkillScores != nil {
		t.Fatalf("fresh quiz has result fields: %+v", q)
	}

	if err := s.ReplaceQuestions(ctx, "quiz-1", testQuestions("quiz-1", 5)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	// Regenerating a pending quiz swaps the whole set.
	if err := s.ReplaceQuestions(ctx, "quiz-1", testQuestions("quiz-1", 3)); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	qs, err := s.Questions(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(qs) != 3 || qs[2].Position != 2 || qs[0].Options[3] != "D. four" || qs[0].Source != questiongen.SourceFallback {
		t.Fatalf("unexpected questions: %+v", qs)
	}

	started, err := s.StartQuiz(ctx, "quiz-1", t0.Add(time.Minute))
	if err != nil || !started {
		t.Fatalf("StartQuiz = %v, %v", started, err)
	}
	started, err = s.StartQuiz(ctx, "quiz-1", t0.Add(2*time.Minute))
	if err != nil || started {
		t.Fatalf("second StartQuiz = %v, %v", started, err)
	}
	if _, err := s.StartQuiz(ctx, "missing", t0); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.ReplaceQuestions(ctx, "quiz-1", testQuestions("quiz-1", 2)); !errors.Is(err, quiz.ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}

	res := quiz.Result{Overall: 67, Skills: quiz.SkillScores{
		{SkillID: "sql", Percent: 50, Correct: 1, Total: 2},
		{SkillID: "python", Percent: 100, Correct: 1, Total: 1},
	}}
	if err := s.CompleteQuiz(ctx, "quiz-1", res, t0.Add(5*time.Minute)); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := s.CompleteQuiz(ctx, "quiz-1", quiz.Result{Overall: 0}, t0.Add(6*time.Minute)); !errors.Is(err, quiz.ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
	if err := s.CompleteQuiz(ctx, "missing", res, t0); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	q, err = s.Quiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	got, ok := q.Result()
	if !ok || got.Overall != 67 {
		t.Fatalf("stored result = %+v, %v", got, ok)
	}
	if len(got.Skills) != 2 || got.Skills[0].SkillID != "sql" || got.Skills[1].Percent != 100 {
		t.Fatalf("skill scores lost order: %+v", got.Skills)
	}
	if q.CompletedAt == nil || !q.CompletedAt.Equal(t0.Add(5*time.Minute)) {
		t.Fatalf("completed_at = %v", q.CompletedAt)
	}
	if q.StartedAt == nil || !q.StartedAt.Equal(t0.Add(time.Minute)) {
		t.Fatalf("started_at = %v", q.StartedAt)
	}
}

func TestAnswers(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()
	newQuiz(t, s, "quiz-1", "app-1")
	newQuiz(t, s, "quiz-2", "")
	if err := s.ReplaceQuestions(ctx, "quiz-1", testQuestions("quiz-1", 3)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.ReplaceQuestions(ctx, "quiz-2", testQuestions("quiz-2", 1)); err != nil {
		t.Fatalf("replace: %v", err)
	}

	insert := func(id, questionID, text string, correct bool) error {
		return s.InsertAnswer(ctx, &quiz.Answer{ID: id, QuestionID: questionID, Text: text, IsCorrect: correct, CreatedAt: t0})
	}
	// Out of order on purpose: answers come back in question order.
	if err := insert("a2", "quiz-1-q2", quiz.SkippedAnswer, false); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := insert("a0", "quiz-1-q0", "B. two", true); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := insert("x", "quiz-2-q0", "A. one", false); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := insert("a0b", "quiz-1-q0", "C. three", false); !errors.Is(err, quiz.ErrAnswerExists) {
		t.Fatalf("expected ErrAnswerExists, got %v", err)
	}

	answers, err := s.Answers(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("Answers: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %+v", answers)
	}
	if answers[0].ID != "a0" || !answers[0].IsCorrect || answers[1].ID != "a2" || !answers[1].Skipped() {
		t.Fatalf("unexpected answers: %+v", answers)
	}

	list, err := s.ListQuizzes(ctx, "cand-1")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListQuizzes = %+v, %v", list, err)
	}
	if !list[1].Practice() {
		t.Fatalf("expected practice quiz second: %+v", list)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, purpose := range []string{"question-gen", "other", "question-gen"} {
		ev := llm.Event{
			CreatedAt:   t0.Add(time.Duration(i) * time.Second),
			Provider:    "mock",
			Model:       "mock",
			Purpose:     purpose,
			InputTokens: 10 * (i + 1),
			LatencyMs:   int64(i),
			Success:     i != 1,
		}
		if err := s.RecordLLMEvent(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	all, err := s.RecentLLMEvents(ctx, "", 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("RecentLLMEvents = %d, %v", len(all), err)
	}
	if all[0].InputTokens != 30 || all[1].Success {
		t.Fatalf("expected newest first: %+v", all)
	}

	gen, err := s.RecentLLMEvents(ctx, "question-gen", 1)
	if err != nil || len(gen) != 1 || gen[0].InputTokens != 30 {
		t.Fatalf("filtered = %+v, %v", gen, err)
	}

	one, err := s.LLMEvent(ctx, all[2].ID)
	if err != nil || one.Purpose != "question-gen" || one.InputTokens != 10 {
		t.Fatalf("LLMEvent = %+v, %v", one, err)
	}
	if _, err := s.LLMEvent(ctx, 999); !errors.Is(err, quiz.ErrNotFound) {
		t.Errorf("missing event: expected ErrNotFound, got %v", err)
	}
}
