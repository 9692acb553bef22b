package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/metrics"
	"github.com/abhisek/skillcheck/internal/questiongen"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/skill"
	"github.com/abhisek/skillcheck/internal/store"
)

var (
	candidate = quiz.Principal{ID: "emp-1", Role: quiz.RoleEmployee}
	outsider  = quiz.Principal{ID: "emp-2", Role: quiz.RoleEmployee}
	employer  = quiz.Principal{ID: "boss-1", Role: quiz.RoleEmployer}
)

type testServer struct {
	handler http.Handler
	store   *store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, st.CreateSkill(ctx, skill.Skill{ID: "python", Name: "Python"}))
	require.NoError(t, st.CreateSkill(ctx, skill.Skill{ID: "sql", Name: "SQL"}))
	require.NoError(t, st.CreateJob(ctx, &quiz.Job{ID: "job-1", EmployerID: employer.ID, Title: "Data Engineer", CreatedAt: now}))
	require.NoError(t, st.SetJobSkills(ctx, "job-1", []skill.Association{
		{SkillID: "python", Level: 4},
		{SkillID: "sql", Level: 2},
	}))
	require.NoError(t, st.SetCandidateSkills(ctx, candidate.ID, []skill.Association{
		{SkillID: "python", Level: 2},
	}))
	require.NoError(t, st.CreateApplication(ctx, &quiz.Application{
		ID: "app-1", JobID: "job-1", EmployeeID: candidate.ID,
		Status: quiz.ApplicationPending, CreatedAt: now, UpdatedAt: now,
	}))

	cfg := questiongen.DefaultConfig()
	cfg.QuestionsPerSkill = 2
	svc := quiz.NewService(st, questiongen.NewBank(nil, cfg))
	m := metrics.NewManager()

	return &testServer{
		handler: api.New(api.RouterConfig{Service: svc, Metrics: m}),
		store:   st,
	}
}

func (s *testServer) do(t *testing.T, p quiz.Principal, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if p.ID != "" {
		req.Header.Set(api.HeaderPrincipalID, p.ID)
		req.Header.Set(api.HeaderPrincipalRole, string(p.Role))
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type quizBody struct {
	ID            string `json:"id"`
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
}

type questionBody struct {
	ID            string   `json:"id"`
	SkillID       string   `json:"skill_id"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

type questionsBody struct {
	Ready     bool           `json:"ready"`
	Questions []questionBody `json:"questions"`
}

type resultBody struct {
	Overall int              `json:"overall"`
	Skills  quiz.SkillScores `json:"skills"`
}

type submitBody struct {
	Duplicate         bool        `json:"duplicate"`
	ApplicationSynced bool        `json:"application_synced"`
	Result            *resultBody `json:"result"`
}

type reportBody struct {
	ApplicationStatus string      `json:"application_status"`
	Visible           bool        `json:"visible"`
	Result            *resultBody `json:"result"`
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, quiz.Principal{}, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequiresPrincipal(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		p    quiz.Principal
	}{
		{"missing", quiz.Principal{}},
		{"unknown role", quiz.Principal{ID: "x", Role: "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.p, http.MethodGet, "/api/quizzes", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestApplicationQuizFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, candidate, http.MethodPost, "/api/quizzes", map[string]string{"application_id": "app-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	q := decode[quizBody](t, w)
	assert.Equal(t, "app-1", q.ApplicationID)
	assert.Equal(t, "pending", q.Status)
	base := "/api/quizzes/" + q.ID

	// Not generated yet: polling sees an empty, not-ready set.
	w = s.do(t, candidate, http.MethodGet, base+"/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[questionsBody](t, w).Ready)

	w = s.do(t, candidate, http.MethodPost, base+"/generate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, candidate, http.MethodGet, base+"/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hidden := decode[questionsBody](t, w)
	require.True(t, hidden.Ready)
	require.NotEmpty(t, hidden.Questions)
	for _, qu := range hidden.Questions {
		assert.Empty(t, qu.CorrectAnswer, "answer key leaked to candidate")
	}

	w = s.do(t, employer, http.MethodGet, base+"/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	keyed := decode[questionsBody](t, w)
	first := keyed.Questions[0]
	require.NotEmpty(t, first.CorrectAnswer)

	// Answering before start is rejected.
	w = s.do(t, candidate, http.MethodPost, base+"/answers", map[string]any{"question_id": first.ID, "answer": first.CorrectAnswer})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, candidate, http.MethodPost, base+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "in_progress", decode[quizBody](t, w).Status)

	w = s.do(t, candidate, http.MethodPost, base+"/answers", map[string]any{"question_id": first.ID, "answer": "not an option"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Questions are answered in order; the second one waits for the first.
	w = s.do(t, candidate, http.MethodPost, base+"/answers", map[string]any{"question_id": keyed.Questions[1].ID, "answer": keyed.Questions[1].CorrectAnswer})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), quiz.ErrOutOfOrder.Error())

	w = s.do(t, candidate, http.MethodPost, base+"/answers", map[string]any{"question_id": first.ID, "answer": first.CorrectAnswer})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"is_correct":true`)

	w = s.do(t, candidate, http.MethodPost, base+"/answers", map[string]any{"question_id": first.ID, "answer": first.CorrectAnswer})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, candidate, http.MethodPost, base+"/answers", map[string]any{"question_id": keyed.Questions[1].ID, "skipped": true})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"skipped":true`)

	w = s.do(t, candidate, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sub := decode[submitBody](t, w)
	assert.False(t, sub.Duplicate)
	assert.True(t, sub.ApplicationSynced)
	assert.Nil(t, sub.Result, "candidate sees no score at quiz_completed")

	w = s.do(t, candidate, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[submitBody](t, w).Duplicate)

	w = s.do(t, employer, http.MethodGet, base+"/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[reportBody](t, w)
	assert.Equal(t, "quiz_completed", report.ApplicationStatus)
	assert.True(t, report.Visible)
	require.NotNil(t, report.Result)
	assert.Equal(t, 50, report.Result.Overall)

	// Once the employer moves the application on, the candidate can see it.
	require.NoError(t, s.store.UpdateApplicationStatus(context.Background(), "app-1", quiz.ApplicationInterview))
	w = s.do(t, candidate, http.MethodGet, base+"/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report = decode[reportBody](t, w)
	assert.True(t, report.Visible)
	require.NotNil(t, report.Result)
	assert.Equal(t, 50, report.Result.Overall)
}

func TestPracticeQuiz(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, candidate, http.MethodPost, "/api/quizzes", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	q := decode[quizBody](t, w)
	assert.Empty(t, q.ApplicationID)
	base := "/api/quizzes/" + q.ID

	require.Equal(t, http.StatusOK, s.do(t, candidate, http.MethodPost, base+"/generate", nil).Code)

	// Submitting before start is a conflict.
	assert.Equal(t, http.StatusConflict, s.do(t, candidate, http.MethodPost, base+"/submit", nil).Code)

	require.Equal(t, http.StatusOK, s.do(t, candidate, http.MethodPost, base+"/start", nil).Code)
	assert.Equal(t, http.StatusConflict, s.do(t, candidate, http.MethodPost, base+"/submit", nil).Code)

	qs := decode[questionsBody](t, s.do(t, candidate, http.MethodGet, base+"/questions", nil))
	require.NotEmpty(t, qs.Questions)
	w = s.do(t, candidate, http.MethodPost, base+"/answers", map[string]any{"question_id": qs.Questions[0].ID, "answer": qs.Questions[0].Options[0]})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, candidate, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sub := decode[submitBody](t, w)
	require.NotNil(t, sub.Result, "practice results are visible to the owner")
	assert.True(t, sub.ApplicationSynced)

	assert.Equal(t, http.StatusConflict, s.do(t, candidate, http.MethodPost, base+"/sync", nil).Code)

	w = s.do(t, candidate, http.MethodGet, "/api/quizzes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]quizBody](t, w), 1)
}

func TestAccessControl(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, candidate, http.MethodPost, "/api/quizzes", map[string]string{"application_id": "app-1"})
	require.Equal(t, http.StatusCreated, w.Code)
	base := "/api/quizzes/" + decode[quizBody](t, w).ID

	tests := []struct {
		name   string
		p      quiz.Principal
		method string
		path   string
		want   int
	}{
		{"outsider reads results", outsider, http.MethodGet, base + "/results", http.StatusForbidden},
		{"outsider starts", outsider, http.MethodPost, base + "/start", http.StatusForbidden},
		{"employer starts", employer, http.MethodPost, base + "/start", http.StatusForbidden},
		{"outsider applies for someone else", outsider, http.MethodPost, "/api/quizzes", http.StatusForbidden},
		{"employer creates practice", employer, http.MethodPost, "/api/quizzes", http.StatusForbidden},
		{"unknown quiz", candidate, http.MethodGet, "/api/quizzes/nope/results", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body any
			if tt.path == "/api/quizzes" && tt.p.Role == quiz.RoleEmployee {
				body = map[string]string{"application_id": "app-1"}
			}
			w := s.do(t, tt.p, tt.method, tt.path, body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, candidate, http.MethodGet, "/api/quizzes", nil)

	w := s.do(t, quiz.Principal{}, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `skillcheck_http_requests_total{method="GET",route="/api/quizzes`)
	assert.Contains(t, body, `status_code="200"`)
}
