package quiz

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/skillcheck/internal/skill"
)

// memStore is an in-memory Store with the same guards as the SQL store.
type memStore struct {
	mu           sync.Mutex
	quizzes      map[string]*Quiz
	questions    map[string][]Question
	answers      map[string]*Answer // by question id
	applications map[string]*Application
	jobs         map[string]*Job
	jobSkills    map[string][]skill.Association
	candidate    map[string][]skill.Association
	skills       map[string]skill.Skill

	completeCalls int
	insertErr     error
	appUpdateErr  error
}

func newMemStore() *memStore {
	return &memStore{
		quizzes:      map[string]*Quiz{},
		questions:    map[string][]Question{},
		answers:      map[string]*Answer{},
		applications: map[string]*Application{},
		jobs:         map[string]*Job{},
		jobSkills:    map[string][]skill.Association{},
		candidate:    map[string][]skill.Association{},
		skills:       map[string]skill.Skill{},
	}
}

func (m *memStore) CreateQuiz(_ context.Context, q *Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *q
	m.quizzes[q.ID] = &cp
	return nil
}

func (m *memStore) Quiz(_ context.Context, id string) (*Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *memStore) QuizByApplication(_ context.Context, appID string) (*Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.quizzes {
		if q.ApplicationID == appID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListQuizzes(_ context.Context, ownerID string) ([]Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Quiz
	for _, q := range m.quizzes {
		if q.OwnerID == ownerID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) StartQuiz(_ context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[id]
	if !ok {
		return false, ErrNotFound
	}
	if q.Status != StatusPending {
		return false, nil
	}
	q.Status = StatusInProgress
	q.StartedAt = &at
	return true, nil
}

func (m *memStore) CompleteQuiz(_ context.Context, id string, res Result, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls++
	q, ok := m.quizzes[id]
	if !ok {
		return ErrNotFound
	}
	if q.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	score := res.Overall
	q.Status = StatusCompleted
	q.Score = &score
	q.SkillScores = res.Skills
	q.CompletedAt = &at
	return nil
}

func (m *memStore) ReplaceQuestions(_ context.Context, quizID string, qs []Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[quizID]
	if !ok {
		return ErrNotFound
	}
	if q.Status != StatusPending {
		return ErrAlreadyStarted
	}
	m.questions[quizID] = append([]Question(nil), qs...)
	return nil
}

func (m *memStore) Questions(_ context.Context, quizID string) ([]Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Question(nil), m.questions[quizID]...), nil
}

func (m *memStore) Answers(_ context.Context, quizID string) ([]Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Answer
	for _, q := range m.questions[quizID] {
		if a, ok := m.answers[q.ID]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) InsertAnswer(_ context.Context, a *Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.answers[a.QuestionID]; ok {
		return ErrAnswerExists
	}
	cp := *a
	m.answers[a.QuestionID] = &cp
	return nil
}

func (m *memStore) Application(_ context.Context, id string) (*Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) UpdateApplicationStatus(_ context.Context, id string, status ApplicationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appUpdateErr != nil {
		return m.appUpdateErr
	}
	a, ok := m.applications[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *memStore) Job(_ context.Context, id string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memStore) JobSkills(_ context.Context, jobID string) ([]skill.Association, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobSkills[jobID], nil
}

func (m *memStore) CandidateSkills(_ context.Context, employeeID string) ([]skill.Association, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.candidate[employeeID], nil
}

func (m *memStore) Skills(_ context.Context, ids []string) (map[string]skill.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]skill.Skill, len(ids))
	for _, id := range ids {
		if s, ok := m.skills[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}
