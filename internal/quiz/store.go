package quiz

import (
	"context"
	"time"

	"github.com/abhisek/skillcheck/internal/skill"
)

// Store is the persistence boundary of the quiz engine.
type Store interface {
	CreateQuiz(ctx context.Context, q *Quiz) error
	Quiz(ctx context.Context, id string) (*Quiz, error)
	QuizByApplication(ctx context.Context, applicationID string) (*Quiz, error)
	ListQuizzes(ctx context.Context, ownerID string) ([]Quiz, error)

	// StartQuiz moves a pending quiz to in progress. It reports false when
	// the quiz was not pending.
	StartQuiz(ctx context.Context, id string, at time.Time) (bool, error)

	// CompleteQuiz writes the terminal state in one update guarded by
	// "status != completed". It returns ErrAlreadyCompleted when the guard
	// fails.
	CompleteQuiz(ctx context.Context, id string, res Result, at time.Time) error

	// ReplaceQuestions deletes the quiz's questions and inserts qs in one
	// transaction. It returns ErrAlreadyStarted unless the quiz is pending.
	ReplaceQuestions(ctx context.Context, quizID string, qs []Question) error

	// Questions returns the quiz's questions by position. Safe to repeat.
	Questions(ctx context.Context, quizID string) ([]Question, error)
	Answers(ctx context.Context, quizID string) ([]Answer, error)

	// InsertAnswer appends an answer. It returns ErrAnswerExists when the
	// question already has one.
	InsertAnswer(ctx context.Context, a *Answer) error

	Application(ctx context.Context, id string) (*Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status ApplicationStatus) error
	Job(ctx context.Context, id string) (*Job, error)

	JobSkills(ctx context.Context, jobID string) ([]skill.Association, error)
	CandidateSkills(ctx context.Context, employeeID string) ([]skill.Association, error)
	Skills(ctx context.Context, ids []string) (map[string]skill.Skill, error)
}
