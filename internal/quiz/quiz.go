// Package quiz runs skill assessments: it creates quizzes, generates their
// question sets, drives a candidate through them, and scores the result.
package quiz

import (
	"slices"
	"time"

	"github.com/abhisek/skillcheck/internal/questiongen"
)

// SkippedAnswer is the answer text stored for a skipped question.
const SkippedAnswer = questiongen.SkipSentinel

// Status is the lifecycle state of a quiz.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Role is the kind of principal acting on a quiz.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleEmployer Role = "employer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleEmployer
}

// Principal identifies who performs an operation.
type Principal struct {
	ID   string
	Role Role
}

// Validate checks that the principal is usable.
func (p Principal) Validate() error {
	if p.ID == "" || !p.Role.Valid() {
		return ErrInvalidPrincipal
	}
	return nil
}

// ApplicationStatus is owned by the hiring workflow. The quiz engine only
// writes ApplicationQuizCompleted; it reads the others for visibility.
type ApplicationStatus string

const (
	ApplicationPending         ApplicationStatus = "pending"
	ApplicationQuizCompleted   ApplicationStatus = "quiz_completed"
	ApplicationResumeRequested ApplicationStatus = "resume_requested"
	ApplicationInterview       ApplicationStatus = "interview"
	ApplicationAccepted        ApplicationStatus = "accepted"
	ApplicationRejected        ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every known application status.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationQuizCompleted,
	ApplicationResumeRequested,
	ApplicationInterview,
	ApplicationAccepted,
	ApplicationRejected,
}

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	return slices.Contains(ApplicationStatuses, s)
}

// Job is a listing whose required skills drive assessment quizzes.
type Job struct {
	ID         string
	EmployerID string
	Title      string
	CreatedAt  time.Time
}

// Application links a candidate to a job.
type Application struct {
	ID               string
	JobID            string
	EmployeeID       string
	Status           ApplicationStatus
	InterviewDetails string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Quiz is one assessment. ApplicationID is empty for practice quizzes.
type Quiz struct {
	ID            string
	OwnerID       string
	ApplicationID string
	Status        Status
	CreatedAt     time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	Score         *int
	SkillScores   SkillScores
}

// Practice reports whether the quiz has no linked application.
func (q *Quiz) Practice() bool {
	return q.ApplicationID == ""
}

// Result returns the stored result of a completed quiz.
func (q *Quiz) Result() (Result, bool) {
	if q.Status != StatusCompleted || q.Score == nil {
		return Result{}, false
	}
	return Result{Overall: *q.Score, Skills: q.SkillScores}, true
}

// Question is a persisted quiz question.
type Question struct {
	ID            string
	QuizID        string
	SkillID       string
	Position      int
	Text          string
	Options       []string
	CorrectAnswer string
	Explanation   string
	Source        questiongen.Source
}

// HasOption reports whether choice is byte-identical to one of the options.
func (q *Question) HasOption(choice string) bool {
	return slices.Contains(q.Options, choice)
}

// Answer is the recorded response to a question.
type Answer struct {
	ID         string
	QuestionID string
	Text       string
	IsCorrect  bool
	CreatedAt  time.Time
}

// Skipped reports whether the answer records a skip.
func (a *Answer) Skipped() bool {
	return a.Text == SkippedAnswer
}

// grade builds the answer row for q. A skip is never correct.
func grade(q *Question, text string, skipped bool) Answer {
	if skipped {
		return Answer{QuestionID: q.ID, Text: SkippedAnswer}
	}
	return Answer{
		QuestionID: q.ID,
		Text:       text,
		IsCorrect:  text == q.CorrectAnswer,
	}
}

// AskOrder returns question indexes in the order a session asks them:
// skills by first appearance, then each skill's questions in position
// order.
func AskOrder(questions []Question) []int {
	var skills []string
	bySkill := make(map[string][]int)
	for i, q := range questions {
		if _, ok := bySkill[q.SkillID]; !ok {
			skills = append(skills, q.SkillID)
		}
		bySkill[q.SkillID] = append(bySkill[q.SkillID], i)
	}
	order := make([]int, 0, len(questions))
	for _, id := range skills {
		order = append(order, bySkill[id]...)
	}
	return order
}

// nextOpen returns the id of the first unanswered question in asking
// order.
func nextOpen(questions []Question, answered map[string]bool) (string, bool) {
	for _, i := range AskOrder(questions) {
		if !answered[questions[i].ID] {
			return questions[i].ID, true
		}
	}
	return "", false
}
