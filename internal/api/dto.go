package api

import (
	"time"

	"github.com/abhisek/skillcheck/internal/quiz"
)

type createQuizRequest struct {
	ApplicationID string `json:"application_id"`
}

type answerRequest struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	Skipped    bool   `json:"skipped"`
}

type quizResponse struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	ApplicationID string     `json:"application_id,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func newQuizResponse(q *quiz.Quiz) quizResponse {
	return quizResponse{
		ID:            q.ID,
		OwnerID:       q.OwnerID,
		ApplicationID: q.ApplicationID,
		Status:        string(q.Status),
		CreatedAt:     q.CreatedAt,
		StartedAt:     q.StartedAt,
		CompletedAt:   q.CompletedAt,
	}
}

// questionResponse leaves out the answer key unless reveal is set.
type questionResponse struct {
	ID            string   `json:"id"`
	SkillID       string   `json:"skill_id"`
	Position      int      `json:"position"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	Source        string   `json:"source"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

type questionsResponse struct {
	QuizID    string             `json:"quiz_id"`
	Ready     bool               `json:"ready"`
	Questions []questionResponse `json:"questions"`
}

func newQuestionsResponse(quizID string, qs []quiz.Question, reveal bool) questionsResponse {
	out := questionsResponse{QuizID: quizID, Ready: len(qs) > 0, Questions: make([]questionResponse, 0, len(qs))}
	for _, q := range qs {
		qr := questionResponse{
			ID:       q.ID,
			SkillID:  q.SkillID,
			Position: q.Position,
			Text:     q.Text,
			Options:  q.Options,
			Source:   string(q.Source),
		}
		if reveal {
			qr.CorrectAnswer = q.CorrectAnswer
			qr.Explanation = q.Explanation
		}
		out.Questions = append(out.Questions, qr)
	}
	return out
}

type answerResponse struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	Answer     string    `json:"answer"`
	Skipped    bool      `json:"skipped"`
	IsCorrect  bool      `json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

func newAnswerResponse(a *quiz.Answer) answerResponse {
	return answerResponse{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Answer:     a.Text,
		Skipped:    a.Skipped(),
		IsCorrect:  a.IsCorrect,
		CreatedAt:  a.CreatedAt,
	}
}

type resultResponse struct {
	Overall int              `json:"overall"`
	Skills  quiz.SkillScores `json:"skills"`
}

type submitResponse struct {
	Quiz              quizResponse    `json:"quiz"`
	Duplicate         bool            `json:"duplicate"`
	ApplicationSynced bool            `json:"application_synced"`
	SyncError         string          `json:"sync_error,omitempty"`
	Result            *resultResponse `json:"result,omitempty"`
}

type reportResponse struct {
	Quiz              quizResponse    `json:"quiz"`
	ApplicationStatus string          `json:"application_status,omitempty"`
	Visible           bool            `json:"visible"`
	Result            *resultResponse `json:"result,omitempty"`
}

func newReportResponse(r *quiz.Report) reportResponse {
	out := reportResponse{
		Quiz:              newQuizResponse(r.Quiz),
		ApplicationStatus: string(r.ApplicationStatus),
		Visible:           r.Visible,
	}
	if r.Result != nil {
		out.Result = &resultResponse{Overall: r.Result.Overall, Skills: r.Result.Skills}
	}
	return out
}

type errorResponse struct {
	Error string `json:"error"`
}
