package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillcheck/internal/questiongen"
	"github.com/abhisek/skillcheck/internal/quiz"
)

var quizColumns = []string{
	"id", "owner_id", "application_id", "status", "created_at",
	"started_at", "completed_at", "score", "skill_scores",
}

// CreateQuiz inserts a new quiz row.
func (s *Store) CreateQuiz(ctx context.Context, q *quiz.Quiz) error {
	status := q.Status
	if status == "" {
		status = quiz.StatusPending
	}
	ins := build().Insert(QuizzesTable.Name).
		Columns("id", "owner_id", "application_id", "status", "created_at").
		Values(q.ID, q.OwnerID, nullString(q.ApplicationID), string(status), q.CreatedAt)
	if _, err := exec(ctx, s.db, ins); err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

// Quiz loads a quiz by id.
func (s *Store) Quiz(ctx context.Context, id string) (*quiz.Quiz, error) {
	return s.quizWhere(ctx, s.db, entsql.EQ("id", id))
}

// QuizByApplication loads the quiz linked to an application.
func (s *Store) QuizByApplication(ctx context.Context, applicationID string) (*quiz.Quiz, error) {
	return s.quizWhere(ctx, s.db, entsql.EQ("application_id", applicationID))
}

func (s *Store) quizWhere(ctx context.Context, q querier, p *entsql.Predicate) (*quiz.Quiz, error) {
	sel := build().Select(quizColumns...).From(build().Table(QuizzesTable.Name)).Where(p).Limit(1)
	qz, err := scanQuiz(queryRow(ctx, q, sel))
	if err != nil {
		return nil, notFound(err)
	}
	return qz, nil
}

// ListQuizzes returns the quizzes owned by ownerID, oldest first.
func (s *Store) ListQuizzes(ctx context.Context, ownerID string) ([]quiz.Quiz, error) {
	sel := build().Select(quizColumns...).
		From(build().Table(QuizzesTable.Name)).
		Where(entsql.EQ("owner_id", ownerID)).
		OrderBy(entsql.Asc("created_at"), entsql.Asc("id"))
	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []quiz.Quiz
	for rows.Next() {
		qz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *qz)
	}
	return out, rows.Err()
}

// StartQuiz moves a pending quiz to in progress.
func (s *Store) StartQuiz(ctx context.Context, id string, at time.Time) (bool, error) {
	upd := build().Update(QuizzesTable.Name).
		Set("status", string(quiz.StatusInProgress)).
		Set("started_at", at).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("status", string(quiz.StatusPending)),
		))
	res, err := exec(ctx, s.db, upd)
	if err != nil {
		return false, fmt.Errorf("start quiz: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}
	if _, err := s.Quiz(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// CompleteQuiz stores the result and the terminal status in a single
// conditional update.
func (s *Store) CompleteQuiz(ctx context.Context, id string, res quiz.Result, at time.Time) error {
	encoded, err := res.Skills.Encode()
	if err != nil {
		return err
	}
	upd := build().Update(QuizzesTable.Name).
		Set("status", string(quiz.StatusCompleted)).
		Set("completed_at", at).
		Set("score", res.Overall).
		Set("skill_scores", encoded).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.NEQ("status", string(quiz.StatusCompleted)),
		))
	r, err := exec(ctx, s.db, upd)
	if err != nil {
		return fmt.Errorf("complete quiz: %w", err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	if _, err := s.Quiz(ctx, id); err != nil {
		return err
	}
	return quiz.ErrAlreadyCompleted
}

// ReplaceQuestions swaps the question set of a pending quiz.
func (s *Store) ReplaceQuestions(ctx context.Context, quizID string, qs []quiz.Question) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		qz, err := s.quizWhere(ctx, tx, entsql.EQ("id", quizID))
		if err != nil {
			return err
		}
		if qz.Status != quiz.StatusPending {
			return quiz.ErrAlreadyStarted
		}

		del := build().Delete(QuizQuestionsTable.Name).Where(entsql.EQ("quiz_id", quizID))
		if _, err := exec(ctx, tx, del); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		if len(qs) == 0 {
			return nil
		}

		ins := build().Insert(QuizQuestionsTable.Name).Columns(
			"id", "quiz_id", "skill_id", "position", "question_text",
			"options", "correct_answer", "explanation", "source",
		)
		for _, q := range qs {
			opts, err := json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("encode options: %w", err)
			}
			ins.Values(q.ID, quizID, q.SkillID, q.Position, q.Text,
				string(opts), q.CorrectAnswer, q.Explanation, string(q.Source))
		}
		if _, err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
}

// Questions returns the quiz's questions ordered by position.
func (s *Store) Questions(ctx context.Context, quizID string) ([]quiz.Question, error) {
	sel := build().Select(
		"id", "quiz_id", "skill_id", "position", "question_text",
		"options", "correct_answer", "explanation", "source",
	).
		From(build().Table(QuizQuestionsTable.Name)).
		Where(entsql.EQ("quiz_id", quizID)).
		OrderBy(entsql.Asc("position"))
	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		var (
			q      quiz.Question
			opts   string
			source string
		)
		if err := rows.Scan(&q.ID, &q.QuizID, &q.SkillID, &q.Position, &q.Text,
			&opts, &q.CorrectAnswer, &q.Explanation, &source); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s: %w", q.ID, err)
		}
		q.Source = questiongen.Source(source)
		out = append(out, q)
	}
	return out, rows.Err()
}

// Answers returns the answers recorded for the quiz in question order.
func (s *Store) Answers(ctx context.Context, quizID string) ([]quiz.Answer, error) {
	a := build().Table(QuizAnswersTable.Name).As("a")
	q := build().Table(QuizQuestionsTable.Name).As("q")
	sel := build().Select(
		a.C("id"), a.C("question_id"), a.C("answer_text"), a.C("is_correct"), a.C("created_at"),
	).
		From(a).
		Join(q).On(a.C("question_id"), q.C("id")).
		Where(entsql.EQ(q.C("quiz_id"), quizID)).
		OrderBy(entsql.Asc(q.C("position")))
	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var out []quiz.Answer
	for rows.Next() {
		var ans quiz.Answer
		if err := rows.Scan(&ans.ID, &ans.QuestionID, &ans.Text, &ans.IsCorrect, &ans.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ans)
	}
	return out, rows.Err()
}

// InsertAnswer records the single answer a question may have.
func (s *Store) InsertAnswer(ctx context.Context, ans *quiz.Answer) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var n int
		cnt := build().Select(entsql.Count("*")).
			From(build().Table(QuizAnswersTable.Name)).
			Where(entsql.EQ("question_id", ans.QuestionID))
		if err := queryRow(ctx, tx, cnt).Scan(&n); err != nil {
			return fmt.Errorf("check answer: %w", err)
		}
		if n > 0 {
			return quiz.ErrAnswerExists
		}
		ins := build().Insert(QuizAnswersTable.Name).
			Columns("id", "question_id", "answer_text", "is_correct", "created_at").
			Values(ans.ID, ans.QuestionID, ans.Text, ans.IsCorrect, ans.CreatedAt)
		if _, err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row scanner) (*quiz.Quiz, error) {
	var (
		q           quiz.Quiz
		appID       sql.NullString
		status      string
		startedAt   sql.NullTime
		completedAt sql.NullTime
		score       sql.NullInt64
		skillScores sql.NullString
	)
	if err := row.Scan(&q.ID, &q.OwnerID, &appID, &status, &q.CreatedAt,
		&startedAt, &completedAt, &score, &skillScores); err != nil {
		return nil, err
	}
	q.ApplicationID = appID.String
	q.Status = quiz.Status(status)
	if startedAt.Valid {
		t := startedAt.Time
		q.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		q.CompletedAt = &t
	}
	if score.Valid {
		v := int(score.Int64)
		q.Score = &v
	}
	if skillScores.Valid {
		ss, err := quiz.DecodeSkillScores(skillScores.String)
		if err != nil {
			return nil, fmt.Errorf("decode skill scores of %s: %w", q.ID, err)
		}
		q.SkillScores = ss
	}
	return &q, nil
}
