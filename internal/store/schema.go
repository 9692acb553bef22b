package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// SkillsColumns holds the columns for the "skills" table.
	SkillsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	SkillsTable = &schema.Table{
		Name:       "skills",
		Columns:    SkillsColumns,
		PrimaryKey: []*schema.Column{SkillsColumns[0]},
	}

	// JobsColumns holds the columns for the "jobs" table.
	JobsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "employer_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	JobsTable = &schema.Table{
		Name:       "jobs",
		Columns:    JobsColumns,
		PrimaryKey: []*schema.Column{JobsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "job_employer_id", Columns: []*schema.Column{JobsColumns[1]}},
		},
	}

	// JobSkillsColumns holds the columns for the "job_skills" table.
	JobSkillsColumns = []*schema.Column{
		{Name: "job_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "importance", Type: field.TypeInt},
		{Name: "position", Type: field.TypeInt},
	}
	JobSkillsTable = &schema.Table{
		Name:       "job_skills",
		Columns:    JobSkillsColumns,
		PrimaryKey: []*schema.Column{JobSkillsColumns[0], JobSkillsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "job_skills_jobs_skills",
				Columns:    []*schema.Column{JobSkillsColumns[0]},
				RefColumns: []*schema.Column{JobsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "job_skills_skills_jobs",
				Columns:    []*schema.Column{JobSkillsColumns[1]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// CandidateSkillsColumns holds the columns for the "candidate_skills" table.
	CandidateSkillsColumns = []*schema.Column{
		{Name: "employee_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "proficiency", Type: field.TypeInt},
		{Name: "position", Type: field.TypeInt},
	}
	CandidateSkillsTable = &schema.Table{
		Name:       "candidate_skills",
		Columns:    CandidateSkillsColumns,
		PrimaryKey: []*schema.Column{CandidateSkillsColumns[0], CandidateSkillsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "candidate_skills_skills_candidates",
				Columns:    []*schema.Column{CandidateSkillsColumns[1]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// ApplicationsColumns holds the columns for the "applications" table.
	ApplicationsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "job_id", Type: field.TypeString},
		{Name: "employee_id", Type: field.TypeString},
		{Name: "status", Type: field.TypeString, Default: "pending"},
		{Name: "interview_details", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	ApplicationsTable = &schema.Table{
		Name:       "applications",
		Columns:    ApplicationsColumns,
		PrimaryKey: []*schema.Column{ApplicationsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "applications_jobs_applications",
				Columns:    []*schema.Column{ApplicationsColumns[1]},
				RefColumns: []*schema.Column{JobsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "application_job_id_employee_id",
				Unique:  true,
				Columns: []*schema.Column{ApplicationsColumns[1], ApplicationsColumns[2]},
			},
		},
	}

	// QuizzesColumns holds the columns for the "quizzes" table.
	QuizzesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "owner_id", Type: field.TypeString},
		{Name: "application_id", Type: field.TypeString, Unique: true, Nullable: true},
		{Name: "status", Type: field.TypeString, Default: "pending"},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "started_at", Type: field.TypeTime, Nullable: true},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "score", Type: field.TypeInt, Nullable: true},
		{Name: "skill_scores", Type: field.TypeJSON, Nullable: true},
	}
	QuizzesTable = &schema.Table{
		Name:       "quizzes",
		Columns:    QuizzesColumns,
		PrimaryKey: []*schema.Column{QuizzesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quizzes_applications_quiz",
				Columns:    []*schema.Column{QuizzesColumns[2]},
				RefColumns: []*schema.Column{ApplicationsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "quiz_owner_id", Columns: []*schema.Column{QuizzesColumns[1]}},
		},
	}

	// QuizQuestionsColumns holds the columns for the "quiz_questions" table.
	QuizQuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "quiz_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "question_text", Type: field.TypeString, Size: 2147483647},
		{Name: "options", Type: field.TypeJSON},
		{Name: "correct_answer", Type: field.TypeString},
		{Name: "explanation", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "source", Type: field.TypeString},
	}
	QuizQuestionsTable = &schema.Table{
		Name:       "quiz_questions",
		Columns:    QuizQuestionsColumns,
		PrimaryKey: []*schema.Column{QuizQuestionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quiz_questions_quizzes_questions",
				Columns:    []*schema.Column{QuizQuestionsColumns[1]},
				RefColumns: []*schema.Column{QuizzesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "quizquestion_quiz_id_position",
				Unique:  true,
				Columns: []*schema.Column{QuizQuestionsColumns[1], QuizQuestionsColumns[3]},
			},
		},
	}

	// QuizAnswersColumns holds the columns for the "quiz_answers" table.
	QuizAnswersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString, Unique: true},
		{Name: "answer_text", Type: field.TypeString},
		{Name: "is_correct", Type: field.TypeBool},
		{Name: "created_at", Type: field.TypeTime},
	}
	QuizAnswersTable = &schema.Table{
		Name:       "quiz_answers",
		Columns:    QuizAnswersColumns,
		PrimaryKey: []*schema.Column{QuizAnswersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quiz_answers_quiz_questions_answer",
				Columns:    []*schema.Column{QuizAnswersColumns[1]},
				RefColumns: []*schema.Column{QuizQuestionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// LlmEventsColumns holds the columns for the "llm_events" table.
	LlmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	LlmEventsTable = &schema.Table{
		Name:       "llm_events",
		Columns:    LlmEventsColumns,
		PrimaryKey: []*schema.Column{LlmEventsColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		SkillsTable,
		JobsTable,
		JobSkillsTable,
		CandidateSkillsTable,
		ApplicationsTable,
		QuizzesTable,
		QuizQuestionsTable,
		QuizAnswersTable,
		LlmEventsTable,
	}
)

func init() {
	JobSkillsTable.ForeignKeys[0].RefTable = JobsTable
	JobSkillsTable.ForeignKeys[1].RefTable = SkillsTable
	CandidateSkillsTable.ForeignKeys[0].RefTable = SkillsTable
	ApplicationsTable.ForeignKeys[0].RefTable = JobsTable
	QuizzesTable.ForeignKeys[0].RefTable = ApplicationsTable
	QuizQuestionsTable.ForeignKeys[0].RefTable = QuizzesTable
	QuizAnswersTable.ForeignKeys[0].RefTable = QuizQuestionsTable
}
