package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/skill"
)

// CreateSkill inserts a skill. Names are unique.
func (s *Store) CreateSkill(ctx context.Context, sk skill.Skill) error {
	ins := build().Insert(SkillsTable.Name).
		Columns("id", "name", "description", "created_at").
		Values(sk.ID, sk.Name, sk.Description, time.Now())
	if _, err := exec(ctx, s.db, ins); err != nil {
		return fmt.Errorf("create skill %q: %w", sk.Name, err)
	}
	return nil
}

// ListSkills returns every skill ordered by name.
func (s *Store) ListSkills(ctx context.Context) ([]skill.Skill, error) {
	sel := build().Select("id", "name", "description").
		From(build().Table(SkillsTable.Name)).
		OrderBy(entsql.Asc("name"))
	return s.scanSkills(ctx, sel)
}

// SkillByName looks up a skill by its unique name.
func (s *Store) SkillByName(ctx context.Context, name string) (*skill.Skill, error) {
	sel := build().Select("id", "name", "description").
		From(build().Table(SkillsTable.Name)).
		Where(entsql.EQ("name", name))
	var sk skill.Skill
	if err := queryRow(ctx, s.db, sel).Scan(&sk.ID, &sk.Name, &sk.Description); err != nil {
		return nil, notFound(err)
	}
	return &sk, nil
}

// Skills returns the skills with the given ids keyed by id. Unknown ids
// are absent from the map.
func (s *Store) Skills(ctx context.Context, ids []string) (map[string]skill.Skill, error) {
	out := make(map[string]skill.Skill, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	sel := build().Select("id", "name", "description").
		From(build().Table(SkillsTable.Name)).
		Where(entsql.In("id", args...))
	list, err := s.scanSkills(ctx, sel)
	if err != nil {
		return nil, err
	}
	for _, sk := range list {
		out[sk.ID] = sk
	}
	return out, nil
}

func (s *Store) scanSkills(ctx context.Context, sel *entsql.Selector) ([]skill.Skill, error) {
	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()
	var out []skill.Skill
	for rows.Next() {
		var sk skill.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Description); err != nil {
			return nil, err
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}

// CreateJob inserts a job listing.
func (s *Store) CreateJob(ctx context.Context, j *quiz.Job) error {
	ins := build().Insert(JobsTable.Name).
		Columns("id", "employer_id", "title", "created_at").
		Values(j.ID, j.EmployerID, j.Title, j.CreatedAt)
	if _, err := exec(ctx, s.db, ins); err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// Job loads a job by id.
func (s *Store) Job(ctx context.Context, id string) (*quiz.Job, error) {
	sel := build().Select("id", "employer_id", "title", "created_at").
		From(build().Table(JobsTable.Name)).
		Where(entsql.EQ("id", id))
	var j quiz.Job
	if err := queryRow(ctx, s.db, sel).Scan(&j.ID, &j.EmployerID, &j.Title, &j.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

// ListJobs returns jobs, optionally restricted to one employer.
func (s *Store) ListJobs(ctx context.Context, employerID string) ([]quiz.Job, error) {
	sel := build().Select("id", "employer_id", "title", "created_at").
		From(build().Table(JobsTable.Name)).
		OrderBy(entsql.Asc("created_at"), entsql.Asc("id"))
	if employerID != "" {
		sel.Where(entsql.EQ("employer_id", employerID))
	}
	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	var out []quiz.Job
	for rows.Next() {
		var j quiz.Job
		if err := rows.Scan(&j.ID, &j.EmployerID, &j.Title, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// SetJobSkills replaces the required skills of a job. Order is kept.
func (s *Store) SetJobSkills(ctx context.Context, jobID string, assocs []skill.Association) error {
	return s.replaceAssociations(ctx, JobSkillsTable.Name, "job_id", "importance", jobID, assocs)
}

// JobSkills returns the job's required skills in insertion order.
func (s *Store) JobSkills(ctx context.Context, jobID string) ([]skill.Association, error) {
	return s.associations(ctx, JobSkillsTable.Name, "job_id", "importance", jobID)
}

// SetCandidateSkills replaces a candidate's declared skills.
func (s *Store) SetCandidateSkills(ctx context.Context, employeeID string, assocs []skill.Association) error {
	return s.replaceAssociations(ctx, CandidateSkillsTable.Name, "employee_id", "proficiency", employeeID, assocs)
}

// AddCandidateSkill upserts one declared skill, keeping the position of
// an existing entry.
func (s *Store) AddCandidateSkill(ctx context.Context, employeeID string, a skill.Association) error {
	current, err := s.CandidateSkills(ctx, employeeID)
	if err != nil {
		return err
	}
	replaced := false
	for i := range current {
		if current[i].SkillID == a.SkillID {
			current[i].Level = a.Level
			replaced = true
		}
	}
	if !replaced {
		current = append(current, skill.Association{SkillID: a.SkillID, SubjectID: employeeID, Level: a.Level})
	}
	return s.SetCandidateSkills(ctx, employeeID, current)
}

// CandidateSkills returns a candidate's declared skills in insertion order.
func (s *Store) CandidateSkills(ctx context.Context, employeeID string) ([]skill.Association, error) {
	return s.associations(ctx, CandidateSkillsTable.Name, "employee_id", "proficiency", employeeID)
}

func (s *Store) replaceAssociations(ctx context.Context, table, subjectCol, levelCol, subjectID string, assocs []skill.Association) error {
	for _, a := range assocs {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		del := build().Delete(table).Where(entsql.EQ(subjectCol, subjectID))
		if _, err := exec(ctx, tx, del); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		if len(assocs) == 0 {
			return nil
		}
		ins := build().Insert(table).Columns(subjectCol, "skill_id", levelCol, "position")
		for i, a := range assocs {
			ins.Values(subjectID, a.SkillID, int(a.Level), i)
		}
		if _, err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
		return nil
	})
}

func (s *Store) associations(ctx context.Context, table, subjectCol, levelCol, subjectID string) ([]skill.Association, error) {
	sel := build().Select("skill_id", levelCol).
		From(build().Table(table)).
		Where(entsql.EQ(subjectCol, subjectID)).
		OrderBy(entsql.Asc("position"))
	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	var out []skill.Association
	for rows.Next() {
		a := skill.Association{SubjectID: subjectID}
		var level int
		if err := rows.Scan(&a.SkillID, &level); err != nil {
			return nil, err
		}
		a.Level = skill.Level(level)
		out = append(out, a)
	}
	return out, rows.Err()
}

var applicationColumns = []string{
	"id", "job_id", "employee_id", "status", "interview_details", "created_at", "updated_at",
}

// CreateApplication inserts an application. A candidate applies to a job
// at most once.
func (s *Store) CreateApplication(ctx context.Context, a *quiz.Application) error {
	status := a.Status
	if status == "" {
		status = quiz.ApplicationPending
	}
	ins := build().Insert(ApplicationsTable.Name).
		Columns(applicationColumns...).
		Values(a.ID, a.JobID, a.EmployeeID, string(status), nullString(a.InterviewDetails), a.CreatedAt, a.UpdatedAt)
	if _, err := exec(ctx, s.db, ins); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("candidate %s already applied to job %s", a.EmployeeID, a.JobID)
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// Application loads an application by id.
func (s *Store) Application(ctx context.Context, id string) (*quiz.Application, error) {
	sel := build().Select(applicationColumns...).
		From(build().Table(ApplicationsTable.Name)).
		Where(entsql.EQ("id", id))
	a, err := scanApplication(queryRow(ctx, s.db, sel))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// ListApplications returns applications filtered by job and/or candidate.
func (s *Store) ListApplications(ctx context.Context, jobID, employeeID string) ([]quiz.Application, error) {
	sel := build().Select(applicationColumns...).
		From(build().Table(ApplicationsTable.Name)).
		OrderBy(entsql.Asc("created_at"), entsql.Asc("id"))
	var preds []*entsql.Predicate
	if jobID != "" {
		preds = append(preds, entsql.EQ("job_id", jobID))
	}
	if employeeID != "" {
		preds = append(preds, entsql.EQ("employee_id", employeeID))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()
	var out []quiz.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateApplicationStatus sets the status of an application.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status quiz.ApplicationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown application status %q", status)
	}
	upd := build().Update(ApplicationsTable.Name).
		Set("status", string(status)).
		Set("updated_at", time.Now()).
		Where(entsql.EQ("id", id))
	res, err := exec(ctx, s.db, upd)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return quiz.ErrNotFound
	}
	return nil
}

// SetInterviewDetails records interview information on an application.
func (s *Store) SetInterviewDetails(ctx context.Context, id, details string) error {
	upd := build().Update(ApplicationsTable.Name).
		Set("interview_details", nullString(details)).
		Set("updated_at", time.Now()).
		Where(entsql.EQ("id", id))
	res, err := exec(ctx, s.db, upd)
	if err != nil {
		return fmt.Errorf("update interview details: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return quiz.ErrNotFound
	}
	return nil
}

func scanApplication(row scanner) (*quiz.Application, error) {
	var (
		a       quiz.Application
		status  string
		details sql.NullString
	)
	if err := row.Scan(&a.ID, &a.JobID, &a.EmployeeID, &status, &details, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = quiz.ApplicationStatus(status)
	a.InterviewDetails = details.String
	return &a, nil
}
