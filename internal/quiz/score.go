package quiz

import (
	"encoding/json"
	"fmt"
)

// SkillScore is the graded outcome of one skill.
type SkillScore struct {
	SkillID string `json:"skill_id"`
	Percent int    `json:"percent"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// SkillScores is ordered by the skill visiting order of the quiz.
type SkillScores []SkillScore

// Get returns the score of skillID.
func (s SkillScores) Get(skillID string) (SkillScore, bool) {
	for _, sc := range s {
		if sc.SkillID == skillID {
			return sc, true
		}
	}
	return SkillScore{}, false
}

// Validate checks every entry names a known skill exactly once and holds a
// percentage in 0..100.
func (s SkillScores) Validate(known []string) error {
	allowed := make(map[string]bool, len(known))
	for _, id := range known {
		allowed[id] = true
	}
	seen := make(map[string]bool, len(s))
	for _, sc := range s {
		if !allowed[sc.SkillID] {
			return fmt.Errorf("%w: %q", ErrUnknownSkill, sc.SkillID)
		}
		if seen[sc.SkillID] {
			return fmt.Errorf("duplicate skill score %q", sc.SkillID)
		}
		seen[sc.SkillID] = true
		if sc.Percent < 0 || sc.Percent > 100 {
			return fmt.Errorf("skill %q: percent %d out of range", sc.SkillID, sc.Percent)
		}
	}
	return nil
}

// Encode serializes the scores for storage.
func (s SkillScores) Encode() (string, error) {
	if s == nil {
		s = SkillScores{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode skill scores: %w", err)
	}
	return string(b), nil
}

// DecodeSkillScores parses stored scores.
func DecodeSkillScores(raw string) (SkillScores, error) {
	if raw == "" {
		return nil, nil
	}
	var s SkillScores
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode skill scores: %w", err)
	}
	return s, nil
}

// Result is the graded outcome of a quiz.
type Result struct {
	Overall int         `json:"overall"`
	Skills  SkillScores `json:"skills"`
}

// Score grades answers against questions. Each answer row counts toward its
// skill's total and, when correct, toward its correct count. Questions
// without an answer row are left out entirely.
func Score(questions []Question, answers []Answer) Result {
	byQuestion := make(map[string]*Answer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	index := make(map[string]int)
	var skills SkillScores
	for i := range questions {
		q := &questions[i]
		at, ok := index[q.SkillID]
		if !ok {
			at = len(skills)
			index[q.SkillID] = at
			skills = append(skills, SkillScore{SkillID: q.SkillID})
		}
		a, answered := byQuestion[q.ID]
		if !answered {
			continue
		}
		skills[at].Total++
		if a.IsCorrect && !a.Skipped() {
			skills[at].Correct++
		}
	}

	var correct, total int
	for i := range skills {
		skills[i].Percent = percent(skills[i].Correct, skills[i].Total)
		correct += skills[i].Correct
		total += skills[i].Total
	}
	return Result{Overall: percent(correct, total), Skills: skills}
}

// percent is round-half-up of 100*c/t, or 0 when t is 0.
func percent(c, t int) int {
	if t <= 0 {
		return 0
	}
	return (200*c + t) / (2 * t)
}
