// Package skill defines skill reference data, the job and candidate
// skill associations, and the matcher that decides which skills a quiz
// assesses.
package skill

import (
	"errors"
	"fmt"
)

// GeneralFitID is the synthetic skill slot used when a quiz context has
// no skills to assess.
const GeneralFitID = "general-fit"

// ErrInvalidLevel is returned when a level falls outside 1..5.
var ErrInvalidLevel = errors.New("skill level must be between 1 and 5")

// Level is an importance (job) or proficiency (candidate) rating.
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 5
)

// Valid reports whether the level is within 1..5.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// Label returns the human-readable difficulty band for the level.
func (l Level) Label() string {
	switch l {
	case 1:
		return "beginner"
	case 2:
		return "basic"
	case 3:
		return "intermediate"
	case 4:
		return "advanced"
	case 5:
		return "expert"
	default:
		return "general"
	}
}

// Skill is immutable reference data.
type Skill struct {
	ID          string
	Name        string
	Description string
}

// Association links a skill to a subject, either a job (Level is the
// importance) or a candidate (Level is the proficiency).
type Association struct {
	SkillID   string
	SubjectID string
	Level     Level
}

// Validate checks the association invariants.
func (a Association) Validate() error {
	if a.SkillID == "" {
		return errors.New("skill id is required")
	}
	if !a.Level.Valid() {
		return fmt.Errorf("%w: got %d for skill %q", ErrInvalidLevel, a.Level, a.SkillID)
	}
	return nil
}
