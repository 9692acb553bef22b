package questiongen

import "github.com/abhisek/skillcheck/internal/skill"

// GeneralFit returns the fixed question used when a quiz has no skills to
// assess. It is answered and scored like any other question.
func GeneralFit() Question {
	options := []string{
		"A. Read the team's documentation and ship a small, well-scoped change",
		"B. Wait until every process has been explained before starting",
		"C. Rewrite existing systems to match personal preferences",
		"D. Work alone without asking the team for context",
	}
	return Question{
		SkillID:       skill.GeneralFitID,
		Text:          "[GENERAL] Which approach best describes how you would become productive in a new role?",
		Options:       options,
		CorrectAnswer: options[0],
		Explanation:   "Learning the existing context and delivering a small change early builds trust and surfaces gaps quickly.",
		Source:        SourceGeneral,
	}
}
