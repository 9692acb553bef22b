// Package questiongen produces multiple-choice question sets for a skill.
// Questions come from an LLM when one is configured; any shortfall is
// filled by a deterministic fallback generator so that a request for n
// questions always yields exactly n valid, distinct questions.
package questiongen

import "github.com/abhisek/skillcheck/internal/skill"

// SkipSentinel is the stored answer text of a skipped question. No option
// may carry this text.
const SkipSentinel = "SKIPPED"

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Source records where a question came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
	SourceGeneral  Source = "general"
)

// Question is a generated multiple-choice question.
type Question struct {
	SkillID       string
	Text          string
	Options       []string
	CorrectAnswer string
	Explanation   string
	Source        Source
}

// CorrectIndex returns the position of the correct answer in Options,
// or -1 if it is not present.
func (q *Question) CorrectIndex() int {
	for i, o := range q.Options {
		if o == q.CorrectAnswer {
			return i
		}
	}
	return -1
}

// Target is one skill to generate questions for, at the level the
// questions should be calibrated to.
type Target struct {
	SkillID string
	Name    string
	Level   skill.Level
}

// Request asks for Count questions for one target.
type Request struct {
	QuizID string
	Target Target
	Count  int
}
