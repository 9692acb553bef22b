package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice assessment questions for technical hiring.

Rules:
- Every question has exactly 4 options. Options are distinct and non-empty.
- correct_answer is copied character for character from one of the options.
- Questions test practical understanding, not trivia or trick wording.
- Do not repeat a question or ask the same thing in different words.
- Calibrate difficulty to the requested level: 1 = beginner, 5 = expert.
- Use plain text. No markdown, no numbering inside the question text.`

// buildUserMessage renders the per-skill generation request.
func buildUserMessage(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Skill: %s\n", req.Target.Name)
	fmt.Fprintf(&b, "Level: %d (%s)\n", req.Target.Level, req.Target.Level.Label())
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)
	if req.QuizID != "" {
		fmt.Fprintf(&b, "Assessment: %s\n", req.QuizID)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Generate exactly %d questions assessing %s at the %s level.",
		req.Count, req.Target.Name, req.Target.Level.Label())

	return b.String()
}
