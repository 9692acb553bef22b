package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillcheck/internal/skill"
)

// Question stems take the topic then the skill name.
var fallbackStems = []string{
	"Which practice best supports %[1]s when working with %[2]s?",
	"What should a %[2]s practitioner check first when %[1]s starts to degrade?",
	"When planning %[1]s for a %[2]s project, what deserves the highest priority?",
	"How should a team handle %[1]s in day-to-day %[2]s work?",
	"What is the main benefit of investing in %[1]s for %[2]s?",
	"Which statement about %[1]s in %[2]s is most accurate?",
	"How does neglecting %[1]s usually affect a %[2]s codebase?",
	"What separates a strong approach to %[1]s from a weak one in %[2]s?",
	"Which technique for %[1]s scales best as %[2]s usage grows?",
	"What is a frequent misunderstanding about %[1]s in %[2]s?",
	"How has the recommended approach to %[1]s in %[2]s changed over time?",
	"Which obstacle is most common when introducing %[1]s into %[2]s work?",
}

var fallbackTopics = []string{
	"error handling", "performance tuning", "code review", "testing strategy",
	"dependency management", "release planning", "observability", "security hardening",
	"data modelling", "API design", "documentation", "configuration management",
	"incident response", "capacity planning", "refactoring", "onboarding",
	"version control", "automation", "accessibility", "cost control",
	"requirements gathering", "stakeholder communication", "technical debt", "caching",
	"concurrency", "backward compatibility", "estimation",
}

// Each group lists the preferred option first, then three weaker ones.
// {approach} and {aspect} are substituted per question and option.
var fallbackOptionGroups = [][OptionCount]string{
	{
		"Adopt a {approach} process that keeps {aspect} measurable",
		"Defer {aspect} concerns until after the first release",
		"Let each contributor choose an ad hoc {approach} style",
		"Replace the existing process with a {approach} rewrite immediately",
	},
	{
		"Agree on shared conventions and review them with a {approach} cadence",
		"Rely on individual memory instead of written {aspect} guidelines",
		"Optimise only for {aspect} and ignore everything else",
		"Copy a {approach} setup from another team without adapting it",
	},
	{
		"Start from small, verifiable changes and track {aspect} over time",
		"Ship everything at once and measure {aspect} later",
		"Treat {aspect} as a one-time {approach} exercise",
		"Outsource {aspect} decisions entirely to tooling defaults",
	},
	{
		"Balance {aspect} against delivery using a {approach} review",
		"Assume {aspect} issues will resolve themselves",
		"Escalate every {aspect} question to management",
		"Freeze all changes until {aspect} is perfect",
	},
}

var fallbackApproaches = []string{
	"iterative", "incremental", "systematic", "collaborative",
	"data-driven", "lightweight", "structured", "modular",
}

var fallbackAspects = []string{
	"maintainability", "reliability", "scalability", "security",
	"readability", "performance", "usability",
}

var levelPrefixes = map[skill.Level]string{
	1: "[BEGINNER]",
	2: "[BASIC]",
	3: "[INTERMEDIATE]",
	4: "[ADVANCED]",
	5: "[EXPERT]",
}

var optionLabels = [OptionCount]string{"A", "B", "C", "D"}

// fallbackCycle is the number of indices before a stem/topic pair repeats.
// 12 stems and 27 topics share a factor of 3, so the cycle is their lcm.
const fallbackCycle = 108

// Fallback synthesizes questions from fixed template libraries. Output is
// a pure function of (skill name, level, index): no two indices yield the
// same text for one target, and the correct option sits at
// (index + level) mod 4.
type Fallback struct{}

// Question returns the index-th synthesized question for target.
func (Fallback) Question(target Target, index int) Question {
	if index < 0 {
		index = -index
	}
	name := target.Name
	if name == "" {
		name = target.SkillID
	}

	topic := fallbackTopics[index%len(fallbackTopics)]
	stem := fmt.Sprintf(fallbackStems[index%len(fallbackStems)], topic, name)

	var b strings.Builder
	if prefix, ok := levelPrefixes[target.Level]; ok {
		b.WriteString(prefix)
	} else {
		b.WriteString("[GENERAL]")
	}
	b.WriteByte(' ')
	b.WriteString(stem)
	if target.Level >= 4 {
		related := fallbackTopics[(index+5)%len(fallbackTopics)]
		fmt.Fprintf(&b, " Consider situations that also involve %s.", related)
	}
	if round := index / fallbackCycle; round > 0 {
		fmt.Fprintf(&b, " (variant %d)", round+1)
	}

	correct := (index + int(target.Level)) % OptionCount
	if correct < 0 {
		correct += OptionCount
	}
	bodies := fallbackOptions(index)

	// Place the preferred body at the correct slot, the rest in order.
	ordered := make([]string, 0, OptionCount)
	rest := bodies[1:]
	for slot := range OptionCount {
		if slot == correct {
			ordered = append(ordered, bodies[0])
			continue
		}
		ordered = append(ordered, rest[0])
		rest = rest[1:]
	}

	options := make([]string, OptionCount)
	for i, body := range ordered {
		options[i] = optionLabels[i] + ". " + body
	}

	return Question{
		SkillID:       target.SkillID,
		Text:          b.String(),
		Options:       options,
		CorrectAnswer: options[correct],
		Explanation: fmt.Sprintf(
			"At the %s level of %s, option %s reflects sustainable practice for %s; the others trade long-term quality for short-term convenience.",
			target.Level.Label(), name, optionLabels[correct], topic,
		),
		Source: SourceFallback,
	}
}

func fallbackOptions(index int) [OptionCount]string {
	group := fallbackOptionGroups[index%len(fallbackOptionGroups)]
	var out [OptionCount]string
	for k, tmpl := range group {
		r := strings.NewReplacer(
			"{approach}", fallbackApproaches[(index+k)%len(fallbackApproaches)],
			"{aspect}", fallbackAspects[(index+k)%len(fallbackAspects)],
		)
		out[k] = r.Replace(tmpl)
	}
	return out
}
