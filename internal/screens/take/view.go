package take

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/ui/components"
	"github.com/abhisek/skillcheck/internal/ui/layout"
	"github.com/abhisek/skillcheck/internal/ui/theme"
)

func (s *TakeScreen) View(width, height int) string {
	var body string
	switch {
	case s.quitting:
		body = renderQuitConfirm(width)
	case s.sess.BetweenSkills():
		body = s.renderBetweenSkills(width)
	default:
		body = s.renderQuestion(width)
	}
	if s.errMsg != "" {
		body += "\n\n" + layout.Center(theme.ErrorText.Render(s.errMsg), width)
	}
	return body
}

func (s *TakeScreen) renderQuestion(width int) string {
	q, ok := s.sess.Active()
	if !ok {
		return layout.Center(theme.Hint.Render("No active question"), width)
	}
	skillIdx, pos, total := s.sess.Position()
	skills := s.sess.SkillIDs()

	var b strings.Builder
	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  Skill %d/%d: %s", skillIdx+1, len(skills), s.names[q.SkillID]))
	counter := theme.Muted.Render(fmt.Sprintf("Question %d/%d", pos+1, total))
	gap := max(width-lipgloss.Width(info)-lipgloss.Width(counter)-4, 1)
	b.WriteString(info + strings.Repeat(" ", gap) + counter)
	b.WriteString("\n")

	bar := components.CountdownBar(s.sess.Remaining().Seconds(), s.sess.TimeLimit().Seconds(), min(width-8, 60))
	b.WriteString("  " + bar.View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(min(width-8, 80)).
		Foreground(theme.Text).
		Bold(true).
		PaddingLeft(2).
		Render(q.Text))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.choice.View()))

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	}
	if s.sess.AwaitingAdvance() && s.quiz.Practice() && q.Explanation != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(min(width-8, 80)).PaddingLeft(2).
			Render(theme.Hint.Render(q.Explanation)))
	}
	return b.String()
}

func (s *TakeScreen) renderBetweenSkills(width int) string {
	skillIdx, _, _ := s.sess.Position()
	skills := s.sess.SkillIDs()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Center(theme.Title.Render(s.names[skills[skillIdx]]+" complete"), width))
	b.WriteString("\n\n")

	for i, id := range skills {
		mark, style := "○", theme.Muted
		if s.sess.SkillComplete(i) {
			mark, style = "✓", theme.Correct
		}
		b.WriteString(layout.Center(style.Render(fmt.Sprintf("%s %-24s %s", mark, s.names[id], s.answeredIn(id))), width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	buttons := []components.Button{}
	if s.sess.HasNextSkill() {
		buttons = append(buttons, components.Button{Key: "N", Label: "Next skill", Enabled: true})
	}
	buttons = append(buttons, components.Button{Key: "F", Label: "Submit quiz", Enabled: s.sess.CanSubmit()})
	b.WriteString(layout.Center(components.ButtonRow(buttons...), width))
	return b.String()
}

// answeredIn summarizes how many questions of a skill are resolved.
func (s *TakeScreen) answeredIn(skillID string) string {
	var done, total int
	for i, q := range s.sess.Questions() {
		if q.SkillID != skillID {
			continue
		}
		total++
		if s.sess.State(i) == quiz.Submitted {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, total)
}

func renderQuitConfirm(width int) string {
	return "\n\n" + layout.Center(theme.Title.Render("Leave this quiz?"), width) + "\n\n" +
		layout.Center(theme.Subtitle.Render("Your answers are saved. You can resume later,\nbut the current question's timer restarts."), width)
}
