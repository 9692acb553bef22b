package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillcheck/internal/ui/theme"
)

// MultiChoice renders the options of one question and tracks the cursor.
// It never records anything itself; the owner decides what a pick means.
type MultiChoice struct {
	Options  []string
	Cursor   int
	Locked   bool
	Chosen   int
	Correct  int // -1 hides the answer key
	TimedOut bool
}

// NewMultiChoice creates an unlocked selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, Chosen: -1, Correct: -1}
}

// PickMsg is emitted when the user picks an option.
type PickMsg struct {
	Index  int
	Option string
}

// Update moves the cursor and turns number keys and enter into a PickMsg.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := kmsg.String(); k {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter":
		return m, m.pick(m.Cursor)
	default:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			if i := int(k[0] - '1'); i < len(m.Options) {
				m.Cursor = i
				return m, m.pick(i)
			}
		}
	}
	return m, nil
}

func (m MultiChoice) pick(i int) tea.Cmd {
	opt := m.Options[i]
	return func() tea.Msg { return PickMsg{Index: i, Option: opt} }
}

// Lock freezes the selector on the option that was recorded.
func (m MultiChoice) Lock(option string, correct int, timedOut bool) MultiChoice {
	m.Locked = true
	m.TimedOut = timedOut
	m.Correct = correct
	m.Chosen = -1
	for i, o := range m.Options {
		if o == option {
			m.Chosen = i
			m.Cursor = i
		}
	}
	return m
}

// View renders the option list.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)
		b.WriteString(m.style(i).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m MultiChoice) style(i int) lipgloss.Style {
	if !m.Locked {
		if i == m.Cursor {
			return theme.Selected
		}
		return theme.Unselected
	}
	switch {
	case m.Correct >= 0 && i == m.Correct:
		return theme.Correct
	case m.Correct >= 0 && i == m.Chosen:
		return theme.Incorrect
	case i == m.Chosen:
		return theme.Chosen
	default:
		return theme.Muted
	}
}
