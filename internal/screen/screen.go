// Package screen defines the contract between the router and the screens
// of the terminal client, plus the dependencies screens share.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/ui/layout"
)

// Screen is one page of the terminal client.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	Title() string
}

// KeyHintProvider is implemented by screens that show their own footer
// hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens that own background work. The router
// calls Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// Refresher is implemented by screens that reload when they become active
// again.
type Refresher interface {
	Refresh() tea.Cmd
}
