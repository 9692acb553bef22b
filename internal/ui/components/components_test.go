package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func pickOf(t *testing.T, cmd tea.Cmd) PickMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a pick command")
	}
	msg, ok := cmd().(PickMsg)
	if !ok {
		t.Fatalf("expected PickMsg, got %T", cmd())
	}
	return msg
}

func TestMultiChoice_NumberKeys(t *testing.T) {
	mc := NewMultiChoice([]string{"a", "b", "c", "d"})

	mc, cmd := mc.Update(key("3"))
	got := pickOf(t, cmd)
	if got.Index != 2 || got.Option != "c" {
		t.Errorf("pick = %+v, want index 2 option c", got)
	}
	if mc.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", mc.Cursor)
	}

	if _, cmd := mc.Update(key("7")); cmd != nil {
		t.Error("out of range number key should not pick")
	}
}

func TestMultiChoice_CursorAndEnter(t *testing.T) {
	mc := NewMultiChoice([]string{"a", "b", "c", "d"})
	mc, _ = mc.Update(key("up"))
	if mc.Cursor != 0 {
		t.Errorf("cursor moved above first option: %d", mc.Cursor)
	}
	mc, _ = mc.Update(key("down"))
	mc, _ = mc.Update(key("down"))
	_, cmd := mc.Update(key("enter"))
	if got := pickOf(t, cmd); got.Option != "c" {
		t.Errorf("enter picked %q, want c", got.Option)
	}
}

func TestMultiChoice_LockIgnoresKeys(t *testing.T) {
	mc := NewMultiChoice([]string{"a", "b", "c", "d"}).Lock("b", -1, false)
	if mc.Chosen != 1 {
		t.Errorf("chosen = %d, want 1", mc.Chosen)
	}
	if _, cmd := mc.Update(key("1")); cmd != nil {
		t.Error("locked selector should not pick")
	}
	if strings.Contains(mc.View(), "▸") {
		t.Error("locked selector should not render a cursor")
	}
}

func TestMenu(t *testing.T) {
	var ran string
	m := NewMenu([]MenuItem{
		{Label: "one", Action: func() tea.Cmd { ran = "one"; return nil }},
		{Label: "two", Detail: "pending", Action: func() tea.Cmd { ran = "two"; return nil }},
	})
	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("down"))
	if m.Selected != 1 {
		t.Fatalf("selected = %d, want 1", m.Selected)
	}
	m.Update(key("enter"))
	if ran != "two" {
		t.Errorf("ran %q, want two", ran)
	}
	if !strings.Contains(m.View(), "pending") {
		t.Error("view should include item detail")
	}
}

func TestCountdownBar(t *testing.T) {
	tests := []struct {
		remaining float64
		want      string
	}{
		{15, "15s"},
		{4, " 4s"},
		{0, " 0s"},
	}
	for _, tt := range tests {
		bar := CountdownBar(tt.remaining, 15, 40)
		if bar.Suffix != tt.want {
			t.Errorf("suffix(%v) = %q, want %q", tt.remaining, bar.Suffix, tt.want)
		}
		if !strings.Contains(bar.View(), tt.want) {
			t.Errorf("view(%v) missing %q", tt.remaining, tt.want)
		}
	}
}
