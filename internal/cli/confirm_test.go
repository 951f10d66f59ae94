package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to the model in order and returns the final model and
// the command produced by the last key.
func press(m confirmModel, keys ...tea.KeyMsg) (confirmModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(confirmModel)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestConfirmModel_Keys(t *testing.T) {
	tests := []struct {
		name      string
		keys      []tea.KeyMsg
		yes       bool
		cancelled bool
		quits     bool
	}{
		{name: "y", keys: []tea.KeyMsg{runes("y")}, yes: true, quits: true},
		{name: "upper Y", keys: []tea.KeyMsg{runes("Y")}, yes: true, quits: true},
		{name: "n", keys: []tea.KeyMsg{runes("n")}, quits: true},
		{name: "enter defaults to no", keys: []tea.KeyMsg{{Type: tea.KeyEnter}}, quits: true},
		{name: "toggle then enter", keys: []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEnter}}, yes: true, quits: true},
		{name: "toggle twice", keys: []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyLeft}, {Type: tea.KeyEnter}}, quits: true},
		{name: "esc", keys: []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEsc}}, cancelled: true, quits: true},
		{name: "ctrl+c", keys: []tea.KeyMsg{{Type: tea.KeyCtrlC}}, cancelled: true, quits: true},
		{name: "toggle only", keys: []tea.KeyMsg{runes("l")}, yes: true},
		{name: "other key ignored", keys: []tea.KeyMsg{runes("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(newConfirmModel("Cancel?"), tt.keys...)
			assert.Equal(t, tt.yes, m.yes)
			assert.Equal(t, tt.cancelled, m.cancelled)
			assert.Equal(t, tt.quits, m.done)
			assert.Equal(t, tt.quits, isQuit(cmd))
		})
	}
}

func TestConfirmModel_IgnoresNonKeyMessages(t *testing.T) {
	m, cmd := newConfirmModel("Cancel?").Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	assert.False(t, m.(confirmModel).done)
}

func TestConfirmModel_View(t *testing.T) {
	m := newConfirmModel("Cancel your reservation?")
	view := m.View()
	assert.Contains(t, view, "Cancel your reservation?")
	assert.Contains(t, view, "Yes")
	assert.Contains(t, view, "No")

	m, _ = press(m, runes("y"))
	assert.Empty(t, m.View())
}

func TestAutoConfirm(t *testing.T) {
	ok, err := AutoConfirm(true)("anything")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AutoConfirm(false)("anything")
	require.NoError(t, err)
	assert.False(t, ok)
}
