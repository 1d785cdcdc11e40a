package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{name: "ctrl+c quits", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, binding: km.Quit},
		{name: "up arrow", msg: tea.KeyMsg{Type: tea.KeyUp}, binding: km.Up},
		{name: "down arrow", msg: tea.KeyMsg{Type: tea.KeyDown}, binding: km.Down},
		{name: "tab moves down", msg: tea.KeyMsg{Type: tea.KeyTab}, binding: km.Down},
		{name: "enter activates", msg: tea.KeyMsg{Type: tea.KeyEnter}, binding: km.Activate},
		{name: "ctrl+o launches", msg: tea.KeyMsg{Type: tea.KeyCtrlO}, binding: km.Launch},
		{name: "esc clears", msg: tea.KeyMsg{Type: tea.KeyEsc}, binding: km.Clear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, key.Matches(tt.msg, tt.binding))
		})
	}
}

func TestKeyMap_LettersAreFree(t *testing.T) {
	km := DefaultKeyMap()
	letter := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}

	for _, b := range []key.Binding{km.Quit, km.Up, km.Down, km.Activate, km.Launch, km.Clear} {
		assert.False(t, key.Matches(letter, b))
	}
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 2)
	assert.Len(t, km.ResultsHelp(), 5)
	for _, b := range km.ResultsHelp() {
		assert.NotEmpty(t, b.Help().Key)
		assert.NotEmpty(t, b.Help().Desc)
	}
}
