// Package input provides the query input component for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/styles"
)

// QueryInput wraps a bubbles textinput and splits its value into terms.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewQueryInput creates a focused query input.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Type to search files and folders..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &QueryInput{textinput: ti, styles: s, width: 50}
}

// Init starts the cursor blinking.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the input box.
func (q *QueryInput) View() string {
	return q.styles.InputField.Width(q.width - 2).Render(q.textinput.View())
}

// Value returns the raw input value.
func (q *QueryInput) Value() string {
	return q.textinput.Value()
}

// Terms returns the whitespace separated search terms.
func (q *QueryInput) Terms() []string {
	return strings.Fields(q.textinput.Value())
}

// SetValue sets the input value.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// SetWidth sets the rendered width, border included.
func (q *QueryInput) SetWidth(width int) {
	q.width = max(width, 24)
	q.textinput.Width = q.width - 4 - lipgloss.Width(q.textinput.Prompt)
}

// Width returns the current width.
func (q *QueryInput) Width() int {
	return q.width
}
