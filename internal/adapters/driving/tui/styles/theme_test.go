package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for _, c := range []string{
		string(theme.Accent), string(theme.Folder), string(theme.Foreground),
		string(theme.Muted), string(theme.Error), string(theme.Border), string(theme.Bar),
	} {
		assert.NotEmpty(t, c)
	}
	assert.NotEqual(t, theme.Accent, theme.Error)
}

func TestNewStyles(t *testing.T) {
	t.Run("nil theme uses default", func(t *testing.T) {
		s := NewStyles(nil)
		require.NotNil(t, s)
		assert.Equal(t, DefaultTheme(), s.Theme())
	})

	t.Run("styles render text", func(t *testing.T) {
		s := DefaultStyles()
		assert.Contains(t, s.Title.Render("Files"), "Files")
		assert.Contains(t, s.Selected.Render("report.pdf"), "report.pdf")
		assert.Contains(t, s.StatusBar.Render("Ready"), "Ready")
	})
}
