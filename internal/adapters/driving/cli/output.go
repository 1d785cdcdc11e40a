package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 100

var (
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C9EF2"))
	indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")).Italic(true)
)

// printer formats result listings, styling them only on a terminal.
type printer struct {
	styled bool
	width  int
}

func newPrinter(w io.Writer) printer {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return printer{width: defaultWidth}
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = defaultWidth
	}
	return printer{styled: true, width: width}
}

func (p printer) index(s string) string {
	if !p.styled {
		return s
	}
	return indexStyle.Render(s)
}

func (p printer) name(s string) string {
	if !p.styled {
		return s
	}
	return nameStyle.Render(s)
}

// id renders an identifier, shortened from the left to fit the line.
func (p printer) id(s string, indent int) string {
	s = truncateLeft(s, p.width-indent)
	if !p.styled {
		return s
	}
	return idStyle.Render(s)
}

func truncateLeft(s string, limit int) string {
	runes := []rune(s)
	if limit <= 1 || len(runes) <= limit {
		return s
	}
	return "…" + string(runes[len(runes)-limit+1:])
}
