package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/views/search"
)

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports      *Ports
	ctx        context.Context
	keymap     *keymap.KeyMap
	searchView *search.View

	// initialQuery is typed into the input when the program starts.
	initialQuery string
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		keymap:     km,
		searchView: search.NewView(s, km, ports.Search),
	}, nil
}

// WithContext sets the context for provider calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// WithQuery pre-fills the query input.
func (a *App) WithQuery(query string) *App {
	a.initialQuery = query
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("Search files"),
		a.searchView.Init(),
	}
	if a.initialQuery != "" {
		cmds = append(cmds, a.searchView.SetQuery(a.initialQuery))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, a.keymap.Quit) {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.searchView, cmd = a.searchView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	return a.searchView.View()
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}
