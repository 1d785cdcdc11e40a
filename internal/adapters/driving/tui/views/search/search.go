// Package search provides the search-as-you-type view for the TUI.
package search

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driving"
)

// DefaultDebounce is the typing pause before a query is sent.
const DefaultDebounce = 150 * time.Millisecond

// View is the query input, result list and status bar. It queries the
// provider the way the desktop shell does: an initial result set for a
// new query and a subsearch when the query only grew.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	provider driving.SearchProvider
	ctx      context.Context
	debounce time.Duration

	// seq identifies the latest query; replies for older ones are dropped.
	seq uint64

	// lastTerms and lastIDs are the terms and reply of the last completed
	// search, used to decide between an initial search and a subsearch.
	lastTerms []string
	lastIDs   []string

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, provider driving.SearchProvider) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQueryInput(s),
		list:      list.NewResultList(s),
		statusbar: status.NewBar(s, km),
		provider:  provider,
		ctx:       context.Background(),
		debounce:  DefaultDebounce,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for provider calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithDebounce sets the typing pause before a query is sent.
func (v *View) WithDebounce(d time.Duration) *View {
	v.debounce = d
	return v
}

// Init starts the cursor blinking.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QueryDebounced:
		if msg.Seq != v.seq {
			return v, nil
		}
		return v, v.search(msg.Seq, v.input.Terms())

	case messages.ResultsReceived:
		return v, v.handleResults(msg)

	case messages.MetasReceived:
		if msg.Seq != v.seq {
			return v, nil
		}
		if msg.Err != nil {
			v.statusbar.SetMessage("metas: " + msg.Err.Error())
			return v, nil
		}
		v.list.SetMetas(msg.Metas)
		return v, nil

	case messages.Activated:
		name := msg.ID
		if m, ok := v.list.Meta(msg.ID); ok && m.Name != "" {
			name = m.Name
		}
		v.statusbar.SetMessage("opened " + name)
		return v, nil

	case messages.Launched:
		v.statusbar.SetMessage("opened search location")
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
		return v, v.fetchMetas()
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
		return v, v.fetchMetas()
	case key.Matches(msg, v.keymap.Activate):
		return v, v.activate()
	case key.Matches(msg, v.keymap.Launch):
		return v, v.launch()
	case key.Matches(msg, v.keymap.Clear):
		v.input.SetValue("")
		return v, v.queryChanged()
	}

	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.input.Value() == before {
		return v, cmd
	}
	return v, tea.Batch(cmd, v.queryChanged())
}

// queryChanged supersedes any outstanding reply and schedules a search.
func (v *View) queryChanged() tea.Cmd {
	v.seq++
	seq := v.seq

	if len(v.input.Terms()) == 0 {
		v.reset()
		return nil
	}

	v.statusbar.SetState(status.StateSearching)
	return tea.Tick(v.debounce, func(time.Time) tea.Msg {
		return messages.QueryDebounced{Seq: seq}
	})
}

func (v *View) reset() {
	v.lastTerms = nil
	v.lastIDs = nil
	v.err = nil
	v.list.SetResults(nil)
	v.statusbar.SetState(status.StateReady)
}

// search asks for an initial result set, or a subsearch when every term
// of the previous query is a prefix of the matching new term.
func (v *View) search(seq uint64, terms []string) tea.Cmd {
	provider, ctx := v.provider, v.ctx
	previous := v.lastIDs
	refine := isRefinement(v.lastTerms, terms)

	return func() tea.Msg {
		start := time.Now()
		var (
			ids []string
			err error
		)
		if refine {
			ids, err = provider.GetSubsearchResultSet(ctx, previous, terms)
		} else {
			ids, err = provider.GetInitialResultSet(ctx, terms)
		}
		return messages.ResultsReceived{Seq: seq, Terms: terms, IDs: ids, Elapsed: time.Since(start), Err: err}
	}
}

func isRefinement(previous, terms []string) bool {
	if len(previous) == 0 || len(terms) < len(previous) {
		return false
	}
	for i, p := range previous {
		if !strings.HasPrefix(terms[i], p) {
			return false
		}
	}
	return true
}

func (v *View) handleResults(msg messages.ResultsReceived) tea.Cmd {
	if msg.Seq != v.seq {
		return nil
	}
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return nil
	}

	v.err = nil
	v.lastTerms = slices.Clone(msg.Terms)
	v.lastIDs = msg.IDs
	v.list.SetResults(msg.IDs)
	v.statusbar.SetResults(len(msg.IDs), msg.Elapsed)

	return v.fetchMetas()
}

// fetchMetas resolves the visible results that have no metadata yet.
func (v *View) fetchMetas() tea.Cmd {
	ids := v.list.Unresolved()
	if len(ids) == 0 {
		return nil
	}

	provider, ctx, seq := v.provider, v.ctx, v.seq
	return func() tea.Msg {
		metas, err := provider.GetResultMetas(ctx, ids)
		return messages.MetasReceived{Seq: seq, Metas: metas, Err: err}
	}
}

func (v *View) activate() tea.Cmd {
	id := v.list.SelectedID()
	if id == "" {
		return nil
	}

	provider, ctx, terms := v.provider, v.ctx, v.input.Terms()
	return func() tea.Msg {
		provider.ActivateResult(ctx, id, terms)
		return messages.Activated{ID: id}
	}
}

func (v *View) launch() tea.Cmd {
	provider, ctx, terms := v.provider, v.ctx, v.input.Terms()
	return func() tea.Msg {
		provider.LaunchSearch(ctx, terms)
		return messages.Launched{}
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Search files"),
		v.input.View(),
		"",
		v.list.View(),
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	gap := max(v.height-lipgloss.Height(body)-1, 0)

	return body + strings.Repeat("\n", gap+1) + v.statusbar.View()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-6)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view has received its dimensions.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the raw query text.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery replaces the query and schedules a search.
func (v *View) SetQuery(query string) tea.Cmd {
	v.input.SetValue(query)
	return v.queryChanged()
}

// Results returns the listed result identifiers.
func (v *View) Results() []string {
	return v.list.IDs()
}

// SelectedID returns the highlighted result identifier.
func (v *View) SelectedID() string {
	return v.list.SelectedID()
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Err returns the last search error, if any.
func (v *View) Err() error {
	return v.err
}
