// Package list provides the result list component for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// linesPerResult is the rendered height of one entry.
const linesPerResult = 2

// ResultList displays ranked result identifiers with their metadata.
// Identifiers arrive first; names and icons fill in as metas resolve.
type ResultList struct {
	ids      []string
	metas    map[string]domain.ResultMeta
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates an empty result list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		metas:  make(map[string]domain.ResultMeta),
		styles: s,
		width:  80,
		height: 10,
	}
}

// SetResults replaces the listed identifiers and resets the selection.
// Known metas are kept for identifiers that are still listed.
func (r *ResultList) SetResults(ids []string) {
	keep := make(map[string]domain.ResultMeta, len(ids))
	for _, id := range ids {
		if m, ok := r.metas[id]; ok {
			keep[id] = m
		}
	}
	r.ids = ids
	r.metas = keep
	r.selected = 0
}

// SetMetas records metadata for listed identifiers.
func (r *ResultList) SetMetas(metas []domain.ResultMeta) {
	for _, m := range metas {
		r.metas[m.ID] = m
	}
}

// Visible returns the identifiers currently in the viewport.
func (r *ResultList) Visible() []string {
	start, end := r.window()
	return r.ids[start:end]
}

// Unresolved returns visible identifiers with no metadata yet.
func (r *ResultList) Unresolved() []string {
	var out []string
	for _, id := range r.Visible() {
		if _, ok := r.metas[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func (r *ResultList) window() (int, int) {
	visible := max((r.height-2)/linesPerResult, 1)

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.ids))
	return start, end
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.ids) == 0 {
		return r.styles.Muted.Render("No results")
	}

	start, end := r.window()
	lines := make([]string, 0, (end-start)*linesPerResult+1)
	lines = append(lines, r.styles.Title.Render(fmt.Sprintf("Files (%d)", len(r.ids))))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, r.ids[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderResult(index int, id string) string {
	meta, resolved := r.metas[id]

	name := meta.Name
	if name == "" {
		name = lastSegment(id)
	}
	name = truncate(name, r.width-6)

	var title string
	if index == r.selected {
		title = r.styles.Selected.Render(fmt.Sprintf("%s %s", Glyph(meta.Icon), name))
	} else {
		title = r.styles.Icon.Render(Glyph(meta.Icon)) + " " + r.styles.Normal.Render(name)
	}

	location := id
	if path, err := domain.PathFromURI(id); err == nil {
		location = path
	}
	if !resolved {
		location += " …"
	}

	return "  " + title + "\n" + r.styles.Muted.Render("    "+truncate(location, r.width-6))
}

// Glyph is a one-character stand-in for an icon.
func Glyph(icon domain.Icon) string {
	switch icon.Kind {
	case domain.IconThemed:
		switch {
		case strings.HasPrefix(icon.Name, "folder"), strings.HasPrefix(icon.Name, "user-"):
			return "▸"
		case strings.HasPrefix(icon.Name, "drive-"), strings.HasPrefix(icon.Name, "media-"):
			return "⏏"
		case strings.HasPrefix(icon.Name, "image-"):
			return "◩"
		}
		return "•"
	case domain.IconThumbnail:
		return "◩"
	case domain.IconPixels:
		return "•"
	default:
		return "·"
	}
}

func lastSegment(uri string) string {
	trimmed := strings.TrimRight(uri, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 && i < len(trimmed)-1 {
		return trimmed[i+1:]
	}
	return uri
}

func truncate(s string, width int) string {
	width = max(width, 10)
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

// SelectedID returns the highlighted identifier, or "" if none.
func (r *ResultList) SelectedID() string {
	if r.selected < 0 || r.selected >= len(r.ids) {
		return ""
	}
	return r.ids[r.selected]
}

// Selected returns the highlighted index.
func (r *ResultList) Selected() int {
	return r.selected
}

// IDs returns the listed identifiers.
func (r *ResultList) IDs() []string {
	return r.ids
}

// Meta returns the metadata for id if resolved.
func (r *ResultList) Meta(id string) (domain.ResultMeta, bool) {
	m, ok := r.metas[id]
	return m, ok
}

// MoveUp moves the selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.ids)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of listed results.
func (r *ResultList) Count() int {
	return len(r.ids)
}
