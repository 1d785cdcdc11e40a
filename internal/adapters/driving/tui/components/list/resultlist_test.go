package list

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("file:///home/user/f%02d", i)
	}
	return out
}

func TestResultList_Empty(t *testing.T) {
	r := NewResultList(nil)

	assert.Equal(t, 0, r.Count())
	assert.Equal(t, "", r.SelectedID())
	assert.Empty(t, r.Visible())
	assert.Contains(t, r.View(), "No results")
}

func TestResultList_Navigation(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(ids(3))

	assert.Equal(t, "file:///home/user/f00", r.SelectedID())
	r.MoveUp()
	assert.Equal(t, 0, r.Selected())
	r.MoveDown()
	r.MoveDown()
	r.MoveDown()
	assert.Equal(t, 2, r.Selected())
	assert.Equal(t, "file:///home/user/f02", r.SelectedID())

	r.SetResults(ids(2))
	assert.Equal(t, 0, r.Selected())
}

func TestResultList_Window(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(80, 8) // three entries
	r.SetResults(ids(10))

	assert.Equal(t, ids(10)[:3], r.Visible())

	for i := 0; i < 5; i++ {
		r.MoveDown()
	}
	assert.Equal(t, ids(10)[3:6], r.Visible())
}

func TestResultList_Metas(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(80, 20)
	all := ids(3)
	r.SetResults(all)

	assert.Equal(t, all, r.Unresolved())

	r.SetMetas([]domain.ResultMeta{
		{ID: all[0], Name: "Quarterly", Icon: domain.ThemedIcon("folder")},
	})
	assert.Equal(t, all[1:], r.Unresolved())

	m, ok := r.Meta(all[0])
	require.True(t, ok)
	assert.Equal(t, "Quarterly", m.Name)

	view := r.View()
	assert.Contains(t, view, "Files (3)")
	assert.Contains(t, view, "Quarterly")
	assert.Contains(t, view, "/home/user/f00")
	assert.Contains(t, view, "f01")

	r.SetResults(all[:1])
	_, ok = r.Meta(all[0])
	assert.True(t, ok, "metas for still listed ids are kept")
	r.SetResults(all[1:])
	_, ok = r.Meta(all[0])
	assert.False(t, ok)
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		icon domain.Icon
		want string
	}{
		{icon: domain.ThemedIcon("folder-music"), want: "▸"},
		{icon: domain.ThemedIcon("user-home"), want: "▸"},
		{icon: domain.ThemedIcon("drive-removable-media"), want: "⏏"},
		{icon: domain.ThemedIcon("text-x-generic"), want: "•"},
		{icon: domain.ThumbnailIcon("/thumbs/a.png"), want: "◩"},
		{icon: domain.Icon{}, want: "·"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Glyph(tt.icon), tt.icon.Token())
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "abcdefghi…", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "abcdefghi…", truncate("abcdefghijklmnop", 3))
}
