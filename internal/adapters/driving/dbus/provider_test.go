package dbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

type fakeProvider struct {
	ids       []string
	err       error
	metas     []domain.ResultMeta
	activated []string
	launched  [][]string
	previous  []string
	terms     []string
}

func (f *fakeProvider) GetInitialResultSet(_ context.Context, terms []string) ([]string, error) {
	f.terms = terms
	return f.ids, f.err
}

func (f *fakeProvider) GetSubsearchResultSet(_ context.Context, previous, terms []string) ([]string, error) {
	f.previous = previous
	f.terms = terms
	return f.ids, f.err
}

func (f *fakeProvider) GetResultMetas(_ context.Context, ids []string) ([]domain.ResultMeta, error) {
	return f.metas, f.err
}

func (f *fakeProvider) ActivateResult(_ context.Context, id string, _ []string) {
	f.activated = append(f.activated, id)
}

func (f *fakeProvider) LaunchSearch(_ context.Context, terms []string) {
	f.launched = append(f.launched, terms)
}

func newTestObject(p *fakeProvider) *searchProvider2 {
	return &searchProvider2{provider: p, ctx: context.Background}
}

func TestSearchProvider2_GetInitialResultSet(t *testing.T) {
	p := &fakeProvider{ids: []string{"file:///a", "file:///b"}}

	ids, dbusErr := newTestObject(p).GetInitialResultSet([]string{"rep"})

	assert.Nil(t, dbusErr)
	assert.Equal(t, []string{"file:///a", "file:///b"}, ids)
	assert.Equal(t, []string{"rep"}, p.terms)
}

func TestSearchProvider2_ErrorsBecomeEmptyReplies(t *testing.T) {
	p := &fakeProvider{err: context.Canceled}
	obj := newTestObject(p)

	ids, dbusErr := obj.GetInitialResultSet([]string{"x"})
	assert.Nil(t, dbusErr)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	ids, dbusErr = obj.GetSubsearchResultSet([]string{"a"}, []string{"ab"})
	assert.Nil(t, dbusErr)
	assert.Empty(t, ids)
	assert.Equal(t, []string{"a"}, p.previous)

	metas, dbusErr := obj.GetResultMetas([]string{"file:///a"})
	assert.Nil(t, dbusErr)
	assert.NotNil(t, metas)
	assert.Empty(t, metas)
}

func TestSearchProvider2_ActivateAndLaunch(t *testing.T) {
	p := &fakeProvider{}
	obj := newTestObject(p)

	assert.Nil(t, obj.ActivateResult("file:///a", []string{"a"}, 42))
	assert.Nil(t, obj.LaunchSearch([]string{"a", "b"}, 42))

	assert.Equal(t, []string{"file:///a"}, p.activated)
	assert.Equal(t, [][]string{{"a", "b"}}, p.launched)
}

func TestEncodeMeta(t *testing.T) {
	t.Run("themed icon", func(t *testing.T) {
		entry := encodeMeta(domain.ResultMeta{
			ID:   "file:///home/user/Music",
			Name: "Music",
			Icon: domain.ThemedIcon("folder-music"),
		})

		assert.Equal(t, "file:///home/user/Music", entry["id"].Value())
		assert.Equal(t, "Music", entry["name"].Value())
		assert.Equal(t, "folder-music", entry["gicon"].Value())
		assert.NotContains(t, entry, "icon-data")
	})

	t.Run("thumbnail", func(t *testing.T) {
		entry := encodeMeta(domain.ResultMeta{
			ID:   "file:///a.png",
			Name: "a.png",
			Icon: domain.ThumbnailIcon("/home/user/.cache/thumbnails/large/x.png"),
		})

		assert.Equal(t, "/home/user/.cache/thumbnails/large/x.png", entry["gicon"].Value())
	})

	t.Run("pixels", func(t *testing.T) {
		px := &domain.PixelBuffer{
			Width: 2, Height: 1, Rowstride: 8, HasAlpha: true,
			BitsPerSample: 8, Channels: 4, Data: make([]byte, 8),
		}
		entry := encodeMeta(domain.ResultMeta{ID: "file:///a", Name: "a", Icon: domain.PixelIcon(px)})

		require.Contains(t, entry, "icon-data")
		assert.Equal(t, "(iiibiiay)", entry["icon-data"].Signature().String())

		data, ok := entry["icon-data"].Value().(iconData)
		require.True(t, ok)
		assert.Equal(t, int32(2), data.Width)
		assert.Equal(t, int32(8), data.Rowstride)
		assert.True(t, data.HasAlpha)
		assert.Len(t, data.Data, 8)
		assert.NotContains(t, entry, "gicon")
	})

	t.Run("placeholder", func(t *testing.T) {
		entry := encodeMeta(domain.ResultMeta{ID: "file:///gone"})

		assert.Equal(t, "file:///gone", entry["id"].Value())
		assert.Equal(t, "", entry["name"].Value())
		assert.NotContains(t, entry, "gicon")
		assert.NotContains(t, entry, "icon-data")
	})
}

func TestNewServer(t *testing.T) {
	p := &fakeProvider{}

	_, err := NewServer(nil, Config{BusName: "io.sercha.Test", ObjectPath: "/io/sercha/Test"})
	assert.True(t, errors.Is(err, ErrMissingProvider))

	_, err = NewServer(p, Config{BusName: "io.sercha.Test", ObjectPath: "not/a/path"})
	assert.Error(t, err)

	_, err = NewServer(p, Config{ObjectPath: "/io/sercha/Test"})
	assert.Error(t, err)

	s, err := NewServer(p, Config{BusName: "io.sercha.Test", ObjectPath: "/io/sercha/Test"})
	require.NoError(t, err)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestIntrospection(t *testing.T) {
	names := make([]string, 0, len(introspection.Methods))
	for _, m := range introspection.Methods {
		names = append(names, m.Name)
	}

	assert.Equal(t, InterfaceName, introspection.Name)
	assert.ElementsMatch(t, []string{
		"GetInitialResultSet", "GetSubsearchResultSet", "GetResultMetas", "ActivateResult", "LaunchSearch",
	}, names)
}
