package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// mockMetadataSource implements driven.MetadataSource for testing.
type mockMetadataSource struct {
	mu      sync.Mutex
	files   map[string]domain.FileInfo
	err     error
	calls   int
	batches [][]string
	attrs   []domain.FileAttributes
}

func (m *mockMetadataSource) Resolve(
	_ context.Context, uris []string, attrs domain.FileAttributes,
) ([]domain.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.batches = append(m.batches, append([]string(nil), uris...))
	m.attrs = append(m.attrs, attrs)

	var infos []domain.FileInfo
	// Reverse order: callers must not rely on source ordering.
	for i := len(uris) - 1; i >= 0; i-- {
		if info, ok := m.files[uris[i]]; ok {
			infos = append(infos, info)
		}
	}
	return infos, m.err
}

func (m *mockMetadataSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var testPixels = &domain.PixelBuffer{
	Width: 1, Height: 1, Rowstride: 4, HasAlpha: true, BitsPerSample: 8, Channels: 4,
	Data: []byte{0, 0, 0, 255},
}

func newTestSource() *mockMetadataSource {
	return &mockMetadataSource{files: map[string]domain.FileInfo{
		"file:///a.txt": {URI: "file:///a.txt", DisplayName: "a.txt", IconName: "text-x-generic"},
		"file:///b.png": {URI: "file:///b.png", DisplayName: "b.png", ThumbnailPath: "/thumbs/b.png", IconName: "image-png"},
		"file:///c.bin": {URI: "file:///c.bin", DisplayName: "c.bin", Pixels: testPixels},
		"file:///d":     {URI: "file:///d", DisplayName: "d"},
		"file:///docs":  {URI: "file:///docs", DisplayName: "docs", IconName: "folder"},
	}}
}

func TestMetadataResolver_GetMetas(t *testing.T) {
	source := newTestSource()
	r := NewMetadataResolver(NewResultCache(), source)

	metas, err := r.GetMetas(context.Background(), []string{"file:///a.txt", "file:///b.png", "file:///c.bin", "file:///d"})

	require.NoError(t, err)
	assert.Equal(t, []domain.ResultMeta{
		{ID: "file:///a.txt", Name: "a.txt", Icon: domain.ThemedIcon("text-x-generic")},
		{ID: "file:///b.png", Name: "b.png", Icon: domain.ThumbnailIcon("/thumbs/b.png")},
		{ID: "file:///c.bin", Name: "c.bin", Icon: domain.PixelIcon(testPixels)},
		{ID: "file:///d", Name: "d"},
	}, metas)
	assert.Equal(t, []domain.FileAttributes{domain.AttributesForIcon}, source.attrs)
}

func TestMetadataResolver_CacheHitSkipsSource(t *testing.T) {
	source := newTestSource()
	cache := NewResultCache()
	r := NewMetadataResolver(cache, source)
	ids := []string{"file:///a.txt", "file:///b.png"}

	first, err := r.GetMetas(context.Background(), ids)
	require.NoError(t, err)
	second, err := r.GetMetas(context.Background(), ids)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.Calls())
	assert.Equal(t, 2, cache.Len())
}

func TestMetadataResolver_OnlyMissesResolved(t *testing.T) {
	source := newTestSource()
	r := NewMetadataResolver(NewResultCache(), source)
	metrics := newRecordingMetrics()
	r.SetMetrics(metrics)

	_, err := r.GetMetas(context.Background(), []string{"file:///a.txt"})
	require.NoError(t, err)
	metas, err := r.GetMetas(context.Background(), []string{"file:///b.png", "file:///a.txt", "file:///b.png"})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"file:///a.txt"}, {"file:///b.png"}}, source.batches)
	require.Len(t, metas, 3)
	assert.Equal(t, "b.png", metas[0].Name)
	assert.Equal(t, "a.txt", metas[1].Name)
	assert.Equal(t, metas[0], metas[2])
	assert.Equal(t, 1, metrics.cacheHit)
	assert.Equal(t, 2, metrics.misses)
}

func TestMetadataResolver_UnresolvedGetsPlaceholder(t *testing.T) {
	source := newTestSource()
	r := NewMetadataResolver(NewResultCache(), source)
	ids := []string{"file:///a.txt", "file:///missing", "file:///d"}

	metas, err := r.GetMetas(context.Background(), ids)

	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, "a.txt", metas[0].Name)
	assert.Equal(t, domain.ResultMeta{ID: "file:///missing"}, metas[1])
	assert.False(t, metas[1].Resolved())
	assert.Equal(t, "d", metas[2].Name)

	// Placeholders are not cached, so the next request retries.
	_, err = r.GetMetas(context.Background(), []string{"file:///missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, source.Calls())
}

func TestMetadataResolver_SourceErrorKeepsPartialResults(t *testing.T) {
	source := newTestSource()
	source.err = errors.New("metadata service down")
	r := NewMetadataResolver(NewResultCache(), source)

	metas, err := r.GetMetas(context.Background(), []string{"file:///a.txt", "file:///missing"})

	require.NoError(t, err)
	assert.Equal(t, "a.txt", metas[0].Name)
	assert.Equal(t, domain.ResultMeta{ID: "file:///missing"}, metas[1])
}

func TestMetadataResolver_ContextCancelled(t *testing.T) {
	source := newTestSource()
	source.err = context.Canceled
	r := NewMetadataResolver(NewResultCache(), source)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	metas, err := r.GetMetas(ctx, []string{"file:///a.txt"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, metas)
}

func TestMetadataResolver_IgnoresUnrequestedRecords(t *testing.T) {
	source := newTestSource()
	cache := NewResultCache()
	r := NewMetadataResolver(cache, source)
	cache.Put(domain.ResultMeta{ID: "file:///a.txt", Name: "cached"})

	metas, err := r.GetMetas(context.Background(), []string{"file:///a.txt", "file:///d"})

	require.NoError(t, err)
	assert.Equal(t, "cached", metas[0].Name)
	assert.Equal(t, 2, cache.Len())
}

func TestMetadataResolver_BookmarkOverrides(t *testing.T) {
	source := newTestSource()
	r := NewMetadataResolver(NewResultCache(), source)
	r.SetBookmarkSource(&mockBookmarks{items: []domain.Bookmark{
		{Name: "Work Documents", URI: "file:///docs", IconName: "folder-documents"},
		{Name: "Pictures", URI: "file:///b.png", IconName: "folder-pictures"},
		{Name: "", URI: "file:///a.txt"},
	}})

	metas, err := r.GetMetas(context.Background(), []string{"file:///docs", "file:///b.png", "file:///a.txt"})

	require.NoError(t, err)
	assert.Equal(t, domain.ResultMeta{
		ID: "file:///docs", Name: "Work Documents", Icon: domain.ThemedIcon("folder-documents"),
	}, metas[0])
	// A thumbnail still wins over the bookmark icon.
	assert.Equal(t, domain.ResultMeta{
		ID: "file:///b.png", Name: "Pictures", Icon: domain.ThumbnailIcon("/thumbs/b.png"),
	}, metas[1])
	assert.Equal(t, domain.ResultMeta{
		ID: "file:///a.txt", Name: "a.txt", Icon: domain.ThemedIcon("text-x-generic"),
	}, metas[2])
}

func TestMetadataResolver_UnresolvedBookmark(t *testing.T) {
	source := newTestSource()
	cache := NewResultCache()
	r := NewMetadataResolver(cache, source)
	r.SetBookmarkSource(&mockBookmarks{items: []domain.Bookmark{
		{Name: "Work Share", URI: "sftp://host/share"},
		{Name: "Media", URI: "smb://nas/media", IconName: "folder-remote"},
	}})

	metas, err := r.GetMetas(context.Background(), []string{"sftp://host/share", "smb://nas/media", "sftp://host/other"})

	require.NoError(t, err)
	assert.Equal(t, []domain.ResultMeta{
		{ID: "sftp://host/share", Name: "Work Share"},
		{ID: "smb://nas/media", Name: "Media", Icon: domain.ThemedIcon("folder-remote")},
		{ID: "sftp://host/other"},
	}, metas)

	_, cached := cache.Get("sftp://host/share")
	assert.True(t, cached)
	_, cached = cache.Get("sftp://host/other")
	assert.False(t, cached)
}

func TestMetadataResolver_HoldOnlyForMisses(t *testing.T) {
	source := newTestSource()
	r := NewMetadataResolver(NewResultCache(), source)
	hold := &countingHold{}
	r.SetActivityHold(hold)

	_, err := r.GetMetas(context.Background(), []string{"file:///a.txt"})
	require.NoError(t, err)
	_, err = r.GetMetas(context.Background(), []string{"file:///a.txt"})
	require.NoError(t, err)

	holds, releases := hold.counts()
	assert.Equal(t, 1, holds)
	assert.Equal(t, 1, releases)
}

func TestMetadataResolver_EmptyRequest(t *testing.T) {
	source := newTestSource()
	r := NewMetadataResolver(NewResultCache(), source)

	metas, err := r.GetMetas(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, metas)
	assert.Zero(t, source.Calls())
}
