package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// mockOpener implements driven.URIOpener for testing.
type mockOpener struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (m *mockOpener) Open(_ context.Context, uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, uri)
	return m.err
}

func newTestProvider(rec *engineRecorder, opener driven.URIOpener) *SearchProvider {
	c := NewSessionCoordinator(rec.factory, mockScorer{}, testLocation)
	c.SetBookmarkSource(&mockBookmarks{items: []domain.Bookmark{
		{Name: "2023 Report Draft", URI: "file:///a"},
	}})
	r := NewMetadataResolver(NewResultCache(), newTestSource())
	return NewSearchProvider(c, r, opener)
}

func TestSearchProvider_GetInitialResultSet(t *testing.T) {
	rec := &engineRecorder{onStart: func(sink driven.EngineSink) {
		go func() {
			sink.HitsAdded([]domain.Hit{hit("file:///b", 1)})
			sink.Finished()
		}()
	}}
	p := newTestProvider(rec, nil)

	ids, err := p.GetInitialResultSet(context.Background(), []string{"report", "2023"})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"file:///a", "file:///b"}, ids)
}

func TestSearchProvider_SingleCharacter(t *testing.T) {
	rec := &engineRecorder{}
	p := newTestProvider(rec, nil)

	ids, err := p.GetInitialResultSet(context.Background(), []string{"r"})

	require.NoError(t, err)
	assert.Equal(t, []string{}, ids)
	assert.Zero(t, rec.count())
}

func TestSearchProvider_GetSubsearchResultSet(t *testing.T) {
	rec := &engineRecorder{onStart: func(sink driven.EngineSink) { sink.Finished() }}
	p := newTestProvider(rec, nil)

	ids, err := p.GetSubsearchResultSet(context.Background(), []string{"file:///x"}, []string{"2023", "draft"})

	require.NoError(t, err)
	assert.Equal(t, []string{"file:///a"}, ids)
}

func TestSearchProvider_CancelledContext(t *testing.T) {
	rec := &engineRecorder{}
	p := newTestProvider(rec, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ids, err := p.GetInitialResultSet(ctx, []string{"report"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ids)
	assert.Equal(t, 1, rec.engine(0).Stops())
}

func TestSearchProvider_GetResultMetas(t *testing.T) {
	p := newTestProvider(&engineRecorder{}, nil)

	metas, err := p.GetResultMetas(context.Background(), []string{"file:///d", "file:///a.txt"})

	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "d", metas[0].Name)
	assert.Equal(t, "a.txt", metas[1].Name)
}

func TestSearchProvider_ActivateResult(t *testing.T) {
	opener := &mockOpener{}
	p := newTestProvider(&engineRecorder{}, opener)

	p.ActivateResult(context.Background(), "file:///a", []string{"report"})

	assert.Equal(t, []string{"file:///a"}, opener.opened)
}

func TestSearchProvider_ActivateResultFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	opener := &mockOpener{err: errors.New("no handler")}
	p := newTestProvider(&engineRecorder{}, opener)

	assert.NotPanics(t, func() {
		p.ActivateResult(context.Background(), "file:///missing", nil)
	})

	assert.Equal(t, []string{"file:///missing"}, opener.opened)
	assert.Contains(t, buf.String(), domain.ErrActivationFailed.Error())
	assert.Contains(t, buf.String(), "file:///missing")
	assert.Contains(t, buf.String(), "no handler")
}

func TestSearchProvider_ActivateWithoutOpener(t *testing.T) {
	p := newTestProvider(&engineRecorder{}, nil)

	assert.NotPanics(t, func() {
		p.ActivateResult(context.Background(), "file:///a", nil)
	})
}

func TestSearchProvider_LaunchSearch(t *testing.T) {
	opener := &mockOpener{}
	p := newTestProvider(&engineRecorder{}, opener)

	p.LaunchSearch(context.Background(), []string{"report"})

	assert.Equal(t, []string{testLocation}, opener.opened)
}
