package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// mockSearchProvider is a mock implementation of driving.SearchProvider.
type mockSearchProvider struct {
	ids       []string
	metas     []domain.ResultMeta
	err       error
	terms     []string
	previous  []string
	metaIDs   []string
	activated []string
	launched  [][]string
}

func (m *mockSearchProvider) GetInitialResultSet(_ context.Context, terms []string) ([]string, error) {
	m.terms = terms
	return m.ids, m.err
}

func (m *mockSearchProvider) GetSubsearchResultSet(_ context.Context, previous, terms []string) ([]string, error) {
	m.previous = previous
	m.terms = terms
	return m.ids, m.err
}

func (m *mockSearchProvider) GetResultMetas(_ context.Context, ids []string) ([]domain.ResultMeta, error) {
	m.metaIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.ResultMeta, 0, len(ids))
	for _, id := range ids {
		found := domain.ResultMeta{ID: id}
		for _, meta := range m.metas {
			if meta.ID == id {
				found = meta
			}
		}
		out = append(out, found)
	}
	return out, nil
}

func (m *mockSearchProvider) ActivateResult(_ context.Context, id string, _ []string) {
	m.activated = append(m.activated, id)
}

func (m *mockSearchProvider) LaunchSearch(_ context.Context, terms []string) {
	m.launched = append(m.launched, terms)
}
