package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// Ensure SearchProvider implements the interface.
var _ driving.SearchProvider = (*SearchProvider)(nil)

// SearchProvider answers shell search requests by combining the session
// coordinator, the metadata resolver and the URI opener.
type SearchProvider struct {
	coordinator *SessionCoordinator
	resolver    *MetadataResolver
	opener      driven.URIOpener
}

// NewSearchProvider creates a search provider.
// The opener parameter is optional (can be nil); activation is then
// logged only.
func NewSearchProvider(
	coordinator *SessionCoordinator,
	resolver *MetadataResolver,
	opener driven.URIOpener,
) *SearchProvider {
	return &SearchProvider{
		coordinator: coordinator,
		resolver:    resolver,
		opener:      opener,
	}
}

// GetInitialResultSet searches for terms and returns ranked identifiers.
func (p *SearchProvider) GetInitialResultSet(ctx context.Context, terms []string) ([]string, error) {
	ids := p.coordinator.InitialResultSet(ctx, terms)
	if err := ctx.Err(); err != nil {
		return []string{}, err
	}
	return ids, nil
}

// GetSubsearchResultSet runs a fresh search for terms.
func (p *SearchProvider) GetSubsearchResultSet(ctx context.Context, previous, terms []string) ([]string, error) {
	ids := p.coordinator.SubsearchResultSet(ctx, previous, terms)
	if err := ctx.Err(); err != nil {
		return []string{}, err
	}
	return ids, nil
}

// GetResultMetas returns display metadata for ids, in the same order.
func (p *SearchProvider) GetResultMetas(ctx context.Context, ids []string) ([]domain.ResultMeta, error) {
	return p.resolver.GetMetas(ctx, ids)
}

// ActivateResult opens id. Failures are logged, never returned.
func (p *SearchProvider) ActivateResult(ctx context.Context, id string, terms []string) {
	logger.Debug("Activating %s (terms %q)", id, terms)
	p.open(ctx, id)
}

// LaunchSearch opens the search location. Failures are logged, never returned.
func (p *SearchProvider) LaunchSearch(ctx context.Context, terms []string) {
	logger.Debug("Launching search for %q", terms)
	p.open(ctx, p.coordinator.Location())
}

func (p *SearchProvider) open(ctx context.Context, uri string) {
	if p.opener == nil {
		logger.Warn("No opener configured, not opening %s", uri)
		return
	}
	if err := p.opener.Open(ctx, uri); err != nil {
		logger.Error("%v", fmt.Errorf("%w: unable to open %s: %w", domain.ErrActivationFailed, uri, err))
	}
}
