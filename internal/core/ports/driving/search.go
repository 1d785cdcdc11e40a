package driving

import (
	"context"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// SearchProvider answers desktop shell search requests.
// Every transport (D-Bus, IPC, MCP, TUI) drives the same implementation.
//
// Search and activation failures never surface as errors: callers always
// receive a well-formed, possibly empty, reply. The only error returned is
// the caller's context error, or a transport error for remote providers.
type SearchProvider interface {
	// GetInitialResultSet starts a new search for terms, superseding any
	// search in flight, and returns result identifiers ranked by relevance.
	GetInitialResultSet(ctx context.Context, terms []string) ([]string, error)

	// GetSubsearchResultSet refines a previous search. The previous results
	// are accepted but a fresh search is run for terms.
	GetSubsearchResultSet(ctx context.Context, previous, terms []string) ([]string, error)

	// GetResultMetas returns display metadata for ids, in the same order.
	GetResultMetas(ctx context.Context, ids []string) ([]domain.ResultMeta, error)

	// ActivateResult opens the result with the default handler.
	ActivateResult(ctx context.Context, id string, terms []string)

	// LaunchSearch opens the search location for a "more results" request.
	LaunchSearch(ctx context.Context, terms []string)
}
