package driven

import (
	"context"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// MetadataSource resolves file URIs to display metadata.
type MetadataSource interface {
	// Resolve looks up the requested attributes for each URI.
	// URIs that cannot be resolved are omitted from the result; the
	// returned records are not guaranteed to follow input order.
	// An error means the batch as a whole failed.
	Resolve(ctx context.Context, uris []string, attrs domain.FileAttributes) ([]domain.FileInfo, error)
}
