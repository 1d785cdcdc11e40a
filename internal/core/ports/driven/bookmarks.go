package driven

import "github.com/custodia-labs/sercha-search-provider/internal/core/domain"

// BookmarkSource provides the user's bookmarks.
type BookmarkSource interface {
	// Bookmarks returns a snapshot of all bookmarks in display order.
	Bookmarks() []domain.Bookmark

	// BookmarkWithURI returns the bookmark for uri, if any.
	BookmarkWithURI(uri string) (domain.Bookmark, bool)
}
