package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// MetadataResolver builds display metadata for result identifiers,
// consulting the result cache before the metadata source.
type MetadataResolver struct {
	cache     *ResultCache
	source    driven.MetadataSource
	bookmarks driven.BookmarkSource
	hold      driven.ActivityHold
	metrics   driven.SearchMetrics
}

// NewMetadataResolver creates a resolver backed by cache and source.
func NewMetadataResolver(cache *ResultCache, source driven.MetadataSource) *MetadataResolver {
	return &MetadataResolver{
		cache:   cache,
		source:  source,
		hold:    noopHold{},
		metrics: noopMetrics{},
	}
}

// SetBookmarkSource sets the bookmarks whose names and icons override
// the file's own.
func (r *MetadataResolver) SetBookmarkSource(source driven.BookmarkSource) {
	r.bookmarks = source
}

// SetActivityHold sets the hold taken while misses are being resolved.
func (r *MetadataResolver) SetActivityHold(hold driven.ActivityHold) {
	if hold == nil {
		hold = noopHold{}
	}
	r.hold = hold
}

// SetMetrics sets the cache metrics recorder.
func (r *MetadataResolver) SetMetrics(metrics driven.SearchMetrics) {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	r.metrics = metrics
}

// GetMetas returns metadata for ids, in the same order.
//
// Cached identifiers are answered without touching the metadata source.
// Misses are resolved in one batch and written to the cache before the
// reply is assembled. A bookmarked location the source cannot resolve is
// described from its bookmark. Any other unresolved identifier gets a
// placeholder carrying only its ID; placeholders are not cached, so a
// later request retries them.
//
// The only error returned is ctx's.
func (r *MetadataResolver) GetMetas(ctx context.Context, ids []string) ([]domain.ResultMeta, error) {
	start := time.Now()
	logger.Section("Result Metas")

	known, misses := r.cache.Partition(ids)
	r.metrics.MetasLookup(len(known), len(misses))
	logger.Debug("Metas: %d cached, %d to resolve", len(known), len(misses))

	if len(misses) > 0 {
		resolved, err := r.resolve(ctx, misses)
		if err != nil {
			return nil, err
		}
		for id, meta := range resolved {
			known[id] = meta
		}
	}

	metas := make([]domain.ResultMeta, len(ids))
	for i, id := range ids {
		meta, ok := known[id]
		if !ok {
			meta = domain.ResultMeta{ID: id}
		}
		metas[i] = meta
	}

	logger.Elapsed("metas request finished", start)
	return metas, nil
}

// resolve looks up misses and caches what the source returns.
func (r *MetadataResolver) resolve(ctx context.Context, misses []string) (map[string]domain.ResultMeta, error) {
	r.hold.Hold()
	defer r.hold.Release()

	infos, err := r.source.Resolve(ctx, misses, domain.AttributesForIcon)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("%v", fmt.Errorf("%w: %w", domain.ErrResolutionFailed, err))
	}

	wanted := make(map[string]bool, len(misses))
	for _, id := range misses {
		wanted[id] = true
	}

	resolved := make(map[string]domain.ResultMeta, len(infos))
	for _, info := range infos {
		if !wanted[info.URI] {
			continue
		}
		meta := r.buildMeta(info)
		r.cache.Put(meta)
		resolved[info.URI] = meta
	}

	for _, id := range misses {
		if _, ok := resolved[id]; ok {
			continue
		}
		if meta, ok := r.bookmarkMeta(id); ok {
			r.cache.Put(meta)
			resolved[id] = meta
			continue
		}
		logger.Warn("%v: %s", domain.ErrResolutionFailed, id)
	}
	return resolved, nil
}

// bookmarkMeta describes a bookmarked location the source could not
// resolve, such as a remote share, from the bookmark alone.
func (r *MetadataResolver) bookmarkMeta(id string) (domain.ResultMeta, bool) {
	if r.bookmarks == nil {
		return domain.ResultMeta{}, false
	}
	bookmark, ok := r.bookmarks.BookmarkWithURI(id)
	if !ok || bookmark.Name == "" {
		return domain.ResultMeta{}, false
	}
	return r.buildMeta(domain.FileInfo{URI: id}), true
}

// buildMeta derives the display name and icon for a resolved file.
// Icon preference: thumbnail, themed icon (bookmark icon before the file's
// own), pixel buffer.
func (r *MetadataResolver) buildMeta(info domain.FileInfo) domain.ResultMeta {
	meta := domain.ResultMeta{ID: info.URI, Name: info.DisplayName}

	var bookmark domain.Bookmark
	var isBookmark bool
	if r.bookmarks != nil {
		bookmark, isBookmark = r.bookmarks.BookmarkWithURI(info.URI)
	}
	if isBookmark && bookmark.Name != "" {
		meta.Name = bookmark.Name
	}

	switch {
	case info.ThumbnailPath != "":
		meta.Icon = domain.ThumbnailIcon(info.ThumbnailPath)
	case isBookmark && bookmark.IconName != "":
		meta.Icon = domain.ThemedIcon(bookmark.IconName)
	case info.IconName != "":
		meta.Icon = domain.ThemedIcon(info.IconName)
	case info.Pixels != nil:
		meta.Icon = domain.PixelIcon(info.Pixels)
	}

	return meta
}
