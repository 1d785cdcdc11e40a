package services

import (
	"context"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// auxiliaryHits matches bookmarks and mounts against the query text.
// The returned hits are unscored.
func (c *SessionCoordinator) auxiliaryHits(ctx context.Context, query domain.Query) []domain.Hit {
	matcher := NewStringMatcher(query.Text)
	if len(matcher.Terms()) == 0 {
		return nil
	}

	hits := c.matchBookmarks(matcher)
	return append(hits, c.matchMounts(ctx, matcher)...)
}

func (c *SessionCoordinator) matchBookmarks(matcher *StringMatcher) []domain.Hit {
	if c.bookmarks == nil {
		return nil
	}

	var hits []domain.Hit
	for _, bookmark := range c.bookmarks.Bookmarks() {
		if matcher.Matches(bookmark.Name) {
			hits = append(hits, domain.NewHit(bookmark.URI, domain.SourceBookmark))
		}
	}
	return hits
}

func (c *SessionCoordinator) matchMounts(ctx context.Context, matcher *StringMatcher) []domain.Hit {
	var hits []domain.Hit
	for _, mount := range c.candidateMounts(ctx) {
		if matcher.Matches(mount.Name) {
			hits = append(hits, domain.NewHit(mount.Location, domain.SourceVolume))
		}
	}
	return hits
}

// candidateMounts collects mounts from three disjoint sources: volumes of
// connected drives, volumes without a drive, and mounts without a volume.
// Shadowed mounts are skipped, and a location is reported once.
// A failing source is logged and skipped.
func (c *SessionCoordinator) candidateMounts(ctx context.Context) []domain.Mount {
	if c.volumes == nil {
		return nil
	}

	var mounts []domain.Mount
	seen := make(map[string]bool)
	add := func(mount *domain.Mount) {
		if mount == nil || mount.Shadowed || mount.Location == "" || seen[mount.Location] {
			return
		}
		seen[mount.Location] = true
		mounts = append(mounts, *mount)
	}

	drives, err := c.volumes.ConnectedDrives(ctx)
	if err != nil {
		logger.Warn("Listing drives: %v", err)
	}
	for _, drive := range drives {
		for _, volume := range drive.Volumes {
			add(volume.Mount)
		}
	}

	volumes, err := c.volumes.Volumes(ctx)
	if err != nil {
		logger.Warn("Listing volumes: %v", err)
	}
	for _, volume := range volumes {
		if volume.HasDrive() {
			continue
		}
		add(volume.Mount)
	}

	allMounts, err := c.volumes.Mounts(ctx)
	if err != nil {
		logger.Warn("Listing mounts: %v", err)
	}
	for i := range allMounts {
		if allMounts[i].HasVolume() {
			continue
		}
		add(&allMounts[i])
	}

	return mounts
}
