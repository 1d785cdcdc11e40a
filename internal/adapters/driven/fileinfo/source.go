// Package fileinfo resolves local file URIs to display metadata: name,
// freedesktop thumbnail, themed icon name, and a generated pixel icon for
// files whose type cannot be named.
package fileinfo

import (
	"context"
	"crypto/md5" //nolint:gosec // freedesktop thumbnails are keyed by MD5
	"encoding/hex"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.MetadataSource = (*Source)(nil)

// thumbnailSizes are searched largest first.
var thumbnailSizes = []string{"xx-large", "x-large", "large", "normal"}

// Config configures a Source.
type Config struct {
	// ThumbnailDir is the freedesktop thumbnail cache.
	// Empty means $XDG_CACHE_HOME/thumbnails.
	ThumbnailDir string

	// IconSize is the edge length of generated pixel icons.
	IconSize int

	// Concurrency bounds parallel lookups per request.
	Concurrency int
}

// Source resolves metadata from the local filesystem.
type Source struct {
	thumbnailDir string
	iconSize     int
	concurrency  int
}

// NewSource creates a filesystem metadata source.
func NewSource(cfg Config) *Source {
	if cfg.ThumbnailDir == "" {
		if cache, err := os.UserCacheDir(); err == nil {
			cfg.ThumbnailDir = filepath.Join(cache, "thumbnails")
		}
	}
	if cfg.IconSize <= 0 {
		cfg.IconSize = domain.DefaultIconSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = domain.DefaultResolveConcurrency
	}
	return &Source{
		thumbnailDir: cfg.ThumbnailDir,
		iconSize:     cfg.IconSize,
		concurrency:  cfg.Concurrency,
	}
}

// Resolve looks up each URI concurrently. URIs that are not local files,
// or that no longer exist, are left out of the result. Results follow
// input order.
func (s *Source) Resolve(ctx context.Context, uris []string, attrs domain.FileAttributes) ([]domain.FileInfo, error) {
	results := make([]*domain.FileInfo, len(uris))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, uri := range uris {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info, err := s.resolveOne(uri, attrs)
			if err != nil {
				logger.Debug("fileinfo: %s: %v", uri, err)
				return nil
			}
			results[i] = &info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	infos := make([]domain.FileInfo, 0, len(uris))
	for _, info := range results {
		if info != nil {
			infos = append(infos, *info)
		}
	}
	return infos, nil
}

func (s *Source) resolveOne(uri string, attrs domain.FileAttributes) (domain.FileInfo, error) {
	path, err := domain.PathFromURI(uri)
	if err != nil {
		return domain.FileInfo{}, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return domain.FileInfo{}, err
	}

	info := domain.FileInfo{URI: uri}
	if attrs.Has(domain.AttrDisplayName) {
		info.DisplayName = displayName(path)
	}
	if attrs.Has(domain.AttrThumbnail) && !stat.IsDir() {
		info.ThumbnailPath = s.thumbnail(path)
	}
	if attrs.Has(domain.AttrIcon) {
		info.IconName = iconName(path, stat)
	}
	if attrs.Has(domain.AttrIconPixels) && info.IconName == "" {
		info.Pixels = placeholderIcon(s.iconSize)
	}
	return info, nil
}

// thumbnail returns the cached thumbnail for path, if one exists.
// Thumbnails are named after the MD5 of the file's canonical URI.
func (s *Source) thumbnail(path string) string {
	if s.thumbnailDir == "" {
		return ""
	}
	sum := md5.Sum([]byte(domain.FileURI(path))) //nolint:gosec // not used for security
	name := hex.EncodeToString(sum[:]) + ".png"

	for _, size := range thumbnailSizes {
		candidate := filepath.Join(s.thumbnailDir, size, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func displayName(path string) string {
	name := filepath.Base(path)
	if name == string(filepath.Separator) || name == "." {
		return "File System"
	}
	if home, err := os.UserHomeDir(); err == nil && filepath.Clean(path) == filepath.Clean(home) {
		return "Home"
	}
	return name
}
