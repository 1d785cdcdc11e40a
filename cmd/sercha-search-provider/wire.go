package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driven/bookmarks/gtk"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driven/engine/locate"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driven/fileinfo"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driven/opener"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driven/telemetry"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driven/volumes/mountinfo"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-search-provider/internal/core/services"
	"github.com/custodia-labs/sercha-search-provider/internal/lifecycle"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

func openSettings(configDir string) (driven.SettingsStore, error) {
	return file.NewSettingsStore(configDir)
}

// buildServices wires the provider graph for settings.
func buildServices(ctx context.Context, settings domain.ProviderSettings) (*cli.Services, error) {
	location, err := resolveLocation(settings.SearchLocation)
	if err != nil {
		return nil, err
	}
	logger.Debug("search location %s", location)

	metrics, shutdownMetrics, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint: settings.MetricsEndpoint,
		Version:  version,
	})
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	bookmarks, err := openBookmarks(ctx, settings.BookmarksFile)
	if err != nil {
		_ = shutdownMetrics(context.Background())
		return nil, err
	}

	monitor := lifecycle.NewMonitor(settings.InactivityTimeout, settings.Persist)

	coordinator := services.NewSessionCoordinator(
		locate.Factory(locate.Config{
			Command: settings.LocateCommand,
			Limit:   settings.EngineHitLimit,
		}),
		locate.NewScorer(),
		location,
	)
	coordinator.SetBookmarkSource(bookmarks)
	coordinator.SetVolumeMonitor(mountinfo.NewMonitor())
	coordinator.SetActivityHold(monitor)
	coordinator.SetMetrics(metrics)

	resolver := services.NewMetadataResolver(services.NewResultCache(), fileinfo.NewSource(fileinfo.Config{
		IconSize:    settings.IconSize,
		Concurrency: settings.ResolveConcurrency,
	}))
	resolver.SetBookmarkSource(bookmarks)
	resolver.SetActivityHold(monitor)
	resolver.SetMetrics(metrics)

	var uriOpener driven.URIOpener
	if o, err := opener.NewOpener(); err != nil {
		logger.Warn("activation disabled: %v", err)
	} else {
		uriOpener = o
	}

	closeAll := func() {
		coordinator.Cancel()
		monitor.Stop()
		if err := bookmarks.Close(); err != nil {
			logger.Debug("closing bookmark watcher: %v", err)
		}
		if err := shutdownMetrics(context.Background()); err != nil {
			logger.Warn("flushing metrics: %v", err)
		}
	}

	return &cli.Services{
		Provider: services.NewSearchProvider(coordinator, resolver, uriOpener),
		Activity: monitor,
		Close:    closeAll,
	}, nil
}

// openBookmarks loads the bookmark list and keeps it current.
// A watcher failure only costs live reloads.
func openBookmarks(ctx context.Context, path string) (*gtk.List, error) {
	if path == "" {
		p, err := gtk.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("bookmarks: %w", err)
		}
		path = p
	}

	list, err := gtk.NewList(path)
	if err != nil {
		return nil, err
	}
	if err := list.Watch(ctx); err != nil {
		logger.Warn("bookmarks will not reload: %v", err)
	}
	return list, nil
}

// resolveLocation turns the configured location into a file URI.
// Empty means the home directory; plain paths are made absolute.
func resolveLocation(location string) (string, error) {
	if strings.Contains(location, "://") {
		return location, nil
	}
	if location == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: no search location: %w", domain.ErrInvalidInput, err)
		}
		return domain.FileURI(home), nil
	}

	if strings.HasPrefix(location, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, location, err)
		}
		location = filepath.Join(home, location[2:])
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, location, err)
	}
	return domain.FileURI(abs), nil
}
