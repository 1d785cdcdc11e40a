package driven

import (
	"context"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// VolumeMonitor enumerates drives, volumes and mounts.
type VolumeMonitor interface {
	// ConnectedDrives returns the connected drives with their volumes.
	ConnectedDrives(ctx context.Context) ([]domain.Drive, error)

	// Volumes returns all known volumes, with or without a drive.
	Volumes(ctx context.Context) ([]domain.Volume, error)

	// Mounts returns all mounts, with or without a volume.
	Mounts(ctx context.Context) ([]domain.Mount, error)
}
