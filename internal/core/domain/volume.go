package domain

// Drive is a physical or virtual device that may hold volumes.
type Drive struct {
	// ID uniquely identifies the drive.
	ID string

	// Name is the display name.
	Name string

	// Volumes are the volumes on the drive.
	Volumes []Volume
}

// Volume is a mountable unit, optionally owned by a drive.
type Volume struct {
	// ID uniquely identifies the volume.
	ID string

	// Name is the display name (label).
	Name string

	// DriveID is the owning drive, empty if the volume has none.
	DriveID string

	// Mount is the volume's mount, nil if it is not mounted.
	Mount *Mount
}

// HasDrive returns true if the volume belongs to a drive.
func (v Volume) HasDrive() bool {
	return v.DriveID != ""
}

// Mount is a mounted filesystem, optionally backed by a volume.
type Mount struct {
	// Name is the display name.
	Name string

	// Location is the URI of the mount's default location.
	Location string

	// VolumeID is the backing volume, empty if the mount has none.
	VolumeID string

	// Shadowed indicates the mount is hidden behind another mount.
	// Shadowed mounts are never matched.
	Shadowed bool
}

// HasVolume returns true if the mount is backed by a volume.
func (m Mount) HasVolume() bool {
	return m.VolumeID != ""
}
