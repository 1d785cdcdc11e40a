package domain

// FileAttributes is a set of attributes requested from a metadata source.
type FileAttributes uint8

// Available file attributes.
const (
	// AttrDisplayName requests the display name.
	AttrDisplayName FileAttributes = 1 << iota

	// AttrThumbnail requests the thumbnail path.
	AttrThumbnail

	// AttrIcon requests the themed icon.
	AttrIcon

	// AttrIconPixels requests a pixel buffer when no themed icon exists.
	AttrIconPixels
)

// AttributesForIcon is the attribute set needed to build a ResultMeta.
const AttributesForIcon = AttrDisplayName | AttrThumbnail | AttrIcon | AttrIconPixels

// Has returns true if all attributes in other are set.
func (a FileAttributes) Has(other FileAttributes) bool {
	return a&other == other
}

// FileInfo is what a metadata source resolved about one file.
type FileInfo struct {
	// URI is the file's identifier.
	URI string

	// DisplayName is the default display name.
	DisplayName string

	// ThumbnailPath is a local thumbnail image, empty if none exists.
	ThumbnailPath string

	// IconName is the themed icon token, empty if none could be determined.
	IconName string

	// Pixels is a fallback icon image, set only when IconName is empty.
	Pixels *PixelBuffer
}
