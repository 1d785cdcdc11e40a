package domain

// IconKind discriminates the variants of Icon.
type IconKind int

// Icon variants.
const (
	// IconNone means no icon could be determined.
	IconNone IconKind = iota

	// IconThemed is a named icon from the desktop icon theme.
	IconThemed

	// IconThumbnail is a thumbnail image file on disk.
	IconThumbnail

	// IconPixels is a raw pixel buffer.
	IconPixels
)

// String returns the string representation.
func (k IconKind) String() string {
	switch k {
	case IconThemed:
		return "themed"
	case IconThumbnail:
		return "thumbnail"
	case IconPixels:
		return "pixels"
	default:
		return "none"
	}
}

// PixelBuffer is an uncompressed image, laid out the way desktop shells
// expect icon data: rows of Rowstride bytes, Channels samples per pixel.
type PixelBuffer struct {
	Width         int
	Height        int
	Rowstride     int
	HasAlpha      bool
	BitsPerSample int
	Channels      int
	Data          []byte
}

// Icon is a tagged union of the three icon shapes a result can carry.
// Exactly one of Name, Path or Pixels is meaningful, selected by Kind.
type Icon struct {
	// Kind selects the active variant.
	Kind IconKind

	// Name is the themed icon token (IconThemed).
	Name string

	// Path is the thumbnail file path (IconThumbnail).
	Path string

	// Pixels is the raw image (IconPixels).
	Pixels *PixelBuffer
}

// ThemedIcon returns a themed icon variant.
func ThemedIcon(name string) Icon {
	return Icon{Kind: IconThemed, Name: name}
}

// ThumbnailIcon returns a thumbnail file icon variant.
func ThumbnailIcon(path string) Icon {
	return Icon{Kind: IconThumbnail, Path: path}
}

// PixelIcon returns a raw pixel icon variant.
func PixelIcon(pixels *PixelBuffer) Icon {
	return Icon{Kind: IconPixels, Pixels: pixels}
}

// IsZero returns true if no icon is set.
func (i Icon) IsZero() bool {
	return i.Kind == IconNone
}

// Token returns the serialised icon token for string-typed icon variants:
// the theme name for themed icons, the file path for thumbnails.
// It returns "" for pixel and empty icons.
func (i Icon) Token() string {
	switch i.Kind {
	case IconThemed:
		return i.Name
	case IconThumbnail:
		return i.Path
	default:
		return ""
	}
}

// ResultMeta is the display metadata for one result identifier.
type ResultMeta struct {
	// ID is the result identifier (URI).
	ID string

	// Name is the display name.
	// Empty when the identifier could not be resolved.
	Name string

	// Icon is the result's icon.
	Icon Icon
}

// Resolved returns true if the meta carries resolved display data.
func (m ResultMeta) Resolved() bool {
	return m.Name != "" || !m.Icon.IsZero()
}
