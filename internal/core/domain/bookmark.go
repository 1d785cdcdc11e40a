package domain

// Bookmark is a user-defined named location.
type Bookmark struct {
	// Name is the display name; defaults to the location's base name.
	Name string

	// URI is the bookmarked location.
	URI string

	// IconName is the themed icon token for the bookmark.
	IconName string
}
