// Package dbus exports the search provider on the session bus using the
// org.gnome.Shell.SearchProvider2 interface.
package dbus

import "errors"

var (
	// ErrMissingProvider is returned when no search provider is given.
	ErrMissingProvider = errors.New("dbus: search provider is required")

	// ErrNameTaken is returned when another process owns the bus name.
	ErrNameTaken = errors.New("dbus: bus name already owned")
)
