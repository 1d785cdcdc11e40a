package tui

import "errors"

// ErrMissingSearchProvider is returned when the search provider is not given.
var ErrMissingSearchProvider = errors.New("tui: search provider is required")
