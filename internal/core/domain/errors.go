package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Search Errors.

	// ErrQueryRejected indicates a query was refused before any engine was
	// contacted, e.g. a lone single-character term.
	// Callers receive an empty result set, never this error.
	ErrQueryRejected = errors.New("query rejected")

	// ErrEngineFailed indicates the search engine reported a failure mid-search.
	// The session's hits are discarded and an empty result set is returned.
	ErrEngineFailed = errors.New("search engine failed")

	// ErrSessionSuperseded indicates a session was finalised because a newer
	// request replaced it.
	ErrSessionSuperseded = errors.New("search session superseded")

	// Metadata Errors.

	// ErrResolutionFailed indicates the metadata source could not resolve
	// an identifier.
	ErrResolutionFailed = errors.New("metadata resolution failed")

	// ErrUnsupportedURI indicates the metadata source cannot handle a URI scheme.
	ErrUnsupportedURI = errors.New("unsupported URI")

	// Activation Errors.

	// ErrActivationFailed indicates a result could not be opened.
	// Activation failures are logged only.
	ErrActivationFailed = errors.New("activation failed")

	// Service Errors.

	// ErrProviderUnavailable indicates the search provider service is not running
	// or could not be reached.
	ErrProviderUnavailable = errors.New("search provider unavailable")
)
