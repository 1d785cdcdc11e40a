package domain

import "time"

// HitSource identifies where a hit came from.
type HitSource string

// Available hit sources.
const (
	// SourceEngine marks hits produced by the search engine.
	SourceEngine HitSource = "engine"

	// SourceBookmark marks hits produced by matching bookmark names.
	SourceBookmark HitSource = "bookmark"

	// SourceVolume marks hits produced by matching mount labels.
	SourceVolume HitSource = "volume"
)

// String returns the string representation.
func (s HitSource) String() string {
	return string(s)
}

// Hit is one matched result.
// Hits are keyed by URI; a later hit for the same URI replaces an earlier one.
type Hit struct {
	// URI is the unique result identifier.
	URI string

	// Relevance is the score computed against the session's query.
	// Higher sorts first.
	Relevance float64

	// Source is the producer of this hit.
	Source HitSource

	// ModTime is the last modification time, if known.
	ModTime time.Time

	// AccessTime is the last access time, if known.
	AccessTime time.Time
}

// NewHit creates a hit for uri with the given source and no score.
func NewHit(uri string, source HitSource) Hit {
	return Hit{URI: uri, Source: source}
}
