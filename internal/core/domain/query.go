package domain

import "strings"

// Query is the immutable description of one search.
type Query struct {
	// Terms are the individual search terms as received from the caller.
	Terms []string

	// Text is the terms joined by a single space.
	Text string

	// Location is the URI of the directory the search is scoped to.
	Location string
}

// NewQuery builds a query from raw terms scoped to location.
// The terms slice is copied so later mutation by the caller has no effect.
func NewQuery(terms []string, location string) Query {
	copied := make([]string, len(terms))
	copy(copied, terms)

	return Query{
		Terms:    copied,
		Text:     strings.Join(copied, " "),
		Location: location,
	}
}

// IsEmpty returns true if the query has no non-blank text.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == ""
}
