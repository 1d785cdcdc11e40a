package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// StringMatcher matches query text against candidate names
// (bookmark names, mount labels).
//
// Both sides are normalised to canonical decomposition (NFD) and lowercased.
// A candidate matches when every query term is a substring of it, in any
// order.
type StringMatcher struct {
	terms []string
}

// NewStringMatcher creates a matcher for the whitespace-separated terms of text.
func NewStringMatcher(text string) *StringMatcher {
	return &StringMatcher{terms: strings.Fields(normalise(text))}
}

// Terms returns the normalised query terms.
func (m *StringMatcher) Terms() []string {
	return m.terms
}

// Matches returns true if candidate contains every term.
// A matcher without terms matches nothing.
func (m *StringMatcher) Matches(candidate string) bool {
	if len(m.terms) == 0 || candidate == "" {
		return false
	}

	normalised := normalise(candidate)
	for _, term := range m.terms {
		if !strings.Contains(normalised, term) {
			return false
		}
	}
	return true
}

// normalise lowercases s and returns its canonical decomposition.
// cases.Caser is stateful, so a fresh one is made per call.
func normalise(s string) string {
	return norm.NFD.String(cases.Lower(language.Und).String(s))
}
