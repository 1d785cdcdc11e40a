package locate

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
)

// Ensure Scorer implements the interface.
var _ driven.HitScorer = (*Scorer)(nil)

// Scoring weights.
const (
	proximityBase   = 10000.0
	proximityStep   = 1000.0
	recentDayBonus  = 100.0
	recentWeekBonus = 10.0
	nameMatchBonus  = 50.0
	namePrefixBonus = 25.0
)

const day = 24 * time.Hour

// Scorer ranks hits by proximity to the query location, recency, and how
// well the file name matches the query.
type Scorer struct {
	now func() time.Time
}

// NewScorer creates a scorer using the wall clock.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// Score returns the hit's relevance. Higher is better.
func (s *Scorer) Score(hit domain.Hit, query domain.Query) float64 {
	path, err := domain.PathFromURI(hit.URI)
	if err != nil {
		// Non-local results are still ranked by name.
		return s.nameBonus(lastSegment(hit.URI), query)
	}

	return s.proximityBonus(path, query.Location) +
		s.recencyBonus(hit) +
		s.nameBonus(filepath.Base(path), query)
}

// proximityBonus favours files close to the search root:
// direct children score highest, each extra level costs proximityStep.
func (s *Scorer) proximityBonus(path, location string) float64 {
	root, err := domain.PathFromURI(location)
	if err != nil {
		return 0
	}
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0
	}

	depth := 0
	if rel != "." {
		depth = strings.Count(rel, string(filepath.Separator)) + 1
	}
	bonus := proximityBase - proximityStep*float64(depth)
	if bonus < 0 {
		return 0
	}
	return bonus
}

func (s *Scorer) recencyBonus(hit domain.Hit) float64 {
	latest := hit.ModTime
	if hit.AccessTime.After(latest) {
		latest = hit.AccessTime
	}
	if latest.IsZero() {
		return 0
	}

	age := s.now().Sub(latest)
	if age < 0 {
		age = -age
	}
	switch {
	case age < day:
		return recentDayBonus
	case age < 7*day:
		return recentWeekBonus
	default:
		return 0
	}
}

func (s *Scorer) nameBonus(name string, query domain.Query) float64 {
	name = strings.ToLower(name)
	text := strings.ToLower(strings.TrimSpace(query.Text))
	if text == "" {
		return 0
	}

	bonus := 0.0
	if strings.Contains(name, text) {
		bonus += nameMatchBonus
	}
	if len(query.Terms) > 0 && strings.HasPrefix(name, strings.ToLower(query.Terms[0])) {
		bonus += namePrefixBonus
	}
	return bonus
}

func lastSegment(uri string) string {
	uri = strings.TrimRight(uri, "/")
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
