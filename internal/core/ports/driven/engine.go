package driven

import "github.com/custodia-labs/sercha-search-provider/internal/core/domain"

// SearchEngine finds hits for one query.
// A new engine is created per search session and is never reused.
//
// Start is fire-and-forget: it must return promptly and report results
// through the sink from any goroutine. Stop must be idempotent, safe to call
// before Start (the engine then never starts), and must not wait for the
// engine's own goroutine, because it may be called from inside a sink
// callback.
type SearchEngine interface {
	// SetQuery sets the query to run. Called once, before Start.
	SetQuery(query domain.Query)

	// Start begins searching and reports progress through sink.
	Start(sink EngineSink)

	// Stop halts the search. No sink callbacks are required after Stop.
	Stop()
}

// EngineSink receives notifications from a running engine.
// Implementations are safe for concurrent use.
type EngineSink interface {
	// HitsAdded reports new or updated hits.
	HitsAdded(hits []domain.Hit)

	// HitsSubtracted reports hits that no longer match.
	HitsSubtracted(hits []domain.Hit)

	// Finished reports normal completion.
	Finished()

	// Error reports a failure. No further notifications follow.
	Error(message string)
}

// EngineFactory creates a fresh engine for each session.
type EngineFactory func() SearchEngine

// HitScorer computes a hit's relevance against a query.
// Every hit, whatever its source, is scored through the same scorer
// so that all hits in a session are comparable.
type HitScorer interface {
	// Score returns the relevance of hit for query. Higher is better.
	Score(hit domain.Hit, query domain.Query) float64
}
