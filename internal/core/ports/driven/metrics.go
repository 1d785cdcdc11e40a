package driven

import "time"

// SessionOutcome describes how a search session ended.
type SessionOutcome string

// Session outcomes.
const (
	OutcomeFinished   SessionOutcome = "finished"
	OutcomeFailed     SessionOutcome = "failed"
	OutcomeSuperseded SessionOutcome = "superseded"
	OutcomeCancelled  SessionOutcome = "cancelled"
	OutcomeRejected   SessionOutcome = "rejected"
)

// SearchMetrics records service counters.
// Implementations must be safe for concurrent use and never block.
type SearchMetrics interface {
	// SessionStarted records a session entering the running state.
	SessionStarted()

	// SessionEnded records a finalised session.
	SessionEnded(outcome SessionOutcome, elapsed time.Duration, results int)

	// HitsReceived records engine or auxiliary hits merged into a session.
	HitsReceived(source string, count int)

	// MetasLookup records cache hits and misses for one metas request.
	MetasLookup(hits, misses int)
}
