package services

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
)

// SessionState is the lifecycle state of a SearchSession.
type SessionState int32

// Session states, in lifecycle order.
const (
	// StateCreated means the query is built and the reply stored, but the
	// session is not yet live.
	StateCreated SessionState = iota

	// StateRunning means the session is live and accepting hits.
	StateRunning

	// StateFinalizing means the session has left the live slot and its
	// engine is being stopped.
	StateFinalizing

	// StateDone means the reply has been delivered.
	StateDone
)

// String returns the string representation.
func (s SessionState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ReplyFunc receives the identifiers a session produced.
// It is called exactly once per session, possibly from an engine goroutine.
type ReplyFunc func(ids []string)

// SearchSession is one in-flight query.
//
// The hit set is guarded by the owning coordinator's mutex. The state is
// atomic so it can be observed without that lock.
type SearchSession struct {
	id        uint64
	query     domain.Query
	engine    driven.SearchEngine
	reply     ReplyFunc
	startedAt time.Time

	hits  map[string]domain.Hit
	state atomic.Int32
}

func newSearchSession(
	id uint64, query domain.Query, engine driven.SearchEngine, reply ReplyFunc, startedAt time.Time,
) *SearchSession {
	return &SearchSession{
		id:        id,
		query:     query,
		engine:    engine,
		reply:     reply,
		startedAt: startedAt,
		hits:      make(map[string]domain.Hit),
	}
}

// ID returns the session's epoch number.
func (s *SearchSession) ID() uint64 {
	return s.id
}

// Query returns the session's query.
func (s *SearchSession) Query() domain.Query {
	return s.query
}

// State returns the current lifecycle state.
func (s *SearchSession) State() SessionState {
	return SessionState(s.state.Load())
}

// StartedAt returns when the session was created.
func (s *SearchSession) StartedAt() time.Time {
	return s.startedAt
}

func (s *SearchSession) setState(state SessionState) {
	s.state.Store(int32(state))
}

// addHits inserts hits, replacing any earlier hit with the same URI.
func (s *SearchSession) addHits(hits []domain.Hit) {
	for _, hit := range hits {
		s.hits[hit.URI] = hit
	}
}

// subtractHits removes hits by URI.
func (s *SearchSession) subtractHits(hits []domain.Hit) {
	for _, hit := range hits {
		delete(s.hits, hit.URI)
	}
}

// rankedIDs returns the hit set's URIs sorted by descending relevance.
// Equal relevance is ordered by URI so the result is deterministic.
func (s *SearchSession) rankedIDs() []string {
	hits := make([]domain.Hit, 0, len(s.hits))
	for _, hit := range s.hits {
		hits = append(hits, hit)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Relevance != hits[j].Relevance {
			return hits[i].Relevance > hits[j].Relevance
		}
		return hits[i].URI < hits[j].URI
	})

	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.URI
	}
	return ids
}

// deliver hands ids to the reply handle and marks the session done.
// Only the goroutine that removed the session from the live slot calls it.
func (s *SearchSession) deliver(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	s.reply(ids)
	s.setState(StateDone)
}
