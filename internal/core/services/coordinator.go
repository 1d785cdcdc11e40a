package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// SessionCoordinator keeps at most one search session live.
//
// Starting a session finalises the previous one with an empty reply and
// stops its engine before the new engine is started. Engine notifications
// are routed through a sink bound to the session they were started for;
// notifications for any other session are dropped.
type SessionCoordinator struct {
	engines   driven.EngineFactory
	scorer    driven.HitScorer
	location  string
	bookmarks driven.BookmarkSource
	volumes   driven.VolumeMonitor
	hold      driven.ActivityHold
	metrics   driven.SearchMetrics
	now       func() time.Time

	// startMu serialises Start and Cancel.
	startMu sync.Mutex

	// mu guards current, nextID and the live session's hit set.
	mu      sync.Mutex
	current *SearchSession
	nextID  uint64
}

// NewSessionCoordinator creates a coordinator that scopes every query to
// location and ranks hits with scorer.
func NewSessionCoordinator(
	engines driven.EngineFactory,
	scorer driven.HitScorer,
	location string,
) *SessionCoordinator {
	return &SessionCoordinator{
		engines:  engines,
		scorer:   scorer,
		location: location,
		hold:     noopHold{},
		metrics:  noopMetrics{},
		now:      time.Now,
	}
}

// SetBookmarkSource sets the bookmarks matched by the auxiliary scan.
func (c *SessionCoordinator) SetBookmarkSource(source driven.BookmarkSource) {
	c.bookmarks = source
}

// SetVolumeMonitor sets the mounts matched by the auxiliary scan.
func (c *SessionCoordinator) SetVolumeMonitor(monitor driven.VolumeMonitor) {
	c.volumes = monitor
}

// SetActivityHold sets the hold taken for the lifetime of each session.
func (c *SessionCoordinator) SetActivityHold(hold driven.ActivityHold) {
	if hold == nil {
		hold = noopHold{}
	}
	c.hold = hold
}

// SetMetrics sets the session metrics recorder.
func (c *SessionCoordinator) SetMetrics(metrics driven.SearchMetrics) {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	c.metrics = metrics
}

// Location returns the URI queries are scoped to.
func (c *SessionCoordinator) Location() string {
	return c.location
}

// Current returns the live session, or nil when idle.
func (c *SessionCoordinator) Current() *SearchSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Start supersedes any live session and starts a new one for terms.
//
// reply is called exactly once: with the ranked identifiers when the engine
// finishes, or with an empty list on rejection, engine error, supersession
// or cancellation. A rejected query is answered before Start returns.
// ctx bounds only the auxiliary scan, not the session.
//
// Start returns the new session's ID, or 0 if the query was rejected.
func (c *SessionCoordinator) Start(ctx context.Context, terms []string, reply ReplyFunc) uint64 {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	c.finalizeCurrent(driven.OutcomeSuperseded)

	if rejectQuery(terms) {
		logger.Debug("Query %q rejected", terms)
		c.metrics.SessionEnded(driven.OutcomeRejected, 0, 0)
		reply([]string{})
		return 0
	}

	query := domain.NewQuery(terms, c.location)
	engine := c.engines()

	c.hold.Hold()

	c.mu.Lock()
	c.nextID++
	session := newSearchSession(c.nextID, query, engine, reply, c.now())
	session.setState(StateRunning)
	c.current = session
	c.mu.Unlock()

	c.metrics.SessionStarted()

	logger.Section("Search Session")
	logger.Debug("Session %d: query %q in %s", session.id, query.Text, query.Location)

	aux := c.scoreHits(c.auxiliaryHits(ctx, query), query)
	if len(aux) > 0 {
		c.mu.Lock()
		if c.current == session {
			session.addHits(aux)
		}
		c.mu.Unlock()
		c.metrics.HitsReceived("auxiliary", len(aux))
		logger.Debug("Session %d: %d auxiliary hits", session.id, len(aux))
	}

	engine.SetQuery(query)
	engine.Start(&sessionSink{coordinator: c, session: session})

	return session.id
}

// Cancel finalises the live session with an empty reply.
// It is a no-op when no session is live.
func (c *SessionCoordinator) Cancel() {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	c.finalizeCurrent(driven.OutcomeCancelled)
}

// InitialResultSet runs a search for terms and waits for its reply.
// If ctx is done first, the session is cancelled and an empty list returned.
func (c *SessionCoordinator) InitialResultSet(ctx context.Context, terms []string) []string {
	replies := make(chan []string, 1)

	id := c.Start(ctx, terms, func(ids []string) {
		replies <- ids
	})

	select {
	case ids := <-replies:
		return ids
	case <-ctx.Done():
		c.cancelSession(id, driven.OutcomeCancelled)
		return <-replies
	}
}

// SubsearchResultSet runs a fresh search for terms and waits for its reply.
// previous is accepted for protocol symmetry; results are not narrowed
// from it.
func (c *SessionCoordinator) SubsearchResultSet(ctx context.Context, previous, terms []string) []string {
	logger.Debug("Subsearch over %d previous results", len(previous))
	return c.InitialResultSet(ctx, terms)
}

// finalizeCurrent ends the live session, if any, with an empty reply.
func (c *SessionCoordinator) finalizeCurrent(outcome driven.SessionOutcome) {
	c.mu.Lock()
	session := c.current
	if session == nil {
		c.mu.Unlock()
		return
	}
	c.detachLocked(session)
	c.mu.Unlock()

	c.complete(session, nil, outcome)
}

// cancelSession ends the session with id if it is still live.
func (c *SessionCoordinator) cancelSession(id uint64, outcome driven.SessionOutcome) {
	c.mu.Lock()
	session := c.current
	if session == nil || session.id != id {
		c.mu.Unlock()
		return
	}
	c.detachLocked(session)
	c.mu.Unlock()

	c.complete(session, nil, outcome)
}

// finish ends session with its ranked hits, if it is still live.
func (c *SessionCoordinator) finish(session *SearchSession) {
	c.mu.Lock()
	if c.current != session {
		c.mu.Unlock()
		return
	}
	ids := session.rankedIDs()
	c.detachLocked(session)
	c.mu.Unlock()

	c.complete(session, ids, driven.OutcomeFinished)
}

// detachLocked removes session from the live slot. Must hold c.mu.
func (c *SessionCoordinator) detachLocked(session *SearchSession) {
	c.current = nil
	session.setState(StateFinalizing)
}

// complete stops the engine, delivers the reply and releases the hold.
// Called without c.mu held, exactly once per session.
func (c *SessionCoordinator) complete(session *SearchSession, ids []string, outcome driven.SessionOutcome) {
	session.engine.Stop()
	session.deliver(ids)
	c.hold.Release()

	elapsed := c.now().Sub(session.startedAt)
	c.metrics.SessionEnded(outcome, elapsed, len(ids))
	logger.Debug("Session %d %s with %d results - %s",
		session.id, outcome, len(ids), elapsed.Round(time.Millisecond))
}

func (c *SessionCoordinator) scoreHits(hits []domain.Hit, query domain.Query) []domain.Hit {
	scored := make([]domain.Hit, len(hits))
	for i, hit := range hits {
		hit.Relevance = c.scorer.Score(hit, query)
		scored[i] = hit
	}
	return scored
}

// rejectQuery reports whether terms should never reach the engine:
// a lone single-character term, or no visible text at all.
func rejectQuery(terms []string) bool {
	if len(terms) == 1 && utf8.RuneCountInString(terms[0]) == 1 {
		return true
	}
	return strings.TrimSpace(strings.Join(terms, " ")) == ""
}

// sessionSink forwards engine notifications for one session.
type sessionSink struct {
	coordinator *SessionCoordinator
	session     *SearchSession
}

// Ensure sessionSink implements the interface.
var _ driven.EngineSink = (*sessionSink)(nil)

// HitsAdded scores hits and merges them into the session's hit set.
func (s *sessionSink) HitsAdded(hits []domain.Hit) {
	if len(hits) == 0 {
		return
	}
	c := s.coordinator
	scored := c.scoreHits(hits, s.session.query)

	c.mu.Lock()
	if c.current != s.session {
		c.mu.Unlock()
		return
	}
	s.session.addHits(scored)
	c.mu.Unlock()

	c.metrics.HitsReceived(string(domain.SourceEngine), len(scored))
}

// HitsSubtracted removes hits from the session's hit set.
func (s *sessionSink) HitsSubtracted(hits []domain.Hit) {
	c := s.coordinator

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != s.session {
		return
	}
	s.session.subtractHits(hits)
}

// Finished replies with the ranked hit set.
func (s *sessionSink) Finished() {
	s.coordinator.finish(s.session)
}

// Error discards the hit set and replies empty.
func (s *sessionSink) Error(message string) {
	logger.Warn("Session %d: %v: %s", s.session.id, domain.ErrEngineFailed, message)
	s.coordinator.cancelSession(s.session.id, driven.OutcomeFailed)
}

// noopHold is used when no activity hold is configured.
type noopHold struct{}

func (noopHold) Hold()    {}
func (noopHold) Release() {}

// noopMetrics is used when no metrics recorder is configured.
type noopMetrics struct{}

func (noopMetrics) SessionStarted()                                        {}
func (noopMetrics) SessionEnded(driven.SessionOutcome, time.Duration, int) {}
func (noopMetrics) HitsReceived(string, int)                               {}
func (noopMetrics) MetasLookup(int, int)                                   {}
