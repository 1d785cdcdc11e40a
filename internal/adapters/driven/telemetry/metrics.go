// Package telemetry records search provider metrics with OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
)

// MeterName is the instrumentation scope of all provider instruments.
const MeterName = "sercha/search-provider"

// Ensure Metrics implements the interface.
var _ driven.SearchMetrics = (*Metrics)(nil)

// Metrics implements driven.SearchMetrics on top of an OpenTelemetry meter.
type Metrics struct {
	active    metric.Int64UpDownCounter
	sessions  metric.Int64Counter
	duration  metric.Float64Histogram
	results   metric.Int64Histogram
	hits      metric.Int64Counter
	metaCache metric.Int64Counter
}

// NewMetrics creates the provider instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.active, err = meter.Int64UpDownCounter(
		"sercha.search.sessions.active",
		metric.WithDescription("Search sessions currently running"),
		metric.WithUnit("{sessions}"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: active sessions counter: %w", err)
	}

	if m.sessions, err = meter.Int64Counter(
		"sercha.search.sessions",
		metric.WithDescription("Finalised search sessions by outcome"),
		metric.WithUnit("{sessions}"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: sessions counter: %w", err)
	}

	if m.duration, err = meter.Float64Histogram(
		"sercha.search.session.duration",
		metric.WithDescription("Time from session start to reply"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: duration histogram: %w", err)
	}

	if m.results, err = meter.Int64Histogram(
		"sercha.search.session.results",
		metric.WithDescription("Result ids delivered per session"),
		metric.WithUnit("{results}"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: results histogram: %w", err)
	}

	if m.hits, err = meter.Int64Counter(
		"sercha.search.hits",
		metric.WithDescription("Hits merged into sessions by source"),
		metric.WithUnit("{hits}"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: hits counter: %w", err)
	}

	if m.metaCache, err = meter.Int64Counter(
		"sercha.search.metas.lookups",
		metric.WithDescription("Result meta cache lookups by result"),
		metric.WithUnit("{lookups}"),
	); err != nil {
		return nil, fmt.Errorf("telemetry: metas counter: %w", err)
	}

	return m, nil
}

// SessionStarted implements driven.SearchMetrics.
func (m *Metrics) SessionStarted() {
	m.active.Add(context.Background(), 1)
}

// SessionEnded implements driven.SearchMetrics.
// Rejected queries never start, so they do not touch the active gauge.
func (m *Metrics) SessionEnded(outcome driven.SessionOutcome, elapsed time.Duration, results int) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("outcome", string(outcome)))

	if outcome != driven.OutcomeRejected {
		m.active.Add(ctx, -1)
	}
	m.sessions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	m.results.Record(ctx, int64(results), attrs)
}

// HitsReceived implements driven.SearchMetrics.
func (m *Metrics) HitsReceived(source string, count int) {
	if count <= 0 {
		return
	}
	m.hits.Add(context.Background(), int64(count), metric.WithAttributes(attribute.String("source", source)))
}

// MetasLookup implements driven.SearchMetrics.
func (m *Metrics) MetasLookup(hits, misses int) {
	ctx := context.Background()
	if hits > 0 {
		m.metaCache.Add(ctx, int64(hits), metric.WithAttributes(attribute.String("result", "hit")))
	}
	if misses > 0 {
		m.metaCache.Add(ctx, int64(misses), metric.WithAttributes(attribute.String("result", "miss")))
	}
}
