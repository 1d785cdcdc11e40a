// Package messages defines Bubbletea message types for the TUI.
// Every asynchronous reply carries the sequence number of the query that
// produced it, so replies for superseded queries can be dropped.
package messages

import (
	"time"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// QueryDebounced fires once typing has paused for the query with Seq.
type QueryDebounced struct {
	Seq uint64
}

// ResultsReceived carries a result set back to the model.
type ResultsReceived struct {
	Seq     uint64
	Terms   []string
	IDs     []string
	Elapsed time.Duration
	Err     error
}

// MetasReceived carries display metadata for listed results.
type MetasReceived struct {
	Seq   uint64
	Metas []domain.ResultMeta
	Err   error
}

// Activated is sent after a result was handed to the opener.
type Activated struct {
	ID string
}

// Launched is sent after the search location was opened.
type Launched struct{}
