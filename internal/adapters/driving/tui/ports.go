// Package tui provides an interactive terminal search over the provider.
// It is a driving adapter like the D-Bus and IPC servers.
package tui

import (
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Search answers queries, metas and activation.
	Search driving.SearchProvider
}

// NewPorts creates a Ports aggregate.
func NewPorts(search driving.SearchProvider) *Ports {
	return &Ports{Search: search}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchProvider
	}
	return nil
}
