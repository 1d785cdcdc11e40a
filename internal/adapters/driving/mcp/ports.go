package mcp

import (
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// Search answers result set, metas and activation requests.
	Search driving.SearchProvider
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchProvider
	}
	return nil
}
