package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme     = "sercha://"
	searchPrefix  = uriScheme + "search/"
	jsonMIMEType  = "application/json"
	resourceLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: searchPrefix + "{query}",
		Name:        "search-results",
		Description: "Results for a URL-escaped search query, with names and icons",
		MIMEType:    jsonMIMEType,
	}, s.handleSearchResource)
}

// handleSearchResource runs a search and returns its described results.
func (s *Server) handleSearchResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	query, ok := extractQuery(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ids, err := s.ports.Search.GetInitialResultSet(ctx, strings.Fields(query))
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	_, output, err := s.describe(ctx, ids, resourceLimit)
	if err != nil {
		return nil, fmt.Errorf("describing results: %w", err)
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling results: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: jsonMIMEType,
			Text:     string(data),
		}},
	}, nil
}

// extractQuery returns the unescaped query of sercha://search/{query}.
func extractQuery(uri string) (string, bool) {
	if !strings.HasPrefix(uri, searchPrefix) {
		return "", false
	}
	query, err := url.PathUnescape(strings.TrimPrefix(uri, searchPrefix))
	if err != nil || strings.TrimSpace(query) == "" {
		return "", false
	}
	return query, true
}
