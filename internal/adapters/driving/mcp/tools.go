package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

const defaultLimit = 10

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"space separated search terms; every term must match"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to describe (default 10)"`
}

// RefineInput is the input schema for the refine_search tool.
type RefineInput struct {
	Previous []string `json:"previous" jsonschema:"result identifiers returned by the previous search"`
	Query    string   `json:"query" jsonschema:"the refined search terms"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of results to describe (default 10)"`
}

// SearchOutput is the output schema for the search tools.
type SearchOutput struct {
	Results []ResultOutput `json:"results"`
	Total   int            `json:"total"`
}

// MetasInput is the input schema for the get_result_metas tool.
type MetasInput struct {
	IDs []string `json:"ids" jsonschema:"result identifiers to describe"`
}

// MetasOutput is the output schema for the get_result_metas tool.
type MetasOutput struct {
	Results []ResultOutput `json:"results"`
}

// ResultOutput describes one result.
type ResultOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Icon     string `json:"icon,omitempty"`
	IconKind string `json:"icon_kind"`
}

// ActivateInput is the input schema for the activate_result tool.
type ActivateInput struct {
	ID    string `json:"id" jsonschema:"the result identifier to open"`
	Query string `json:"query,omitempty" jsonschema:"the search terms that produced the result"`
}

// LaunchInput is the input schema for the launch_search tool.
type LaunchInput struct {
	Query string `json:"query,omitempty" jsonschema:"the search terms"`
}

// AckOutput acknowledges a fire-and-forget request.
type AckOutput struct {
	OK bool `json:"ok"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search local files, folders, bookmarks and mounted volumes by name",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refine_search",
		Description: "Refine a previous search with longer terms",
	}, s.handleRefine)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_result_metas",
		Description: "Get display name and icon for result identifiers",
	}, s.handleMetas)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "activate_result",
		Description: "Open a result with the desktop's default application",
	}, s.handleActivate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "launch_search",
		Description: "Open the search location in the file manager",
	}, s.handleLaunch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	terms := strings.Fields(input.Query)
	if len(terms) == 0 {
		return nil, SearchOutput{}, errors.New("query is required")
	}

	ids, err := s.ports.Search.GetInitialResultSet(ctx, terms)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return s.describe(ctx, ids, input.Limit)
}

// handleRefine handles the refine_search tool invocation.
func (s *Server) handleRefine(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RefineInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	terms := strings.Fields(input.Query)
	if len(terms) == 0 {
		return nil, SearchOutput{}, errors.New("query is required")
	}

	ids, err := s.ports.Search.GetSubsearchResultSet(ctx, input.Previous, terms)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return s.describe(ctx, ids, input.Limit)
}

// describe resolves metas for the first limit ids.
func (s *Server) describe(ctx context.Context, ids []string, limit int) (*mcp.CallToolResult, SearchOutput, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	total := len(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}

	output := SearchOutput{Results: []ResultOutput{}, Total: total}
	if len(ids) == 0 {
		return nil, output, nil
	}

	metas, err := s.ports.Search.GetResultMetas(ctx, ids)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	output.Results = toResults(metas)

	return nil, output, nil
}

// handleMetas handles the get_result_metas tool invocation.
func (s *Server) handleMetas(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MetasInput,
) (*mcp.CallToolResult, MetasOutput, error) {
	metas, err := s.ports.Search.GetResultMetas(ctx, input.IDs)
	if err != nil {
		return nil, MetasOutput{}, err
	}
	return nil, MetasOutput{Results: toResults(metas)}, nil
}

// handleActivate handles the activate_result tool invocation.
func (s *Server) handleActivate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ActivateInput,
) (*mcp.CallToolResult, AckOutput, error) {
	if input.ID == "" {
		return nil, AckOutput{}, errors.New("id is required")
	}
	s.ports.Search.ActivateResult(ctx, input.ID, strings.Fields(input.Query))
	return nil, AckOutput{OK: true}, nil
}

// handleLaunch handles the launch_search tool invocation.
func (s *Server) handleLaunch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LaunchInput,
) (*mcp.CallToolResult, AckOutput, error) {
	s.ports.Search.LaunchSearch(ctx, strings.Fields(input.Query))
	return nil, AckOutput{OK: true}, nil
}

func toResults(metas []domain.ResultMeta) []ResultOutput {
	out := make([]ResultOutput, len(metas))
	for i, m := range metas {
		out[i] = ResultOutput{
			ID:       m.ID,
			Name:     m.Name,
			Icon:     m.Icon.Token(),
			IconKind: m.Icon.Kind.String(),
		}
	}
	return out
}
