// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// search provider. It lets AI assistants search local files and folders the
// same way the desktop shell does.
package mcp

import "errors"

// ErrMissingSearchProvider is returned when the search provider is not given.
var ErrMissingSearchProvider = errors.New("mcp: search provider is required")
