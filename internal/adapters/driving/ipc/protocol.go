// Package ipc serves the search provider over newline-delimited JSON-RPC 2.0
// on a Unix socket, and provides a client for it.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// JSON-RPC 2.0 error codes.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
)

const jsonrpcVersion = "2.0"

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// NewRequest creates a request with params marshalled to JSON.
func NewRequest(id, method string, params any) (*Request, error) {
	req := &Request{JSONRPC: jsonrpcVersion, ID: id, Method: method}

	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		req.Params = raw
	}

	return req, nil
}

// NewResponse creates a successful response.
func NewResponse(id string, result any) (*Response, error) {
	resp := &Response{JSONRPC: jsonrpcVersion, ID: id}

	if result != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		resp.Result = raw
	}

	return resp, nil
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id string, code int, message string) *Response {
	return &Response{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}

// Sentinel errors.
var (
	ErrNotRunning             = errors.New("search provider is not running")
	ErrStaleSocket            = errors.New("socket exists but no provider is listening")
	ErrTimeout                = errors.New("connection timeout")
	ErrAnotherInstanceRunning = errors.New("another search provider instance is already running")
	ErrMissingProvider        = errors.New("ipc: search provider is required")
)
