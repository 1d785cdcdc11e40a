package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// Ensure Client implements the interface.
var _ driving.SearchProvider = (*Client)(nil)

// ClientConfig configures the IPC client.
type ClientConfig struct {
	SocketPath     string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Client talks to a running provider. It implements driving.SearchProvider
// so commands can run against a remote instance unchanged.
type Client struct {
	config ClientConfig
}

// Connection is an open connection to the server.
type Connection struct {
	conn         net.Conn
	reader       *bufio.Reader
	encoder      *json.Encoder
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewClient creates a client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.SocketPath == "" {
		cfg.SocketPath = DefaultSocketPath()
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	return &Client{config: cfg}
}

// Connect opens a connection to the server.
func (c *Client) Connect(ctx context.Context) (*Connection, error) {
	if _, err := os.Stat(c.config.SocketPath); os.IsNotExist(err) {
		return nil, ErrNotRunning
	}

	dialer := net.Dialer{Timeout: c.config.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.config.SocketPath)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, ErrStaleSocket
		}
		if os.IsTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return &Connection{
		conn:         conn,
		reader:       bufio.NewReader(conn),
		encoder:      json.NewEncoder(conn),
		readTimeout:  c.config.ReadTimeout,
		writeTimeout: c.config.WriteTimeout,
	}, nil
}

// Close closes the connection.
func (conn *Connection) Close() error {
	return conn.conn.Close()
}

// Call performs a synchronous RPC call. A context deadline shortens the
// read timeout.
func (conn *Connection) Call(ctx context.Context, method string, params, result any) error {
	req, err := NewRequest(uuid.NewString(), method, params)
	if err != nil {
		return err
	}

	if err := conn.conn.SetWriteDeadline(time.Now().Add(conn.writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := conn.encoder.Encode(req); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	deadline := time.Now().Add(conn.readTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set read deadline: %w", err)
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.conn.SetReadDeadline(time.Now()) })
	defer stop()

	line, err := conn.reader.ReadBytes('\n')
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.ID != req.ID {
		return fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	if resp.Error != nil {
		return resp.Error
	}

	if result != nil && resp.Result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("failed to unmarshal result: %w", err)
		}
	}
	return nil
}

// call opens a connection for a single request.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	conn, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close() //nolint:errcheck

	return conn.Call(ctx, method, params, result)
}

// GetInitialResultSet implements driving.SearchProvider.
func (c *Client) GetInitialResultSet(ctx context.Context, terms []string) ([]string, error) {
	var rs ResultSet
	if err := c.call(ctx, MethodGetInitialResultSet, &SearchParams{Terms: terms}, &rs); err != nil {
		return []string{}, err
	}
	return nonNil(rs.Results), nil
}

// GetSubsearchResultSet implements driving.SearchProvider.
func (c *Client) GetSubsearchResultSet(ctx context.Context, previous, terms []string) ([]string, error) {
	var rs ResultSet
	params := &SubsearchParams{PreviousResults: previous, Terms: terms}
	if err := c.call(ctx, MethodGetSubsearchResultSet, params, &rs); err != nil {
		return []string{}, err
	}
	return nonNil(rs.Results), nil
}

// GetResultMetas implements driving.SearchProvider.
func (c *Client) GetResultMetas(ctx context.Context, ids []string) ([]domain.ResultMeta, error) {
	var mr MetasResult
	if err := c.call(ctx, MethodGetResultMetas, &MetasParams{Identifiers: ids}, &mr); err != nil {
		return []domain.ResultMeta{}, err
	}

	out := make([]domain.ResultMeta, 0, len(mr.Metas))
	for _, m := range mr.Metas {
		out = append(out, m.Decode())
	}
	return out, nil
}

// ActivateResult implements driving.SearchProvider. Transport failures
// are logged.
func (c *Client) ActivateResult(ctx context.Context, id string, terms []string) {
	params := &ActivateParams{Identifier: id, Terms: terms}
	if err := c.call(ctx, MethodActivateResult, params, nil); err != nil {
		logger.Error("%v", fmt.Errorf("%w: %s: %w", domain.ErrProviderUnavailable, MethodActivateResult, err))
	}
}

// LaunchSearch implements driving.SearchProvider. Transport failures are
// logged.
func (c *Client) LaunchSearch(ctx context.Context, terms []string) {
	if err := c.call(ctx, MethodLaunchSearch, &SearchParams{Terms: terms}, nil); err != nil {
		logger.Error("%v", fmt.Errorf("%w: %s: %w", domain.ErrProviderUnavailable, MethodLaunchSearch, err))
	}
}

// Status returns the server status.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var status StatusResponse
	if err := c.call(ctx, MethodStatusGet, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// IsRunning reports whether a provider answers on the socket.
func (c *Client) IsRunning(ctx context.Context) bool {
	_, err := c.Status(ctx)
	return err == nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
