package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driving"
)

// HoldCounter reports the number of outstanding activity holds.
type HoldCounter interface {
	Holds() int
}

// ServerConfig configures the IPC server.
type ServerConfig struct {
	SocketPath string
	PIDFile    string
	Version    string

	// Activity is reported by status.get when set.
	Activity HoldCounter
}

// handlerFunc answers one RPC method.
type handlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

// Server accepts connections on a Unix socket and dispatches requests to a
// search provider. A PID file lock keeps a single instance per user.
type Server struct {
	config    ServerConfig
	provider  driving.SearchProvider
	listener  net.Listener
	lockFile  *os.File
	logger    *log.Logger
	handlers  map[string]handlerFunc
	startedAt time.Time
	requests  atomic.Uint64

	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	runMu    sync.Mutex
}

// NewServer acquires the instance lock and prepares the socket path.
func NewServer(provider driving.SearchProvider, cfg ServerConfig, logger *log.Logger) (*Server, error) {
	if provider == nil {
		return nil, ErrMissingProvider
	}
	if cfg.SocketPath == "" {
		cfg.SocketPath = DefaultSocketPath()
	}
	if cfg.PIDFile == "" {
		cfg.PIDFile = DefaultPIDPath()
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[ipc] ", log.LstdFlags)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SocketPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.PIDFile), 0700); err != nil {
		return nil, fmt.Errorf("failed to create pid directory: %w", err)
	}

	lockFile, err := acquireLock(cfg.PIDFile)
	if err != nil {
		return nil, err
	}

	if err := cleanupStaleSocket(cfg.SocketPath); err != nil {
		_ = lockFile.Close()
		return nil, err
	}

	s := &Server{
		config:    cfg,
		provider:  provider,
		lockFile:  lockFile,
		logger:    logger,
		handlers:  make(map[string]handlerFunc),
		startedAt: time.Now(),
		stopChan:  make(chan struct{}),
	}
	s.registerHandlers()

	return s, nil
}

// acquireLock takes a non-blocking exclusive flock on path and writes the
// current PID into it.
func acquireLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open pid file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		return nil, ErrAnotherInstanceRunning
	}

	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to truncate pid file: %w", err)
	}
	if _, err := f.WriteAt([]byte(fmt.Sprintf("%d\n", os.Getpid())), 0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write pid: %w", err)
	}

	return f, nil
}

func cleanupStaleSocket(socketPath string) error {
	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return nil
	}

	conn, err := net.DialTimeout("unix", socketPath, 100*time.Millisecond)
	if err != nil {
		return os.Remove(socketPath)
	}
	_ = conn.Close()

	return ErrAnotherInstanceRunning
}

func (s *Server) registerHandlers() {
	s.handlers[MethodGetInitialResultSet] = func(ctx context.Context, raw json.RawMessage) (any, error) {
		var p SearchParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		ids, err := s.provider.GetInitialResultSet(ctx, p.Terms)
		if cancelled(ctx, err) {
			return &ResultSet{Results: []string{}}, nil
		}
		if err != nil {
			return nil, err
		}
		return &ResultSet{Results: ids}, nil
	}

	s.handlers[MethodGetSubsearchResultSet] = func(ctx context.Context, raw json.RawMessage) (any, error) {
		var p SubsearchParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		ids, err := s.provider.GetSubsearchResultSet(ctx, p.PreviousResults, p.Terms)
		if cancelled(ctx, err) {
			return &ResultSet{Results: []string{}}, nil
		}
		if err != nil {
			return nil, err
		}
		return &ResultSet{Results: ids}, nil
	}

	s.handlers[MethodGetResultMetas] = func(ctx context.Context, raw json.RawMessage) (any, error) {
		var p MetasParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		metas, err := s.provider.GetResultMetas(ctx, p.Identifiers)
		if cancelled(ctx, err) {
			return &MetasResult{Metas: []Meta{}}, nil
		}
		if err != nil {
			return nil, err
		}
		out := &MetasResult{Metas: make([]Meta, 0, len(metas))}
		for _, m := range metas {
			out.Metas = append(out.Metas, EncodeMeta(m))
		}
		return out, nil
	}

	s.handlers[MethodActivateResult] = func(ctx context.Context, raw json.RawMessage) (any, error) {
		var p ActivateParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		if p.Identifier == "" {
			return nil, &RPCError{Code: ErrCodeInvalidParams, Message: "identifier is required"}
		}
		s.provider.ActivateResult(ctx, p.Identifier, p.Terms)
		return struct{}{}, nil
	}

	s.handlers[MethodLaunchSearch] = func(ctx context.Context, raw json.RawMessage) (any, error) {
		var p SearchParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		s.provider.LaunchSearch(ctx, p.Terms)
		return struct{}{}, nil
	}

	s.handlers[MethodStatusGet] = func(_ context.Context, _ json.RawMessage) (any, error) {
		status := &StatusResponse{
			PID:       os.Getpid(),
			Version:   s.config.Version,
			StartedAt: s.startedAt,
			Requests:  s.requests.Load(),
		}
		if s.config.Activity != nil {
			status.ActiveHolds = s.config.Activity.Holds()
		}
		return status, nil
	}
}

// cancelled reports whether err is only ctx ending. Search methods answer
// with an empty result in that case.
func cancelled(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err())
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &RPCError{Code: ErrCodeInvalidParams, Message: "invalid params: " + err.Error()}
	}
	return nil
}

// Start listens on the socket and serves connections in the background.
func (s *Server) Start(ctx context.Context) error {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.runMu.Unlock()

	listener, err := net.Listen("unix", s.config.SocketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.config.SocketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Printf("IPC server listening on %s", s.config.SocketPath)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-s.stopChan:
					return
				case <-ctx.Done():
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				s.logger.Printf("accept error: %v", err)
				continue
			}

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.handleConnection(ctx, conn)
			}()
		}
	}()

	return nil
}

// handleConnection serves requests from conn one at a time. Requests run
// under a context that ends when the client goes away or the server stops.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() { _ = conn.Close() }()

	// Stop the read and any running request when the server stops.
	go func() {
		select {
		case <-s.stopChan:
			cancel()
			_ = conn.Close()
		case <-connCtx.Done():
		}
	}()

	lines := make(chan []byte)
	go func() {
		defer close(lines)
		defer cancel()
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadBytes('\n')
			if err != nil {
				if err != io.EOF && !errors.Is(err, net.ErrClosed) {
					s.logger.Printf("read error: %v", err)
				}
				return
			}
			select {
			case lines <- line:
			case <-connCtx.Done():
				return
			}
		}
	}()

	encoder := json.NewEncoder(conn)

	for line := range lines {
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if encErr := encoder.Encode(NewErrorResponse("", ErrCodeParse, "parse error: "+err.Error())); encErr != nil {
				s.logger.Printf("encode error: %v", encErr)
				return
			}
			continue
		}

		if err := encoder.Encode(s.handleRequest(connCtx, &req)); err != nil {
			s.logger.Printf("encode error: %v", err)
			return
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req *Request) *Response {
	if req.JSONRPC != jsonrpcVersion || req.Method == "" {
		return NewErrorResponse(req.ID, ErrCodeInvalidRequest, "invalid request")
	}

	handler, ok := s.handlers[req.Method]
	if !ok {
		return NewErrorResponse(req.ID, ErrCodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}

	s.requests.Add(1)
	result, err := handler(ctx, req.Params)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return &Response{JSONRPC: jsonrpcVersion, ID: req.ID, Error: rpcErr}
		}
		return NewErrorResponse(req.ID, ErrCodeInternal, err.Error())
	}

	resp, err := NewResponse(req.ID, result)
	if err != nil {
		return NewErrorResponse(req.ID, ErrCodeInternal, "failed to create response")
	}
	return resp
}

// Shutdown stops accepting, waits for open connections and removes the
// socket and PID files.
func (s *Server) Shutdown(ctx context.Context) error {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		s.releaseLock()
		return nil
	}
	s.running = false
	s.runMu.Unlock()

	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}

	if s.listener != nil {
		_ = s.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := os.Remove(s.config.SocketPath); err != nil && !os.IsNotExist(err) {
		s.logger.Printf("failed to remove socket: %v", err)
	}
	s.releaseLock()

	s.logger.Printf("IPC server stopped")
	return nil
}

func (s *Server) releaseLock() {
	if s.lockFile == nil {
		return
	}
	_ = s.lockFile.Close()
	s.lockFile = nil
	if err := os.Remove(s.config.PIDFile); err != nil && !os.IsNotExist(err) {
		s.logger.Printf("failed to remove pid file: %v", err)
	}
}

// SocketPath returns the socket the server listens on.
func (s *Server) SocketPath() string {
	return s.config.SocketPath
}
