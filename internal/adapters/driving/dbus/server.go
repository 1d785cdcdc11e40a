package dbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// introspection describes the exported interface for callers such as
// gdbus and the shell.
var introspection = introspect.Interface{
	Name: InterfaceName,
	Methods: []introspect.Method{
		{Name: "GetInitialResultSet", Args: []introspect.Arg{
			{Name: "terms", Type: "as", Direction: "in"},
			{Name: "results", Type: "as", Direction: "out"},
		}},
		{Name: "GetSubsearchResultSet", Args: []introspect.Arg{
			{Name: "previous_results", Type: "as", Direction: "in"},
			{Name: "terms", Type: "as", Direction: "in"},
			{Name: "results", Type: "as", Direction: "out"},
		}},
		{Name: "GetResultMetas", Args: []introspect.Arg{
			{Name: "identifiers", Type: "as", Direction: "in"},
			{Name: "metas", Type: "aa{sv}", Direction: "out"},
		}},
		{Name: "ActivateResult", Args: []introspect.Arg{
			{Name: "identifier", Type: "s", Direction: "in"},
			{Name: "terms", Type: "as", Direction: "in"},
			{Name: "timestamp", Type: "u", Direction: "in"},
		}},
		{Name: "LaunchSearch", Args: []introspect.Arg{
			{Name: "terms", Type: "as", Direction: "in"},
			{Name: "timestamp", Type: "u", Direction: "in"},
		}},
	},
}

// Config names the bus endpoint.
type Config struct {
	BusName    string
	ObjectPath string
}

// Server owns a bus name and serves SearchProvider2 calls on it.
type Server struct {
	cfg    Config
	object *searchProvider2

	mu     sync.Mutex
	conn   *dbus.Conn
	ctx    context.Context
	closed bool
}

// NewServer creates a server for provider.
func NewServer(provider driving.SearchProvider, cfg Config) (*Server, error) {
	if provider == nil {
		return nil, ErrMissingProvider
	}
	if !dbus.ObjectPath(cfg.ObjectPath).IsValid() {
		return nil, fmt.Errorf("dbus: invalid object path %q", cfg.ObjectPath)
	}
	if cfg.BusName == "" {
		return nil, fmt.Errorf("dbus: bus name is required")
	}

	s := &Server{cfg: cfg, ctx: context.Background()}
	s.object = &searchProvider2{provider: provider, ctx: s.callContext}
	return s, nil
}

// Run connects to the session bus and serves until ctx is cancelled or
// the bus connection drops.
func (s *Server) Run(ctx context.Context) error {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("dbus: connecting to session bus: %w", err)
	}
	return s.Serve(ctx, conn)
}

// Serve exports the provider on conn, requests the bus name and blocks
// until ctx is cancelled or conn is closed. The connection is closed on
// return.
func (s *Server) Serve(ctx context.Context, conn *dbus.Conn) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close() //nolint:errcheck
		return nil
	}
	s.conn = conn
	s.ctx = ctx
	s.mu.Unlock()
	defer s.Close() //nolint:errcheck

	path := dbus.ObjectPath(s.cfg.ObjectPath)
	if err := conn.Export(s.object, path, InterfaceName); err != nil {
		return fmt.Errorf("dbus: exporting %s: %w", InterfaceName, err)
	}

	node := &introspect.Node{
		Name: s.cfg.ObjectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			introspection,
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), path, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("dbus: exporting introspection: %w", err)
	}

	reply, err := conn.RequestName(s.cfg.BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("dbus: requesting name %s: %w", s.cfg.BusName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("%w: %s", ErrNameTaken, s.cfg.BusName)
	}

	logger.Info("dbus: serving %s on %s at %s", InterfaceName, s.cfg.BusName, path)

	select {
	case <-ctx.Done():
	case <-conn.Context().Done():
		logger.Warn("dbus: connection to session bus lost")
	}
	return nil
}

// Close releases the bus name and closes the connection.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.conn == nil {
		return nil
	}
	if _, err := s.conn.ReleaseName(s.cfg.BusName); err != nil {
		logger.Debug("dbus: releasing name: %v", err)
	}
	return s.conn.Close()
}

func (s *Server) callContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}
