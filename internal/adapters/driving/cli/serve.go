package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/dbus"
	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/ipc"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// shutdownTimeout bounds how long open IPC connections may delay exit.
const shutdownTimeout = 5 * time.Second

var (
	serveNoDBus  bool
	serveNoIPC   bool
	servePersist bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the search provider service",
	Long: `Runs the search provider until it has been idle for the inactivity
timeout, or until interrupted.

The provider is exported on the session bus as
org.gnome.Shell.SearchProvider2 and, unless --no-ipc is given, answers
local clients on a Unix socket. Use --persist (or set
SERCHA_SEARCH_PROVIDER_PERSIST) to keep it running while idle.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoDBus, "no-dbus", false, "do not export on the session bus")
	serveCmd.Flags().BoolVar(&serveNoIPC, "no-ipc", false, "do not listen on the IPC socket")
	serveCmd.Flags().BoolVar(&servePersist, "persist", false, "keep running while idle")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveNoDBus && serveNoIPC {
		return errors.New("nothing to serve: both --no-dbus and --no-ipc given")
	}
	if appRuntime == nil || appRuntime.Build == nil {
		return errNoRuntime
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := settings
	cfg.Persist = cfg.Persist || servePersist

	svc, err := appRuntime.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("starting provider: %w", err)
	}
	if svc.Close != nil {
		defer svc.Close()
	}

	logger.Section("Serve")
	logger.Debug("inactivity timeout %s, persist %t", cfg.InactivityTimeout, cfg.Persist)

	g, gctx := errgroup.WithContext(ctx)

	if !serveNoIPC {
		server, err := ipc.NewServer(svc.Provider, ipc.ServerConfig{
			SocketPath: cfg.SocketPath,
			PIDFile:    cfg.PIDFile,
			Version:    version,
			Activity:   svc.Activity,
		}, log.New(cmd.ErrOrStderr(), "ipc: ", log.LstdFlags))
		if err != nil {
			return err
		}
		if err := server.Start(gctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("ipc shutdown: %v", err)
			}
		}()
	}

	if !serveNoDBus {
		server, err := dbus.NewServer(svc.Provider, dbus.Config{
			BusName:    cfg.BusName,
			ObjectPath: cfg.ObjectPath,
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			return server.Run(gctx)
		})
	}

	g.Go(func() error {
		if svc.Activity == nil {
			<-gctx.Done()
			return nil
		}
		select {
		case <-svc.Activity.Idle():
			logger.Info("idle for %s, exiting", cfg.InactivityTimeout)
			return errIdle
		case <-gctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errIdle) {
		return err
	}
	return nil
}

// errIdle stops the serve group once the provider has gone idle.
var errIdle = errors.New("provider idle")
