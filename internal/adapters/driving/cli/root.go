// Package cli implements the sercha-search-provider command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-search-provider/internal/adapters/driving/ipc"
	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-search-provider/internal/lifecycle"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// errNoRuntime is returned when a command runs before SetRuntime.
var errNoRuntime = errors.New("runtime not configured")

// skipSettings marks commands that run without loading settings.
const skipSettings = "skip-settings"

// Services is a provider graph built for one command invocation.
type Services struct {
	Provider driving.SearchProvider

	// Activity decides when a serving process may exit.
	Activity *lifecycle.Monitor

	// Close releases watchers and flushes metrics.
	Close func()
}

// Runtime builds the pieces commands need. It is injected by main.
type Runtime struct {
	// OpenSettings opens the settings store in configDir.
	// An empty configDir means the default location.
	OpenSettings func(configDir string) (driven.SettingsStore, error)

	// Build wires a local provider for settings.
	Build func(ctx context.Context, settings domain.ProviderSettings) (*Services, error)
}

var (
	appRuntime    *Runtime
	settingsStore driven.SettingsStore
	settings      domain.ProviderSettings
)

var (
	configDir      string
	verbose        bool
	remote         bool
	searchLocation string
)

var rootCmd = &cobra.Command{
	Use:   "sercha-search-provider",
	Short: "File search provider for the desktop shell",
	Long: `sercha-search-provider answers desktop shell search requests with files
found under a search location.

Run "serve" to own the D-Bus name and the local IPC socket, or use the
search commands directly for one-off queries.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config", "", "config directory (default ~/.sercha)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&remote, "remote", false, "send requests to a running provider over IPC")
	flags.StringVar(&searchLocation, "location", "", "search location URI (overrides settings)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetRuntime injects the runtime used by every command.
func SetRuntime(r *Runtime) {
	appRuntime = r
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Run executes the CLI and exits with status 1 on error.
func Run(ctx context.Context) {
	if err := Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	if _, ok := cmd.Annotations[skipSettings]; ok {
		return nil
	}
	if appRuntime == nil || appRuntime.OpenSettings == nil {
		return errNoRuntime
	}

	store, err := appRuntime.OpenSettings(configDir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	resolved, err := store.Settings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	if searchLocation != "" {
		resolved.SearchLocation = searchLocation
	}
	resolved.Verbose = resolved.Verbose || verbose
	logger.SetVerbose(resolved.Verbose)

	settingsStore = store
	settings = resolved
	return nil
}

// providerFor returns the provider a command talks to: a client of the
// running service with --remote, a freshly wired local graph otherwise.
// The returned func releases it.
func providerFor(ctx context.Context) (driving.SearchProvider, func(), error) {
	if remote {
		client := ipc.NewClient(ipc.ClientConfig{SocketPath: settings.SocketPath})
		return client, func() {}, nil
	}

	if appRuntime == nil || appRuntime.Build == nil {
		return nil, nil, errNoRuntime
	}
	svc, err := appRuntime.Build(ctx, settings)
	if err != nil {
		return nil, nil, fmt.Errorf("starting provider: %w", err)
	}

	release := func() {
		if svc.Close != nil {
			svc.Close()
		}
	}
	return svc.Provider, release, nil
}
