package domain

import "time"

// Default settings values.
const (
	// DefaultInactivityTimeout is how long the service stays up with no
	// live session before exiting.
	DefaultInactivityTimeout = 12 * time.Second

	// DefaultBusName is the well-known D-Bus name the provider owns.
	DefaultBusName = "io.sercha.SearchProvider"

	// DefaultObjectPath is the D-Bus object path the provider is exported on.
	DefaultObjectPath = "/io/sercha/SearchProvider"

	// DefaultLocateCommand is the locate binary used by the bundled engine.
	DefaultLocateCommand = "plocate"

	// DefaultEngineHitLimit caps the number of hits one engine run emits.
	DefaultEngineHitLimit = 1000

	// DefaultIconSize is the edge length, in pixels, of fallback icons.
	DefaultIconSize = 128

	// DefaultResolveConcurrency bounds parallel file lookups per metas request.
	DefaultResolveConcurrency = 8
)

// ProviderSettings is the resolved configuration of the search provider.
type ProviderSettings struct {
	// SearchLocation is the URI every query is scoped to.
	// Empty means the user's home directory.
	SearchLocation string

	// InactivityTimeout is the idle period after which the service exits.
	InactivityTimeout time.Duration

	// Persist keeps the service running regardless of inactivity.
	Persist bool

	// BusName is the D-Bus well-known name to own.
	BusName string

	// ObjectPath is the D-Bus object path to export on.
	ObjectPath string

	// SocketPath is the IPC Unix socket path. Empty means the runtime default.
	SocketPath string

	// PIDFile is the IPC lock file path. Empty means the runtime default.
	PIDFile string

	// BookmarksFile is the GTK bookmarks file. Empty means the XDG default.
	BookmarksFile string

	// LocateCommand is the locate binary used by the engine.
	LocateCommand string

	// EngineHitLimit caps hits per engine run.
	EngineHitLimit int

	// IconSize is the edge length of fallback pixel icons.
	IconSize int

	// ResolveConcurrency bounds parallel file lookups.
	ResolveConcurrency int

	// Verbose enables debug logging.
	Verbose bool

	// MetricsEndpoint is an OTLP/HTTP endpoint for metrics export.
	// Empty disables export.
	MetricsEndpoint string
}

// DefaultProviderSettings returns settings with sensible defaults.
func DefaultProviderSettings() ProviderSettings {
	return ProviderSettings{
		InactivityTimeout:  DefaultInactivityTimeout,
		BusName:            DefaultBusName,
		ObjectPath:         DefaultObjectPath,
		LocateCommand:      DefaultLocateCommand,
		EngineHitLimit:     DefaultEngineHitLimit,
		IconSize:           DefaultIconSize,
		ResolveConcurrency: DefaultResolveConcurrency,
	}
}

// Normalise replaces zero or invalid values with defaults.
func (s *ProviderSettings) Normalise() {
	defaults := DefaultProviderSettings()

	if s.InactivityTimeout <= 0 {
		s.InactivityTimeout = defaults.InactivityTimeout
	}
	if s.BusName == "" {
		s.BusName = defaults.BusName
	}
	if s.ObjectPath == "" {
		s.ObjectPath = defaults.ObjectPath
	}
	if s.LocateCommand == "" {
		s.LocateCommand = defaults.LocateCommand
	}
	if s.EngineHitLimit <= 0 {
		s.EngineHitLimit = defaults.EngineHitLimit
	}
	if s.IconSize <= 0 {
		s.IconSize = defaults.IconSize
	}
	if s.ResolveConcurrency < 1 {
		s.ResolveConcurrency = 1
	}
	if s.ResolveConcurrency > 64 {
		s.ResolveConcurrency = 64
	}
}
