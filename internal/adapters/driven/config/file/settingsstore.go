package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	env "github.com/netflix/go-env"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// FileName is the settings file name within the sercha config directory.
const FileName = "search-provider.toml"

// Setting keys, as written in the settings file.
const (
	KeySearchLocation     = "search_location"
	KeyInactivityTimeout  = "inactivity_timeout"
	KeyPersist            = "persist"
	KeyBusName            = "bus_name"
	KeyObjectPath         = "object_path"
	KeySocketPath         = "socket_path"
	KeyPIDFile            = "pid_file"
	KeyBookmarksFile      = "bookmarks_file"
	KeyLocateCommand      = "locate_command"
	KeyEngineHitLimit     = "engine_hit_limit"
	KeyIconSize           = "icon_size"
	KeyResolveConcurrency = "resolve_concurrency"
	KeyVerbose            = "verbose"
	KeyMetricsEndpoint    = "metrics_endpoint"
)

var keys = []string{
	KeySearchLocation,
	KeyInactivityTimeout,
	KeyPersist,
	KeyBusName,
	KeyObjectPath,
	KeySocketPath,
	KeyPIDFile,
	KeyBookmarksFile,
	KeyLocateCommand,
	KeyEngineHitLimit,
	KeyIconSize,
	KeyResolveConcurrency,
	KeyVerbose,
	KeyMetricsEndpoint,
}

// PersistEnv keeps the service alive regardless of inactivity when set to
// any value.
const PersistEnv = "SERCHA_SEARCH_PROVIDER_PERSIST"

// document mirrors the settings file.
type document struct {
	SearchLocation     string `toml:"search_location,omitempty"`
	InactivityTimeout  string `toml:"inactivity_timeout,omitempty"`
	Persist            bool   `toml:"persist,omitempty"`
	BusName            string `toml:"bus_name,omitempty"`
	ObjectPath         string `toml:"object_path,omitempty"`
	SocketPath         string `toml:"socket_path,omitempty"`
	PIDFile            string `toml:"pid_file,omitempty"`
	BookmarksFile      string `toml:"bookmarks_file,omitempty"`
	LocateCommand      string `toml:"locate_command,omitempty"`
	EngineHitLimit     int    `toml:"engine_hit_limit,omitempty"`
	IconSize           int    `toml:"icon_size,omitempty"`
	ResolveConcurrency int    `toml:"resolve_concurrency,omitempty"`
	Verbose            bool   `toml:"verbose,omitempty"`
	MetricsEndpoint    string `toml:"metrics_endpoint,omitempty"`
}

// environment holds the SERCHA_* overrides.
// Only variables that are actually set are applied.
type environment struct {
	SearchLocation     string        `env:"SERCHA_SEARCH_LOCATION"`
	InactivityTimeout  time.Duration `env:"SERCHA_INACTIVITY_TIMEOUT"`
	Persist            string        `env:"SERCHA_SEARCH_PROVIDER_PERSIST"`
	BusName            string        `env:"SERCHA_BUS_NAME"`
	ObjectPath         string        `env:"SERCHA_OBJECT_PATH"`
	SocketPath         string        `env:"SERCHA_SOCKET_PATH"`
	PIDFile            string        `env:"SERCHA_PID_FILE"`
	BookmarksFile      string        `env:"SERCHA_BOOKMARKS_FILE"`
	LocateCommand      string        `env:"SERCHA_LOCATE_COMMAND"`
	EngineHitLimit     int           `env:"SERCHA_ENGINE_HIT_LIMIT"`
	IconSize           int           `env:"SERCHA_ICON_SIZE"`
	ResolveConcurrency int           `env:"SERCHA_RESOLVE_CONCURRENCY"`
	Verbose            bool          `env:"SERCHA_VERBOSE"`
	MetricsEndpoint    string        `env:"SERCHA_METRICS_ENDPOINT"`
}

// SettingsStore is a file-based implementation of driven.SettingsStore using TOML.
// Settings are stored in a TOML file within the sercha config directory;
// SERCHA_* environment variables take precedence over the file.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
	doc      document
}

// NewSettingsStore creates a new TOML-based settings store.
// If configDir is empty, defaults to ~/.sercha/search-provider.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".sercha")
	}

	s := &SettingsStore{filePath: filepath.Join(configDir, FileName)}

	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSettingsStoreAt creates a settings store backed by an explicit file.
func NewSettingsStoreAt(path string) (*SettingsStore, error) {
	s := &SettingsStore{filePath: path}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads settings from the TOML file.
// A missing file is not an error.
func (s *SettingsStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.doc = document{}
			return nil
		}
		return err
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}
	s.doc = doc
	return nil
}

// Settings returns defaults overlaid by the file, then the environment.
func (s *SettingsStore) Settings() (domain.ProviderSettings, error) {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()

	settings := domain.DefaultProviderSettings()
	if err := applyDocument(&settings, doc); err != nil {
		return settings, err
	}
	if err := applyEnvironment(&settings); err != nil {
		return settings, err
	}
	settings.Normalise()
	return settings, nil
}

// Get returns the file value for key, formatted as text.
func (s *SettingsStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := s.doc
	switch key {
	case KeySearchLocation:
		return d.SearchLocation, d.SearchLocation != ""
	case KeyInactivityTimeout:
		return d.InactivityTimeout, d.InactivityTimeout != ""
	case KeyPersist:
		return strconv.FormatBool(d.Persist), d.Persist
	case KeyBusName:
		return d.BusName, d.BusName != ""
	case KeyObjectPath:
		return d.ObjectPath, d.ObjectPath != ""
	case KeySocketPath:
		return d.SocketPath, d.SocketPath != ""
	case KeyPIDFile:
		return d.PIDFile, d.PIDFile != ""
	case KeyBookmarksFile:
		return d.BookmarksFile, d.BookmarksFile != ""
	case KeyLocateCommand:
		return d.LocateCommand, d.LocateCommand != ""
	case KeyEngineHitLimit:
		return strconv.Itoa(d.EngineHitLimit), d.EngineHitLimit != 0
	case KeyIconSize:
		return strconv.Itoa(d.IconSize), d.IconSize != 0
	case KeyResolveConcurrency:
		return strconv.Itoa(d.ResolveConcurrency), d.ResolveConcurrency != 0
	case KeyVerbose:
		return strconv.FormatBool(d.Verbose), d.Verbose
	case KeyMetricsEndpoint:
		return d.MetricsEndpoint, d.MetricsEndpoint != ""
	default:
		return "", false
	}
}

// Set stores a value and persists immediately.
// An empty value clears the key.
func (s *SettingsStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.doc
	if err := setField(&doc, key, value); err != nil {
		return err
	}
	if err := s.save(doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// Keys returns every supported key.
func (s *SettingsStore) Keys() []string {
	return append([]string(nil), keys...)
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

func (s *SettingsStore) save(doc document) error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return err
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

func setField(d *document, key, value string) error {
	var err error
	switch key {
	case KeySearchLocation:
		d.SearchLocation = value
	case KeyInactivityTimeout:
		if value != "" {
			_, err = parseDuration(value)
		}
		d.InactivityTimeout = value
	case KeyPersist:
		d.Persist, err = parseBool(value)
	case KeyBusName:
		d.BusName = value
	case KeyObjectPath:
		d.ObjectPath = value
	case KeySocketPath:
		d.SocketPath = value
	case KeyPIDFile:
		d.PIDFile = value
	case KeyBookmarksFile:
		d.BookmarksFile = value
	case KeyLocateCommand:
		d.LocateCommand = value
	case KeyEngineHitLimit:
		d.EngineHitLimit, err = parseInt(value)
	case KeyIconSize:
		d.IconSize, err = parseInt(value)
	case KeyResolveConcurrency:
		d.ResolveConcurrency, err = parseInt(value)
	case KeyVerbose:
		d.Verbose, err = parseBool(value)
	case KeyMetricsEndpoint:
		d.MetricsEndpoint = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	return nil
}

func applyDocument(s *domain.ProviderSettings, d document) error {
	if d.SearchLocation != "" {
		s.SearchLocation = d.SearchLocation
	}
	if d.InactivityTimeout != "" {
		timeout, err := parseDuration(d.InactivityTimeout)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, KeyInactivityTimeout, err)
		}
		s.InactivityTimeout = timeout
	}
	s.Persist = s.Persist || d.Persist
	if d.BusName != "" {
		s.BusName = d.BusName
	}
	if d.ObjectPath != "" {
		s.ObjectPath = d.ObjectPath
	}
	if d.SocketPath != "" {
		s.SocketPath = d.SocketPath
	}
	if d.PIDFile != "" {
		s.PIDFile = d.PIDFile
	}
	if d.BookmarksFile != "" {
		s.BookmarksFile = d.BookmarksFile
	}
	if d.LocateCommand != "" {
		s.LocateCommand = d.LocateCommand
	}
	if d.EngineHitLimit != 0 {
		s.EngineHitLimit = d.EngineHitLimit
	}
	if d.IconSize != 0 {
		s.IconSize = d.IconSize
	}
	if d.ResolveConcurrency != 0 {
		s.ResolveConcurrency = d.ResolveConcurrency
	}
	s.Verbose = s.Verbose || d.Verbose
	if d.MetricsEndpoint != "" {
		s.MetricsEndpoint = d.MetricsEndpoint
	}
	return nil
}

func applyEnvironment(s *domain.ProviderSettings) error {
	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return fmt.Errorf("%w: environment: %w", domain.ErrInvalidInput, err)
	}

	// Unmarshal deletes every key it consumes, so decode from a copy and
	// test presence against the full set.
	remaining := make(env.EnvSet, len(es))
	for k, v := range es {
		remaining[k] = v
	}
	var e environment
	if err := env.Unmarshal(remaining, &e); err != nil {
		return fmt.Errorf("%w: environment: %w", domain.ErrInvalidInput, err)
	}

	set := func(name string) bool {
		_, ok := es[name]
		return ok
	}

	if set("SERCHA_SEARCH_LOCATION") {
		s.SearchLocation = e.SearchLocation
	}
	if set("SERCHA_INACTIVITY_TIMEOUT") {
		s.InactivityTimeout = e.InactivityTimeout
	}
	if set(PersistEnv) {
		s.Persist = true
	}
	if set("SERCHA_BUS_NAME") {
		s.BusName = e.BusName
	}
	if set("SERCHA_OBJECT_PATH") {
		s.ObjectPath = e.ObjectPath
	}
	if set("SERCHA_SOCKET_PATH") {
		s.SocketPath = e.SocketPath
	}
	if set("SERCHA_PID_FILE") {
		s.PIDFile = e.PIDFile
	}
	if set("SERCHA_BOOKMARKS_FILE") {
		s.BookmarksFile = e.BookmarksFile
	}
	if set("SERCHA_LOCATE_COMMAND") {
		s.LocateCommand = e.LocateCommand
	}
	if set("SERCHA_ENGINE_HIT_LIMIT") {
		s.EngineHitLimit = e.EngineHitLimit
	}
	if set("SERCHA_ICON_SIZE") {
		s.IconSize = e.IconSize
	}
	if set("SERCHA_RESOLVE_CONCURRENCY") {
		s.ResolveConcurrency = e.ResolveConcurrency
	}
	if set("SERCHA_VERBOSE") {
		s.Verbose = e.Verbose
	}
	if set("SERCHA_METRICS_ENDPOINT") {
		s.MetricsEndpoint = e.MetricsEndpoint
	}
	return nil
}

func parseDuration(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", value)
	}
	return d, nil
}

func parseBool(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func parseInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative, got %d", n)
	}
	return n, nil
}
