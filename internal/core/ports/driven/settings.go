package driven

import "github.com/custodia-labs/sercha-search-provider/internal/core/domain"

// SettingsStore provides the provider's persisted configuration.
// Implementations layer defaults, a settings file and the environment.
type SettingsStore interface {
	// Settings returns the resolved, normalised settings.
	Settings() (domain.ProviderSettings, error)

	// Get returns the value stored in the settings file for key.
	Get(key string) (string, bool)

	// Set validates value, stores it under key and persists immediately.
	Set(key, value string) error

	// Keys returns every supported key in display order.
	Keys() []string

	// Path returns the settings file path.
	Path() string
}
