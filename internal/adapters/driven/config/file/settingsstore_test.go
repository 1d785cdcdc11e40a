package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

func TestNewSettingsStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewSettingsStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, FileName), store.Path())
}

func TestSettingsStore_Defaults(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Settings()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProviderSettings(), settings)
}

func TestSettingsStore_LoadsFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
search_location = "file:///data"
inactivity_timeout = "30s"
persist = true
bus_name = "org.example.Search"
locate_command = "mlocate"
engine_hit_limit = 50
resolve_concurrency = 200
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0600))

	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)
	settings, err := store.Settings()
	require.NoError(t, err)

	assert.Equal(t, "file:///data", settings.SearchLocation)
	assert.Equal(t, 30*time.Second, settings.InactivityTimeout)
	assert.True(t, settings.Persist)
	assert.Equal(t, "org.example.Search", settings.BusName)
	assert.Equal(t, domain.DefaultObjectPath, settings.ObjectPath)
	assert.Equal(t, "mlocate", settings.LocateCommand)
	assert.Equal(t, 50, settings.EngineHitLimit)
	assert.Equal(t, 64, settings.ResolveConcurrency, "clamped")
}

func TestSettingsStore_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte("persist = [unterminated"), 0600))

	_, err := NewSettingsStore(tmpDir)

	assert.Error(t, err)
}

func TestSettingsStore_EnvironmentOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName),
		[]byte("locate_command = \"mlocate\"\nicon_size = 64\n"), 0600))

	t.Setenv("SERCHA_LOCATE_COMMAND", "locate")
	t.Setenv("SERCHA_INACTIVITY_TIMEOUT", "1m")
	t.Setenv("SERCHA_VERBOSE", "true")
	t.Setenv(PersistEnv, "")

	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)
	settings, err := store.Settings()
	require.NoError(t, err)

	assert.Equal(t, "locate", settings.LocateCommand)
	assert.Equal(t, time.Minute, settings.InactivityTimeout)
	assert.True(t, settings.Verbose)
	assert.True(t, settings.Persist, "presence of the persist variable is enough")
	assert.Equal(t, 64, settings.IconSize)
}

func TestSettingsStore_EnvironmentWithoutFile(t *testing.T) {
	t.Setenv(PersistEnv, "1")
	t.Setenv("SERCHA_SEARCH_LOCATION", "file:///srv")

	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)
	settings, err := store.Settings()
	require.NoError(t, err)

	assert.True(t, settings.Persist)
	assert.Equal(t, "file:///srv", settings.SearchLocation)
}

func TestSettingsStore_InvalidEnvironment(t *testing.T) {
	t.Setenv("SERCHA_ENGINE_HIT_LIMIT", "many")

	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Settings()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsStore_SetPersists(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set(KeySearchLocation, "file:///srv"))
	require.NoError(t, store.Set(KeyInactivityTimeout, "45s"))
	require.NoError(t, store.Set(KeyPersist, "true"))
	require.NoError(t, store.Set(KeyIconSize, "96"))

	value, ok := store.Get(KeySearchLocation)
	assert.True(t, ok)
	assert.Equal(t, "file:///srv", value)

	reopened, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)
	settings, err := reopened.Settings()
	require.NoError(t, err)

	assert.Equal(t, "file:///srv", settings.SearchLocation)
	assert.Equal(t, 45*time.Second, settings.InactivityTimeout)
	assert.True(t, settings.Persist)
	assert.Equal(t, 96, settings.IconSize)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSettingsStore_SetClears(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyBusName, "org.example.Search"))
	require.NoError(t, store.Set(KeyBusName, ""))

	_, ok := store.Get(KeyBusName)
	assert.False(t, ok)
}

func TestSettingsStore_SetInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "colour", "blue"},
		{"bad duration", KeyInactivityTimeout, "soon"},
		{"negative duration", KeyInactivityTimeout, "-5s"},
		{"bad bool", KeyPersist, "maybe"},
		{"bad int", KeyEngineHitLimit, "lots"},
		{"negative int", KeyIconSize, "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewSettingsStore(t.TempDir())
			require.NoError(t, err)

			err = store.Set(tt.key, tt.value)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, statErr := os.Stat(store.Path())
			assert.True(t, os.IsNotExist(statErr), "nothing written on failure")
		})
	}
}

func TestSettingsStore_Keys(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	got := store.Keys()
	require.Len(t, got, 14)
	for _, key := range got {
		_, _ = store.Get(key)
		assert.NoError(t, store.Set(key, ""), key)
	}
}
