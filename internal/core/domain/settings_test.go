package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultProviderSettings(t *testing.T) {
	s := DefaultProviderSettings()

	assert.Equal(t, 12*time.Second, s.InactivityTimeout)
	assert.Equal(t, DefaultBusName, s.BusName)
	assert.Equal(t, DefaultObjectPath, s.ObjectPath)
	assert.Equal(t, "plocate", s.LocateCommand)
	assert.False(t, s.Persist)
	assert.Empty(t, s.SearchLocation)
	assert.Empty(t, s.MetricsEndpoint)
}

func TestProviderSettings_Normalise(t *testing.T) {
	tests := []struct {
		name   string
		input  ProviderSettings
		verify func(t *testing.T, s ProviderSettings)
	}{
		{
			name:  "zero values get defaults",
			input: ProviderSettings{},
			verify: func(t *testing.T, s ProviderSettings) {
				assert.Equal(t, DefaultInactivityTimeout, s.InactivityTimeout)
				assert.Equal(t, DefaultBusName, s.BusName)
				assert.Equal(t, DefaultObjectPath, s.ObjectPath)
				assert.Equal(t, DefaultLocateCommand, s.LocateCommand)
				assert.Equal(t, DefaultEngineHitLimit, s.EngineHitLimit)
				assert.Equal(t, DefaultIconSize, s.IconSize)
				assert.Equal(t, 1, s.ResolveConcurrency)
			},
		},
		{
			name:  "negative timeout replaced",
			input: ProviderSettings{InactivityTimeout: -time.Second},
			verify: func(t *testing.T, s ProviderSettings) {
				assert.Equal(t, DefaultInactivityTimeout, s.InactivityTimeout)
			},
		},
		{
			name:  "concurrency clamped",
			input: ProviderSettings{ResolveConcurrency: 500},
			verify: func(t *testing.T, s ProviderSettings) {
				assert.Equal(t, 64, s.ResolveConcurrency)
			},
		},
		{
			name: "explicit values kept",
			input: ProviderSettings{
				SearchLocation:     "file:///srv",
				InactivityTimeout:  time.Minute,
				BusName:            "org.example.Search",
				LocateCommand:      "mlocate",
				EngineHitLimit:     50,
				ResolveConcurrency: 4,
			},
			verify: func(t *testing.T, s ProviderSettings) {
				assert.Equal(t, "file:///srv", s.SearchLocation)
				assert.Equal(t, time.Minute, s.InactivityTimeout)
				assert.Equal(t, "org.example.Search", s.BusName)
				assert.Equal(t, "mlocate", s.LocateCommand)
				assert.Equal(t, 50, s.EngineHitLimit)
				assert.Equal(t, 4, s.ResolveConcurrency)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.input
			s.Normalise()
			tt.verify(t, s)
		})
	}
}
