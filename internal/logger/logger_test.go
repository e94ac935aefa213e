package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type mockLoggingConfig struct {
	defaultLevel    string
	development     bool
	componentLevels map[string]string
}

func (m *mockLoggingConfig) GetDefaultLevel() string {
	return m.defaultLevel
}

func (m *mockLoggingConfig) GetComponentLevel(component string) string {
	return m.componentLevels[component]
}

func (m *mockLoggingConfig) IsDevelopment() bool {
	return m.development
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		wantErr     bool
	}{
		{name: "debug development", level: "debug", development: true},
		{name: "info production", level: "info", development: false},
		{name: "warn production", level: "warn", development: false},
		{name: "error development", level: "error", development: true},
		{name: "invalid level", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.level, tt.development)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			require.Equal(t, tt.level, l.GetLevel())
		})
	}
}

func TestNewComponentLoggerFromConfig(t *testing.T) {
	tests := []struct {
		name          string
		component     string
		config        LoggingConfig
		expectedLevel string
	}{
		{
			name:      "component with specific level",
			component: "checker",
			config: &mockLoggingConfig{
				defaultLevel: "info",
				componentLevels: map[string]string{
					"checker": "debug",
				},
			},
			expectedLevel: "debug",
		},
		{
			name:      "component using default level",
			component: "block-store",
			config: &mockLoggingConfig{
				defaultLevel:    "warn",
				componentLevels: map[string]string{},
			},
			expectedLevel: "warn",
		},
		{
			name:          "nil config uses defaults",
			component:     "rpc-client",
			config:        nil,
			expectedLevel: "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewComponentLoggerFromConfig(tt.component, tt.config)
			require.NotNil(t, logger)
			require.Equal(t, tt.component, logger.GetComponent())
			require.Equal(t, tt.expectedLevel, logger.GetLevel())
		})
	}
}

func TestWithComponent(t *testing.T) {
	l, err := NewLogger("info", false)
	require.NoError(t, err)

	child := l.WithComponent("checker")
	require.Equal(t, "checker", child.GetComponent())
	require.Equal(t, "info", child.GetLevel())
}

func TestNewNopLogger(t *testing.T) {
	l := NewNopLogger()
	require.NotNil(t, l)
	// Must not panic.
	l.Infof("discarded %d", 1)
	l.Debug("discarded")
}
