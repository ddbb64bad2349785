package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		in      Config
		wantErr string
	}{
		{name: "zero value", in: Config{}},
		{name: "all formats", in: Config{Format: FormatYAML}},
		{name: "bad format", in: Config{Format: "xml"}, wantErr: "invalid format"},
		{name: "bad server path", in: Config{ServerPath: "sys/server"}, wantErr: "invalid server path"},
		{name: "bad scene path", in: Config{ScenePath: "/usr/../scene"}, wantErr: "invalid scene path"},
		{name: "unknown service", in: Config{Disabled: []string{"physics"}}, wantErr: "unknown service"},
		{name: "bad port", in: Config{MonitorPort: 70000}, wantErr: "invalid monitor port"},
		{name: "negative port", in: Config{HealthcheckPort: -1}, wantErr: "invalid healthcheck port"},
		{
			name:    "monitor port without monitor",
			in:      Config{MonitorPort: 3200, Disabled: []string{ServiceMonitor}},
			wantErr: "monitor service is disabled",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.in)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.Format)
			assert.Equal(t, "/sys/server/", cfg.ServerPath)
			assert.Equal(t, "/usr/scene", cfg.ScenePath)
		})
	}
}

func TestConfig_Enabled(t *testing.T) {
	cfg, err := NewConfig(Config{Disabled: []string{ServiceScene}})
	require.NoError(t, err)
	assert.False(t, cfg.Enabled(ServiceScene))
	assert.True(t, cfg.Enabled(ServiceRandom))
}
