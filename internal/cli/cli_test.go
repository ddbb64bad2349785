package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/naosoccer/internal/app"
)

func TestParse_Defaults(t *testing.T) {
	cfg, exit, err := parse(nil, &bytes.Buffer{}, map[string]string{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, &app.Config{
		Format:     app.FormatText,
		LogFormat:  "text",
		LogLevel:   "info",
		ServerPath: "/sys/server/",
		ScenePath:  "/usr/scene",
	}, cfg)
}

func TestParse_Flags(t *testing.T) {
	args := []string{
		"-format", "YAML",
		"-log-format", "json",
		"-log-level", "debug",
		"-internal-monitor",
		"-bundles", "/tmp/bundles",
		"-scripts", "/tmp/scripts",
		"-server-path", "/srv/",
		"-scene-path", "/scene",
		"-disable", "random, scene",
		"-monitor-port", "3200",
		"-healthcheck-port", "8080",
		"-record", "game.db",
	}
	cfg, exit, err := parse(args, &bytes.Buffer{}, map[string]string{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, &app.Config{
		Format:          app.FormatYAML,
		LogFormat:       "json",
		LogLevel:        "debug",
		InternalMonitor: true,
		BundlesPath:     "/tmp/bundles",
		ScriptsPath:     "/tmp/scripts",
		ServerPath:      "/srv/",
		ScenePath:       "/scene",
		Disabled:        []string{"random", "scene"},
		MonitorPort:     3200,
		HealthcheckPort: 8080,
		RecordPath:      "game.db",
	}, cfg)
}

func TestParse_EnvDefaults(t *testing.T) {
	environ := map[string]string{
		"NAOSOCCER_FORMAT":           "json",
		"NAOSOCCER_DISABLE":          "monitor,commands",
		"NAOSOCCER_HEALTHCHECK_PORT": "9000",
		"NAOSOCCER_INTERNAL_MONITOR": "true",
	}

	cfg, _, err := parse(nil, &bytes.Buffer{}, environ)
	require.NoError(t, err)
	assert.Equal(t, app.FormatJSON, cfg.Format)
	assert.Equal(t, []string{"monitor", "commands"}, cfg.Disabled)
	assert.Equal(t, 9000, cfg.HealthcheckPort)
	assert.True(t, cfg.InternalMonitor)

	// flags win over the environment
	cfg, _, err = parse([]string{"-format", "text", "-disable", ""}, &bytes.Buffer{}, environ)
	require.NoError(t, err)
	assert.Equal(t, app.FormatText, cfg.Format)
	assert.Empty(t, cfg.Disabled)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := parse([]string{"-h"}, out, map[string]string{})
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "-monitor-port")
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		environ map[string]string
		wantMsg string
	}{
		{name: "unknown flag", args: []string{"-nope"}, wantMsg: "flag provided but not defined"},
		{name: "positional", args: []string{"grid.hcl"}, wantMsg: "unexpected arguments"},
		{name: "log format", args: []string{"-log-format", "xml"}, wantMsg: "invalid log-format"},
		{name: "log level", args: []string{"-log-level", "loud"}, wantMsg: "invalid log-level"},
		{name: "format", args: []string{"-format", "csv"}, wantMsg: "invalid format"},
		{name: "disable", args: []string{"-disable", "physics"}, wantMsg: "unknown service"},
		{name: "env port", environ: map[string]string{"NAOSOCCER_MONITOR_PORT": "abc"}, wantMsg: "invalid environment"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			environ := tc.environ
			if environ == nil {
				environ = map[string]string{}
			}
			_, _, err := parse(tc.args, &bytes.Buffer{}, environ)
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

func TestParseTrainer(t *testing.T) {
	cfg, exit, err := parseTrainer(
		[]string{"-url", "http://sim:3200", "-timeout", "2s", "(dropBall)", "(kickOff Left)"},
		&bytes.Buffer{}, map[string]string{})
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, &TrainerConfig{
		URL:       "http://sim:3200",
		Namespace: "/",
		Timeout:   2 * time.Second,
		LogFormat: "text",
		LogLevel:  "info",
		Commands:  []string{"(dropBall)", "(kickOff Left)"},
	}, cfg)
}

func TestParseTrainer_EnvURL(t *testing.T) {
	cfg, _, err := parseTrainer([]string{"(dropBall)"}, &bytes.Buffer{},
		map[string]string{"NAOSOCCER_MONITOR_URL": "https://field:443"})
	require.NoError(t, err)
	assert.Equal(t, "https://field:443", cfg.URL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestParseTrainer_NoCommandsPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := parseTrainer(nil, out, map[string]string{})
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "COMMAND...")
}

func TestParseTrainer_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"-url", "localhost", "(dropBall)"},
		{"-timeout", "0s", "(dropBall)"},
		{"-log-level", "loud", "(dropBall)"},
		{"-bogus"},
	} {
		_, _, err := parseTrainer(args, &bytes.Buffer{}, map[string]string{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr, "%v", args)
		assert.Equal(t, 2, exitErr.Code)
	}
}
