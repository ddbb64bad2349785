package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/vk/naosoccer/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// envDefaults are the flag defaults, overridable from the environment.
type envDefaults struct {
	Format          string   `env:"NAOSOCCER_FORMAT" envDefault:"text"`
	LogFormat       string   `env:"NAOSOCCER_LOG_FORMAT" envDefault:"text"`
	LogLevel        string   `env:"NAOSOCCER_LOG_LEVEL" envDefault:"info"`
	InternalMonitor bool     `env:"NAOSOCCER_INTERNAL_MONITOR"`
	BundlesPath     string   `env:"NAOSOCCER_BUNDLES"`
	ScriptsPath     string   `env:"NAOSOCCER_SCRIPTS"`
	ServerPath      string   `env:"NAOSOCCER_SERVER_PATH" envDefault:"/sys/server/"`
	ScenePath       string   `env:"NAOSOCCER_SCENE_PATH" envDefault:"/usr/scene"`
	Disable         []string `env:"NAOSOCCER_DISABLE" envSeparator:","`
	MonitorPort     int      `env:"NAOSOCCER_MONITOR_PORT"`
	HealthcheckPort int      `env:"NAOSOCCER_HEALTHCHECK_PORT"`
	RecordPath      string   `env:"NAOSOCCER_RECORD"`
}

// loadEnv parses defaults from environ, or from the process environment
// when environ is nil.
func loadEnv(target any, environ map[string]string) error {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid environment: %v", err)}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateLogging(format, level string) error {
	if format != "text" && format != "json" {
		return &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	switch level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return parse(args, output, nil)
}

func parse(args []string, output io.Writer, environ map[string]string) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	var def envDefaults
	if err := loadEnv(&def, environ); err != nil {
		return nil, false, err
	}

	flagSet := flag.NewFlagSet("naosoccer", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
naosoccer - Nao soccer simulation bootstrap.

Runs the startup sequence against the in-process simulator host and prints
the resulting parameter table. With -monitor-port it keeps serving the
socket.io monitor until interrupted.

Usage:
  naosoccer [options]

Every option defaults to the NAOSOCCER_<OPTION> environment variable, e.g.
NAOSOCCER_MONITOR_PORT=3200.

Options:
`)
		flagSet.PrintDefaults()
	}

	formatFlag := flagSet.String("format", def.Format, "Parameter output format. Options: 'text', 'json' or 'yaml'.")
	logFormatFlag := flagSet.String("log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	internalMonitorFlag := flagSet.Bool("internal-monitor", def.InternalMonitor, "Set up the internal monitor's field material.")
	bundlesFlag := flagSet.String("bundles", def.BundlesPath, "Directory with bundle manifests overriding the built-in ones.")
	scriptsFlag := flagSet.String("scripts", def.ScriptsPath, "Directory with Lua scripts overriding the built-in ones.")
	serverPathFlag := flagSet.String("server-path", def.ServerPath, "Host path of the simulator server services.")
	scenePathFlag := flagSet.String("scene-path", def.ScenePath, "Host path of the scene server.")
	disableFlag := flagSet.String("disable", strings.Join(def.Disable, ","),
		"Comma-separated services to leave out: "+strings.Join(app.Services, ", ")+".")
	monitorPortFlag := flagSet.Int("monitor-port", def.MonitorPort, "Port for the socket.io monitor server. 0 is disabled.")
	healthPortFlag := flagSet.Int("healthcheck-port", def.HealthcheckPort, "Port for the HTTP health check server. 0 is disabled.")
	recordFlag := flagSet.String("record", def.RecordPath, "SQLite file to record the run and monitor frames in.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	logLevel := strings.ToLower(*logLevelFlag)
	if err := validateLogging(logFormat, logLevel); err != nil {
		return nil, false, err
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Format:          strings.ToLower(*formatFlag),
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		InternalMonitor: *internalMonitorFlag,
		BundlesPath:     *bundlesFlag,
		ScriptsPath:     *scriptsFlag,
		ServerPath:      *serverPathFlag,
		ScenePath:       *scenePathFlag,
		Disabled:        splitList(*disableFlag),
		MonitorPort:     *monitorPortFlag,
		HealthcheckPort: *healthPortFlag,
		RecordPath:      *recordFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
