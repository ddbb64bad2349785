package app

import (
	"fmt"
	"slices"

	"github.com/vk/naosoccer/internal/hostpath"
)

// Services that can be switched off for degraded runs.
const (
	ServiceRandom      = "random"
	ServiceScene       = "scene"
	ServiceGameControl = "gamecontrol"
	ServiceMonitor     = "monitor"
	ServiceCommands    = "commands"
)

// Services lists every service name Disabled accepts.
var Services = []string{ServiceRandom, ServiceScene, ServiceGameControl, ServiceMonitor, ServiceCommands}

// Output formats of the parameter dump.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Format string // parameter dump format

	LogFormat string
	LogLevel  string

	InternalMonitor bool
	BundlesPath     string // directory overriding the embedded bundles
	ScriptsPath     string // directory overriding the embedded scripts
	ServerPath      string
	ScenePath       string
	Disabled        []string

	MonitorPort     int
	HealthcheckPort int
	RecordPath      string // SQLite game log
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Format {
	case "":
		cfg.Format = FormatText
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("invalid format %q: must be one of text, json, yaml", cfg.Format)
	}
	if cfg.ServerPath == "" {
		cfg.ServerPath = "/sys/server/"
	}
	if cfg.ScenePath == "" {
		cfg.ScenePath = "/usr/scene"
	}
	for name, p := range map[string]string{"server path": cfg.ServerPath, "scene path": cfg.ScenePath} {
		if _, err := hostpath.Parse(p); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	for _, svc := range cfg.Disabled {
		if !slices.Contains(Services, svc) {
			return nil, fmt.Errorf("cannot disable unknown service %q", svc)
		}
	}
	for name, port := range map[string]int{"monitor port": cfg.MonitorPort, "healthcheck port": cfg.HealthcheckPort} {
		if port < 0 || port > 65535 {
			return nil, fmt.Errorf("invalid %s %d", name, port)
		}
	}
	if cfg.MonitorPort > 0 && !cfg.Enabled(ServiceMonitor) {
		return nil, fmt.Errorf("monitor port set but the monitor service is disabled")
	}
	return &cfg, nil
}

// Enabled reports whether svc was not disabled.
func (c *Config) Enabled(svc string) bool {
	return !slices.Contains(c.Disabled, svc)
}
