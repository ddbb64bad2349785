package cli

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

// TrainerConfig configures the trainer command line tool.
type TrainerConfig struct {
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
	LogFormat          string
	LogLevel           string
	Commands           []string
}

type trainerEnvDefaults struct {
	URL       string        `env:"NAOSOCCER_MONITOR_URL" envDefault:"http://localhost:3200"`
	Namespace string        `env:"NAOSOCCER_MONITOR_NAMESPACE" envDefault:"/"`
	Timeout   time.Duration `env:"NAOSOCCER_TRAINER_TIMEOUT" envDefault:"10s"`
	LogFormat string        `env:"NAOSOCCER_LOG_FORMAT" envDefault:"text"`
	LogLevel  string        `env:"NAOSOCCER_LOG_LEVEL" envDefault:"info"`
}

// ParseTrainer processes the trainer tool's arguments. Positional arguments
// are trainer commands, sent in order.
func ParseTrainer(args []string, output io.Writer) (*TrainerConfig, bool, error) {
	return parseTrainer(args, output, nil)
}

func parseTrainer(args []string, output io.Writer, environ map[string]string) (*TrainerConfig, bool, error) {
	var def trainerEnvDefaults
	if err := loadEnv(&def, environ); err != nil {
		return nil, false, err
	}

	flagSet := flag.NewFlagSet("trainer", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
trainer - send trainer commands to a running naosoccer monitor.

Usage:
  trainer [options] COMMAND...

Examples:
  trainer '(dropBall)'
  trainer '(ball (pos 0 0 0.042) (vel 2 0 0))' '(kickOff Left)'
  trainer '(agent (unum 1) (team Left) (pos -4 0 0.375))'

Options:
`)
		flagSet.PrintDefaults()
	}

	urlFlag := flagSet.String("url", def.URL, "Monitor server URL.")
	nsFlag := flagSet.String("namespace", def.Namespace, "socket.io namespace.")
	timeoutFlag := flagSet.Duration("timeout", def.Timeout, "Time allowed for connecting and sending all commands.")
	insecureFlag := flagSet.Bool("insecure", false, "Skip TLS certificate verification.")
	logFormatFlag := flagSet.String("log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	u, err := url.Parse(*urlFlag)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid url %q: must be absolute, e.g. http://localhost:3200", *urlFlag)}
	}
	if *timeoutFlag <= 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid timeout: must be positive"}
	}
	logFormat := strings.ToLower(*logFormatFlag)
	logLevel := strings.ToLower(*logLevelFlag)
	if err := validateLogging(logFormat, logLevel); err != nil {
		return nil, false, err
	}

	return &TrainerConfig{
		URL:                *urlFlag,
		Namespace:          *nsFlag,
		Timeout:            *timeoutFlag,
		InsecureSkipVerify: *insecureFlag,
		LogFormat:          logFormat,
		LogLevel:           logLevel,
		Commands:           flagSet.Args(),
	}, false, nil
}
