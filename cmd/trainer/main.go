// Command trainer sends trainer commands to a running naosoccer monitor.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/vk/naosoccer/internal/app"
	"github.com/vk/naosoccer/internal/cli"
	"github.com/vk/naosoccer/internal/ctxlog"
	"github.com/vk/naosoccer/internal/trainer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		code := 1
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(code)
	}
}

func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.ParseTrainer(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := app.NewLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)

	client := &trainer.Client{
		URL:                cfg.URL,
		Namespace:          cfg.Namespace,
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	if err := client.Send(ctx, cfg.Commands...); err != nil {
		return err
	}
	fmt.Fprintf(outW, "%d command(s) accepted\n", len(cfg.Commands))
	return nil
}
