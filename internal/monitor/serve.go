package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vk/naosoccer/internal/ctxlog"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	EventFrame         = "frame"
	EventCommand       = "command"
	EventCommandResult = "command_result"
)

// DefaultFrameInterval is the frame period used when Serve gets zero.
const DefaultFrameInterval = 200 * time.Millisecond

// commandResult runs a command received from a monitor client and builds the
// acknowledgement payload. The payload echoes the command so clients can
// pair it with what they sent.
func (s *Server) commandResult(ctx context.Context, args []any) map[string]any {
	result := func(cmd string, err error) map[string]any {
		if err != nil {
			return map[string]any{"ok": false, "error": err.Error(), "command": cmd}
		}
		return map[string]any{"ok": true, "error": "", "command": cmd}
	}
	if len(args) == 0 {
		return result("", errors.New("command event without payload"))
	}
	cmd, ok := args[0].(string)
	if !ok {
		return result("", fmt.Errorf("command must be a string, got %T", args[0]))
	}
	if s.dispatcher == nil {
		return result(cmd, ErrNoParsers)
	}
	return result(cmd, s.dispatcher.Dispatch(ctx, cmd))
}

func (s *Server) newSocketServer(ctx context.Context) *socket.Server {
	io := socket.NewServer(nil, nil)
	io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		session := uuid.NewString()
		logger := ctxlog.FromContext(ctx).With("sid", client.Id(), "session", session)
		logger.Info("Monitor client connected.")
		cctx := ctxlog.WithLogger(ctx, logger)

		client.On(EventCommand, func(args ...any) {
			client.Emit(EventCommandResult, s.commandResult(cctx, args))
		})
		client.On("disconnect", func(reason ...any) {
			logger.Info("Monitor client disconnected.", "reason", reason)
		})
	})
	return io
}

// Serve streams frames to socket.io clients on addr until ctx is cancelled.
// A frame sink error is logged and does not stop serving.
func (s *Server) Serve(ctx context.Context, addr string, interval time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("monitor listen: %w", err)
	}
	return s.ServeListener(ctx, ln, interval)
}

// ServeListener is Serve on an existing listener, which it closes on return.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener, interval time.Duration) error {
	logger := ctxlog.FromContext(ctx)
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	io := s.newSocketServer(ctx)
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io.ServeHandler(nil))
	srv := &http.Server{Handler: mux}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("📡 Monitor server starting", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("📡 Shutting down monitor server...")
			io.Close(nil)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("monitor shutdown: %w", err)
			}
			return nil
		case err, ok := <-serveErr:
			if ok && err != nil {
				return fmt.Errorf("monitor server failed: %w", err)
			}
			return nil
		case <-ticker.C:
			f, err := s.Tick(ctx)
			if err != nil {
				logger.Warn("Monitor frame failed.", "error", err)
				if f == nil {
					continue
				}
			}
			io.Emit(EventFrame, f.Payload())
		}
	}
}
