package trainer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/naosoccer/internal/ctxlog"
	"github.com/vk/naosoccer/internal/gamecontrol"
	"github.com/vk/naosoccer/internal/monitor"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds a Send call when the client has none configured.
const DefaultTimeout = 10 * time.Second

// RejectedError is a command the monitor acknowledged with ok=false.
type RejectedError struct {
	Command string
	Reason  string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("command %s rejected: %s", e.Command, e.Reason)
}

// Client sends trainer commands to a served monitor over socket.io.
type Client struct {
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// NewClient returns a client for the monitor at rawURL on the root namespace.
func NewClient(rawURL string) *Client {
	return &Client{URL: rawURL, Namespace: "/", Timeout: DefaultTimeout}
}

type ack struct {
	command string
	ok      bool
	reason  string
	err     error
}

func decodeAck(data []any) ack {
	if len(data) == 0 {
		return ack{err: errors.New("empty command_result")}
	}
	m, ok := data[0].(map[string]any)
	if !ok {
		return ack{err: fmt.Errorf("unexpected command_result payload %T", data[0])}
	}
	a := ack{}
	a.ok, _ = m["ok"].(bool)
	a.reason, _ = m["error"].(string)
	a.command, _ = m["command"].(string)
	return a
}

// Send connects and emits the commands one at a time, each after the
// previous one was acknowledged. It stops at the first rejection; later
// commands are not sent.
func (c *Client) Send(ctx context.Context, cmds ...string) error {
	if len(cmds) == 0 {
		return nil
	}
	logger := ctxlog.FromContext(ctx).With("component", "trainer-client", "url", c.URL)

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsedURL, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("monitor URL %q must be absolute", c.URL)
	}
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	if c.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	ns := c.Namespace
	if ns == "" {
		ns = "/"
	}
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(ns, opts)
	defer io.Disconnect()

	connected := make(chan struct{})
	connErr := make(chan error, 1)
	acks := make(chan ack, 1)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to monitor.", "sid", io.Id())
		close(connected)
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection failed")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connErr <- err:
		default:
		}
	})
	io.On(types.EventName(monitor.EventCommandResult), func(data ...any) {
		select {
		case acks <- decodeAck(data):
		default:
			logger.Warn("Unexpected command result dropped.", "result", data)
		}
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		return errors.New("timed out while waiting for initial connection")
	case err := <-connErr:
		return fmt.Errorf("connect to %s: %w", c.URL, err)
	case <-connected:
	}

	for _, cmd := range cmds {
		io.Emit(monitor.EventCommand, cmd)
		select {
		case <-opCtx.Done():
			return fmt.Errorf("timed out waiting for the result of %s", cmd)
		case err := <-connErr:
			return fmt.Errorf("connection to %s lost: %w", c.URL, err)
		case a := <-acks:
			if a.err != nil {
				return a.err
			}
			if a.command != cmd {
				return fmt.Errorf("result for %q arrived while waiting for %q", a.command, cmd)
			}
			if !a.ok {
				return &RejectedError{Command: cmd, Reason: a.reason}
			}
			logger.Info("Command accepted.", "command", cmd)
		}
	}
	return nil
}

// BeamBall places the ball at rest at pos.
func (c *Client) BeamBall(ctx context.Context, pos mgl64.Vec3) error {
	return c.Send(ctx, BallCommand(pos, mgl64.Vec3{}))
}

// DropBall drops the ball where it lies.
func (c *Client) DropBall(ctx context.Context) error {
	return c.Send(ctx, DropBallCommand())
}

// KickOff starts play with a kick-off for team.
func (c *Client) KickOff(ctx context.Context, team gamecontrol.Team) error {
	return c.Send(ctx, KickOffCommand(team))
}

// MovePlayer places a player.
func (c *Client) MovePlayer(ctx context.Context, team gamecontrol.Team, unum int, pos mgl64.Vec3) error {
	return c.Send(ctx, AgentCommand(team, unum, pos))
}

// SetPlayMode switches the play mode.
func (c *Client) SetPlayMode(ctx context.Context, mode gamecontrol.PlayMode) error {
	return c.Send(ctx, PlayModeCommand(mode))
}
