package trainer

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/naosoccer/internal/gamecontrol"
	"github.com/vk/naosoccer/internal/monitor"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// serveMonitor serves a monitor wired to the fixture's aspects on a loopback
// port and returns its URL. The server stops when the test ends.
func serveMonitor(t *testing.T, f *fixture) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	d := monitor.NewDispatcher()
	d.RegisterParserFactory(ParserName, NewParserFactory(f.tree, serverPath))
	require.NoError(t, d.RegisterCommandParser(ctx, ParserName))

	s := monitor.NewServer(f.tree, d)
	monitor.RegisterCoreItems(s, serverPath+"gamecontrol")
	require.NoError(t, s.RegisterMonitorItem(ctx, monitor.GameStateItemName))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln, 20*time.Millisecond) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("monitor server did not stop")
		}
	})
	return "http://" + ln.Addr().String()
}

func newTestClient(url string) *Client {
	c := NewClient(url)
	c.Timeout = 5 * time.Second
	return c
}

func TestDecodeAck(t *testing.T) {
	a := decodeAck([]any{map[string]any{"ok": true, "command": "(dropBall)"}})
	require.NoError(t, a.err)
	assert.True(t, a.ok)
	assert.Equal(t, "(dropBall)", a.command)

	a = decodeAck([]any{map[string]any{"ok": false, "error": "boom"}})
	require.NoError(t, a.err)
	assert.False(t, a.ok)
	assert.Equal(t, "boom", a.reason)

	assert.Error(t, decodeAck(nil).err)
	assert.Error(t, decodeAck([]any{"ok"}).err)
}

func TestClientSend_NoCommands(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	assert.NoError(t, c.Send(context.Background()))
}

func TestClientSend_RelativeURL(t *testing.T) {
	c := NewClient("localhost")
	err := c.Send(context.Background(), DropBallCommand())
	assert.ErrorContains(t, err, "must be absolute")
}

func TestClientSend_AppliesCommands(t *testing.T) {
	f := newFixture(t)
	c := newTestClient(serveMonitor(t, f))

	require.NoError(t, c.Send(context.Background(), "(time 12)", "(score 2 1)", KickOffCommand(gamecontrol.TeamRight)))

	assert.Equal(t, 12.0, f.game.Time())
	l, r := f.game.Scores()
	assert.Equal(t, 2, l)
	assert.Equal(t, 1, r)
	assert.Equal(t, gamecontrol.KickOffRight, f.game.PlayMode())
}

func TestClientSend_ReportsTheRejectedCommand(t *testing.T) {
	f := newFixture(t)
	c := newTestClient(serveMonitor(t, f))

	err := c.Send(context.Background(), "(time 12)", "(score 2 1)", "(bogus)", "(time 99)")

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "(bogus)", rejected.Command)
	assert.Contains(t, rejected.Reason, `unknown command "bogus"`)

	// commands before the rejection were applied; the one after was never sent
	assert.Equal(t, 12.0, f.game.Time())
	l, r := f.game.Scores()
	assert.Equal(t, 2, l)
	assert.Equal(t, 1, r)
}

func TestClientSend_RejectsNonFinite(t *testing.T) {
	f := newFixture(t)
	c := newTestClient(serveMonitor(t, f))

	err := c.Send(context.Background(), "(time Inf)")
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "(time Inf)", rejected.Command)
	assert.Equal(t, 0.0, f.game.Time())
}

func TestClientSend_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := NewClient("http://" + addr)
	c.Timeout = 2 * time.Second
	assert.Error(t, c.Send(context.Background(), DropBallCommand()))
}

func TestMonitorStreamsFrames(t *testing.T) {
	f := newFixture(t)
	f.game.SetTime(7)
	url := serveMonitor(t, f)

	opts := socket.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.WebSocket))
	io := socket.NewManager(url, opts).Socket("/", opts)
	defer io.Disconnect()

	frames := make(chan map[string]any, 1)
	io.On(types.EventName(monitor.EventFrame), func(data ...any) {
		if len(data) == 0 {
			return
		}
		if m, ok := data[0].(map[string]any); ok {
			select {
			case frames <- m:
			default:
			}
		}
	})
	io.Connect()

	select {
	case frame := <-frames:
		assert.Contains(t, frame, "seq")
		assert.Contains(t, frame, "at")
		items, ok := frame["items"].([]any)
		require.True(t, ok, "items is %T", frame["items"])
		require.Len(t, items, 1)
		item, ok := items[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, monitor.GameStateItemName, item["name"])
		data, ok := item["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 7.0, data["time"])
	case <-time.After(5 * time.Second):
		t.Fatal("no frame received")
	}
}

func TestRejectedError(t *testing.T) {
	err := &RejectedError{Command: "(dropBall)", Reason: "no parsers"}
	assert.Equal(t, "command (dropBall) rejected: no parsers", err.Error())
}
