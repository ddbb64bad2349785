package trainer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/naosoccer/internal/ctxlog"
	"github.com/vk/naosoccer/internal/gamecontrol"
	"github.com/vk/naosoccer/internal/host"
	"github.com/vk/naosoccer/internal/hostpath"
	"github.com/vk/naosoccer/internal/monitor"
)

// ParserName is the name the command parser is registered under.
const ParserName = "TrainerCommandParser"

var (
	ErrGameStateUnavailable = errors.New("game state aspect is not mounted")
	ErrBallUnavailable      = errors.New("ball state aspect is not mounted")
)

// Chooser picks a value in [0, n).
type Chooser interface {
	IntN(n int) int
}

// Parser applies trainer commands to the game-control aspects mounted on the
// host. Aspects are resolved per command, so commands sent before the aspects
// are initialised fail instead of touching stale state.
type Parser struct {
	lookup          host.Lookuper
	gameControlPath hostpath.Path
	randomPath      hostpath.Path
}

// NewParser returns a parser resolving services below serverPath.
func NewParser(lookup host.Lookuper, serverPath string) (*Parser, error) {
	gc, err := hostpath.Join(serverPath, "gamecontrol")
	if err != nil {
		return nil, err
	}
	rnd, err := hostpath.Join(serverPath, "random")
	if err != nil {
		return nil, err
	}
	return &Parser{lookup: lookup, gameControlPath: gc, randomPath: rnd}, nil
}

// NewParserFactory adapts NewParser to the monitor dispatcher.
func NewParserFactory(lookup host.Lookuper, serverPath string) monitor.ParserFactory {
	return func() (monitor.CommandParser, error) {
		return NewParser(lookup, serverPath)
	}
}

func (p *Parser) Name() string { return ParserName }

// ParseCommand parses cmd, which may hold several top-level lists, and applies
// them in order. It stops at the first failing list.
func (p *Parser) ParseCommand(ctx context.Context, cmd string) error {
	nodes, err := parseSexps(cmd)
	if err != nil {
		return &CommandError{Command: cmd, Err: err}
	}
	if len(nodes) == 0 {
		return &CommandError{Command: cmd, Err: errors.New("empty command")}
	}
	logger := ctxlog.FromContext(ctx)
	for _, n := range nodes {
		if err := p.apply(n); err != nil {
			return &CommandError{Command: n.String(), Err: err}
		}
		logger.Debug("Applied trainer command.", "command", n.String())
	}
	return nil
}

func (p *Parser) apply(n node) error {
	switch h := n.head(); h {
	case "ball":
		return p.ball(n)
	case "dropBall":
		return p.dropBall(n)
	case "kickOff":
		return p.kickOff(n)
	case "agent":
		return p.agent(n)
	case "playMode":
		return p.playMode(n)
	case "time":
		return p.time(n)
	case "score":
		return p.score(n)
	case "":
		return errors.New("command must start with a name")
	default:
		return fmt.Errorf("unknown command %q", h)
	}
}

func (p *Parser) gameState() (*gamecontrol.GameState, error) {
	g, ok := host.Resolve[*gamecontrol.GameState](p.lookup, p.gameControlPath.Child(gamecontrol.GameStateAspectName).String())
	if !ok {
		return nil, ErrGameStateUnavailable
	}
	return g, nil
}

func (p *Parser) ballState() (*gamecontrol.BallState, error) {
	b, ok := host.Resolve[*gamecontrol.BallState](p.lookup, p.gameControlPath.Child(gamecontrol.BallStateAspectName).String())
	if !ok {
		return nil, ErrBallUnavailable
	}
	return b, nil
}

func (p *Parser) rule() (*gamecontrol.SoccerRule, bool) {
	return host.Resolve[*gamecontrol.SoccerRule](p.lookup, p.gameControlPath.Child(gamecontrol.SoccerRuleAspectName).String())
}

func (p *Parser) ball(n node) error {
	f, err := fields(n)
	if err != nil {
		return err
	}
	if err := unknownField(f, "pos", "vel"); err != nil {
		return err
	}
	b, err := p.ballState()
	if err != nil {
		return err
	}
	pos := b.Position()
	if raw, ok := f["pos"]; ok {
		if pos, err = parseVec(raw); err != nil {
			return fmt.Errorf("pos: %w", err)
		}
	}
	var vel mgl64.Vec3
	if raw, ok := f["vel"]; ok {
		if vel, err = parseVec(raw); err != nil {
			return fmt.Errorf("vel: %w", err)
		}
	}
	b.SetBall(pos, vel)
	return nil
}

func (p *Parser) dropBall(n node) error {
	if len(n.list) != 1 {
		return errors.New("dropBall takes no arguments")
	}
	g, err := p.gameState()
	if err != nil {
		return err
	}
	b, err := p.ballState()
	if err != nil {
		return err
	}
	pos := b.Position()
	if r, ok := p.rule(); ok {
		pos = r.ClampToField(pos)
	}
	pos[2] = b.Radius()
	b.SetBall(pos, mgl64.Vec3{})
	g.SetPlayMode(gamecontrol.PlayOn)
	return nil
}

func (p *Parser) kickOff(n node) error {
	arg, err := singleAtom(n)
	if err != nil {
		return err
	}
	team, err := gamecontrol.ParseTeam(arg)
	if err != nil {
		return err
	}
	g, err := p.gameState()
	if err != nil {
		return err
	}
	if team == gamecontrol.TeamNone {
		team = gamecontrol.TeamLeft
		if c, ok := host.Resolve[Chooser](p.lookup, p.randomPath.String()); ok && c.IntN(2) == 1 {
			team = gamecontrol.TeamRight
		}
	}
	return g.KickOff(team)
}

func (p *Parser) agent(n node) error {
	f, err := fields(n)
	if err != nil {
		return err
	}
	if err := unknownField(f, "unum", "team", "pos"); err != nil {
		return err
	}
	for _, req := range []string{"unum", "team", "pos"} {
		if _, ok := f[req]; !ok {
			return fmt.Errorf("missing field %q", req)
		}
	}
	if len(f["unum"]) != 1 {
		return errors.New("unum: expected 1 value")
	}
	unum, err := strconv.Atoi(f["unum"][0])
	if err != nil {
		return fmt.Errorf("unum: invalid number %q", f["unum"][0])
	}
	if len(f["team"]) != 1 {
		return errors.New("team: expected 1 value")
	}
	team, err := gamecontrol.ParseTeam(f["team"][0])
	if err != nil {
		return err
	}
	pos, err := parseVec(f["pos"])
	if err != nil {
		return fmt.Errorf("pos: %w", err)
	}
	g, err := p.gameState()
	if err != nil {
		return err
	}
	return g.MoveAgent(gamecontrol.AgentID{Team: team, Unum: unum}, pos)
}

func (p *Parser) playMode(n node) error {
	arg, err := singleAtom(n)
	if err != nil {
		return err
	}
	mode, err := gamecontrol.ParsePlayMode(arg)
	if err != nil {
		return err
	}
	g, err := p.gameState()
	if err != nil {
		return err
	}
	g.SetPlayMode(mode)
	return nil
}

func (p *Parser) time(n node) error {
	arg, err := singleAtom(n)
	if err != nil {
		return err
	}
	t, ok := parseFinite(arg)
	if !ok || t < 0 {
		return fmt.Errorf("invalid time %q", arg)
	}
	g, err := p.gameState()
	if err != nil {
		return err
	}
	g.SetTime(t)
	return nil
}

func (p *Parser) score(n node) error {
	args, err := atoms(n)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("expected 2 scores, got %d", len(args))
	}
	var s [2]int
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid score %q", a)
		}
		s[i] = v
	}
	g, err := p.gameState()
	if err != nil {
		return err
	}
	g.SetScores(s[0], s[1])
	return nil
}
