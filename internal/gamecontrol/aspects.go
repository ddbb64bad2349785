package gamecontrol

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/naosoccer/internal/params"
	"github.com/vk/naosoccer/internal/soccer"
)

const (
	GameStateAspectName  = "GameStateAspect"
	BallStateAspectName  = "BallStateAspect"
	SoccerRuleAspectName = "SoccerRuleAspect"
)

// maxUnum is the highest uniform number a team may field.
const maxUnum = 11

// RegisterCoreAspects registers the soccer aspect factories.
func RegisterCoreAspects(s *Server) {
	s.RegisterFactory(GameStateAspectName, func(ctx context.Context, reg *params.Registry) (Aspect, error) {
		return NewGameState(), nil
	})
	s.RegisterFactory(BallStateAspectName, func(ctx context.Context, reg *params.Registry) (Aspect, error) {
		radius, err := reg.Float(soccer.Namespace, "BallRadius")
		if err != nil {
			return nil, err
		}
		return NewBallState(radius), nil
	})
	s.RegisterFactory(SoccerRuleAspectName, func(ctx context.Context, reg *params.Registry) (Aspect, error) {
		p, err := soccer.Decode(reg)
		if err != nil {
			return nil, err
		}
		return NewSoccerRule(p), nil
	})
}

// GameState tracks time, score, play mode and agent placement.
type GameState struct {
	mu          sync.RWMutex
	time        float64
	scores      [2]int
	mode        PlayMode
	lastKickOff Team
	agents      map[AgentID]mgl64.Vec3
}

// NewGameState returns a game state before kick-off.
func NewGameState() *GameState {
	return &GameState{mode: BeforeKickOff, agents: make(map[AgentID]mgl64.Vec3)}
}

func (g *GameState) Name() string { return GameStateAspectName }

// SetTime sets the game clock in seconds.
func (g *GameState) SetTime(t float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.time = t
}

// Time returns the game clock.
func (g *GameState) Time() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.time
}

// SetScores sets both team scores.
func (g *GameState) SetScores(left, right int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scores = [2]int{left, right}
}

// Scores returns the left and right scores.
func (g *GameState) Scores() (int, int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scores[0], g.scores[1]
}

// SetPlayMode switches the play mode.
func (g *GameState) SetPlayMode(m PlayMode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = m
}

// PlayMode returns the current play mode.
func (g *GameState) PlayMode() PlayMode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mode
}

// KickOff gives the kick-off to team.
func (g *GameState) KickOff(team Team) error {
	var m PlayMode
	switch team {
	case TeamLeft:
		m = KickOffLeft
	case TeamRight:
		m = KickOffRight
	default:
		return fmt.Errorf("kick off: a team must be chosen")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = m
	g.lastKickOff = team
	return nil
}

// LastKickOff returns the team that last got a kick-off.
func (g *GameState) LastKickOff() Team {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lastKickOff
}

// MoveAgent records the pose of a player.
func (g *GameState) MoveAgent(id AgentID, pos mgl64.Vec3) error {
	if id.Team == TeamNone {
		return fmt.Errorf("move agent: team required")
	}
	if id.Unum < 1 || id.Unum > maxUnum {
		return fmt.Errorf("move agent: uniform number %d out of range 1..%d", id.Unum, maxUnum)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.agents[id] = pos
	return nil
}

// Agent returns the last recorded pose of a player.
func (g *GameState) Agent(id AgentID) (mgl64.Vec3, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	pos, ok := g.agents[id]
	return pos, ok
}

// Snapshot returns a monitor-friendly view.
func (g *GameState) Snapshot() map[string]any {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids := make([]AgentID, 0, len(g.agents))
	for id := range g.agents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Team != ids[j].Team {
			return ids[i].Team < ids[j].Team
		}
		return ids[i].Unum < ids[j].Unum
	})
	agents := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		pos := g.agents[id]
		agents = append(agents, map[string]any{
			"team": id.Team.String(),
			"unum": id.Unum,
			"pos":  []float64{pos.X(), pos.Y(), pos.Z()},
		})
	}

	return map[string]any{
		"time":        g.time,
		"score_left":  g.scores[0],
		"score_right": g.scores[1],
		"play_mode":   string(g.mode),
		"agents":      agents,
	}
}

// BallState tracks the ball's position and velocity.
type BallState struct {
	mu     sync.RWMutex
	radius float64
	pos    mgl64.Vec3
	vel    mgl64.Vec3
}

// NewBallState returns a resting ball at the kick-off spot.
func NewBallState(radius float64) *BallState {
	return &BallState{radius: radius, pos: mgl64.Vec3{0, 0, radius}}
}

func (b *BallState) Name() string { return BallStateAspectName }

// Radius returns the ball radius.
func (b *BallState) Radius() float64 { return b.radius }

// SetBall places the ball.
func (b *BallState) SetBall(pos, vel mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pos = pos
	b.vel = vel
}

// Position returns the ball position.
func (b *BallState) Position() mgl64.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pos
}

// Velocity returns the ball velocity.
func (b *BallState) Velocity() mgl64.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.vel
}

// Snapshot returns a monitor-friendly view.
func (b *BallState) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return map[string]any{
		"pos": []float64{b.pos.X(), b.pos.Y(), b.pos.Z()},
		"vel": []float64{b.vel.X(), b.vel.Y(), b.vel.Z()},
	}
}

// SoccerRule exposes the rule parameters and field geometry.
type SoccerRule struct {
	params soccer.Params
}

// NewSoccerRule copies p.
func NewSoccerRule(p *soccer.Params) *SoccerRule {
	return &SoccerRule{params: *p}
}

func (r *SoccerRule) Name() string { return SoccerRuleAspectName }

// Params returns a copy of the rule parameters.
func (r *SoccerRule) Params() soccer.Params { return r.params }

// ClampToField moves pos onto the field, keeping z.
func (r *SoccerRule) ClampToField(pos mgl64.Vec3) mgl64.Vec3 {
	hl, hw := r.params.FieldLength/2, r.params.FieldWidth/2
	return mgl64.Vec3{
		math.Max(-hl, math.Min(hl, pos.X())),
		math.Max(-hw, math.Min(hw, pos.Y())),
		pos.Z(),
	}
}

// InField reports whether pos lies on the field surface bounds.
func (r *SoccerRule) InField(pos mgl64.Vec3) bool {
	return math.Abs(pos.X()) <= r.params.FieldLength/2 && math.Abs(pos.Y()) <= r.params.FieldWidth/2
}

// Snapshot returns the rule values monitors display.
func (r *SoccerRule) Snapshot() map[string]any {
	p := r.params
	return map[string]any{
		"field_length":    p.FieldLength,
		"field_width":     p.FieldWidth,
		"goal_width":      p.GoalWidth,
		"half_time":       p.RuleHalfTime,
		"single_half":     p.SingleHalfTime,
		"use_offside":     p.UseOffside,
		"use_charging":    p.UseCharging,
		"drop_ball_time":  p.RuleDropBallTime,
		"goal_pause_time": p.RuleGoalPauseTime,
	}
}
