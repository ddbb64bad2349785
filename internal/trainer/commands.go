// Package trainer implements trainer commands: the TrainerCommandParser that
// the host installs into its monitor-command dispatcher, and a client that
// sends the same commands to a served monitor.
//
// Commands are S-expressions such as
//
//	(ball (pos 0 0 0.042) (vel 1 0 0))
//	(agent (unum 1) (team Left) (pos -4 0 0.375))
//	(kickOff Left)
//	(dropBall)
//	(playMode PlayOn)
package trainer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/naosoccer/internal/gamecontrol"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatVec(v mgl64.Vec3) string {
	return formatFloat(v.X()) + " " + formatFloat(v.Y()) + " " + formatFloat(v.Z())
}

// BallCommand places the ball at pos with velocity vel.
func BallCommand(pos, vel mgl64.Vec3) string {
	return fmt.Sprintf("(ball (pos %s) (vel %s))", formatVec(pos), formatVec(vel))
}

// DropBallCommand drops the ball at its current position.
func DropBallCommand() string {
	return "(dropBall)"
}

// KickOffCommand gives the kick-off to team; TeamNone tosses a coin.
func KickOffCommand(team gamecontrol.Team) string {
	return fmt.Sprintf("(kickOff %s)", team)
}

// AgentCommand moves a player's torso to pos.
func AgentCommand(team gamecontrol.Team, unum int, pos mgl64.Vec3) string {
	return fmt.Sprintf("(agent (unum %d) (team %s) (pos %s))", unum, team, formatVec(pos))
}

// PlayModeCommand switches the play mode.
func PlayModeCommand(mode gamecontrol.PlayMode) string {
	return fmt.Sprintf("(playMode %s)", mode)
}

// TimeCommand sets the game clock.
func TimeCommand(t float64) string {
	return fmt.Sprintf("(time %s)", formatFloat(t))
}

// ScoreCommand sets both scores.
func ScoreCommand(left, right int) string {
	return fmt.Sprintf("(score %d %d)", left, right)
}

// CommandError reports a malformed or inapplicable trainer command.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("trainer command %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// fields maps the sub-lists of a command, such as (pos 1 2 3), by head.
func fields(n node) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, c := range n.list[1:] {
		h := c.head()
		if h == "" {
			return nil, fmt.Errorf("expected (name value...), got %s", c)
		}
		if _, dup := out[h]; dup {
			return nil, fmt.Errorf("duplicate field %q", h)
		}
		vals := make([]string, 0, len(c.list)-1)
		for _, v := range c.list[1:] {
			if v.isList {
				return nil, fmt.Errorf("field %q: nested list not allowed", h)
			}
			vals = append(vals, v.atom)
		}
		out[h] = vals
	}
	return out, nil
}

func parseVec(vals []string) (mgl64.Vec3, error) {
	if len(vals) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(vals))
	}
	var v mgl64.Vec3
	for i, s := range vals {
		f, ok := parseFinite(s)
		if !ok {
			return mgl64.Vec3{}, fmt.Errorf("invalid coordinate %q", s)
		}
		v[i] = f
	}
	return v, nil
}

// parseFinite parses a decimal number, refusing NaN and the infinities that
// strconv accepts by name.
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func atoms(n node) ([]string, error) {
	out := make([]string, 0, len(n.list)-1)
	for _, c := range n.list[1:] {
		if c.isList {
			return nil, fmt.Errorf("unexpected list %s", c)
		}
		out = append(out, c.atom)
	}
	return out, nil
}

func singleAtom(n node) (string, error) {
	a, err := atoms(n)
	if err != nil {
		return "", err
	}
	if len(a) != 1 {
		return "", fmt.Errorf("expected 1 argument, got %d", len(a))
	}
	return a[0], nil
}

func unknownField(f map[string][]string, allowed ...string) error {
	for k := range f {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("unknown field %q (allowed: %s)", k, strings.Join(allowed, ", "))
		}
	}
	return nil
}
