package gamecontrol

import (
	"fmt"
	"strings"
)

// Team identifies a side of the field.
type Team int

const (
	TeamNone Team = iota
	TeamLeft
	TeamRight
)

func (t Team) String() string {
	switch t {
	case TeamLeft:
		return "Left"
	case TeamRight:
		return "Right"
	default:
		return "None"
	}
}

// ParseTeam parses "Left", "Right" or "None", case-insensitively.
func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(s) {
	case "left":
		return TeamLeft, nil
	case "right":
		return TeamRight, nil
	case "none":
		return TeamNone, nil
	default:
		return TeamNone, fmt.Errorf("invalid team %q", s)
	}
}

// PlayMode is a referee play mode as reported to monitors.
type PlayMode string

const (
	BeforeKickOff   PlayMode = "BeforeKickOff"
	KickOffLeft     PlayMode = "KickOff_Left"
	KickOffRight    PlayMode = "KickOff_Right"
	PlayOn          PlayMode = "PlayOn"
	KickInLeft      PlayMode = "KickIn_Left"
	KickInRight     PlayMode = "KickIn_Right"
	CornerKickLeft  PlayMode = "corner_kick_left"
	CornerKickRight PlayMode = "corner_kick_right"
	GoalKickLeft    PlayMode = "goal_kick_left"
	GoalKickRight   PlayMode = "goal_kick_right"
	OffsideLeft     PlayMode = "offside_left"
	OffsideRight    PlayMode = "offside_right"
	GameOver        PlayMode = "GameOver"
	GoalLeft        PlayMode = "Goal_Left"
	GoalRight       PlayMode = "Goal_Right"
	FreeKickLeft    PlayMode = "free_kick_left"
	FreeKickRight   PlayMode = "free_kick_right"
)

var playModes = []PlayMode{
	BeforeKickOff, KickOffLeft, KickOffRight, PlayOn, KickInLeft, KickInRight,
	CornerKickLeft, CornerKickRight, GoalKickLeft, GoalKickRight,
	OffsideLeft, OffsideRight, GameOver, GoalLeft, GoalRight,
	FreeKickLeft, FreeKickRight,
}

// ParsePlayMode validates a play mode name. Names are case-sensitive.
func ParsePlayMode(s string) (PlayMode, error) {
	for _, m := range playModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid play mode %q", s)
}

// AgentID identifies a player.
type AgentID struct {
	Team Team
	Unum int
}

func (id AgentID) String() string {
	return fmt.Sprintf("%s/%d", id.Team, id.Unum)
}
