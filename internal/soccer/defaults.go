// Package soccer holds the soccer simulation's parameter catalogue: the
// literal values registered at bootstrap and the typed record consumers
// decode them into.
package soccer

import "github.com/vk/naosoccer/internal/params"

const (
	// Namespace groups the soccer rule and field parameters.
	Namespace = "Soccer"
	// NaoNamespace groups parameters of the Nao robot model.
	NaoNamespace = "Nao"
)

// Param is one entry of the bootstrap table.
type Param struct {
	Namespace string
	Name      string
	Value     params.Value
}

func soccerVar(name string, v params.Value) Param {
	return Param{Namespace: Namespace, Name: name, Value: v}
}

// Defaults lists every parameter registered during bootstrap, in
// registration order.
var Defaults = []Param{
	// field dimensions in meters
	soccerVar("FieldLength", params.Number(10.0)),
	soccerVar("FieldWidth", params.Number(7.0)),
	soccerVar("FieldHeight", params.Number(40.0)),
	soccerVar("GoalWidth", params.Number(2.1)),
	soccerVar("GoalDepth", params.Number(0.6)),
	soccerVar("GoalHeight", params.Number(0.8)),
	soccerVar("PenaltyLength", params.Number(0.1)),
	soccerVar("PenaltyWidth", params.Number(0.1)),
	soccerVar("FreeKickDistance", params.Number(0)),
	soccerVar("FreeKickMoveDist", params.Number(0)),
	soccerVar("GoalKickDist", params.Number(0)),
	soccerVar("BorderSize", params.Number(0.0)),

	// game settings
	soccerVar("AutomaticKickOff", params.Bool(false)),
	soccerVar("WaitBeforeKickOff", params.Number(2.0)),
	soccerVar("CoinTossForKickOff", params.Bool(false)),
	soccerVar("AutomaticQuit", params.Bool(false)),
	soccerVar("ChangeSidesInSecondHalf", params.Bool(false)),

	// agent
	soccerVar("AgentRadius", params.Number(0.4)),
	soccerVar("MaxHeteroTypeCount", params.Number(3)),
	soccerVar("MaxTotalHeteroCount", params.Number(9)),

	// ball
	soccerVar("BallRadius", params.Number(0.042)),
	soccerVar("BallMass", params.Number(0.026)),

	// rules
	soccerVar("RuleGoalPauseTime", params.Number(3.0)),
	soccerVar("RuleKickInPauseTime", params.Number(1.0)),
	soccerVar("RuleHalfTime", params.Number(60.0*60)),
	soccerVar("RuleDropBallTime", params.Number(0)),
	soccerVar("SingleHalfTime", params.Bool(false)),
	soccerVar("UseOffside", params.Bool(false)),
	soccerVar("MaxTouchGroupSize", params.Number(2)),

	// charging fouls
	soccerVar("UseCharging", params.Bool(true)),
	soccerVar("ChargingMinSpeed", params.Number(0.2)),
	soccerVar("ChargingMinBallDist", params.Number(0.2)),
	soccerVar("IllegalInterceptMinAngle", params.Number(70)),

	// auto referee
	soccerVar("NotStandingMaxTime", params.Number(30)),
	soccerVar("GoalieNotStandingMaxTime", params.Number(60)),
	soccerVar("GroundMaxTime", params.Number(15)),
	soccerVar("GoalieGroundMaxTime", params.Number(30)),
	soccerVar("MaxPlayersInsideOwnArea", params.Number(3)),
	soccerVar("MinOppDistance", params.Number(0)),
	soccerVar("Min2PlDistance", params.Number(0)),
	soccerVar("Min3PlDistance", params.Number(0)),

	// recorders
	soccerVar("BallRecorder", params.String("Ball/geometry/recorder")),
	soccerVar("LeftGoalRecorder", params.String("leftgoal/GoalBox/BoxCollider/recorder")),
	soccerVar("RightGoalRecorder", params.String("rightgoal/GoalBox/BoxCollider/recorder")),

	{Namespace: NaoNamespace, Name: "UseTexture", Value: params.Bool(true)},
}

// RegisterDefaults registers Defaults into reg, stopping at the first error.
func RegisterDefaults(reg *params.Registry) error {
	for _, p := range Defaults {
		if err := reg.Register(p.Namespace, p.Name, p.Value); err != nil {
			return err
		}
	}
	return nil
}
