package soccer

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/naosoccer/internal/params"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Params is the typed view of the Soccer namespace.
type Params struct {
	FieldLength      float64 `cty:"FieldLength"`
	FieldWidth       float64 `cty:"FieldWidth"`
	FieldHeight      float64 `cty:"FieldHeight"`
	GoalWidth        float64 `cty:"GoalWidth"`
	GoalDepth        float64 `cty:"GoalDepth"`
	GoalHeight       float64 `cty:"GoalHeight"`
	PenaltyLength    float64 `cty:"PenaltyLength"`
	PenaltyWidth     float64 `cty:"PenaltyWidth"`
	FreeKickDistance float64 `cty:"FreeKickDistance"`
	FreeKickMoveDist float64 `cty:"FreeKickMoveDist"`
	GoalKickDist     float64 `cty:"GoalKickDist"`
	BorderSize       float64 `cty:"BorderSize"`

	AutomaticKickOff        bool    `cty:"AutomaticKickOff"`
	WaitBeforeKickOff       float64 `cty:"WaitBeforeKickOff"`
	CoinTossForKickOff      bool    `cty:"CoinTossForKickOff"`
	AutomaticQuit           bool    `cty:"AutomaticQuit"`
	ChangeSidesInSecondHalf bool    `cty:"ChangeSidesInSecondHalf"`

	AgentRadius         float64 `cty:"AgentRadius"`
	MaxHeteroTypeCount  int     `cty:"MaxHeteroTypeCount"`
	MaxTotalHeteroCount int     `cty:"MaxTotalHeteroCount"`

	BallRadius float64 `cty:"BallRadius"`
	BallMass   float64 `cty:"BallMass"`

	RuleGoalPauseTime   float64 `cty:"RuleGoalPauseTime"`
	RuleKickInPauseTime float64 `cty:"RuleKickInPauseTime"`
	RuleHalfTime        float64 `cty:"RuleHalfTime"`
	RuleDropBallTime    float64 `cty:"RuleDropBallTime"`
	SingleHalfTime      bool    `cty:"SingleHalfTime"`
	UseOffside          bool    `cty:"UseOffside"`
	MaxTouchGroupSize   int     `cty:"MaxTouchGroupSize"`

	UseCharging              bool    `cty:"UseCharging"`
	ChargingMinSpeed         float64 `cty:"ChargingMinSpeed"`
	ChargingMinBallDist      float64 `cty:"ChargingMinBallDist"`
	IllegalInterceptMinAngle float64 `cty:"IllegalInterceptMinAngle"`

	NotStandingMaxTime       float64 `cty:"NotStandingMaxTime"`
	GoalieNotStandingMaxTime float64 `cty:"GoalieNotStandingMaxTime"`
	GroundMaxTime            float64 `cty:"GroundMaxTime"`
	GoalieGroundMaxTime      float64 `cty:"GoalieGroundMaxTime"`
	MaxPlayersInsideOwnArea  int     `cty:"MaxPlayersInsideOwnArea"`
	MinOppDistance           float64 `cty:"MinOppDistance"`
	Min2PlDistance           float64 `cty:"Min2PlDistance"`
	Min3PlDistance           float64 `cty:"Min3PlDistance"`

	BallRecorder      string `cty:"BallRecorder"`
	LeftGoalRecorder  string `cty:"LeftGoalRecorder"`
	RightGoalRecorder string `cty:"RightGoalRecorder"`
}

// paramNames lists the cty tags of Params. Decoding selects exactly these
// so that extra Soccer parameters added by scripts do not break it.
var paramNames = func() []string {
	t := reflect.TypeOf(Params{})
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		names = append(names, strings.Split(t.Field(i).Tag.Get("cty"), ",")[0])
	}
	return names
}()

// Decode builds the typed record from the Soccer namespace of reg.
func Decode(reg *params.Registry) (*Params, error) {
	obj, err := reg.Object(Namespace, paramNames...)
	if err != nil {
		return nil, fmt.Errorf("decode soccer params: %w", err)
	}
	var p Params
	if err := gocty.FromCtyValue(obj, &p); err != nil {
		return nil, fmt.Errorf("decode soccer params: %w", err)
	}
	return &p, nil
}

// NaoParams is the typed view of the Nao namespace.
type NaoParams struct {
	UseTexture bool `cty:"UseTexture"`
}

// DecodeNao builds the typed Nao record from reg.
func DecodeNao(reg *params.Registry) (*NaoParams, error) {
	obj, err := reg.Object(NaoNamespace, "UseTexture")
	if err != nil {
		return nil, fmt.Errorf("decode nao params: %w", err)
	}
	var p NaoParams
	if err := gocty.FromCtyValue(obj, &p); err != nil {
		return nil, fmt.Errorf("decode nao params: %w", err)
	}
	return &p, nil
}
