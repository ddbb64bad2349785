package soccer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/naosoccer/internal/params"
)

func TestDefaults_UniqueKeys(t *testing.T) {
	seen := make(map[params.Key]struct{})
	for _, p := range Defaults {
		k := params.Key{Namespace: p.Namespace, Name: p.Name}
		_, dup := seen[k]
		require.False(t, dup, "duplicate default %s", k)
		seen[k] = struct{}{}
	}
	assert.Len(t, Defaults, 45)
}

func TestDecode_MatchesLiterals(t *testing.T) {
	reg := params.New()
	require.NoError(t, RegisterDefaults(reg))

	got, err := Decode(reg)
	require.NoError(t, err)

	want := &Params{
		FieldLength:      10.0,
		FieldWidth:       7.0,
		FieldHeight:      40.0,
		GoalWidth:        2.1,
		GoalDepth:        0.6,
		GoalHeight:       0.8,
		PenaltyLength:    0.1,
		PenaltyWidth:     0.1,
		FreeKickDistance: 0,
		FreeKickMoveDist: 0,
		GoalKickDist:     0,
		BorderSize:       0,

		AutomaticKickOff:        false,
		WaitBeforeKickOff:       2.0,
		CoinTossForKickOff:      false,
		AutomaticQuit:           false,
		ChangeSidesInSecondHalf: false,

		AgentRadius:         0.4,
		MaxHeteroTypeCount:  3,
		MaxTotalHeteroCount: 9,

		BallRadius: 0.042,
		BallMass:   0.026,

		RuleGoalPauseTime:   3.0,
		RuleKickInPauseTime: 1.0,
		RuleHalfTime:        3600.0,
		RuleDropBallTime:    0,
		SingleHalfTime:      false,
		UseOffside:          false,
		MaxTouchGroupSize:   2,

		UseCharging:              true,
		ChargingMinSpeed:         0.2,
		ChargingMinBallDist:      0.2,
		IllegalInterceptMinAngle: 70,

		NotStandingMaxTime:       30,
		GoalieNotStandingMaxTime: 60,
		GroundMaxTime:            15,
		GoalieGroundMaxTime:      30,
		MaxPlayersInsideOwnArea:  3,
		MinOppDistance:           0,
		Min2PlDistance:           0,
		Min3PlDistance:           0,

		BallRecorder:      "Ball/geometry/recorder",
		LeftGoalRecorder:  "leftgoal/GoalBox/BoxCollider/recorder",
		RightGoalRecorder: "rightgoal/GoalBox/BoxCollider/recorder",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded params mismatch (-want +got):\n%s", diff)
	}

	nao, err := DecodeNao(reg)
	require.NoError(t, err)
	assert.True(t, nao.UseTexture)
}

func TestDecode_IgnoresExtraSoccerParams(t *testing.T) {
	reg := params.New()
	require.NoError(t, RegisterDefaults(reg))
	require.NoError(t, reg.Register(Namespace, "HeteroFactorDeltaMax", params.Number(0.1)))

	_, err := Decode(reg)
	assert.NoError(t, err)
}

func TestDecode_MissingParam(t *testing.T) {
	reg := params.New()
	require.NoError(t, reg.Register(Namespace, "FieldLength", params.Number(10)))

	_, err := Decode(reg)
	assert.ErrorIs(t, err, params.ErrNotFound)
}

func TestRegisterDefaults_Twice(t *testing.T) {
	reg := params.New()
	require.NoError(t, RegisterDefaults(reg))

	var dup *params.DuplicateParameterError
	require.ErrorAs(t, RegisterDefaults(reg), &dup)
	assert.Equal(t, "FieldLength", dup.Key.Name)
}
