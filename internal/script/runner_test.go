package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/naosoccer/internal/params"
	"github.com/vk/naosoccer/internal/soccer"
)

func newRegistry(t *testing.T) *params.Registry {
	t.Helper()
	reg := params.New()
	require.NoError(t, soccer.RegisterDefaults(reg))
	return reg
}

func mapRunner(files map[string]string) *Runner {
	fsys := fstest.MapFS{}
	for name, src := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}
	return NewRunnerFS(fsys)
}

func TestRun_EmbeddedRobotTypes(t *testing.T) {
	reg := newRegistry(t)
	before := reg.Len()

	require.NoError(t, NewRunner("").Run(context.Background(), "naorobottypes", reg))

	count, err := reg.Float("Nao", "RobotTypeCount")
	require.NoError(t, err)
	assert.Equal(t, 5.0, count)
	assert.Equal(t, before+5*5+1, reg.Len())

	leg, err := reg.Float("NaoType1", "LegLengthScale")
	require.NoError(t, err)
	assert.Equal(t, 1.13, leg)

	toe, err := reg.Bool("NaoType4", "HasToe")
	require.NoError(t, err)
	assert.True(t, toe)

	for _, ns := range []string{"NaoType0", "NaoType1", "NaoType2", "NaoType3", "NaoType4"} {
		assert.Contains(t, reg.Namespaces(), ns)
	}
}

func TestRun_Bindings(t *testing.T) {
	r := mapRunner(map[string]string{
		"custom.lua": `
addSoccerVar("ExtraTime", getSoccerVar("RuleHalfTime") / 10)
createVariable("Team", "Name", "naos")
createVariable("Team", "Ready", getSoccerVar("UseOffside") == false)
`,
	})
	reg := newRegistry(t)

	require.NoError(t, r.Run(context.Background(), "custom", reg))

	half, err := reg.Float(soccer.Namespace, "RuleHalfTime")
	require.NoError(t, err)
	extra, err := reg.Float(soccer.Namespace, "ExtraTime")
	require.NoError(t, err)
	assert.InDelta(t, half/10, extra, 1e-9)

	name, err := reg.String("Team", "Name")
	require.NoError(t, err)
	assert.Equal(t, "naos", name)

	_, err = reg.Bool("Team", "Ready")
	require.NoError(t, err)
}

func TestRun_DuplicateIsTyped(t *testing.T) {
	r := mapRunner(map[string]string{"dup.lua": `addSoccerVar("BallRadius", 1)`})
	reg := newRegistry(t)

	err := r.Run(context.Background(), "dup", reg)
	require.Error(t, err)
	var dup *params.DuplicateParameterError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Equal(t, "Soccer.BallRadius", dup.Key.String())

	radius, err := reg.Float(soccer.Namespace, "BallRadius")
	require.NoError(t, err)
	assert.Equal(t, 0.042, radius)
}

func TestRun_GetUnknownSoccerVar(t *testing.T) {
	r := mapRunner(map[string]string{"get.lua": `local x = getSoccerVar("Nope")`})
	err := r.Run(context.Background(), "get", params.New())
	assert.ErrorIs(t, err, params.ErrNotFound)
}

func TestRun_Nested(t *testing.T) {
	r := mapRunner(map[string]string{
		"outer.lua": `createVariable("A", "Outer", 1) run("inner")`,
		"inner.lua": `createVariable("A", "Inner", 2)`,
	})
	reg := params.New()

	require.NoError(t, r.Run(context.Background(), "outer", reg))
	v, err := reg.Float("A", "Inner")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestRun_NestedDepthGuard(t *testing.T) {
	r := mapRunner(map[string]string{"loop.lua": `run("loop")`})
	err := r.Run(context.Background(), "loop", params.New())
	assert.ErrorIs(t, err, ErrTooDeep)
}

func TestRun_DepthRestoredAfterCaughtError(t *testing.T) {
	r := mapRunner(map[string]string{
		"retry.lua": `
for i = 1, 12 do
  assert(not pcall(run, "broken"))
end
run("good")
`,
		"broken.lua": `error("broken")`,
		"good.lua":   `createVariable("A", "Good", true)`,
	})
	reg := params.New()

	require.NoError(t, r.Run(context.Background(), "retry", reg))
	good, err := reg.Bool("A", "Good")
	require.NoError(t, err)
	assert.True(t, good)
}

func TestRun_NonFiniteNumber(t *testing.T) {
	r := mapRunner(map[string]string{
		"nan.lua": `createVariable("X", "y", 0/0)`,
		"inf.lua": `addSoccerVar("Huge", math.huge)`,
	})
	for _, name := range []string{"nan", "inf"} {
		reg := params.New()
		err := r.Run(context.Background(), name, reg)
		assert.ErrorIs(t, err, params.ErrNotFinite, name)
		assert.Zero(t, reg.Len(), name)
	}
}

func TestRun_Errors(t *testing.T) {
	r := mapRunner(map[string]string{
		"syntax.lua":  `createVariable(`,
		"runtime.lua": `error("boom")`,
		"badarg.lua":  `createVariable("A", "B", {})`,
		"missing.lua": `run("nowhere")`,
	})
	ctx := context.Background()

	assert.ErrorIs(t, r.Run(ctx, "absent", params.New()), ErrUnknownScript)
	assert.ErrorIs(t, r.Run(ctx, "../escape", params.New()), ErrUnknownScript)
	assert.ErrorContains(t, r.Run(ctx, "syntax", params.New()), "load script syntax")
	assert.ErrorContains(t, r.Run(ctx, "runtime", params.New()), "boom")
	assert.Error(t, r.Run(ctx, "badarg", params.New()))
	assert.ErrorIs(t, r.Run(ctx, "missing", params.New()), ErrUnknownScript)
}

func TestRun_FrozenRegistry(t *testing.T) {
	r := mapRunner(map[string]string{"late.lua": `createVariable("A", "B", 1)`})
	reg := params.New()
	reg.Freeze()
	assert.ErrorIs(t, r.Run(context.Background(), "late", reg), params.ErrFrozen)
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewRunner("").Run(ctx, "naorobottypes", params.New()), context.Canceled)
}

func TestNewRunner_DirOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "naorobottypes.lua"),
		[]byte(`createVariable("Nao", "RobotTypeCount", 1)`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.lua"), []byte(`log("hi")`), 0o644))

	r := NewRunner(dir)
	reg := params.New()
	require.NoError(t, r.Run(context.Background(), "naorobottypes", reg))
	count, err := reg.Float("Nao", "RobotTypeCount")
	require.NoError(t, err)
	assert.Equal(t, 1.0, count)

	names, err := r.Available()
	require.NoError(t, err)
	assert.Contains(t, names, "extra")
}

func TestAvailable_Embedded(t *testing.T) {
	names, err := NewRunner("").Available()
	require.NoError(t, err)
	assert.Equal(t, []string{"naorobottypes"}, names)
}
