package scene

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/naosoccer/internal/bundle"
)

func TestImportScene(t *testing.T) {
	ctx := context.Background()
	loader := bundle.NewLoader("")
	m := NewManager(loader)

	err := m.ImportScene(ctx, "rsg/agent/nao/soccer.rsg")
	require.ErrorIs(t, err, ErrUnknownScene, "scenes resolve only after their bundle is imported")

	require.NoError(t, loader.ImportBundle(ctx, "soccer"))
	require.NoError(t, m.ImportScene(ctx, "rsg/agent/nao/soccer.rsg"))
	require.NoError(t, m.ImportScene(ctx, "rsg/agent/nao/soccer.rsg"))

	assert.Equal(t, []string{"rsg/agent/nao/soccer.rsg"}, m.Imported())
	assert.True(t, m.HasNode("leftgoal/GoalBox/BoxCollider/recorder"))
	assert.False(t, m.HasNode("centercircle"))
}
