package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seeder interface{ Seed(int64) }

type fakeRandom struct{ seeds []int64 }

func (f *fakeRandom) Seed(s int64) { f.seeds = append(f.seeds, s) }

func TestTree_MountAndLookup(t *testing.T) {
	tree := NewTree()
	rnd := &fakeRandom{}
	require.NoError(t, tree.Mount("/sys/server/random", rnd))

	svc, ok := tree.Lookup("/sys/server/random/")
	require.True(t, ok, "trailing slash must normalize to the same node")
	assert.Same(t, rnd, svc)

	_, ok = tree.Lookup("/sys/server/monitor")
	assert.False(t, ok)

	_, ok = tree.Lookup("not a path")
	assert.False(t, ok, "malformed paths resolve to absent")
}

func TestTree_MountErrors(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Mount("/usr/scene", struct{}{}))

	assert.Error(t, tree.Mount("/usr/scene/", struct{}{}))
	assert.Error(t, tree.Mount("relative", struct{}{}))
	assert.Error(t, tree.Mount("/x", nil))
}

func TestTree_UnmountAndPaths(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.Mount("/sys/server/monitor", 1))
	require.NoError(t, tree.Mount("/sys/server/gamecontrol", 2))
	assert.Equal(t, []string{"/sys/server/gamecontrol", "/sys/server/monitor"}, tree.Paths())

	tree.Unmount("/sys/server/monitor")
	_, ok := tree.Lookup("/sys/server/monitor")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	tree := NewTree()
	rnd := &fakeRandom{}
	require.NoError(t, tree.Mount("/sys/server/random", rnd))
	require.NoError(t, tree.Mount("/sys/server/other", "not a seeder"))

	s, ok := Resolve[seeder](tree, "/sys/server/random")
	require.True(t, ok)
	s.Seed(0)
	assert.Equal(t, []int64{0}, rnd.seeds)

	_, ok = Resolve[seeder](tree, "/sys/server/other")
	assert.False(t, ok, "wrong service type resolves to absent")

	_, ok = Resolve[seeder](tree, "/sys/server/missing")
	assert.False(t, ok)

	_, ok = Resolve[seeder](nil, "/sys/server/random")
	assert.False(t, ok)
}
