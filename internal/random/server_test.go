package random

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_ExplicitIsDeterministic(t *testing.T) {
	a, b := NewServer(), NewServer()
	require.NoError(t, a.Seed(context.Background(), 42))
	require.NoError(t, b.Seed(context.Background(), 42))

	for i := 0; i < 16; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
	assert.Equal(t, int64(42), a.CurrentSeed())
}

func TestSeed_ZeroMeansRandomize(t *testing.T) {
	s := NewServer()
	s.newSeed = func() (int64, error) { return 777, nil }

	require.NoError(t, s.Seed(context.Background(), 0))
	assert.Equal(t, int64(777), s.CurrentSeed())
}

func TestSeed_ZeroNeverReportsZero(t *testing.T) {
	s := NewServer()
	s.newSeed = func() (int64, error) { return 0, nil }

	require.NoError(t, s.Seed(context.Background(), 0))
	assert.NotZero(t, s.CurrentSeed())
}

func TestSeed_EntropyFailure(t *testing.T) {
	s := NewServer()
	s.newSeed = func() (int64, error) { return 0, errors.New("no entropy") }

	err := s.Seed(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, int64(1), s.CurrentSeed(), "failed reseed keeps the previous generator")
}

func TestFloat64_Range(t *testing.T) {
	s := NewServer()
	for i := 0; i < 100; i++ {
		f := s.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

func TestNewSeed(t *testing.T) {
	_, err := NewSeed()
	assert.NoError(t, err)
}
