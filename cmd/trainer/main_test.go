package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_Usage(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), out, &bytes.Buffer{}, nil))
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_InvalidURL(t *testing.T) {
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"-url", "nowhere", "(dropBall)"})
	require.ErrorContains(t, err, "invalid url")
}
