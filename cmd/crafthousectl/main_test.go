package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunUsage(t *testing.T) {
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	require.Equal(t, 2, run(nil, stdout, stderr))
	require.Contains(t, stderr.String(), "usage: crafthousectl")
}

func TestRunUnknownCommand(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	require.Equal(t, 2, run([]string{"frobnicate"}, stdout, stderr))
	require.Contains(t, stderr.String(), `unknown command "frobnicate"`)
}

func TestRunSeedAgainstMemoryStore(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("STORE_DRIVER", "memory")
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	require.Equal(t, 0, run([]string{"seed", "woodshop", "--json"}, stdout, stderr), stderr.String())
	require.Contains(t, stdout.String(), `"preset":"woodshop"`)
}

func TestSplitPositional(t *testing.T) {
	preset, rest := splitPositional([]string{"textiles", "--json"})
	require.Equal(t, "textiles", preset)
	require.Equal(t, []string{"--json"}, rest)

	preset, rest = splitPositional([]string{"--json", "textiles"})
	require.Empty(t, preset)
	require.Equal(t, []string{"--json", "textiles"}, rest)
}
