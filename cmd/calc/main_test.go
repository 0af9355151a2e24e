package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestEvalPrintsOneResultPerExpression(t *testing.T) {
	out := run(t, "--store", "memory", "eval", "2+2", "sin(30)", "1/0", "--mode", "deg")
	assert.Equal(t, "4\n0.5\nError\n", out)
}

func TestEvalLocalizesOutput(t *testing.T) {
	out := run(t, "--store", "memory", "--locale", "fr", "eval", "1/0")
	assert.Equal(t, "Erreur\n", out)
}

func TestKeysReplaysPresses(t *testing.T) {
	out := run(t, "--store", "memory", "keys", "5", "+", "×", "3", "=")
	assert.Equal(t, "15\n", out)
}

func TestHistoryPersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	base := []string{"--store", "file", "--path", dir}

	run(t, append(base, "eval", "1+1", "2*3")...)
	run(t, append(base, "eval", "--no-history", "9-1")...)

	out := run(t, append(base, "history", "list")...)
	assert.Equal(t, "0. 2*3 = 6\n1. 1+1 = 2\n", out)

	out = run(t, append(base, "history", "reuse", "1", "+", "3", "=")...)
	assert.Equal(t, "5\n", out)

	out = run(t, append(base, "history", "list")...)
	assert.True(t, strings.HasPrefix(out, "0. 2+3 = 5\n"))

	run(t, append(base, "history", "delete", "0")...)
	out = run(t, append(base, "history", "list")...)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "0. 2*3 = 6", lines[0])

	run(t, append(base, "history", "clear")...)
	assert.Empty(t, run(t, append(base, "history", "list")...))
}

func TestHistoryDeleteOutOfRange(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--store", "memory", "history", "delete", "3"})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
