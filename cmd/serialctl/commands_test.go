package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serialseq/internal/core/serial"
)

func runCtl(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--backend", "pebble", "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSerialctl(t *testing.T) {
	t.Setenv("SERIALSEQ_PEBBLE_DIR", t.TempDir())

	out, err := runCtl(t, "generate", "INV", "--as-of", "2024-02-10", "-n", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	var last serial.Result
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.Equal(t, "INV-0224-000003", last.Serial)

	out, err = runCtl(t, "generate", "INV", "--as-of", "2024-02-10T08:00:00Z", "--prefix", "HQ")
	require.NoError(t, err)
	assert.Contains(t, out, `"HQ/INV-0224-000004"`)

	out, err = runCtl(t, "peek", "INV", "2024", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"lastNumber":4`)

	out, err = runCtl(t, "soft-delete", "INV", "2024", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"deleted":true`)

	out, err = runCtl(t, "peek", "INV", "2024", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"exists":false`)

	out, err = runCtl(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "pebble")
}

func TestSerialctl_BadInput(t *testing.T) {
	t.Setenv("SERIALSEQ_PEBBLE_DIR", t.TempDir())

	_, err := runCtl(t, "peek", "INV", "2024", "13")
	assert.Error(t, err)

	_, err = runCtl(t, "generate", "INV", "--as-of", "yesterday")
	assert.Error(t, err)

	_, err = runCtl(t, "generate")
	assert.Error(t, err)
}
