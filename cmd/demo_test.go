package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/nativewindow/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoOnSimulator(t *testing.T) {
	tempHome(t)

	// the scripted session ends with Escape, which closes the window
	_, err := executeCommand(rootCmd, "--backend", "sim", "demo")
	require.NoError(t, err)
}

func TestRecordThenReplay(t *testing.T) {
	tempHome(t)
	path := filepath.Join(t.TempDir(), "session.nwtrace")

	out, err := executeCommand(rootCmd, "--backend", "sim", "record", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded")

	f, err := os.Open(path)
	require.NoError(t, err)
	records, err := trace.NewReader(f).ReadAll()
	require.NoError(t, f.Close())
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, trace.KindKey, records[len(records)-1].Kind, "Escape release is the last event")

	out, err = executeCommand(rootCmd, "replay", path)
	require.NoError(t, err)
	assert.Contains(t, out, "press h")
	assert.Contains(t, out, "/tmp/example.txt")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "records from "+path), out)

	out, err = executeCommand(rootCmd, "replay", "--quiet", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "press h")
	assert.Contains(t, out, "replayed")
}

func TestReplayMissingFile(t *testing.T) {
	tempHome(t)
	_, err := executeCommand(rootCmd, "replay", filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "failed to open trace")
}
