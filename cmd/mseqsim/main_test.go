package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/motionseq/prefabs"
	"github.com/milk9111/motionseq/sim"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		inspectTicks = 0
		configPath = ""
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestInspectPrintsLibrary(t *testing.T) {
	out := execute(t, "inspect")
	require.Contains(t, out, "sequences (")
	require.Contains(t, out, "walk")
	require.Contains(t, out, "stand    -> crouch")
	require.Contains(t, out, "default cog:")
}

func TestInspectSnapshot(t *testing.T) {
	out := execute(t, "inspect", "--ticks", "3")
	var f sim.Frame
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	require.Equal(t, uint64(3), f.Tick)
	require.NotEmpty(t, f.Actors)
}

func TestRunWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mseq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate: 1000\nticks: 5\nlog:\n  level: warn\n"), 0o644))
	execute(t, "--config", path, "run")
}

func TestRunRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mseq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tick_rate: 0\n"), 0o644))
	rootCmd.SetArgs([]string{"--config", path, "run"})
	t.Cleanup(func() { configPath = "" })
	require.Error(t, rootCmd.ExecuteContext(context.Background()))
}

func TestPrintLibrary(t *testing.T) {
	lib, err := prefabs.LoadLibrary("", "")
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, printLibrary(&out, lib))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Greater(t, len(lines), lib.Catalog.Len())
}

func TestWatchDirs(t *testing.T) {
	dir := t.TempDir()
	defs := filepath.Join(dir, "a.def")
	require.NoError(t, os.WriteFile(defs, nil, 0o644))

	require.Equal(t, []string{dir}, watchDirs(defs, defs))
	require.Equal(t, []string{"prefabs"}, watchDirs("clips.yaml", "motion_sequencer_defs.def"))
}
