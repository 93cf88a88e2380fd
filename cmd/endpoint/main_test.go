package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunRejectsBadScheduleBeforeOpeningDB(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "data", "endpoint.db")
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "[database]\npath = \"" + filepath.ToSlash(dbPath) + "\"\n\n[refresh]\nschedule = \"every tuesday\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	t.Setenv("HOME", dir)
	t.Setenv("ENDPOINT_CONFIG", cfgPath)

	err := run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "refresh.schedule")
	require.NoFileExists(t, dbPath)
}

func TestRunFailsOnMissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("ENDPOINT_CONFIG", filepath.Join(dir, "missing.toml"))

	require.Error(t, run())
}
