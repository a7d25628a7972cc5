package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-gk/lorckv/internal/config"
	"github.com/jerry-gk/lorckv/pkg/lorc"
)

func writeConfigFile(t *testing.T, dir, name, contents string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600))
}

// noGlobalConfigEnv points XDG_CONFIG_HOME at an empty directory, so tests
// never pick up whatever global config happens to exist on the host running
// them.
func noGlobalConfigEnv(t *testing.T) []string {
	t.Helper()

	return []string{"XDG_CONFIG_HOME=" + t.TempDir()}
}

func Test_Load_Returns_Defaults_When_No_Files_Present(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()

	cfg, _, err := config.Load(workDir, "", config.Config{}, noGlobalConfigEnv(t))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func Test_Load_Project_Config_Overrides_Defaults(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	writeConfigFile(t, workDir, config.ConfigFileName, `{
		// trailing comma and comments are fine, it's JSONC
		"capacity_bytes": 1024,
		"layout": "continuous",
	}`)

	cfg, sources, err := config.Load(workDir, "", config.Config{}, noGlobalConfigEnv(t))
	require.NoError(t, err)
	assert.Equal(t, int64(1024), cfg.CapacityBytes)
	assert.Equal(t, "continuous", cfg.Layout)
	assert.Equal(t, "warn", cfg.LogLevel) // untouched default
	assert.Contains(t, sources.Project, config.ConfigFileName)
}

func Test_Load_CLI_Override_Wins_Over_Project_Config(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	writeConfigFile(t, workDir, config.ConfigFileName, `{"capacity_bytes": 1024}`)

	cfg, _, err := config.Load(workDir, "", config.Config{CapacityBytes: 9999}, noGlobalConfigEnv(t))
	require.NoError(t, err)
	assert.Equal(t, int64(9999), cfg.CapacityBytes)
}

func Test_Load_Explicit_Path_Must_Exist(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()

	_, _, err := config.Load(workDir, "missing.json", config.Config{}, noGlobalConfigEnv(t))
	require.Error(t, err)
}

func Test_Load_Rejects_Invalid_Layout(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	writeConfigFile(t, workDir, config.ConfigFileName, `{"layout": "bogus"}`)

	_, _, err := config.Load(workDir, "", config.Config{}, noGlobalConfigEnv(t))
	require.Error(t, err)
}

func Test_Config_Options_Maps_Layout_And_LogLevel(t *testing.T) {
	t.Parallel()

	cfg := config.Config{CapacityBytes: 42, Layout: "continuous", LogLevel: "debug", ReleaseQueueLen: 3}
	opts := cfg.Options()

	assert.Equal(t, int64(42), opts.CapacityBytes)
	assert.Equal(t, lorc.LayoutContinuous, opts.Layout)
	assert.Equal(t, lorc.LogLevelDebug, opts.LogLevel)
	assert.Equal(t, 3, opts.ReleaseQueueLen)
}

func Test_Format_Produces_Valid_Indented_JSON(t *testing.T) {
	t.Parallel()

	formatted, err := config.Format(config.Default())
	require.NoError(t, err)
	assert.Contains(t, formatted, "\"capacity_bytes\"")
}
