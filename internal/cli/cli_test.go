package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PositionalPath(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"build.hcl"}, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "build.hcl", cfg.BuildPath)
	assert.Equal(t, "build", cfg.BuildDir)
	assert.Equal(t, runtime.NumCPU(), cfg.WorkerCount)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.NoColor)
}

func TestParse_Flags(t *testing.T) {
	cfg, _, err := Parse([]string{
		"-f", "flag.yaml",
		"-j", "3",
		"--build-dir", "out",
		"--log-level", "DEBUG",
		"--log-format", "json",
		"--healthcheck-port", "8080",
		"--no-color",
		"positional.hcl",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "flag.yaml", cfg.BuildPath, "--file wins over the positional path")
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, "out", cfg.BuildDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8080, cfg.HealthcheckPort)
	assert.True(t, cfg.NoColor)
}

func TestParse_EnvironmentDefaults(t *testing.T) {
	t.Setenv(EnvWorkers, "7")
	t.Setenv(EnvBuildDir, "dist")
	t.Setenv(EnvLogLevel, "warn")

	cfg, _, err := Parse([]string{"build.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.WorkerCount)
	assert.Equal(t, "dist", cfg.BuildDir)
	assert.Equal(t, "warn", cfg.LogLevel)

	cfg, _, err = Parse([]string{"-j", "2", "build.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.WorkerCount, "flags win over the environment")
}

func TestParse_InvalidEnvironment(t *testing.T) {
	t.Setenv(EnvWorkers, "many")

	_, _, err := Parse([]string{"build.hcl"}, &bytes.Buffer{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, EnvWorkers)
}

func TestParse_DotEnv(t *testing.T) {
	require.NoError(t, os.Unsetenv(EnvLogFormat))
	t.Cleanup(func() { _ = os.Unsetenv(EnvLogFormat) })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvLogFormat+"=json\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, _, err := Parse([]string{"build.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "--workers")
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "BUILD_PATH")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--this-is-not-a-valid-flag"}, "unknown flag"},
		{"bad log format", []string{"--log-format", "xml", "build.hcl"}, "log format"},
		{"bad log level", []string{"--log-level", "loud", "build.hcl"}, "log level"},
		{"zero workers", []string{"-j", "0", "build.hcl"}, "WorkerCount"},
		{"too many paths", []string{"a.hcl", "b.hcl"}, "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, shouldExit, err := Parse(tt.args, &bytes.Buffer{})
			assert.False(t, shouldExit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tt.want)
		})
	}
}
