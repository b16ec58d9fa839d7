package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertOutput checks that the build produced name (relative to the build
// directory) with the expected content.
func AssertOutput(t *testing.T, result *HarnessResult, name, want string) {
	t.Helper()

	got, err := os.ReadFile(filepath.Join(result.BuildDir, name))
	require.NoError(t, err, "expected output %q was not produced", name)
	require.Equal(t, want, string(got), "unexpected content in output %q", name)
}

// AssertNoOutput checks that the build did not produce name.
func AssertNoOutput(t *testing.T, result *HarnessResult, name string) {
	t.Helper()

	_, err := os.Stat(filepath.Join(result.BuildDir, name))
	require.True(t, os.IsNotExist(err), "output %q should not exist", name)
}
