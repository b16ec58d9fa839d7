package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A syntax error guarantees a panic during loading inside app.NewApp().
	invalidHCL := `
		build "copy" "a" {
			inputs = [
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{"--build-dir", filepath.Join(tempDir, "build"), filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(out, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")

	errStr := runErr.Error()
	require.True(t, strings.Contains(errStr, "application startup panicked"), "The error message should indicate that a panic was recovered.")
	require.True(t, strings.Contains(errStr, "failed to parse"), "The error message should contain the underlying reason for the panic.")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_Build(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "hello.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0600))

	buildFile := filepath.Join(tempDir, "build.yaml")
	yaml := "builds:\n  - {type: copy, name: hello, inputs: [\"" + src + "\"], output: hello.txt}\n"
	require.NoError(t, os.WriteFile(buildFile, []byte(yaml), 0600))

	buildDir := filepath.Join(tempDir, "build")
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, []string{"--build-dir", buildDir, "-j", "1", "--no-color", buildFile})

	// --- Assert ---
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(buildDir, "hello.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
	// One task: its progress line is printed before it completes.
	require.Contains(t, out.String(), "  0%| ")
	require.Contains(t, out.String(), "> "+filepath.Join(buildDir, "hello.txt"))
}
