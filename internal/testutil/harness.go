package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/burstbuild/internal/app"
	"github.com/specialistvlad/burstbuild/internal/handlers"
	"github.com/stretchr/testify/require"
)

// RootPlaceholder is replaced with the test's root directory in every file
// written by the harness, so build files can use absolute glob patterns.
const RootPlaceholder = "{{root}}"

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Root      string
	BuildDir  string
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...handlers.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, modules...)
}

// RunIntegrationTestWithContext writes files into a fresh root directory,
// builds the app from them and runs it once with ctx.
//
// The build path is the root directory itself (all .hcl files), unless one
// of the files is a .yaml/.yml file, in which case that file is used.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, modules ...handlers.Module) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory for the test.
	root := t.TempDir()
	buildPath := root

	// 2. Write all files, creating subdirectories as needed.
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		content = strings.ReplaceAll(content, RootPlaceholder, root)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		if ext := filepath.Ext(name); ext == ".yaml" || ext == ".yml" {
			buildPath = path
		}
	}

	// 3. Configure the app.
	cfg := &app.Config{
		BuildPath:   buildPath,
		BuildDir:    filepath.Join(root, "build"),
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
		NoColor:     true,
	}

	logBuffer := &SafeBuffer{}
	result := &HarnessResult{Root: root, BuildDir: cfg.BuildDir}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, cfg, modules...)
	}()

	if panicErr != nil {
		result.LogOutput = logBuffer.String()
		result.Err = fmt.Errorf("application startup panicked | %v", panicErr)
		logOnDemand(t, result)
		return result
	}

	result.App = testApp
	result.Err = testApp.Run(ctx)
	result.LogOutput = logBuffer.String()
	logOnDemand(t, result)
	return result
}

func logOnDemand(t *testing.T, result *HarnessResult) {
	t.Helper()
	if os.Getenv("BURSTBUILD_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
}
