package integration_tests

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/burstbuild/internal/handlers"
	"github.com/specialistvlad/burstbuild/internal/scheduler"
	"github.com/specialistvlad/burstbuild/internal/testutil"
	"github.com/stretchr/testify/require"
)

type failingModule struct{}

func (failingModule) Register(r *handlers.Registry) {
	r.RegisterHandler("fail", handlers.HandlerFunc(func(context.Context, handlers.Job) error {
		return errors.New("deliberate failure")
	}))
}

// Test for: a failing step fails the build and its dependents never run.
func TestErrorHandling_StepFailStopsBuild(t *testing.T) {
	files := map[string]string{
		"build.hcl": `
build "fail" "broken" {
  inputs = []
}
build "noop" "dependent" {
  inputs = outputs.broken
  output = "dependent.out"
}
`,
	}

	result := testutil.RunIntegrationTest(t, files, failingModule{}, &testutil.NoOpModule{})

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "deliberate failure")
	var taskErr *scheduler.TaskError
	require.ErrorAs(t, result.Err, &taskErr)
	require.Equal(t, "fail", taskErr.Type)
	testutil.AssertNoOutput(t, result, "dependent.out")
}

// Test for: a handler that reports success without writing its output fails the build.
func TestErrorHandling_MissingOutputFailsBuild(t *testing.T) {
	files := map[string]string{"build.hcl": `build "liar" "x" { inputs = [] }`}
	liar := moduleFunc(func(r *handlers.Registry) {
		r.RegisterHandler("liar", handlers.HandlerFunc(func(context.Context, handlers.Job) error { return nil }))
	})

	result := testutil.RunIntegrationTest(t, files, liar)

	require.ErrorIs(t, result.Err, scheduler.ErrOutputMissing)
}

type moduleFunc func(r *handlers.Registry)

func (f moduleFunc) Register(r *handlers.Registry) { f(r) }
