package integration_tests

import (
	"testing"
	"time"

	"github.com/specialistvlad/burstbuild/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Test for: independent steps run concurrently but never above the worker count.
func TestDagConcurrency_IndependentExecution(t *testing.T) {
	sleeper := testutil.NewSleeperModule(50 * time.Millisecond)
	files := map[string]string{"build.hcl": independentSteps(10)}

	result := testutil.RunIntegrationTest(t, files, sleeper)

	require.NoError(t, result.Err)
	require.Len(t, sleeper.ExecutionTimes, 10)
	// The harness runs with 4 workers.
	require.LessOrEqual(t, sleeper.Peak(), 4)
	require.Greater(t, sleeper.Peak(), 1, "independent steps should overlap")
}
