package integration_tests

import (
	"context"
	"testing"

	"github.com/specialistvlad/burstbuild/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Test for: each = true declares one task per matched input, and a later step
// receives their outputs in input order.
func TestCoreExecution_EachExpansion(t *testing.T) {
	files := map[string]string{
		"assets/js/b.js":        "b;",
		"assets/js/nested/a.js": "a;",
		"assets/js/c.js":        "c;",
		"build.hcl": `
build "copy" "scripts" {
  inputs = glob("{{root}}/assets/**/*.js")
  each   = true
}
build "concat" "bundle" {
  inputs = outputs.scripts
  output = "bundle.js"
}
`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	require.Equal(t, 4, result.App.Builder().Len())
	// glob() sorts: b.js, c.js, nested/a.js
	testutil.AssertOutput(t, result, "bundle.js", "b;c;a;")
}

// Test for: running the same app twice rebuilds everything from the declared graph.
func TestCoreExecution_RepeatRun(t *testing.T) {
	files := map[string]string{
		"src/a.txt": "A",
		"build.hcl": `
build "copy" "a" {
  inputs = ["{{root}}/src/a.txt"]
  output = "a.txt"
}
`,
	}

	result := testutil.RunIntegrationTest(t, files)
	require.NoError(t, result.Err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, result.App.Run(ctx))
	testutil.AssertOutput(t, result, "a.txt", "A")
}
