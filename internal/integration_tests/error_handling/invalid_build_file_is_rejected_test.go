package integration_tests

import (
	"testing"

	"github.com/specialistvlad/burstbuild/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Test for: startup configuration errors are reported before anything runs.
func TestErrorHandling_InvalidBuildFileIsRejected(t *testing.T) {
	tests := []struct {
		name string
		hcl  string
		want string
	}{
		{"syntax error", `build "copy" "a" {`, "failed to parse"},
		{"each with output", `build "copy" "a" {
  inputs = []
  each   = true
  output = "x"
}`, "sets both each and output"},
		{"duplicate build name", `
build "copy" "a" { inputs = [] }
build "copy" "a" { inputs = [] }
`, "defined twice"},
		{"unknown handler", `build "frobnicate" "a" { inputs = [] }`, "no handler registered"},
		{"dependency cycle", `
build "copy" "a" {
  inputs = [built("b")]
  output = "a"
}
build "copy" "b" {
  inputs = outputs.a
  output = "b"
}`, "cycle detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := testutil.RunIntegrationTest(t, map[string]string{"build.hcl": tt.hcl})

			require.Error(t, result.Err)
			require.Contains(t, result.Err.Error(), "application startup panicked")
			require.Contains(t, result.Err.Error(), tt.want)
			require.Nil(t, result.App)
		})
	}
}
