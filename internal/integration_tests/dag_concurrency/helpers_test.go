package integration_tests

import (
	"fmt"
	"strings"
)

// independentSteps returns HCL declaring n sleeper steps with no shared inputs.
func independentSteps(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `
build "sleeper" "step_%[1]d" {
  inputs = []
  output = "step_%[1]d.out"
}
`, i)
	}
	return b.String()
}
