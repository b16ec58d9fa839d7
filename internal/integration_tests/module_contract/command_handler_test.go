package integration_tests

import (
	"os/exec"
	"testing"

	"github.com/specialistvlad/burstbuild/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Test for: handler blocks turn external programs into task handlers.
func TestModuleContract_CommandHandlers(t *testing.T) {
	for _, name := range []string{"sh", "cat", "tr"} {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available: %v", name, err)
		}
	}

	files := map[string]string{
		"src/a.txt": "hello",
		"build.hcl": `
handler "upper" {
  command = ["tr", "a-z", "A-Z"]
  stdin   = true
}
handler "bang" {
  command = ["sh", "-c", "cat \"$1\" > \"$2\"; printf '!' >> \"$2\"", "sh", "{input}", "{output}"]
}

build "upper" "loud" {
  inputs = ["{{root}}/src/a.txt"]
}
build "bang" "final" {
  inputs = outputs.loud
  output = "final.txt"
}
`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	testutil.AssertOutput(t, result, "final.txt", "HELLO!")
}
