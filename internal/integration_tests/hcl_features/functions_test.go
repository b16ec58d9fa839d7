package integration_tests

import (
	"testing"

	"github.com/specialistvlad/burstbuild/internal/testutil"
	"github.com/stretchr/testify/require"
)

// Test for: built(), change_ext(), append_ext() and build_dir are usable in build files.
func TestHCLFeatures_Functions(t *testing.T) {
	files := map[string]string{
		"src/styles.less": "body{}",
		"build.hcl": `
build "copy" "css" {
  inputs = ["{{root}}/src/styles.less"]
  output = change_ext("styles.less", "css")
}
build "copy" "map" {
  inputs = [built("styles.css")]
  output = append_ext("styles.css", "map")
}
build "copy" "same" {
  inputs = ["${build_dir}/styles.css.map"]
  output = "same.txt"
}
`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	testutil.AssertOutput(t, result, "styles.css", "body{}")
	testutil.AssertOutput(t, result, "styles.css.map", "body{}")
	testutil.AssertOutput(t, result, "same.txt", "body{}")
}

// Test for: the YAML format declares the same graph as HCL.
func TestHCLFeatures_YAMLEquivalent(t *testing.T) {
	files := map[string]string{
		"src/a.txt": "a",
		"src/b.txt": "b",
		"build.yaml": `
builds:
  - {type: copy, name: copies, glob: ["{{root}}/src/*.txt"], each: true}
  - {type: concat, name: all, from: [copies], output: all.txt}
`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	testutil.AssertOutput(t, result, "all.txt", "ab")
}

// Test for: the built-in modules are available by default.
func TestHCLFeatures_CoreModules(t *testing.T) {
	t.Setenv("BURSTBUILD_TEST_FLAVOUR", "vanilla")
	files := map[string]string{
		"build.hcl": `
build "env_vars" "env" {
  inputs = []
  output = ".env"
  args   = ["BURSTBUILD_TEST_FLAVOUR"]
}
build "print" "listing" {
  inputs = outputs.env
  output = "listing.txt"
}
`,
	}

	result := testutil.RunIntegrationTest(t, files)

	require.NoError(t, result.Err)
	testutil.AssertOutput(t, result, ".env", "BURSTBUILD_TEST_FLAVOUR=\"vanilla\"\n")
	require.Contains(t, result.LogOutput, "Printing inputs")
}
