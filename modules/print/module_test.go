package print

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/burstbuild/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnRunPrint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("12345"), 0o644))
	require.NoError(t, os.WriteFile(b, nil, 0o644))
	out := filepath.Join(dir, "listing")

	require.NoError(t, OnRunPrint(context.Background(), handlers.Job{Inputs: []string{a, b}, Output: out}))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, a+" 5\n"+b+" 0\n", string(got))

	err = OnRunPrint(context.Background(), handlers.Job{Inputs: []string{filepath.Join(dir, "nope")}, Output: out})
	assert.Error(t, err)
}
