package filetable

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntern_SamePathSameID(t *testing.T) {
	tbl := New()

	a := tbl.Intern("assets/css/styles.less")
	b := tbl.Intern("assets/css/styles.less")
	c := tbl.Intern("assets/css/../css/./styles.less")

	assert.Equal(t, a, b)
	assert.Equal(t, a, c, "normalized paths must share an identifier")
	assert.Equal(t, 1, tbl.Len())
}

func TestIntern_DistinctPathsDistinctIDs(t *testing.T) {
	tbl := New()

	seen := make(map[FileID]string)
	for i := 0; i < 50; i++ {
		p := fmt.Sprintf("src/file%d.coffee", i)
		id := tbl.Intern(p)
		prev, dup := seen[id]
		require.False(t, dup, "id %d reused for %q and %q", id, prev, p)
		seen[id] = p
	}
	assert.Equal(t, 50, tbl.Len())
}

func TestResolve(t *testing.T) {
	tbl := New()
	id := tbl.Intern("build/./out.js")

	p, err := tbl.Resolve(id)
	require.NoError(t, err)
	assert.Equal(t, "build/out.js", p)

	_, err = tbl.Resolve(FileID(42))
	assert.ErrorIs(t, err, ErrUnknownFile)

	_, err = tbl.Resolve(FileID(-1))
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestLookup(t *testing.T) {
	tbl := New()
	_, ok := tbl.Lookup("a.src")
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len(), "lookup must not intern")

	id := tbl.Intern("a.src")
	got, ok := tbl.Lookup("./a.src")
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestResolveAll(t *testing.T) {
	tbl := New()
	ids := []FileID{tbl.Intern("b"), tbl.Intern("a"), tbl.Intern("c")}

	paths, err := tbl.ResolveAll(ids)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, paths)

	_, err = tbl.ResolveAll([]FileID{ids[0], 99})
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestIntern_Concurrent(t *testing.T) {
	tbl := New()
	var wg sync.WaitGroup
	ids := make([]FileID, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = tbl.Intern("shared/path")
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, tbl.Len())
}
