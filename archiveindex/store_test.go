package archiveindex_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/archiveindex"
	"github.com/sabouaram/modforge/directive"
)

func openTestIndex(t *testing.T) archiveindex.Index {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", filepath.Join(t.TempDir(), "index.db"))

	idx, err := archiveindex.Open(archiveindex.Options{
		DSN:          dsn,
		CacheContext: context.Background(),
	})
	require.Nil(t, err)

	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIsIndexedAndIndexFiles(t *testing.T) {
	idx := openTestIndex(t)

	ok, err := idx.IsIndexed("arc1")
	require.Nil(t, err)
	assert.False(t, ok)

	err = idx.IndexFiles("arc1", []archiveindex.FileEntry{
		{Path: "Textures/Foo.dds", Size: 100},
		{Path: "Meshes/Bar.nif", Size: 50},
	})
	require.Nil(t, err)

	ok, err = idx.IsIndexed("arc1")
	require.Nil(t, err)
	assert.True(t, ok)
}

func TestLookupCaseInsensitive(t *testing.T) {
	idx := openTestIndex(t)

	require.Nil(t, idx.IndexFiles("arc1", []archiveindex.FileEntry{
		{Path: "Textures/Foo.dds", Size: 100},
	}))

	p, ok, err := idx.Lookup("arc1", "textures/foo.dds")
	require.Nil(t, err)
	require.True(t, ok)
	assert.Equal(t, "Textures/Foo.dds", p)

	_, ok, err = idx.Lookup("arc1", "textures/missing.dds")
	require.Nil(t, err)
	assert.False(t, ok)
}

func TestLookupBySizeAndNameRecovery(t *testing.T) {
	idx := openTestIndex(t)

	require.Nil(t, idx.IndexFiles("arc-e", []archiveindex.FileEntry{
		{Path: "bin/game.exe", Size: 4096},
		{Path: "docs/readme.txt", Size: 10},
	}))

	p, ok, err := idx.LookupBySizeAndName("arc-e", 4096, "game.exe")
	require.Nil(t, err)
	require.True(t, ok)
	assert.Equal(t, "bin/game.exe", p)

	// No unique candidate -> recovery fails closed.
	require.Nil(t, idx.IndexFiles("arc-dup", []archiveindex.FileEntry{
		{Path: "a/game.exe", Size: 4096},
		{Path: "b/game.exe", Size: 4096},
	}))
	_, ok, err = idx.LookupBySizeAndName("arc-dup", 4096, "game.exe")
	require.Nil(t, err)
	assert.False(t, ok)
}

func TestReindexReplacesEntries(t *testing.T) {
	idx := openTestIndex(t)

	require.Nil(t, idx.IndexFiles("arc1", []archiveindex.FileEntry{{Path: "a.txt", Size: 1}}))
	require.Nil(t, idx.IndexFiles("arc1", []archiveindex.FileEntry{{Path: "b.txt", Size: 2}}))

	_, ok, _ := idx.Lookup("arc1", "a.txt")
	assert.False(t, ok)

	p, ok, _ := idx.Lookup("arc1", "b.txt")
	assert.True(t, ok)
	assert.Equal(t, "b.txt", p)
}

func TestDirectiveStatusRoundTrip(t *testing.T) {
	idx := openTestIndex(t)

	st, attempts, err := idx.GetStatus(42)
	require.Nil(t, err)
	assert.Equal(t, directive.StatusPending, st)
	assert.Equal(t, 0, attempts)

	require.Nil(t, idx.SetStatus(42, directive.StatusInFlight, 0, 0))
	st, _, err = idx.GetStatus(42)
	require.Nil(t, err)
	assert.Equal(t, directive.StatusInFlight, st)

	require.Nil(t, idx.SetStatus(42, directive.StatusFailed, 1, directive.ErrorMissingArchive))
	st, attempts, err = idx.GetStatus(42)
	require.Nil(t, err)
	assert.Equal(t, directive.StatusFailed, st)
	assert.Equal(t, 1, attempts)
}
