package nestedarchive_test

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/archiveindex"
	"github.com/sabouaram/modforge/directive"
	"github.com/sabouaram/modforge/nestedarchive"
)

func openTestIndex(t *testing.T) archiveindex.Index {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", filepath.Join(t.TempDir(), "index.db"))
	idx, err := archiveindex.Open(archiveindex.Options{DSN: dsn, CacheContext: context.Background()})
	require.Nil(t, err)

	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

// writeZip builds a real zip file at path containing a single entry
// entryName with the given content, standing in for a staged nested
// BSA/BA2 container (a real zip is enough to exercise archivefmt.DetectFile and the
// shared archivefmt.Reader contract without hand-rolling BSA bytes here).
func writeZip(t *testing.T, path, entryName, content string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	w, err := zw.Create(entryName)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func TestResolveNestedEntry(t *testing.T) {
	outputDir := t.TempDir()
	outerDir := filepath.Join(outputDir, ".install-temp", "arch1")
	require.NoError(t, os.MkdirAll(outerDir, 0o755))

	const content = "nif-body"
	writeZip(t, filepath.Join(outerDir, "meshes.zip"), "meshes/foo.nif", content)

	idx := openTestIndex(t)
	dest := filepath.Join(outputDir, "out", "meshes", "foo.nif")

	rec := directive.NewRecord(1, directive.KindFromArchive,
		[]string{"arch1", "meshes.zip", "meshes/foo.nif"}, dest, int64(len(content)), "")

	h := nestedarchive.New(nestedarchive.Options{OutputDir: outputDir, Index: idx})
	summary := h.Resolve([]*directive.Record{rec})

	require.Equal(t, 1, summary.DoneCount)
	require.Equal(t, 0, summary.FailedCount)
	assert.Equal(t, directive.StatusDone, rec.Status())

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestResolveMissingEntryFails(t *testing.T) {
	outputDir := t.TempDir()
	outerDir := filepath.Join(outputDir, ".install-temp", "arch1")
	require.NoError(t, os.MkdirAll(outerDir, 0o755))

	writeZip(t, filepath.Join(outerDir, "meshes.zip"), "meshes/foo.nif", "body")

	idx := openTestIndex(t)
	dest := filepath.Join(outputDir, "out", "meshes", "missing.nif")

	rec := directive.NewRecord(2, directive.KindFromArchive,
		[]string{"arch1", "meshes.zip", "meshes/missing.nif"}, dest, 4, "")

	h := nestedarchive.New(nestedarchive.Options{OutputDir: outputDir, Index: idx})
	summary := h.Resolve([]*directive.Record{rec})

	require.Equal(t, 1, summary.FailedCount)
	assert.Equal(t, directive.StatusFailed, rec.Status())
}

func TestResolveUnsupportedDepthFails(t *testing.T) {
	idx := openTestIndex(t)
	outputDir := t.TempDir()

	rec := directive.NewRecord(3, directive.KindFromArchive,
		[]string{"arch1", "meshes.zip", "inner.bsa", "x.nif"}, filepath.Join(outputDir, "x.nif"), 1, "")

	h := nestedarchive.New(nestedarchive.Options{OutputDir: outputDir, Index: idx})
	summary := h.Resolve([]*directive.Record{rec})

	require.Equal(t, 1, summary.FailedCount)
}
