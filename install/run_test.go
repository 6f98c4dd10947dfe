package install_test

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/archiveindex"
	"github.com/sabouaram/modforge/bundle"
	"github.com/sabouaram/modforge/external"
	"github.com/sabouaram/modforge/install"
)

// fakeDownload stands in for the embedding application's DownloadCollaborator
// (package external): every archive it knows about lives at a fixed path
// under a temp directory, mirroring how nestedarchive/handler_test.go's
// tests avoid a real download layer.
type fakeDownload struct {
	paths map[string]string
}

func (f fakeDownload) Verify(archiveID string) (external.VerifyResult, error) {
	p, ok := f.paths[archiveID]
	if !ok {
		return external.VerifyResult{}, fmt.Errorf("unknown archive %q", archiveID)
	}
	info, err := os.Stat(p)
	if err != nil {
		return external.VerifyResult{}, err
	}
	return external.VerifyResult{OK: true, Size: info.Size()}, nil
}

func (f fakeDownload) Locate(archiveID string) (string, error) {
	p, ok := f.paths[archiveID]
	if !ok {
		return "", fmt.Errorf("unknown archive %q", archiveID)
	}
	return p, nil
}

type fakeSorter struct{}

func (fakeSorter) Sort(game string, dataSearchPaths []string, plugins []string) ([]string, error) {
	out := make([]string, len(plugins))
	copy(out, plugins)
	return out, nil
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func openTestIndex(t *testing.T) archiveindex.Index {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", filepath.Join(t.TempDir(), "index.db"))
	idx, err := archiveindex.Open(archiveindex.Options{DSN: dsn, CacheContext: context.Background()})
	require.Nil(t, err)

	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestRunEndToEnd(t *testing.T) {
	workDir := t.TempDir()
	archivePath := filepath.Join(workDir, "src", "mod.zip")
	writeZip(t, archivePath, map[string]string{
		"meshes/foo.nif": "nif-body",
		"foo.esp":        "esp-body",
	})

	outputDir := filepath.Join(workDir, "out")

	manifestJSON := fmt.Sprintf(`{
	  "game": "SkyrimSE",
	  "outputDir": %q,
	  "directives": [
	    {"id": 1, "type": "FromArchive", "archiveHashPath": ["arch1", "meshes/foo.nif"], "to": "meshes/foo.nif", "size": 8},
	    {"id": 2, "type": "FromArchive", "archiveHashPath": ["arch1", "foo.esp"], "to": "foo.esp", "size": 8},
	    {"id": 3, "type": "Inline", "to": "config.ini", "inlineData": "aGVsbG8="}
	  ],
	  "mods": [{"id": "m1", "folder": "Mod One", "plugins": ["foo.esp"]}]
	}`, outputDir)

	m, derr := bundle.Decode(strings.NewReader(manifestJSON))
	require.Nil(t, derr)

	idx := openTestIndex(t)

	core := install.New(install.Options{
		Manifest:  m,
		Index:     idx,
		Download:  fakeDownload{paths: map[string]string{"arch1": archivePath}},
		Plugins:   fakeSorter{},
		OutputDir: outputDir,
	})

	summary, err := core.Run()
	require.Nil(t, err)
	assert.True(t, summary.Success())

	nif, readErr := os.ReadFile(filepath.Join(outputDir, "meshes", "foo.nif"))
	require.NoError(t, readErr)
	assert.Equal(t, "nif-body", string(nif))

	cfg, readErr := os.ReadFile(filepath.Join(outputDir, "config.ini"))
	require.NoError(t, readErr)
	assert.Equal(t, "hello", string(cfg))

	modlist, readErr := os.ReadFile(filepath.Join(outputDir, "modlist.txt"))
	require.NoError(t, readErr)
	assert.Contains(t, string(modlist), "Mod One")
}

func TestRunMissingArchiveFailsDirectiveButContinues(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")

	manifestJSON := fmt.Sprintf(`{
	  "game": "SkyrimSE",
	  "outputDir": %q,
	  "directives": [
	    {"id": 1, "type": "FromArchive", "archiveHashPath": ["missing", "foo.esp"], "to": "foo.esp", "size": 1},
	    {"id": 2, "type": "Inline", "to": "config.ini", "inlineData": "aGk="}
	  ]
	}`, outputDir)

	m, derr := bundle.Decode(strings.NewReader(manifestJSON))
	require.Nil(t, derr)

	idx := openTestIndex(t)

	core := install.New(install.Options{
		Manifest:  m,
		Index:     idx,
		Download:  fakeDownload{paths: map[string]string{}},
		Plugins:   fakeSorter{},
		OutputDir: outputDir,
	})

	summary, err := core.Run()
	require.Nil(t, err)
	assert.False(t, summary.Success())

	cfg, readErr := os.ReadFile(filepath.Join(outputDir, "config.ini"))
	require.NoError(t, readErr)
	assert.Equal(t, "hi", string(cfg))
}

// Rerunning a completed bundle against the same index and output directory
// must leave the tree identical and perform zero extractions: every
// directive the index records as Done resolves to Skipped at admission.
func TestRunTwiceResumesFromIndex(t *testing.T) {
	workDir := t.TempDir()
	archivePath := filepath.Join(workDir, "src", "mod.zip")
	writeZip(t, archivePath, map[string]string{
		"meshes/foo.nif": "nif-body",
		"foo.esp":        "esp-body",
	})

	outputDir := filepath.Join(workDir, "out")

	manifestJSON := fmt.Sprintf(`{
	  "game": "SkyrimSE",
	  "outputDir": %q,
	  "directives": [
	    {"id": 1, "type": "FromArchive", "archiveHashPath": ["arch1", "meshes/foo.nif"], "to": "meshes/foo.nif", "size": 8},
	    {"id": 2, "type": "FromArchive", "archiveHashPath": ["arch1", "foo.esp"], "to": "foo.esp", "size": 8},
	    {"id": 3, "type": "Inline", "to": "config.ini", "inlineData": "aGVsbG8="}
	  ]
	}`, outputDir)

	idx := openTestIndex(t)
	download := fakeDownload{paths: map[string]string{"arch1": archivePath}}

	runOnce := func() (string, string) {
		m, derr := bundle.Decode(strings.NewReader(manifestJSON))
		require.Nil(t, derr)

		core := install.New(install.Options{
			Manifest:  m,
			Index:     idx,
			Download:  download,
			Plugins:   fakeSorter{},
			OutputDir: outputDir,
		})

		summary, err := core.Run()
		require.Nil(t, err)
		assert.True(t, summary.Success())

		nif, readErr := os.ReadFile(filepath.Join(outputDir, "meshes", "foo.nif"))
		require.NoError(t, readErr)
		cfg, readErr := os.ReadFile(filepath.Join(outputDir, "config.ini"))
		require.NoError(t, readErr)
		return string(nif), string(cfg)
	}

	firstNif, firstCfg := runOnce()

	// Second run: the archive must not be re-extracted, so its temp
	// directory must never reappear.
	secondNif, secondCfg := runOnce()
	assert.Equal(t, firstNif, secondNif)
	assert.Equal(t, firstCfg, secondCfg)

	_, statErr := os.Stat(filepath.Join(outputDir, ".install-temp", "arch1"))
	assert.True(t, os.IsNotExist(statErr), "resumed run must not re-extract the archive")
}
