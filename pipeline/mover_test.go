/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package pipeline

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/directive"
)

func stagedRecord(t *testing.T, id uint64, entry, to string, size int64) *directive.Record {
	t.Helper()
	rec := directive.NewRecord(id, directive.KindFromArchive, []string{"arch-1", entry}, "x", size, "")
	rec.To = to
	return rec
}

// The mover must detect source sharing itself: when two directives in one
// batch resolve to the same extracted file, the first placement copies and
// only the last moves, so the second never finds its source already gone.
func TestProcessBatchSharedSourceCopiesForAllButLast(t *testing.T) {
	dir := t.TempDir()
	tempDir := filepath.Join(dir, ".install-temp", "arch-1")
	src := filepath.Join(tempDir, "shared.dds")
	require.NoError(t, os.MkdirAll(tempDir, 0o755))
	require.NoError(t, os.WriteFile(src, []byte("texture-bytes"), 0o644))

	first := filepath.Join(dir, "out", "textures", "one.dds")
	second := filepath.Join(dir, "out", "textures", "two.dds")
	size := int64(len("texture-bytes"))

	batch := ExtractedBatch{
		ArchiveID: "arch-1",
		TempDir:   tempDir,
		FileIndex: map[string]string{"shared.dds": src},
		Directives: []*directive.Record{
			stagedRecord(t, 1, "shared.dds", first, size),
			stagedRecord(t, 2, "Shared.DDS", second, size),
		},
	}

	p := New(Options{OutputDir: dir})
	summary := PhaseSummary{Phase: PhaseFromArchive, DirectiveCount: len(batch.Directives)}
	var mu sync.Mutex
	p.processBatch(0, batch, &summary, &mu)

	assert.Equal(t, 2, summary.DoneCount)
	assert.Zero(t, summary.FailedCount)

	for _, dst := range []string{first, second} {
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "texture-bytes", string(got))
	}

	// The last reference moved the source out of the temp tree.
	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	for _, rec := range batch.Directives {
		assert.Equal(t, directive.StatusDone, rec.Status())
	}
}

// A source globally marked copy-only (a nested container phase 2 still
// needs) stays in place even for its final batch reference.
func TestProcessBatchGlobalCopyOnlyWinsOverLastReference(t *testing.T) {
	dir := t.TempDir()
	tempDir := filepath.Join(dir, ".install-temp", "arch-1")
	src := filepath.Join(tempDir, "textures.bsa")
	require.NoError(t, os.MkdirAll(tempDir, 0o755))
	require.NoError(t, os.WriteFile(src, []byte("container"), 0o644))

	dst := filepath.Join(dir, "out", "textures.bsa")

	batch := ExtractedBatch{
		ArchiveID: "arch-1",
		TempDir:   tempDir,
		FileIndex: map[string]string{"textures.bsa": src},
		Directives: []*directive.Record{
			stagedRecord(t, 1, "textures.bsa", dst, int64(len("container"))),
		},
	}

	p := New(Options{OutputDir: dir})
	p.markCopyOnly(src)
	summary := PhaseSummary{Phase: PhaseFromArchive, DirectiveCount: 1}
	var mu sync.Mutex
	p.processBatch(0, batch, &summary, &mu)

	assert.Equal(t, 1, summary.DoneCount)

	kept, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "container", string(kept))

	placed, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "container", string(placed))
}

func TestFailureDetailReturn(t *testing.T) {
	d := FailureDetail{DirectiveID: 9, ArchiveID: "arch-1", Reason: ErrorMissingArchive}

	r := d.Return()
	require.NotNil(t, r)

	raw := string(r.JSON())
	assert.Contains(t, raw, "arch-1")
}
