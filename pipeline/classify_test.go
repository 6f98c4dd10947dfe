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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/archiveindex"
	"github.com/sabouaram/modforge/directive"
	liberr "github.com/sabouaram/modforge/errors"
)

// fakeIndex is a minimal archiveindex.Index stub for classification tests
// that never touch persistence beyond LookupBySizeAndName.
type fakeIndex struct {
	recovered    string
	recoveredOK  bool
}

func (f *fakeIndex) IsIndexed(string) (bool, liberr.Error) { return true, nil }
func (f *fakeIndex) IndexFiles(string, []archiveindex.FileEntry) liberr.Error { return nil }
func (f *fakeIndex) Lookup(string, string) (string, bool, liberr.Error) { return "", false, nil }
func (f *fakeIndex) LookupBySizeAndName(string, int64, string) (string, bool, liberr.Error) {
	return f.recovered, f.recoveredOK, nil
}
func (f *fakeIndex) GetStatus(uint64) (directive.Status, int, liberr.Error) {
	return directive.StatusPending, 0, nil
}
func (f *fakeIndex) SetStatus(uint64, directive.Status, int, liberr.CodeError) liberr.Error {
	return nil
}
func (f *fakeIndex) Close() error { return nil }

func TestClassifyWholeArchive(t *testing.T) {
	rec := directive.NewRecord(1, directive.KindFromArchive, []string{"arch1"}, "out/thing.dll", 1000, "")
	batch := ExtractedBatch{FileIndex: map[string]string{}}

	cls, err := Classify(rec, 1000, "/src/thing.dll", batch, &fakeIndex{})
	require.NoError(t, err)
	require.Equal(t, DispositionWholeArchive, cls.Disposition)
	require.Equal(t, "/src/thing.dll", cls.SourcePath)
}

func TestClassifyRecoveredEntry(t *testing.T) {
	rec := directive.NewRecord(2, directive.KindFromArchive, []string{"arch1"}, "out/foo.esp", 500, "")
	batch := ExtractedBatch{FileIndex: map[string]string{
		"data/foo.esp": "/tmp/arch1/Data/foo.esp",
	}}

	idx := &fakeIndex{recovered: "Data/foo.esp", recoveredOK: true}
	cls, err := Classify(rec, 999999, "/src/archive1.zip", batch, idx)
	require.NoError(t, err)
	require.Equal(t, DispositionRecoveredEntry, cls.Disposition)
	require.Equal(t, filepath.FromSlash("/tmp/arch1/Data/foo.esp"), cls.SourcePath)
}

func TestClassifySimpleExtraction(t *testing.T) {
	rec := directive.NewRecord(3, directive.KindFromArchive, []string{"arch1", "textures/foo.dds"}, "out/foo.dds", 50, "")
	batch := ExtractedBatch{FileIndex: map[string]string{
		"textures/foo.dds": "/tmp/arch1/textures/foo.dds",
	}}

	cls, err := Classify(rec, 999999, "/src/archive1.zip", batch, &fakeIndex{})
	require.NoError(t, err)
	require.Equal(t, DispositionSimpleExtraction, cls.Disposition)
	require.Equal(t, "/tmp/arch1/textures/foo.dds", cls.SourcePath)
}

func TestClassifyDeferredNested(t *testing.T) {
	rec := directive.NewRecord(4, directive.KindFromArchive, []string{"arch1", "meshes.bsa", "meshes/foo.nif"}, "out/foo.nif", 10, "")
	batch := ExtractedBatch{FileIndex: map[string]string{
		"meshes.bsa": "/tmp/arch1/meshes.bsa",
	}}

	cls, err := Classify(rec, 999999, "/src/archive1.zip", batch, &fakeIndex{})
	require.NoError(t, err)
	require.Equal(t, DispositionDeferredNested, cls.Disposition)
	require.Equal(t, "/tmp/arch1/meshes.bsa", cls.NestedContainerPath)
}
