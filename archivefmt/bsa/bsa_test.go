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

package bsa_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/archivefmt/bsa"
	"github.com/sabouaram/modforge/pathnorm"
)

func buildArchive(t *testing.T, dst string, members map[string]string) {
	t.Helper()

	w, err := bsa.NewWriter(dst)
	require.NoError(t, err)

	for rel, content := range members {
		src := filepath.Join(t.TempDir(), "member")
		require.NoError(t, os.WriteFile(src, []byte(content), 0o644))

		f, err := os.Open(src)
		require.NoError(t, err)
		info, err := f.Stat()
		require.NoError(t, err)
		require.NoError(t, w.Add(rel, info, f))
		require.NoError(t, f.Close())
	}

	require.NoError(t, w.Close())
}

// A synthetic archive must enumerate every member it was built from with
// matching paths and sizes, the CreateBSA contract the synthetic-build
// phase relies on.
func TestWriteThenEnumerate(t *testing.T) {
	members := map[string]string{
		"meshes/armor/cuirass.nif": "cuirass-mesh",
		"meshes/armor/helmet.nif":  "helmet-mesh",
		"textures/cuirass.dds":     "cuirass-texture",
		"readme.txt":               "top-level",
	}

	dst := filepath.Join(t.TempDir(), "synthetic.bsa")
	buildArchive(t, dst, members)

	r, err := bsa.Open(dst)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	assert.True(t, r.RandomAccess())

	seen := map[string]int64{}
	require.NoError(t, r.Enumerate(func(e archivefmt.Entry) bool {
		seen[pathnorm.Normalize(e.Path)] = e.Size
		return true
	}))

	require.Len(t, seen, len(members))
	for rel, content := range members {
		size, ok := seen[pathnorm.Normalize(rel)]
		require.True(t, ok, "member %s missing from enumeration", rel)
		assert.Equal(t, int64(len(content)), size)
	}
}

func TestWriteThenExtractAll(t *testing.T) {
	members := map[string]string{
		"meshes/weapon.nif": "weapon-mesh",
		"sound/hit.wav":     "hit-sound",
	}

	dst := filepath.Join(t.TempDir(), "synthetic.bsa")
	buildArchive(t, dst, members)

	r, err := bsa.Open(dst)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	outDir := t.TempDir()
	require.NoError(t, r.ExtractAll(outDir, func(path string, cause error) {
		t.Fatalf("unexpected skip of %s: %v", path, cause)
	}, nil))

	for rel, content := range members {
		got, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, content, string(got))
	}
}

func TestExtractSelectiveMatchesNormalized(t *testing.T) {
	members := map[string]string{
		"Meshes/Armor.nif": "armor",
		"Meshes/Sword.nif": "sword",
	}

	dst := filepath.Join(t.TempDir(), "synthetic.bsa")
	buildArchive(t, dst, members)

	r, err := bsa.Open(dst)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	outDir := t.TempDir()
	wanted := map[string]struct{}{pathnorm.Normalize(`MESHES\armor.nif`): {}}
	require.NoError(t, r.ExtractSelective(wanted, outDir, nil, nil))

	got, err := os.ReadFile(filepath.Join(outDir, "Meshes", "Armor.nif"))
	require.NoError(t, err)
	assert.Equal(t, "armor", string(got))

	_, err = os.Stat(filepath.Join(outDir, "Meshes", "Sword.nif"))
	assert.True(t, os.IsNotExist(err), "unwanted member must not be extracted")
}

func TestProgressReportsExtractedBytes(t *testing.T) {
	members := map[string]string{"a.bin": strings.Repeat("x", 1000)}

	dst := filepath.Join(t.TempDir(), "synthetic.bsa")
	buildArchive(t, dst, members)

	r, err := bsa.Open(dst)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	var moved int64
	require.NoError(t, r.ExtractAll(t.TempDir(), nil, func(n int64) { moved += n }))
	assert.Equal(t, int64(1000), moved)
}
