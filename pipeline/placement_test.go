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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestPlaceMovesSource(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.nif", "mesh-data")
	dst := filepath.Join(dir, "out", "meshes", "a.nif")

	require.NoError(t, Place(src, dst, false))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "mesh-data", string(got))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err), "moved source must no longer exist")
}

func TestPlaceCopyOnlyPreservesSource(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.nif", "mesh-data")
	dst := filepath.Join(dir, "out", "a.nif")

	require.NoError(t, Place(src, dst, true))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "mesh-data", string(got))

	kept, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "mesh-data", string(kept))
}

// Two directives share one source entry: every reference but
// the last is a copy, the last one a move, and both destinations end up with
// the correct content.
func TestSharedSourceCopiedThenMoved(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "shared.dds", "texture-bytes")
	first := filepath.Join(dir, "out", "textures", "one.dds")
	second := filepath.Join(dir, "out", "textures", "two.dds")

	require.NoError(t, Place(src, first, true))
	require.NoError(t, Place(src, second, false))

	for _, dst := range []string{first, second} {
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "texture-bytes", string(got))
	}

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestPlaceWithRetryReportsProgressOnCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.esp", "plugin-body")
	dst := filepath.Join(dir, "out", "a.esp")

	var moved int64
	require.NoError(t, PlaceWithRetryProgress(src, dst, true, func(n int64) { moved += n }))
	assert.Equal(t, int64(len("plugin-body")), moved)
}

func TestVerifyPlacementSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	dst := writeSource(t, dir, "a.esp", "short")

	assert.NoError(t, VerifyPlacement(dst, int64(len("short")), ""))
	assert.Error(t, VerifyPlacement(dst, 999, ""))
}

func TestVerifyPlacementHash(t *testing.T) {
	dir := t.TempDir()
	dst := writeSource(t, dir, "a.esp", "plugin-body")

	sum, err := HashFile(dst)
	require.NoError(t, err)

	assert.NoError(t, VerifyPlacement(dst, 0, sum))
	assert.NoError(t, VerifyPlacement(dst, 0, "0x"+sum))
	assert.Error(t, VerifyPlacement(dst, 0, "deadbeefdeadbeef"))
}

func TestVerifyPlacementMissingDestination(t *testing.T) {
	assert.Error(t, VerifyPlacement(filepath.Join(t.TempDir(), "absent"), 1, ""))
}

func TestBackoffScheduleIsBoundedAndAscending(t *testing.T) {
	prev := backoffFor(0)
	for i := 1; i < maxTransientRetries; i++ {
		cur := backoffFor(i)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	// Out-of-range attempts clamp to the last rung instead of growing.
	assert.Equal(t, backoffFor(len(retrySchedule)-1), backoffFor(len(retrySchedule)+10))
}
