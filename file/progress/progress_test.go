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

// Tests for the progress-tracking file wrapper.

package progress_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libfpg "github.com/sabouaram/modforge/file/progress"
)

// Extraction destinations are opened through this wrapper so every chunk a
// format binding writes reports its length upward.
func TestWriteReportsIncrements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")

	p, err := libfpg.New(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	var total int64
	p.RegisterFctIncrement(func(n int64) { total += n })

	_, err = p.Write([]byte("chunk-one"))
	require.NoError(t, err)
	_, err = p.Write([]byte("chunk-two"))
	require.NoError(t, err)
	require.NoError(t, p.Close())

	assert.Equal(t, int64(len("chunk-one")+len("chunk-two")), total)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "chunk-onechunk-two", string(got))
}
