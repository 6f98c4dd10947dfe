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

// Tests for the size package.

package size_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libsiz "github.com/sabouaram/modforge/size"
)

func TestParseSuffixes(t *testing.T) {
	for in, want := range map[string]libsiz.Size{
		"512B": 512,
		"4KB":  4 * 1024,
		"64MB": 64 * 1024 * 1024,
		"2GB":  2 * 1024 * 1024 * 1024,
	} {
		s, err := libsiz.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, s, in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	s, err := libsiz.Parse("32MB")
	require.NoError(t, err)
	assert.Equal(t, "32MB", s.String())
}
