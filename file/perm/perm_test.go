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

// Tests for octal permission parsing, formatting and text round-trips.

package perm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libprm "github.com/sabouaram/modforge/file/perm"
)

func TestParseAndString(t *testing.T) {
	p, err := libprm.Parse("0755")
	require.NoError(t, err)
	assert.Equal(t, libprm.Perm(0o755), p)
	assert.Equal(t, "0755", p.String())
}

func TestTextRoundTrip(t *testing.T) {
	p, err := libprm.Parse("0644")
	require.NoError(t, err)

	raw, err := p.MarshalText()
	require.NoError(t, err)

	var back libprm.Perm
	require.NoError(t, back.UnmarshalText(raw))
	assert.Equal(t, p, back)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := libprm.Parse("rwxr-xr-x")
	assert.Error(t, err)
}
