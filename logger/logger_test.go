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

// Tests for the logger package.

package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	liblog "github.com/sabouaram/modforge/logger"
	loglvl "github.com/sabouaram/modforge/logger/level"
)

func TestNewLoggerLevelRoundTrip(t *testing.T) {
	l := liblog.New(context.Background())
	require.NotNil(t, l)
	defer func() { _ = l.Close() }()

	assert.Equal(t, loglvl.InfoLevel, l.GetLevel())

	l.SetLevel(loglvl.DebugLevel)
	assert.Equal(t, loglvl.DebugLevel, l.GetLevel())
}

// RunFields is the fixed schema every pipeline worker logs with: zero
// values are omitted, populated axes land as fields on the entry.
func TestRunFieldsApply(t *testing.T) {
	l := liblog.New(context.Background())
	defer func() { _ = l.Close() }()

	run := liblog.RunFields{Phase: "from-archive", WorkerID: 3, ArchiveID: "arch-1", DirectiveID: 7}
	e := run.Apply(l.Entry(loglvl.InfoLevel, "placement done"))
	require.NotNil(t, e)

	e.FieldAdd("entry", "meshes/foo.nif").Log()
}
