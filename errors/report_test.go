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

// Tests for subject tagging and ReportLine rendering of coded errors.

package errors_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	liberr "github.com/sabouaram/modforge/errors"
)

const testCodeBase liberr.CodeError = 60100

func init() {
	liberr.RegisterIdFctMessage(testCodeBase, func(code liberr.CodeError) string {
		if code == testCodeBase {
			return "test failure"
		}
		return liberr.NullMessage
	})
}

func TestCodeErrorCarriesCauseAndSubject(t *testing.T) {
	cause := fmt.Errorf("underlying")
	e := testCodeBase.Error(cause).SetSubject("arch-1")

	require.NotNil(t, e)
	assert.Equal(t, "arch-1", e.Subject())
	assert.True(t, e.IsCode(testCodeBase))
	assert.Contains(t, e.Error(), "test failure")
}

func TestReportLine(t *testing.T) {
	line := liberr.ReportLine(liberr.Subject("arch-1"), testCodeBase)
	assert.True(t, strings.HasPrefix(line, "arch-1:"))
	assert.Contains(t, line, "test failure")

	ok := liberr.ReportLine(liberr.Subject("arch-2"), liberr.UnknownError)
	assert.Equal(t, "arch-2: ok", ok)
}
