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

// Tests for the PID-driven range walk behind duration.Duration.RangeTo.

package pidcontroller_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libpid "github.com/sabouaram/modforge/pidcontroller"
)

func TestRangeCtxWalksMonotonically(t *testing.T) {
	out := libpid.New(0.3, 0.05, 0.1).RangeCtx(context.Background(), 0, 10)
	require.NotEmpty(t, out)

	prev := 0.0
	for _, v := range out {
		assert.Greater(t, v, prev)
		prev = v
	}
	assert.LessOrEqual(t, len(out), 64)
}

func TestRangeCtxDegenerate(t *testing.T) {
	out := libpid.New(0.3, 0.05, 0.1).RangeCtx(context.Background(), 5, 5)
	assert.Equal(t, []float64{5}, out)
}
