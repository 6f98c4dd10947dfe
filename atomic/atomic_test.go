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

// Tests for the typed atomic value and map used by the pipeline's shutdown
// flag and per-archive bookkeeping.

package atomic_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	libatm "github.com/sabouaram/modforge/atomic"
)

// The typed value is what backs the pipeline's cooperative shutdown flag:
// many readers, occasional writers, no tearing.
func TestValueFlag(t *testing.T) {
	v := libatm.NewValue[bool]()
	v.Store(false)
	assert.False(t, v.Load())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = v.Load()
		}()
	}
	v.Store(true)
	wg.Wait()

	assert.True(t, v.Load())
}

func TestMapTyped(t *testing.T) {
	m := libatm.NewMapTyped[string, int64]()
	m.Store("arch-1", 42)

	got, ok := m.Load("arch-1")
	assert.True(t, ok)
	assert.Equal(t, int64(42), got)

	_, ok = m.Load("arch-2")
	assert.False(t, ok)
}
