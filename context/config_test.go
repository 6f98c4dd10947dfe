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

// Tests for the typed key/value Config store.

package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	libctx "github.com/sabouaram/modforge/context"
)

func TestConfigStoreLoadWalk(t *testing.T) {
	cfg := libctx.New[string](context.Background())

	cfg.Store("output", "/out")
	cfg.Store("staging", "/out/.bsa-staging")

	v, ok := cfg.Load("output")
	assert.True(t, ok)
	assert.Equal(t, "/out", v)

	seen := map[string]bool{}
	cfg.Walk(func(key string, val interface{}) bool {
		seen[key] = true
		return true
	})
	assert.True(t, seen["output"])
	assert.True(t, seen["staging"])

	cfg.Delete("staging")
	_, ok = cfg.Load("staging")
	assert.False(t, ok)
}
