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

// Tests for the generic TTL cache that fronts the archive index's path
// lookups.

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	libcch "github.com/sabouaram/modforge/cache"
)

// The TTL cache fronts the archive index's path lookups: a hot entry answers
// until its TTL lapses, then the caller re-reads the store.
func TestStoreLoadAndExpiry(t *testing.T) {
	c := libcch.New[string, string](context.Background(), 50*time.Millisecond)

	c.Store("arch-1\x00meshes/foo.nif", "Meshes/Foo.nif")

	v, _, ok := c.Load("arch-1\x00meshes/foo.nif")
	assert.True(t, ok)
	assert.Equal(t, "Meshes/Foo.nif", v)

	time.Sleep(120 * time.Millisecond)

	_, _, ok = c.Load("arch-1\x00meshes/foo.nif")
	assert.False(t, ok)
}

func TestLoadMissing(t *testing.T) {
	c := libcch.New[string, int](context.Background(), time.Minute)
	_, _, ok := c.Load("absent")
	assert.False(t, ok)
}
