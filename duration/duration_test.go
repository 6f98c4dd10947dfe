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

// Tests for the extended Duration type: conversion, the RangeDefTo ladder
// behind the placement retry backoff, and JSON encoding.

package duration_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libdur "github.com/sabouaram/modforge/duration"
)

func TestParseDurationAndTime(t *testing.T) {
	d := libdur.ParseDuration(90 * time.Second)
	assert.Equal(t, 90*time.Second, d.Time())
	assert.Equal(t, 5*time.Minute, libdur.Minutes(5).Time())
}

// RangeDefTo feeds the placement retry backoff: the ladder must start at
// the floor, end at the ceiling, and never step backwards.
func TestRangeDefToIsMonotonic(t *testing.T) {
	from := libdur.ParseDuration(20 * time.Millisecond)
	to := libdur.ParseDuration(200 * time.Millisecond)

	rungs := from.RangeDefTo(to)
	require.NotEmpty(t, rungs)

	assert.Equal(t, from.Time(), rungs[0].Time())
	assert.Equal(t, to.Time(), rungs[len(rungs)-1].Time())

	for i := 1; i < len(rungs); i++ {
		assert.GreaterOrEqual(t, rungs[i].Time(), rungs[i-1].Time())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type doc struct {
		Every libdur.Duration `json:"every"`
	}

	raw, err := json.Marshal(doc{Every: libdur.Minutes(5)})
	require.NoError(t, err)

	var back doc
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, 5*time.Minute, back.Every.Time())
}
