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

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabouaram/modforge/archivefmt"
)

func TestPriorityOrdering(t *testing.T) {
	zipSmall := Priority(archivefmt.FormatZip, 1<<20)
	zipLarge := Priority(archivefmt.FormatZip, 200<<20)
	bsaSmall := Priority(archivefmt.FormatBSA, 1<<20)
	rarSmall := Priority(archivefmt.FormatRar, 1<<20)
	sevenZipSmall := Priority(archivefmt.FormatSevenZip, 1<<20)

	require.Less(t, zipSmall, zipLarge)
	require.Less(t, zipLarge, bsaSmall)
	require.Less(t, bsaSmall, rarSmall)
	require.Less(t, rarSmall, sevenZipSmall)
}

func TestPriorityCapsAt99MB(t *testing.T) {
	at99 := Priority(archivefmt.FormatZip, 99<<20)
	at500 := Priority(archivefmt.FormatZip, 500<<20)
	require.Equal(t, at99, at500)
}

func TestSortJobsByPriority(t *testing.T) {
	jobs := []ExtractionJob{
		{JobID: "b", Format: archivefmt.FormatSevenZip, Priority: 3000},
		{JobID: "a", Format: archivefmt.FormatZip, Priority: 0},
		{JobID: "c", Format: archivefmt.FormatRar, Priority: 2000},
	}
	SortJobsByPriority(jobs)

	require.Equal(t, "a", jobs[0].JobID)
	require.Equal(t, "c", jobs[1].JobID)
	require.Equal(t, "b", jobs[2].JobID)
}

func TestAdaptiveSplitZipHeavy(t *testing.T) {
	jobs := make([]ExtractionJob, 0, 10)
	for i := 0; i < 8; i++ {
		jobs = append(jobs, ExtractionJob{Format: archivefmt.FormatZip})
	}
	for i := 0; i < 2; i++ {
		jobs = append(jobs, ExtractionJob{Format: archivefmt.FormatRar})
	}

	split := AdaptiveSplit(jobs)
	require.Less(t, split.Extractors, split.Movers)
}

func TestAdaptiveSplitSevenZipHeavy(t *testing.T) {
	jobs := make([]ExtractionJob, 0, 10)
	for i := 0; i < 6; i++ {
		jobs = append(jobs, ExtractionJob{Format: archivefmt.FormatSevenZip})
	}
	for i := 0; i < 4; i++ {
		jobs = append(jobs, ExtractionJob{Format: archivefmt.FormatZip})
	}

	split := AdaptiveSplit(jobs)
	require.Greater(t, split.Extractors, split.Movers)
}

func TestAdaptiveSplitFloor(t *testing.T) {
	split := AdaptiveSplit(nil)
	require.GreaterOrEqual(t, split.Extractors, 2)
	require.GreaterOrEqual(t, split.Movers, 2)
}
