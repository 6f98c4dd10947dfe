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
	"runtime"
	"sort"

	"github.com/sabouaram/modforge/archivefmt"
)

// Priority is type_base(format) + min(size_mb, 99). Smaller archives
// within a type sort first so the pipeline has finished work early.
func Priority(format archivefmt.Format, sizeBytes int64) int {
	sizeMB := int(sizeBytes / (1024 * 1024))
	if sizeMB > 99 {
		sizeMB = 99
	}
	return format.TypeBase() + sizeMB
}

// SortJobsByPriority orders jobs ascending by Priority before admission
// feeds them to the extractor pool.
func SortJobsByPriority(jobs []ExtractionJob) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Priority < jobs[j].Priority
	})
}

// WorkerSplit is the (extractor, mover) worker-count pair chosen before a
// run starts.
type WorkerSplit struct {
	Extractors int
	Movers     int
}

// AdaptiveSplit computes the extractor/mover pool sizes from the archive
// mix: a ZIP-heavy mix shifts toward movers (ZIP extracts fast,
// decompression is cheap relative to placement I/O); a 7z-heavy mix shifts
// toward extractors (solid blocks are CPU-bound on decompression).
func AdaptiveSplit(jobs []ExtractionJob) WorkerSplit {
	cpu := runtime.NumCPU()

	var zipCount, sevenZipCount int
	for _, j := range jobs {
		switch j.Format {
		case archivefmt.FormatZip:
			zipCount++
		case archivefmt.FormatSevenZip:
			sevenZipCount++
		}
	}

	total := len(jobs)
	if total == 0 {
		return baseSplit(cpu, 6, 4)
	}

	zipRatio := float64(zipCount) / float64(total)
	sevenZipRatio := float64(sevenZipCount) / float64(total)

	switch {
	case zipRatio > 0.7:
		return baseSplit(cpu, 4, 6)
	case sevenZipRatio > 0.5:
		return baseSplit(cpu, 7, 3)
	default:
		return baseSplit(cpu, 6, 4)
	}
}

func baseSplit(cpu, extractorTenths, moverTenths int) WorkerSplit {
	extractors := cpu * extractorTenths / 10
	if extractors < 2 {
		extractors = 2
	}
	movers := cpu * moverTenths / 10
	if movers < 2 {
		movers = 2
	}
	return WorkerSplit{Extractors: extractors, Movers: movers}
}

// DefaultExtractorCount is the fallback pool size (60% of CPU, floor 2)
// used when the caller has not yet computed an archive mix.
func DefaultExtractorCount() int {
	n := runtime.NumCPU() * 6 / 10
	if n < 2 {
		n = 2
	}
	return n
}

// DefaultMoverCount is the fallback mover pool size (40% of CPU, floor 2).
func DefaultMoverCount() int {
	n := runtime.NumCPU() * 4 / 10
	if n < 2 {
		n = 2
	}
	return n
}
