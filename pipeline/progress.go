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
	"sync"
	"sync/atomic"

	"github.com/sabouaram/modforge/archivefmt"
)

// progressReporter is stage 4's completion-event consumer: it tallies
// archive-level completion counts and, via addBytes, the running byte total
// the extractor's format-binding writers and the mover's placement copies
// both report into. One reporter is shared
// by every extractor and mover goroutine in a run, so addBytes must stay
// lock-free on the hot path; archiveDone/CompletedArchiveCount keep the
// mutex since they are called once per archive, not once per chunk.
type progressReporter struct {
	mu        sync.Mutex
	completed map[string]bool
	bytes     atomic.Int64
}

func newProgressReporter() *progressReporter {
	return &progressReporter{completed: make(map[string]bool)}
}

func (r *progressReporter) archiveDone(archiveID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed[archiveID] = true
}

// CompletedArchiveCount reports how many archives have finished their
// mover pass so far.
func (r *progressReporter) CompletedArchiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.completed)
}

// addBytes is handed out as an archivefmt.ProgressFunc (extraction writes)
// and, wrapped in ioutils/ioprogress, as a placement read callback (mover
// copies); both report into the same running total.
func (r *progressReporter) addBytes(n int64) {
	r.bytes.Add(n)
}

// TotalBytes reports the cumulative bytes this run has written across every
// archive's extraction and every directive's placement so far.
func (r *progressReporter) TotalBytes() int64 {
	return r.bytes.Load()
}

// ProgressFunc exposes the pipeline's byte counter to callers outside the
// package (the nested-archive handler's phase-2 extraction and placement
// share the same running total as phase 1's).
func (p *Pipeline) ProgressFunc() archivefmt.ProgressFunc {
	return p.progress.addBytes
}

// TotalBytes reports the cumulative extraction+placement bytes processed so
// far across every phase this Pipeline has driven.
func (p *Pipeline) TotalBytes() int64 {
	return p.progress.TotalBytes()
}
