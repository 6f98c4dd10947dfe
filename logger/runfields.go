/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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
 *
 */

package logger

import (
	logent "github.com/sabouaram/modforge/logger/entry"
)

// RunFields is the fixed field schema every worker-pool stage in this tree
// logs with: phase, worker_id, and whichever of archive_id/directive_id
// apply to the event. pipeline, nestedarchive, and install all build one of
// these per log call instead of each assembling its own map[string]interface{}
// literal, so a run's log output can be filtered/grouped on the same axes
// regardless of which phase or package emitted the line.
type RunFields struct {
	Phase       string
	WorkerID    int
	DirectiveID uint64
	ArchiveID   string
}

// Apply adds the populated fields onto e in a fixed order. DirectiveID and
// ArchiveID are omitted when zero/empty: phase-5 (manifest) log lines have
// neither, and phase 3/4 have no source archive.
func (f RunFields) Apply(e logent.Entry) logent.Entry {
	if f.Phase != "" {
		e = e.FieldAdd("phase", f.Phase)
	}
	if f.WorkerID != 0 {
		e = e.FieldAdd("worker_id", f.WorkerID)
	}
	if f.DirectiveID != 0 {
		e = e.FieldAdd("directive_id", f.DirectiveID)
	}
	if f.ArchiveID != "" {
		e = e.FieldAdd("archive_id", f.ArchiveID)
	}
	return e
}
