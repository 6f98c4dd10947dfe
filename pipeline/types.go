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

// Package pipeline runs the bounded-queue streaming extraction-and-placement
// core: admission, extractor pool, mover pool and progress reporter,
// connected by two bounded channels so a full mover queue backpressures the
// extractors instead of letting staged data pile up on disk.
package pipeline

import (
	"strconv"

	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/directive"
	liberr "github.com/sabouaram/modforge/errors"
)

// ExtractionJob is one unit of admission work: every directive that reads
// from the same archive travels together so the extractor can make one pass
// over the archive for all of them.
type ExtractionJob struct {
	JobID       string
	ArchiveID   string
	ArchivePath string
	Format      archivefmt.Format
	Directives  []*directive.Record
	Priority    int
}

// ExtractedBatch is an extractor pool's output: the staged temp tree for one
// archive plus the index the mover needs to resolve each directive's source.
type ExtractedBatch struct {
	JobID       string
	ArchiveID   string
	ArchivePath string
	ArchiveSize int64
	TempDir     string
	FileIndex   map[string]string // normalized path -> host path under TempDir
	Directives  []*directive.Record
}

// FileMoveJob is a single placement unit handed to a mover, either produced
// directly from an ExtractedBatch (phase 1) or by the nested-archive handler
// (phase 2) staging an inner entry to a temp file first.
type FileMoveJob struct {
	Directive  *directive.Record
	SourcePath string
	// CopyOnly marks a source that other directives still need (multi-
	// destination fan-out, or a nested-archive container awaiting phase 2):
	// the mover must copy rather than rename/move it.
	CopyOnly bool
}

// Phase identifies one of the five sequenced installation phases.
type Phase int

const (
	PhaseFromArchive Phase = iota + 1
	PhaseNestedArchive
	PhaseSyntheticBuild
	PhaseInlineWholeFile
	PhaseManifest
)

func (p Phase) String() string {
	switch p {
	case PhaseFromArchive:
		return "from-archive"
	case PhaseNestedArchive:
		return "nested-archive"
	case PhaseSyntheticBuild:
		return "synthetic-build"
	case PhaseInlineWholeFile:
		return "inline-wholefile"
	case PhaseManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

// FailureDetail is one entry of a PhaseSummary's Failures list: the final
// structured summary lists, per failed directive, its archive-id and
// reason. ArchiveID is empty for the Inline/WholeFile/CreateBSA directives
// of phases 3-4 that carry no source archive.
type FailureDetail struct {
	DirectiveID uint64
	ArchiveID   string
	Reason      liberr.CodeError
}

// String renders the detail through errors.ReportLine, the shared
// subject/reason formatter every phase's failure recording funnels through.
func (d FailureDetail) String() string {
	subject := liberr.Subject(d.ArchiveID)
	if subject == "" {
		subject = liberr.Subject(strconv.FormatUint(d.DirectiveID, 10))
	}
	return liberr.ReportLine(subject, d.Reason)
}

// Return renders the detail as a structured, JSON-able errors.Return
// record for callers that consume the run report over a machine surface
// instead of the log.
func (d FailureDetail) Return() liberr.Return {
	r := liberr.NewDefaultReturn()
	r.SetError(d.Reason.Int(), d.String(), "", 0)
	return r
}

// PhaseSummary is the local failure/success counter for one phase. A
// nonzero FailureCount never vetoes a later phase; only a Fatal phase
// (disk full, index failure) stops the whole run.
type PhaseSummary struct {
	Phase          Phase
	DirectiveCount int
	DoneCount      int
	SkippedCount   int
	FailedCount    int
	Failures       []FailureDetail
	Fatal          bool
	FatalReason    error
}

// RecordFailure appends a FailureDetail and increments FailedCount in one
// call, so every phase's fail-path records the same shape.
func (s *PhaseSummary) RecordFailure(directiveID uint64, archiveID string, reason liberr.CodeError) {
	s.FailedCount++
	s.Failures = append(s.Failures, FailureDetail{DirectiveID: directiveID, ArchiveID: archiveID, Reason: reason})
}

// RunSummary is the union of every phase's outcome: success if every
// directive ended Done or Skipped.
type RunSummary struct {
	Phases []PhaseSummary
}

// Success reports whether no directive ended Failed and no phase was fatal.
func (s RunSummary) Success() bool {
	for _, p := range s.Phases {
		if p.Fatal || p.FailedCount > 0 {
			return false
		}
	}
	return true
}
