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

package install

import (
	"os"
	"path/filepath"

	"github.com/sabouaram/modforge/directive"
	liberr "github.com/sabouaram/modforge/errors"
	"github.com/sabouaram/modforge/pipeline"
)

// runInlineWholeFile implements phase 4: Inline directives write their
// embedded bytes directly; WholeFile directives copy a source located
// through the DownloadCollaborator without going through the extraction
// pipeline at all (the "artifact" is the download itself, not an archive
// member).
func (c *Core) runInlineWholeFile(records []*directive.Record) pipeline.PhaseSummary {
	summary := pipeline.PhaseSummary{Phase: pipeline.PhaseInlineWholeFile}

	for _, rec := range records {
		switch rec.Kind {
		case directive.KindInline, directive.KindWholeFile, directive.KindNoOp:
		default:
			continue
		}
		summary.DirectiveCount++

		if rec.Kind == directive.KindNoOp || c.alreadyDone(rec) {
			c.completePlacement(rec, directive.StatusSkipped, &summary)
			continue
		}

		if rec.Kind == directive.KindInline {
			c.placeInline(rec, &summary)
		} else {
			c.placeWholeFile(rec, &summary)
		}
	}

	return summary
}

func (c *Core) placeInline(rec *directive.Record, summary *pipeline.PhaseSummary) {
	_ = rec.SetStatus(directive.StatusInFlight)

	if err := os.MkdirAll(filepath.Dir(rec.To), 0o755); err != nil {
		c.failPlacement(rec, summary)
		return
	}
	if err := os.WriteFile(rec.To, rec.InlineData, 0o644); err != nil {
		c.failPlacement(rec, summary)
		return
	}

	c.completePlacement(rec, directive.StatusDone, summary)
}

func (c *Core) placeWholeFile(rec *directive.Record, summary *pipeline.PhaseSummary) {
	_ = rec.SetStatus(directive.StatusInFlight)

	result, err := c.opt.Download.Verify(rec.ArchiveID())
	if err != nil || !result.OK {
		c.failPlacement(rec, summary)
		return
	}

	src, err := c.opt.Download.Locate(rec.ArchiveID())
	if err != nil {
		c.failPlacement(rec, summary)
		return
	}

	// copyOnly: the download collaborator owns src and a rerun must still
	// find it there, so the placement never consumes the source file.
	if err := pipeline.PlaceWithRetryProgress(src, rec.To, true, c.pl.ProgressFunc()); err != nil {
		c.failPlacement(rec, summary)
		return
	}

	if err := pipeline.VerifyPlacement(rec.To, rec.Size, rec.Hash); err != nil {
		c.failPlacementReason(rec, summary, pipeline.ErrorDestinationConflict)
		return
	}

	c.completePlacement(rec, directive.StatusDone, summary)
}

func (c *Core) failPlacement(rec *directive.Record, summary *pipeline.PhaseSummary) {
	c.failPlacementReason(rec, summary, ErrorMissingArchive)
}

func (c *Core) failPlacementReason(rec *directive.Record, summary *pipeline.PhaseSummary, reason liberr.CodeError) {
	_ = rec.SetFailed(reason)
	if c.opt.Index != nil {
		_ = c.opt.Index.SetStatus(rec.ID, directive.StatusFailed, rec.AttemptCount(), reason)
	}
	summary.RecordFailure(rec.ID, rec.ArchiveID(), reason)
}

func (c *Core) completePlacement(rec *directive.Record, status directive.Status, summary *pipeline.PhaseSummary) {
	if err := rec.SetStatus(status); err != nil {
		return
	}
	if c.opt.Index != nil {
		_ = c.opt.Index.SetStatus(rec.ID, status, rec.AttemptCount(), 0)
	}
	if status == directive.StatusDone {
		summary.DoneCount++
	} else {
		summary.SkippedCount++
	}
}
