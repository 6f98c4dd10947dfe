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

	"github.com/sabouaram/modforge/directive"
	liberr "github.com/sabouaram/modforge/errors"
	liblog "github.com/sabouaram/modforge/logger"
	loglvl "github.com/sabouaram/modforge/logger/level"
)

// moverLoop pops ExtractedBatch values from moveQ until it is closed.
// Every directive within one batch is processed by this single goroutine in
// listed order, so dependent operations observe consistent intermediate
// state; across batches there is no ordering guarantee. Once shutdown is
// raised, later batches are drained from moveQ without being placed and
// their temp trees are kept for resume.
func (p *Pipeline) moverLoop(workerID int, summary *PhaseSummary, mu *sync.Mutex) {
	for batch := range p.moveQ {
		if p.isShuttingDown() {
			continue
		}
		p.processBatch(workerID, batch, summary, mu)

		p.progress.archiveDone(batch.ArchiveID)
		if !p.referenceHeld(batch.ArchiveID) {
			p.cleanTempDir(batch.ArchiveID)
		}
	}
}

// movePlan is one directive's precomputed classification within a batch.
type movePlan struct {
	cls Classification
	err error
}

// processBatch classifies every directive up front, counts how many
// directives resolve to each source path, then places them in listed order.
// The reference counts drive the multi-destination policy: a source
// consumed by more than one directive is copied for all but the last
// reference, so the earlier placements never rename a file a later
// directive in the batch still needs. The batch is owned by one mover
// goroutine, so the count map needs no lock.
func (p *Pipeline) processBatch(workerID int, batch ExtractedBatch, summary *PhaseSummary, mu *sync.Mutex) {
	plans := make([]movePlan, len(batch.Directives))
	remaining := make(map[string]int, len(batch.Directives))

	for i, rec := range batch.Directives {
		cls, err := Classify(rec, batch.ArchiveSize, batch.ArchivePath, batch, p.opt.Index)
		plans[i] = movePlan{cls: cls, err: err}
		if err != nil {
			continue
		}
		switch cls.Disposition {
		case DispositionWholeArchive, DispositionRecoveredEntry, DispositionSimpleExtraction:
			remaining[cls.SourcePath]++
		}
	}

	for i, rec := range batch.Directives {
		p.moveOne(workerID, rec, batch, plans[i], remaining, summary, mu)
	}
}

// referenceHeld reports whether archiveID's temp directory is still needed:
// a deferred nested-archive directive still sourced from it hasn't been
// consumed by phase 2 yet.
func (p *Pipeline) referenceHeld(archiveID string) bool {
	p.deferredMu.Lock()
	defer p.deferredMu.Unlock()
	for _, rec := range p.deferred {
		if rec.ArchiveID() == archiveID {
			return true
		}
	}
	return false
}

func (p *Pipeline) moveOne(workerID int, rec *directive.Record, batch ExtractedBatch, plan movePlan, remaining map[string]int, summary *PhaseSummary, mu *sync.Mutex) {
	_ = rec.SetStatus(directive.StatusInFlight)

	if plan.err != nil {
		p.failDirective(rec, batch.ArchiveID, ErrorClassify, summary, mu)
		return
	}
	cls := plan.cls

	switch cls.Disposition {
	case DispositionAlreadyPlaced:
		p.completeDirective(rec, directive.StatusSkipped, summary, mu)

	case DispositionDeferredNested:
		p.markCopyOnly(cls.NestedContainerPath)
		p.deferredMu.Lock()
		p.deferred = append(p.deferred, rec)
		p.deferredMu.Unlock()
		// Not Done/Failed/Skipped yet: phase 2 resolves it.

	default:
		remaining[cls.SourcePath]--
		copyOnly := p.isCopyOnly(cls.SourcePath) || remaining[cls.SourcePath] > 0
		if err := PlaceWithRetryProgress(cls.SourcePath, rec.To, copyOnly, p.progress.addBytes); err != nil {
			run := liblog.RunFields{
				Phase: PhaseFromArchive.String(), WorkerID: workerID,
				ArchiveID: batch.ArchiveID, DirectiveID: rec.ID,
			}
			p.logEntry(loglvl.ErrorLevel, "placement failed", run, map[string]interface{}{
				"error": err.Error(),
			})
			p.failDirective(rec, batch.ArchiveID, classifyPlacementError(err), summary, mu)
			if IsDiskFull(err) {
				// Disk full escalates past this directive's own
				// failure — set the cooperative shutdown flag so the
				// pipeline drains rather than keeps consuming disk space
				// it no longer has.
				p.Shutdown()
				mu.Lock()
				summary.Fatal = true
				summary.FatalReason = ErrorDiskFull.Error(err).SetSubject(batch.ArchiveID)
				mu.Unlock()
			}
			return
		}
		if err := VerifyPlacement(rec.To, rec.Size, rec.Hash); err != nil {
			run := liblog.RunFields{
				Phase: PhaseFromArchive.String(), WorkerID: workerID,
				ArchiveID: batch.ArchiveID, DirectiveID: rec.ID,
			}
			p.logEntry(loglvl.ErrorLevel, "placed file fails verification", run, map[string]interface{}{
				"error": err.Error(),
			})
			p.failDirective(rec, batch.ArchiveID, ErrorDestinationConflict, summary, mu)
			return
		}
		p.completeDirective(rec, directive.StatusDone, summary, mu)
	}
}

func (p *Pipeline) completeDirective(rec *directive.Record, status directive.Status, summary *PhaseSummary, mu *sync.Mutex) {
	if err := rec.SetStatus(status); err != nil {
		return
	}
	if p.opt.Index != nil {
		_ = p.opt.Index.SetStatus(rec.ID, status, rec.AttemptCount(), 0)
	}

	mu.Lock()
	if status == directive.StatusDone {
		summary.DoneCount++
	} else {
		summary.SkippedCount++
	}
	mu.Unlock()
}

func (p *Pipeline) failDirective(rec *directive.Record, archiveID string, reason liberr.CodeError, summary *PhaseSummary, mu *sync.Mutex) {
	_ = rec.SetFailed(reason)
	if p.opt.Index != nil {
		_ = p.opt.Index.SetStatus(rec.ID, directive.StatusFailed, rec.AttemptCount(), reason)
	}

	mu.Lock()
	summary.RecordFailure(rec.ID, archiveID, reason)
	mu.Unlock()
}
