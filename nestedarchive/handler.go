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

// Package nestedarchive implements the phase that runs after the streaming
// core (package pipeline) drains, resolving directives whose
// archive_hash_path names an entry inside a BSA/BA2 staged from an outer
// archive's temp tree.
package nestedarchive

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/sabouaram/modforge/archiveindex"
	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/directive"
	liberr "github.com/sabouaram/modforge/errors"
	liblog "github.com/sabouaram/modforge/logger"
	loglvl "github.com/sabouaram/modforge/logger/level"
	"github.com/sabouaram/modforge/pathnorm"
	"github.com/sabouaram/modforge/pipeline"
)

// Options configures a Handler. OutputDir must match the Pipeline's
// Options.OutputDir from phase 1 so the two agree on the
// "<output>/.install-temp/<archive-id>/" staging convention.
type Options struct {
	OutputDir string
	Index     archiveindex.Index
	Logger    liblog.Logger
	Workers   int // 0 means 4

	// Progress, when set, receives every byte this handler's extraction and
	// placement calls move. install.Core wires this to its Pipeline's
	// ProgressFunc so phase 1 and phase 2 report into the same counter.
	Progress archivefmt.ProgressFunc
}

// Handler resolves deferred nested-archive directives collected by
// pipeline.Pipeline.RunFromArchive.
type Handler struct {
	opt Options
}

// New constructs a Handler.
func New(opt Options) *Handler {
	if opt.Workers == 0 {
		opt.Workers = 4
	}
	return &Handler{opt: opt}
}

func (h *Handler) tempDirFor(archiveID string) string {
	return filepath.Join(h.opt.OutputDir, ".install-temp", archiveID)
}

// syntheticArchiveID names the inner archive for the shared archiveindex
// store, derived from the outer archive-id plus the inner entry's
// normalized path so two directives nested inside the same BSA/BA2 reuse
// one enumeration. xxh3 keeps the key a fixed-width hex string regardless of
// how deep the outer archive-id/path pair gets, the same non-cryptographic
// fast-hash tradeoff as elsewhere in this tree when a stable short key
// matters more than a cryptographic checksum.
func syntheticArchiveID(outerID, innerEntry string) string {
	sum := xxh3.HashString(outerID + "::" + pathnorm.Normalize(innerEntry))
	return strconv.FormatUint(sum, 16)
}

// Resolve runs phase 2 over deferred, the DispositionDeferredNested
// directives RunFromArchive returned. It is its own isolated worker fan-out,
// not a consumer of phase 1's queues: RunFromArchive joins both pools
// before returning, so phase 1 has fully quiesced before this runs.
func (h *Handler) Resolve(deferred []*directive.Record) pipeline.PhaseSummary {
	summary := pipeline.PhaseSummary{Phase: pipeline.PhaseNestedArchive, DirectiveCount: len(deferred)}

	jobs := make(chan *directive.Record, len(deferred))
	for _, rec := range deferred {
		jobs <- rec
	}
	close(jobs)

	var g errgroup.Group
	var mu sync.Mutex
	for i := 0; i < h.opt.Workers; i++ {
		workerID := i
		g.Go(func() error {
			for rec := range jobs {
				h.resolveOne(workerID, rec, &summary, &mu)
			}
			return nil
		})
	}
	_ = g.Wait()

	return summary
}

func (h *Handler) resolveOne(workerID int, rec *directive.Record, summary *pipeline.PhaseSummary, mu *sync.Mutex) {
	_ = rec.SetStatus(directive.StatusInFlight)

	if rec.NestingDepth() != 3 {
		// A path nested more than one BSA/BA2 deep is not produced by any
		// bundle manifest this core accepts; treat it as a structural error
		// rather than silently recursing.
		h.fail(rec, ErrorUnsupportedDepth, summary, mu)
		return
	}

	outerDir := h.tempDirFor(rec.ArchiveID())
	innerHost, err := locateInOuter(outerDir, rec.InnerArchiveEntry())
	if err != nil {
		h.fail(rec, ErrorOuterContainerMissing, summary, mu)
		return
	}

	format, _ := archivefmt.DetectFile(innerHost)
	reader, err := pipeline.OpenArchive(format, innerHost)
	if err != nil {
		h.fail(rec, ErrorOpenNested, summary, mu)
		return
	}
	defer func() { _ = reader.Close() }()

	syntheticID := syntheticArchiveID(rec.ArchiveID(), rec.InnerArchiveEntry())
	resolvedPath, err := h.resolveEntry(reader, syntheticID, rec.ArchiveHashPath[2])
	if err != nil {
		h.fail(rec, ErrorMissingEntry, summary, mu)
		return
	}

	stageDir := filepath.Join(outerDir, ".nested-stage", syntheticID)
	wanted := map[string]struct{}{pathnorm.Normalize(resolvedPath): {}}
	run := liblog.RunFields{
		Phase: pipeline.PhaseNestedArchive.String(), WorkerID: workerID,
		ArchiveID: rec.ArchiveID(), DirectiveID: rec.ID,
	}
	onSkip := func(path string, cause error) {
		h.logEntry(loglvl.WarnLevel, "skipping corrupt nested entry", run, map[string]interface{}{
			"entry": path, "error": cause.Error(),
		})
	}
	if err := reader.ExtractSelective(wanted, stageDir, onSkip, h.opt.Progress); err != nil {
		h.fail(rec, ErrorExtractEntry, summary, mu)
		return
	}

	staged, err := locateInOuter(stageDir, resolvedPath)
	if err != nil {
		h.fail(rec, ErrorExtractEntry, summary, mu)
		return
	}
	defer func() { _ = os.RemoveAll(stageDir) }()

	if err := pipeline.PlaceWithRetryProgress(staged, rec.To, false, h.opt.Progress); err != nil {
		h.logEntry(loglvl.ErrorLevel, "nested placement failed", run, map[string]interface{}{
			"error": err.Error(),
		})
		h.fail(rec, ErrorExtractEntry, summary, mu)
		return
	}

	if err := pipeline.VerifyPlacement(rec.To, rec.Size, rec.Hash); err != nil {
		h.logEntry(loglvl.ErrorLevel, "nested entry fails verification", run, map[string]interface{}{
			"error": err.Error(),
		})
		h.fail(rec, pipeline.ErrorDestinationConflict, summary, mu)
		return
	}

	h.complete(rec, summary, mu)
}

// resolveEntry reuses the archive index against a synthetic archive-id:
// the inner archive is enumerated into the shared archive
// index exactly once per syntheticID, then every directive referencing the
// same inner archive resolves through a cheap indexed lookup instead of
// re-enumerating.
func (h *Handler) resolveEntry(reader archivefmt.Reader, syntheticID, wantPath string) (string, error) {
	indexed, lerr := h.opt.Index.IsIndexed(syntheticID)
	if lerr != nil {
		return "", lerr
	}

	if !indexed {
		var entries []archiveindex.FileEntry
		if err := reader.Enumerate(func(e archivefmt.Entry) bool {
			entries = append(entries, archiveindex.FileEntry{Path: e.Path, Size: e.Size})
			return true
		}); err != nil {
			return "", ErrorEnumerateNested.Error(err)
		}
		if lerr := h.opt.Index.IndexFiles(syntheticID, entries); lerr != nil {
			return "", lerr
		}
	}

	resolved, found, lerr := h.opt.Index.Lookup(syntheticID, wantPath)
	if lerr != nil {
		return "", lerr
	}
	if !found {
		return "", ErrorMissingEntry.Error(nil)
	}
	return resolved, nil
}

func (h *Handler) complete(rec *directive.Record, summary *pipeline.PhaseSummary, mu *sync.Mutex) {
	if err := rec.SetStatus(directive.StatusDone); err != nil {
		return
	}
	if h.opt.Index != nil {
		_ = h.opt.Index.SetStatus(rec.ID, directive.StatusDone, rec.AttemptCount(), 0)
	}

	mu.Lock()
	summary.DoneCount++
	mu.Unlock()
}

func (h *Handler) fail(rec *directive.Record, reason liberr.CodeError, summary *pipeline.PhaseSummary, mu *sync.Mutex) {
	_ = rec.SetFailed(reason)
	if h.opt.Index != nil {
		_ = h.opt.Index.SetStatus(rec.ID, directive.StatusFailed, rec.AttemptCount(), reason)
	}

	mu.Lock()
	summary.RecordFailure(rec.ID, rec.ArchiveID(), reason)
	mu.Unlock()
}

func (h *Handler) logEntry(lvl loglvl.Level, msg string, run liblog.RunFields, extra map[string]interface{}) {
	if h.opt.Logger == nil {
		return
	}
	e := run.Apply(h.opt.Logger.Entry(lvl, msg))
	for k, v := range extra {
		e = e.FieldAdd(k, v)
	}
	e.Log()
}

// locateInOuter walks root for the single file whose path (relative to
// root) normalizes to wantPath, the same resolution pathnorm.Normalize-based
// lookup the extractor pool uses to build an ExtractedBatch.FileIndex.
func locateInOuter(root, wantPath string) (string, error) {
	norm := pathnorm.Normalize(wantPath)
	var found string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || found != "" {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if pathnorm.Normalize(rel) == norm {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", os.ErrNotExist
	}
	return found, nil
}

