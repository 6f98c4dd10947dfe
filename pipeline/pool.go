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
	"os"
	"path/filepath"
	"sync"
	"time"

	libatm "github.com/sabouaram/modforge/atomic"
	"github.com/sabouaram/modforge/archiveindex"
	"github.com/sabouaram/modforge/directive"
	liblog "github.com/sabouaram/modforge/logger"
	loglvl "github.com/sabouaram/modforge/logger/level"
)

// pollInterval is the nominal cancellation recheck period. The queue loops
// do not use it: they block on channel sends and receives, and check the
// cooperative cancellation flag once per job or batch.
const pollInterval = 100 * time.Millisecond

// Options configures a Pipeline run.
type Options struct {
	OutputDir     string
	Index         archiveindex.Index
	Logger        liblog.Logger
	JobQueueCap   int // default 64
	MoveQueueCap  int // default 16
	Extractors    int // 0 means AdaptiveSplit
	Movers        int
}

// Pipeline drives the four-stage streaming core: admission, extractor
// pool, mover pool, progress reporter.
type Pipeline struct {
	opt      Options
	jobQ     chan ExtractionJob
	moveQ    chan ExtractedBatch
	shutdown libatm.Value[bool]

	deferredMu sync.Mutex
	deferred   []*directive.Record // phase-2 (nested-archive) directives

	copyOnlyMu sync.Mutex
	copyOnly   map[string]bool // host path -> must-copy-not-move

	progress *progressReporter
}

// New constructs a Pipeline. TempRoot (`<output>/.install-temp/`) is
// derived from opt.OutputDir.
func New(opt Options) *Pipeline {
	if opt.JobQueueCap == 0 {
		opt.JobQueueCap = 64
	}
	if opt.MoveQueueCap == 0 {
		opt.MoveQueueCap = 16
	}

	p := &Pipeline{
		opt:      opt,
		jobQ:     make(chan ExtractionJob, opt.JobQueueCap),
		moveQ:    make(chan ExtractedBatch, opt.MoveQueueCap),
		copyOnly: make(map[string]bool),
		progress: newProgressReporter(),
	}
	p.shutdown = libatm.NewValue[bool]()
	p.shutdown.Store(false)
	return p
}

// TempRoot is the stable per-run staging directory,
// "<output>/.install-temp/" under the output tree.
func (p *Pipeline) TempRoot() string {
	return filepath.Join(p.opt.OutputDir, ".install-temp")
}

// TempDirFor returns the archive-scoped temp directory under TempRoot.
func (p *Pipeline) TempDirFor(archiveID string) string {
	return filepath.Join(p.TempRoot(), archiveID)
}

// Shutdown raises the cooperative cancellation flag. Extractors finish their
// in-progress archive and refuse new jobs; movers finish their current batch;
// temp directories are preserved for resume.
func (p *Pipeline) Shutdown() {
	p.shutdown.Store(true)
}

func (p *Pipeline) isShuttingDown() bool {
	return p.shutdown.Load()
}

func (p *Pipeline) log() liblog.Logger {
	return p.opt.Logger
}

// logEntry logs one line through run's fixed phase/worker/archive/directive
// schema (liblog.RunFields), plus whatever event-specific key/value pairs
// extra carries (error text, entry path, job id — the parts that vary per
// call site rather than per phase).
func (p *Pipeline) logEntry(lvl loglvl.Level, msg string, run liblog.RunFields, extra map[string]interface{}) {
	if p.log() == nil {
		return
	}
	e := run.Apply(p.log().Entry(lvl, msg))
	for k, v := range extra {
		e = e.FieldAdd(k, v)
	}
	e.Log()
}

// RunFromArchive executes phase 1 end to end: it sorts jobs by priority,
// computes the adaptive worker split, spawns the extractor and mover pools,
// and blocks until both pools have joined. Directives classified as
// DispositionDeferredNested are collected for the caller to hand to the
// nested-archive handler (phase 2).
func (p *Pipeline) RunFromArchive(jobs []ExtractionJob) (PhaseSummary, []*directive.Record) {
	SortJobsByPriority(jobs)

	split := p.opt.Extractors
	if split == 0 {
		split = AdaptiveSplit(jobs).Extractors
	}
	movers := p.opt.Movers
	if movers == 0 {
		movers = AdaptiveSplit(jobs).Movers
	}

	summary := PhaseSummary{Phase: PhaseFromArchive}
	for _, j := range jobs {
		summary.DirectiveCount += len(j.Directives)
	}

	var wgExtract, wgMove sync.WaitGroup

	wgExtract.Add(split)
	for i := 0; i < split; i++ {
		go func(workerID int) {
			defer wgExtract.Done()
			p.extractorLoop(workerID)
		}(i)
	}

	var mu sync.Mutex
	wgMove.Add(movers)
	for i := 0; i < movers; i++ {
		go func(workerID int) {
			defer wgMove.Done()
			p.moverLoop(workerID, &summary, &mu)
		}(i)
	}

	// Admission: feed jobQ, then close it so extractors can drain and exit.
	for _, j := range jobs {
		if p.isShuttingDown() {
			break
		}
		p.jobQ <- j
	}
	close(p.jobQ)

	wgExtract.Wait()
	close(p.moveQ)
	wgMove.Wait()

	p.deferredMu.Lock()
	deferred := p.deferred
	p.deferred = nil
	p.deferredMu.Unlock()

	return summary, deferred
}

// markCopyOnly records that host path must be preserved (copied, not moved)
// because more than one directive still needs it, or because the
// nested-archive handler still needs to open it in phase 2.
func (p *Pipeline) markCopyOnly(hostPath string) {
	p.copyOnlyMu.Lock()
	p.copyOnly[hostPath] = true
	p.copyOnlyMu.Unlock()
}

func (p *Pipeline) isCopyOnly(hostPath string) bool {
	p.copyOnlyMu.Lock()
	defer p.copyOnlyMu.Unlock()
	return p.copyOnly[hostPath]
}

// cleanTempDir removes an archive's temp tree once every dependent
// directive (placement and, where relevant, the deferred nested-archive
// phase) has released it.
func (p *Pipeline) cleanTempDir(archiveID string) {
	_ = os.RemoveAll(p.TempDirFor(archiveID))
}
