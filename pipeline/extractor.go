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

	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/directive"
	liblog "github.com/sabouaram/modforge/logger"
	loglvl "github.com/sabouaram/modforge/logger/level"
	"github.com/sabouaram/modforge/pathnorm"
)

// extractorLoop pops jobs from jobQ until it is closed, extracts each
// archive's needed entries into a stable temp directory, and emits one
// ExtractedBatch per job into moveQ. Jobs popped after shutdown is observed
// are skipped without extraction.
func (p *Pipeline) extractorLoop(workerID int) {
	for job := range p.jobQ {
		if p.isShuttingDown() {
			// The archive that was in progress when the flag was raised
			// has already finished (extractOne returned and its batch was
			// queued); this job is skipped, and the range loop keeps
			// draining jobQ until it closes.
			continue
		}

		batch, err := p.extractOne(workerID, job)
		if err != nil {
			run := liblog.RunFields{Phase: PhaseFromArchive.String(), WorkerID: workerID, ArchiveID: job.ArchiveID}
			p.logEntry(loglvl.ErrorLevel, "extraction failed", run, map[string]interface{}{
				"job_id": job.JobID, "error": err.Error(),
			})
			continue
		}

		p.moveQ <- batch
	}
}

func (p *Pipeline) extractOne(workerID int, job ExtractionJob) (ExtractedBatch, error) {
	tempDir := p.TempDirFor(job.ArchiveID)

	if resumed, ok := p.tryResume(job, tempDir); ok {
		return resumed, nil
	}

	// Discard any partial content from an interrupted prior run before
	// re-extracting; only a complete temp tree is trusted on resume.
	_ = os.RemoveAll(tempDir)
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return ExtractedBatch{}, err
	}

	reader, err := OpenArchive(job.Format, job.ArchivePath)
	if err != nil {
		return ExtractedBatch{}, ErrorOpenArchive.Error(err)
	}
	defer func() { _ = reader.Close() }()

	needed := neededPaths(job.Directives)

	var total int
	_ = reader.Enumerate(func(e archivefmt.Entry) bool {
		total++
		return true
	})

	strategy := archivefmt.Select(len(needed), total, reader.RandomAccess())

	run := liblog.RunFields{Phase: PhaseFromArchive.String(), WorkerID: workerID, ArchiveID: job.ArchiveID}
	onSkip := func(path string, cause error) {
		p.logEntry(loglvl.WarnLevel, "skipping corrupt entry", run, map[string]interface{}{
			"entry": path, "error": cause.Error(),
		})
	}

	if strategy == archivefmt.StrategySelective {
		if err := reader.ExtractSelective(needed, tempDir, onSkip, p.progress.addBytes); err != nil {
			return ExtractedBatch{}, err
		}
	} else {
		if err := reader.ExtractAll(tempDir, onSkip, p.progress.addBytes); err != nil {
			return ExtractedBatch{}, err
		}
	}

	fileIndex, err := buildFileIndex(tempDir)
	if err != nil {
		return ExtractedBatch{}, err
	}

	archiveInfo, err := os.Stat(job.ArchivePath)
	var archiveSize int64
	if err == nil {
		archiveSize = archiveInfo.Size()
	}

	return ExtractedBatch{
		JobID:       job.JobID,
		ArchiveID:   job.ArchiveID,
		ArchivePath: job.ArchivePath,
		ArchiveSize: archiveSize,
		TempDir:     tempDir,
		FileIndex:   fileIndex,
		Directives:  job.Directives,
	}, nil
}

// tryResume reports whether tempDir already holds a complete extraction for
// job (every needed path is present with a nonzero directory entry), so the
// archive can skip re-extraction entirely after an interrupted run.
func (p *Pipeline) tryResume(job ExtractionJob, tempDir string) (ExtractedBatch, bool) {
	info, err := os.Stat(tempDir)
	if err != nil || !info.IsDir() {
		return ExtractedBatch{}, false
	}

	fileIndex, err := buildFileIndex(tempDir)
	if err != nil || len(fileIndex) == 0 {
		return ExtractedBatch{}, false
	}

	needed := neededPaths(job.Directives)
	for n := range needed {
		if _, ok := fileIndex[n]; !ok {
			return ExtractedBatch{}, false
		}
	}

	archiveInfo, statErr := os.Stat(job.ArchivePath)
	var archiveSize int64
	if statErr == nil {
		archiveSize = archiveInfo.Size()
	}

	return ExtractedBatch{
		JobID:       job.JobID,
		ArchiveID:   job.ArchiveID,
		ArchivePath: job.ArchivePath,
		ArchiveSize: archiveSize,
		TempDir:     tempDir,
		FileIndex:   fileIndex,
		Directives:  job.Directives,
	}, true
}

// neededPaths is the union of every length>=2 directive's intra-archive
// source path (archive_hash_path[1]), normalized. Length-1 directives
// (whole-archive or recovery candidates) contribute nothing here: they are
// resolved against the archive index, not the extracted file index.
func neededPaths(directives []*directive.Record) map[string]struct{} {
	needed := make(map[string]struct{})
	for _, rec := range directives {
		if rec.NestingDepth() >= 2 {
			needed[pathnorm.Normalize(rec.ArchiveHashPath[1])] = struct{}{}
		}
	}
	return needed
}

// buildFileIndex walks a temp directory tree and returns normalized-path ->
// host-path for every regular file found, the index the mover resolves
// directives against.
func buildFileIndex(root string) (map[string]string, error) {
	idx := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		idx[pathnorm.Normalize(rel)] = path
		return nil
	})
	return idx, err
}
