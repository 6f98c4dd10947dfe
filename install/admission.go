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
	"fmt"
	"os"

	"github.com/sabouaram/modforge/archiveindex"
	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/directive"
	liberr "github.com/sabouaram/modforge/errors"
	"github.com/sabouaram/modforge/pipeline"
)

// admit groups every FromArchive/PatchedFromArchive directive by its
// archive-id into one pipeline.ExtractionJob per archive — every directive
// that reads from the same archive travels together — verifying and
// enumerating each archive exactly once on the way in.
// Directives the persistent index already records as Done are resolved
// here, before any job is built: they are marked Skipped and never reach
// the extractor pool, so a rerun after an interrupt performs zero
// extractions for the work that already landed. The count of resumed
// directives is returned so phase 1's summary still accounts for them.
func (c *Core) admit(records []*directive.Record) ([]pipeline.ExtractionJob, int, liberr.Error) {
	byArchive := make(map[string][]*directive.Record)
	order := make([]string, 0)

	resumed := 0
	for _, rec := range records {
		if !rec.Kind.RequiresArchive() {
			continue
		}
		if c.alreadyDone(rec) {
			_ = rec.SetStatus(directive.StatusSkipped)
			resumed++
			continue
		}
		id := rec.ArchiveID()
		if _, seen := byArchive[id]; !seen {
			order = append(order, id)
		}
		byArchive[id] = append(byArchive[id], rec)
	}

	jobs := make([]pipeline.ExtractionJob, 0, len(order))
	for _, archiveID := range order {
		job, err := c.admitArchive(archiveID, byArchive[archiveID])
		if err != nil {
			for _, rec := range byArchive[archiveID] {
				_ = rec.SetFailed(ErrorMissingArchive)
				if c.opt.Index != nil {
					_ = c.opt.Index.SetStatus(rec.ID, directive.StatusFailed, rec.AttemptCount(), ErrorMissingArchive)
				}
			}
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, resumed, nil
}

// alreadyDone reports whether the persistent index records rec as Done from
// a prior run and the destination still holds a file of the declared size,
// the "any directive in Done is skipped" resume rule. A missing or
// wrong-size destination falls through to normal processing so a deleted
// output is rebuilt rather than trusted.
func (c *Core) alreadyDone(rec *directive.Record) bool {
	if c.opt.Index == nil {
		return false
	}

	status, _, err := c.opt.Index.GetStatus(rec.ID)
	if err != nil || status != directive.StatusDone {
		return false
	}

	if rec.To == "" {
		return true
	}

	fi, serr := os.Stat(rec.To)
	if serr != nil {
		return false
	}
	return rec.Size == 0 || fi.Size() == rec.Size
}

func (c *Core) admitArchive(archiveID string, recs []*directive.Record) (pipeline.ExtractionJob, liberr.Error) {
	result, err := c.opt.Download.Verify(archiveID)
	if err != nil || !result.OK {
		return pipeline.ExtractionJob{}, ErrorVerifyArchive.Error(err)
	}

	path, err := c.opt.Download.Locate(archiveID)
	if err != nil {
		return pipeline.ExtractionJob{}, ErrorMissingArchive.Error(err)
	}

	format, _ := archivefmt.DetectFile(path)

	if e := c.ensureIndexed(archiveID, path, format); e != nil {
		return pipeline.ExtractionJob{}, e
	}

	return pipeline.ExtractionJob{
		JobID:       fmt.Sprintf("job-%s", archiveID),
		ArchiveID:   archiveID,
		ArchivePath: path,
		Format:      format,
		Directives:  recs,
		Priority:    pipeline.Priority(format, result.Size),
	}, nil
}

// ensureIndexed enumerates archiveID into the archive index exactly once
// per archive-id: entries are created lazily the first time an archive is
// seen and persist across runs.
func (c *Core) ensureIndexed(archiveID, path string, format archivefmt.Format) liberr.Error {
	indexed, lerr := c.opt.Index.IsIndexed(archiveID)
	if lerr != nil {
		return lerr
	}
	if indexed {
		return nil
	}

	reader, err := pipeline.OpenArchive(format, path)
	if err != nil {
		return ErrorEnumerateArchive.Error(err)
	}
	defer func() { _ = reader.Close() }()

	var entries []archiveindex.FileEntry
	if err := reader.Enumerate(func(e archivefmt.Entry) bool {
		entries = append(entries, archiveindex.FileEntry{Path: e.Path, Size: e.Size})
		return true
	}); err != nil {
		return ErrorEnumerateArchive.Error(err)
	}

	return c.opt.Index.IndexFiles(archiveID, entries)
}
