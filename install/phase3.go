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

	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/directive"
	"github.com/sabouaram/modforge/pipeline"
)

// runSyntheticBuild implements phase 3, the reader capability run in
// reverse: every CreateBSA directive's members[] is read back
// from the staging directory and handed to the matching archivefmt
// MemberWriter to assemble a synthetic BSA/BA2, which is then placed at the
// directive's destination.
func (c *Core) runSyntheticBuild(records []*directive.Record) pipeline.PhaseSummary {
	summary := pipeline.PhaseSummary{Phase: pipeline.PhaseSyntheticBuild}

	for _, rec := range records {
		if rec.Kind != directive.KindCreateBSA {
			continue
		}
		summary.DirectiveCount++
		if c.alreadyDone(rec) {
			_ = rec.SetStatus(directive.StatusSkipped)
			summary.SkippedCount++
			continue
		}
		c.buildOne(rec, &summary)
	}

	return summary
}

func (c *Core) buildOne(rec *directive.Record, summary *pipeline.PhaseSummary) {
	_ = rec.SetStatus(directive.StatusInFlight)

	format := archivefmt.ParseFormat(rec.ArchiveType)
	if format == archivefmt.FormatUnknown {
		c.failSynthetic(rec, summary)
		return
	}

	tmp := rec.To + ".building"
	if err := os.MkdirAll(filepath.Dir(tmp), 0o755); err != nil {
		c.failSynthetic(rec, summary)
		return
	}

	writer, err := pipeline.OpenWriter(format, tmp)
	if err != nil {
		c.failSynthetic(rec, summary)
		return
	}

	stagingRoot := filepath.Join(c.opt.StagingDir, c.memberGroupFor(rec))

	ok := true
	for _, m := range rec.Members {
		if !c.addMember(writer, stagingRoot, m) {
			ok = false
			break
		}
	}

	if err := writer.Close(); err != nil {
		ok = false
	}

	if !ok {
		_ = os.Remove(tmp)
		c.failSynthetic(rec, summary)
		return
	}

	if err := pipeline.PlaceWithRetryProgress(tmp, rec.To, false, c.pl.ProgressFunc()); err != nil {
		c.failSynthetic(rec, summary)
		return
	}

	c.completeSynthetic(rec, summary)
}

// memberGroupFor derives the member-staging subdirectory for rec, keyed by
// its destination path so two CreateBSA directives never collide on a
// shared staging folder (destinations are unique per run).
func (c *Core) memberGroupFor(rec *directive.Record) string {
	return filepath.Join("bsa", rec.To)
}

func (c *Core) addMember(writer archivefmt.MemberWriter, stagingRoot string, m directive.Member) bool {
	src := filepath.Join(stagingRoot, m.RelPath)

	f, err := os.Open(src)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return writer.Add(m.RelPath, info, f) == nil
}

func (c *Core) failSynthetic(rec *directive.Record, summary *pipeline.PhaseSummary) {
	_ = rec.SetFailed(ErrorSyntheticBuild)
	if c.opt.Index != nil {
		_ = c.opt.Index.SetStatus(rec.ID, directive.StatusFailed, rec.AttemptCount(), ErrorSyntheticBuild)
	}
	summary.RecordFailure(rec.ID, rec.ArchiveID(), ErrorSyntheticBuild)
}

func (c *Core) completeSynthetic(rec *directive.Record, summary *pipeline.PhaseSummary) {
	if err := rec.SetStatus(directive.StatusDone); err != nil {
		return
	}
	if c.opt.Index != nil {
		_ = c.opt.Index.SetStatus(rec.ID, directive.StatusDone, rec.AttemptCount(), 0)
	}
	summary.DoneCount++
}
