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
	"path/filepath"

	"github.com/sabouaram/modforge/directive"
	liberr "github.com/sabouaram/modforge/errors"
	"github.com/sabouaram/modforge/pipeline"
)

// Run drives the five sequenced phases end to end and returns the union
// of every phase's outcome. A nonzero per-phase failure count never stops
// later phases from running;
// only a Fatal phase (disk full, index failure) does, and even then the
// phases that already ran keep their results in the summary.
func (c *Core) Run() (pipeline.RunSummary, liberr.Error) {
	records := c.opt.Manifest.Records()
	for _, rec := range records {
		if rec.To != "" {
			rec.To = filepath.Join(c.opt.OutputDir, rec.To)
		}
	}

	var run pipeline.RunSummary

	jobs, resumed, aerr := c.admit(records)
	if aerr != nil {
		return run, aerr
	}

	phase1, deferred := c.pl.RunFromArchive(jobs)
	phase1.DirectiveCount += resumed
	phase1.SkippedCount += resumed
	run.Phases = append(run.Phases, phase1)
	if phase1.Fatal {
		if lerr, ok := phase1.FatalReason.(liberr.Error); ok {
			return run, lerr
		}
		return run, ErrorDiskFull.Error(phase1.FatalReason)
	}

	phase2 := c.resolveNested(deferred)
	run.Phases = append(run.Phases, phase2)

	phase3 := c.runSyntheticBuild(records)
	run.Phases = append(run.Phases, phase3)

	phase4 := c.runInlineWholeFile(records)
	run.Phases = append(run.Phases, phase4)

	phase5, merr := c.runManifest()
	run.Phases = append(run.Phases, phase5)
	if merr != nil {
		return run, merr
	}

	return run, nil
}

// resolveNested hands the deferred directives to a freshly built
// nestedarchive.Handler sharing this Core's output directory and index.
func (c *Core) resolveNested(deferred []*directive.Record) pipeline.PhaseSummary {
	return c.nestedHandler().Resolve(deferred)
}
