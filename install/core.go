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

// Package install is the core's single entrypoint: it wires the archive
// index (package archiveindex), the streaming pipeline (package pipeline),
// the nested-archive handler (package nestedarchive) and the load-order
// generator (package loadorder) together into five sequenced phases:
// archive extraction/placement, nested-archive consumption, synthetic
// archive build, inline/whole-file placement, and manifest generation.
package install

import (
	"github.com/sabouaram/modforge/archiveindex"
	"github.com/sabouaram/modforge/bundle"
	"github.com/sabouaram/modforge/external"
	liblog "github.com/sabouaram/modforge/logger"
	"github.com/sabouaram/modforge/nestedarchive"
	"github.com/sabouaram/modforge/pipeline"
)

// Options configures a Core run.
type Options struct {
	Manifest   *bundle.Manifest
	Index      archiveindex.Index
	Download   external.DownloadCollaborator
	Plugins    external.PluginSorter
	Logger     liblog.Logger
	OutputDir  string

	// StagingDir roots the CreateBSA member-staging tree; defaults to
	// "<output>/.bsa-staging" when empty.
	StagingDir string

	// BaseGamePlugins is prepended ahead of the plugin-sorter's output in
	// plugins.txt/loadorder.txt.
	BaseGamePlugins []string

	// DataSearchPaths is passed verbatim to the PluginSorter collaborator.
	DataSearchPaths []string

	// JobQueueCap/MoveQueueCap/Extractors/Movers forward to pipeline.Options;
	// zero values take pipeline's own defaults.
	JobQueueCap  int
	MoveQueueCap int
	Extractors   int
	Movers       int
}

// Core drives one end-to-end run of the five sequenced phases.
type Core struct {
	opt Options
	pl  *pipeline.Pipeline
}

// New constructs a Core and the Pipeline it will drive for phase 1.
func New(opt Options) *Core {
	if opt.StagingDir == "" {
		opt.StagingDir = opt.OutputDir + "/.bsa-staging"
	}

	pl := pipeline.New(pipeline.Options{
		OutputDir:    opt.OutputDir,
		Index:        opt.Index,
		Logger:       opt.Logger,
		JobQueueCap:  opt.JobQueueCap,
		MoveQueueCap: opt.MoveQueueCap,
		Extractors:   opt.Extractors,
		Movers:       opt.Movers,
	})

	return &Core{opt: opt, pl: pl}
}

// Shutdown raises the pipeline's cooperative cancellation flag. Safe to
// call from a signal handler goroutine while Run is in progress.
func (c *Core) Shutdown() {
	c.pl.Shutdown()
}

// nestedHandler constructs the phase-2 handler sharing this Core's output
// directory and archive index, so both phases agree on the
// "<output>/.install-temp/<archive-id>/" staging convention.
func (c *Core) nestedHandler() *nestedarchive.Handler {
	return nestedarchive.New(nestedarchive.Options{
		OutputDir: c.opt.OutputDir,
		Index:     c.opt.Index,
		Logger:    c.opt.Logger,
		Progress:  c.pl.ProgressFunc(),
	})
}
