/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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
 *
 */

// Package hookfile provides a logrus hook that writes log entries to a file,
// creating the file and its parent directory on demand per the configured
// permissions.
package hookfile

import (
	"os"
	"path/filepath"

	logcfg "github.com/sabouaram/modforge/logger/config"
	loghkw "github.com/sabouaram/modforge/logger/hookwriter"
	loglvl "github.com/sabouaram/modforge/logger/level"
	logtps "github.com/sabouaram/modforge/logger/types"
	"github.com/sirupsen/logrus"
)

// HookFile is a logrus hook that writes log entries to a file on disk.
type HookFile interface {
	logtps.Hook
}

// New opens (creating if configured to) the file named in opt.Filepath and
// returns a HookFile that writes formatted entries to it.
func New(opt logcfg.OptionsFile, f logrus.Formatter) (HookFile, error) {
	if opt.Filepath == "" {
		return nil, nil
	}

	if opt.CreatePath {
		if err := os.MkdirAll(filepath.Dir(opt.Filepath), os.FileMode(opt.PathMode)); err != nil && !os.IsExist(err) {
			return nil, err
		}
	}

	flags := os.O_WRONLY | os.O_APPEND
	if opt.Create {
		flags |= os.O_CREATE
	}

	fileMode := os.FileMode(opt.FileMode)
	if fileMode == 0 {
		fileMode = 0644
	}

	fd, err := os.OpenFile(opt.Filepath, flags, fileMode)
	if err != nil {
		return nil, err
	}

	lvls := make([]logrus.Level, 0, len(opt.LogLevel))
	for _, l := range opt.LogLevel {
		lvls = append(lvls, loglvl.Parse(l).Logrus())
	}
	if len(lvls) == 0 {
		lvls = logrus.AllLevels
	}

	std := &logcfg.OptionsStd{
		DisableStack:     opt.DisableStack,
		DisableTimestamp: opt.DisableTimestamp,
		EnableTrace:      opt.EnableTrace,
		DisableColor:     true,
		EnableAccessLog:  opt.EnableAccessLog,
	}

	h, err := loghkw.New(fd, std, lvls, f)
	if err != nil {
		_ = fd.Close()
		return nil, err
	}

	return h, nil
}
