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
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sabouaram/modforge/archivefmt"
	libdur "github.com/sabouaram/modforge/duration"
	liberr "github.com/sabouaram/modforge/errors"
	libfpg "github.com/sabouaram/modforge/file/progress"
	libiop "github.com/sabouaram/modforge/ioutils/ioprogress"
)

// maxTransientRetries and retrySchedule define the transient-I/O policy:
// automatic retry with small backoff, at most 3 times. The backoff ladder
// is generated once at package init by duration.Duration.RangeDefTo's
// pidcontroller-backed interpolation rather than a bare linear multiple of
// a fixed unit.
const maxTransientRetries = 3

var retrySchedule = libdur.ParseDuration(20 * time.Millisecond).RangeDefTo(libdur.ParseDuration(200 * time.Millisecond))

// backoffFor returns the sleep duration before retry attempt n (0-indexed),
// clamped to the last rung of retrySchedule once n exceeds its length.
func backoffFor(attempt int) time.Duration {
	idx := attempt
	if idx >= len(retrySchedule) {
		idx = len(retrySchedule) - 1
	}
	return retrySchedule[idx].Time()
}

// PlaceWithRetry wraps Place with the transient-I/O retry policy: a
// rename-across-devices, an interrupted syscall or a momentary lock is
// retried up to maxTransientRetries times with the backoffFor schedule
// before the caller treats it as a hard failure. Disk-full and
// permission-denied errors are never retried: they are classified and
// surfaced to the caller on the first attempt.
func PlaceWithRetry(src, dst string, copyOnly bool) error {
	return PlaceWithRetryProgress(src, dst, copyOnly, nil)
}

// PlaceWithRetryProgress is PlaceWithRetry plus a component-L byte callback:
// onProgress, when non-nil, is invoked with every chunk read from src during
// the copy fallback (the rename fast path moves no bytes, so it reports
// nothing). The mover passes the pipeline's shared progressReporter here;
// the three other PlaceWithRetry call sites (phase 2's nested handler,
// phase 3's synthetic-build writer, phase 4's inline whole-file writer) may
// pass nil to opt out.
func PlaceWithRetryProgress(src, dst string, copyOnly bool, onProgress archivefmt.ProgressFunc) error {
	var err error
	for attempt := 0; attempt <= maxTransientRetries; attempt++ {
		err = PlaceProgress(src, dst, copyOnly, onProgress)
		if err == nil {
			return nil
		}
		if IsDiskFull(err) || IsPermissionDenied(err) {
			return err
		}
		if attempt < maxTransientRetries {
			time.Sleep(backoffFor(attempt))
		}
	}
	return err
}

// Place moves (or copies, if copyOnly) src to dst, trying rename first, then
// falling back to copy on a cross-device error. A true reflink clone is
// left as the copy
// fallback's responsibility on filesystems that support copy_file_range as
// a reflink (handled transparently by the OS on btrfs/XFS); this binding
// does not call a filesystem-specific clone ioctl.
func Place(src, dst string, copyOnly bool) error {
	return PlaceProgress(src, dst, copyOnly, nil)
}

// PlaceProgress is Place plus onProgress, threaded down to the copy
// fallback's source reader.
func PlaceProgress(src, dst string, copyOnly bool, onProgress archivefmt.ProgressFunc) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	if !copyOnly {
		if err := os.Rename(src, dst); err == nil {
			return nil
		} else if !isCrossDevice(err) {
			return err
		}
	}

	return copyFile(src, dst, !copyOnly, onProgress)
}

func isCrossDevice(err error) bool {
	linkErr, ok := err.(*os.LinkError)
	if !ok {
		return false
	}
	errno, ok := linkErr.Err.(syscall.Errno)
	return ok && errno == syscall.EXDEV
}

// IsDiskFull reports whether err's root cause is ENOSPC, the one
// placement failure that escalates to a cooperative shutdown rather than
// a per-directive retry.
func IsDiskFull(err error) bool {
	return errors.Is(err, syscall.ENOSPC)
}

// IsPermissionDenied reports whether err's root cause is EACCES/EPERM,
// which is logged and failed without retry.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM)
}

// classifyPlacementError maps a placement error to the taxonomy code the
// failed directive should carry.
func classifyPlacementError(err error) liberr.CodeError {
	switch {
	case IsDiskFull(err):
		return ErrorDiskFull
	case IsPermissionDenied(err):
		return ErrorPermissionDenied
	default:
		return ErrorTransientIO
	}
}

// copyFile reads src through an ioutils/ioprogress wrapper whenever
// onProgress is set, so every byte the copy fallback moves is reported the
// same way the extractor's format-binding writers report extraction bytes
// (one wrapper on the read side of a move, one on the write side of an
// extract, never both on the same copy).
func copyFile(src, dst string, removeSrc bool, onProgress archivefmt.ProgressFunc) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}

	var r io.ReadCloser = in
	if onProgress != nil {
		tracked := libiop.NewReadCloser(in)
		tracked.RegisterFctIncrement(libfpg.FctIncrement(onProgress))
		r = tracked
	}
	defer func() { _ = r.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if removeSrc {
		return os.Remove(src)
	}
	return nil
}
