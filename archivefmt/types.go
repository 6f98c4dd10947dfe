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

// Package archivefmt defines the shared contract every archive format
// binding (zip, 7z, rar, bsa, ba2) satisfies: the enumerate /
// extract-selective / extract-all-to-temp capability trio, plus the
// selective-vs-full strategy choice and header-based format detection.
package archivefmt

import (
	"io"
	"io/fs"
)

// Entry is one archive member as reported by Enumerate: path (original
// case) and declared uncompressed size. No other metadata is required by
// the core.
type Entry struct {
	Path string
	Size int64
}

// FuncEnumerate is the lazy sequence callback used by Enumerate: it is
// invoked once per entry and should return false to stop iterating early.
type FuncEnumerate func(e Entry) bool

// SkipFunc is invoked once per entry that failed to extract (CRC mismatch,
// decompression fault, truncated stream). Extract* returns only after every
// entry has been attempted: a bad entry is skipped, never a reason to abort
// the archive.
type SkipFunc func(path string, cause error)

// Reader is the capability every format binding exposes. A Reader wraps one
// open archive handle; Close releases it.
type Reader interface {
	io.Closer

	// Enumerate produces entries without extracting, in sub-linear time
	// relative to payload size where the format allows it (central
	// directory for ZIP, header table for 7z/RAR/BSA/BA2).
	Enumerate(fn FuncEnumerate) error

	// RandomAccess reports whether ExtractSelective can seek directly to
	// individual members without decoding the whole archive (true for ZIP,
	// BSA and BA2; false for 7z, which is treated as solid, and RAR, which
	// lacks a seek table).
	RandomAccess() bool

	// ExtractSelective extracts only the entries whose normalized path is
	// in wanted, into destRoot, preserving intra-archive directory
	// structure. Per-entry failures are reported via onSkip and do not
	// abort the remaining entries. onProgress, when non-nil, is called
	// with the byte count of every chunk written to an entry's
	// destination file.
	ExtractSelective(wanted map[string]struct{}, destRoot string, onSkip SkipFunc, onProgress ProgressFunc) error

	// ExtractAll extracts every entry into destRoot. Required when the
	// strategy function (see Strategy) selects "full" because random
	// access is unsupported or the needed fraction exceeds the threshold.
	// onProgress behaves as in ExtractSelective.
	ExtractAll(destRoot string, onSkip SkipFunc, onProgress ProgressFunc) error
}

// MemberWriter assembles a synthetic archive from staged files, the
// reverse direction needed by the CreateBSA build phase.
type MemberWriter interface {
	io.Closer

	// Add appends one member, read from src, stored under relPath inside
	// the synthetic archive.
	Add(relPath string, info fs.FileInfo, src io.Reader) error
}

// Opener constructs a Reader bound to the archive at path.
type Opener func(path string) (Reader, error)
