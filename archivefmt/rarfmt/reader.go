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

// Package rarfmt binds github.com/nwaples/rardecode/v2 to archivefmt.Reader.
//
// rardecode exposes a sequential, tar.Reader-shaped API (Next/Read) with no
// seek table, so RandomAccess is always false here: both RAR4 and RAR5 are
// always extracted with ExtractAll.
package rarfmt

import (
	"io"
	"os"
	"path/filepath"

	"github.com/nwaples/rardecode/v2"

	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/pathnorm"
)

type rdr struct {
	path string
}

// Open does not eagerly open the underlying file: rardecode.NewReader is
// single-pass, so Enumerate, ExtractSelective and ExtractAll each reopen a
// fresh sequential reader over the archive rather than sharing one cursor.
func Open(path string) (archivefmt.Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &rdr{path: path}, nil
}

func (o *rdr) Close() error { return nil }

func (o *rdr) RandomAccess() bool { return false }

func (o *rdr) openSequential() (*rardecode.Reader, *os.File, error) {
	f, err := os.Open(o.path)
	if err != nil {
		return nil, nil, err
	}

	r, err := rardecode.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	return r, f, nil
}

func (o *rdr) Enumerate(fn archivefmt.FuncEnumerate) error {
	r, f, err := o.openSequential()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	for {
		h, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if h.IsDir {
			continue
		}
		if !fn(archivefmt.Entry{Path: h.Name, Size: h.UnPackedSize}) {
			return nil
		}
	}
}

func (o *rdr) ExtractSelective(wanted map[string]struct{}, destRoot string, onSkip archivefmt.SkipFunc, onProgress archivefmt.ProgressFunc) error {
	return o.extract(destRoot, onSkip, onProgress, func(name string) bool {
		_, ok := wanted[pathnorm.Normalize(name)]
		return ok
	})
}

func (o *rdr) ExtractAll(destRoot string, onSkip archivefmt.SkipFunc, onProgress archivefmt.ProgressFunc) error {
	return o.extract(destRoot, onSkip, onProgress, func(string) bool { return true })
}

// extract drives one full sequential pass over the archive, writing each
// entry that matches 'want'. A per-entry decode failure is reported via
// onSkip and the pass continues with the next header; it does not abort
// the remaining archive.
func (o *rdr) extract(destRoot string, onSkip archivefmt.SkipFunc, onProgress archivefmt.ProgressFunc, want func(name string) bool) error {
	r, f, err := o.openSequential()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	for {
		h, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if h.IsDir || !want(h.Name) {
			continue
		}

		if err := writeEntry(r, h.Name, destRoot, onProgress); err != nil {
			onSkip(h.Name, err)
		}
	}
}

func writeEntry(r io.Reader, name, destRoot string, onProgress archivefmt.ProgressFunc) error {
	dst := filepath.Join(destRoot, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	w, err := archivefmt.CreateTracked(dst, 0o644, onProgress)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	_, err = io.Copy(w, r)
	return err
}
