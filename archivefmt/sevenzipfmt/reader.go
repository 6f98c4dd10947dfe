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

// Package sevenzipfmt binds github.com/bodgit/sevenzip to archivefmt.Reader.
//
// 7z archives are frequently solid-compressed: every member shares one
// compression stream, so seeking to an arbitrary member still requires
// decoding everything before it. RandomAccess reports false unconditionally
// for that reason — the strategy function in archivefmt always picks Full
// for this binding.
package sevenzipfmt

import (
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"

	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/pathnorm"
)

type rdr struct {
	r *sevenzip.ReadCloser
}

func Open(path string) (archivefmt.Reader, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return &rdr{r: r}, nil
}

func (o *rdr) Close() error {
	return o.r.Close()
}

// RandomAccess always reports false: 7z's solid-block compression means
// extracting one member still costs a sequential decode of everything
// before it, so the strategy function treats every 7z archive as Full
// regardless of how few entries are actually needed.
func (o *rdr) RandomAccess() bool { return false }

func (o *rdr) Enumerate(fn archivefmt.FuncEnumerate) error {
	for _, f := range o.r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !fn(archivefmt.Entry{Path: f.Name, Size: int64(f.FileInfo().Size())}) {
			return nil
		}
	}
	return nil
}

// ExtractSelective still has to walk the whole solid stream in archive
// order (bodgit/sevenzip decodes sequentially under the hood), so it is
// implemented as a filtered ExtractAll rather than true random access.
func (o *rdr) ExtractSelective(wanted map[string]struct{}, destRoot string, onSkip archivefmt.SkipFunc, onProgress archivefmt.ProgressFunc) error {
	for _, f := range o.r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if _, ok := wanted[pathnorm.Normalize(f.Name)]; !ok {
			continue
		}
		if err := extractOne(f, destRoot, onProgress); err != nil {
			onSkip(f.Name, err)
		}
	}
	return nil
}

func (o *rdr) ExtractAll(destRoot string, onSkip archivefmt.SkipFunc, onProgress archivefmt.ProgressFunc) error {
	for _, f := range o.r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractOne(f, destRoot, onProgress); err != nil {
			onSkip(f.Name, err)
		}
	}
	return nil
}

func extractOne(f *sevenzip.File, destRoot string, onProgress archivefmt.ProgressFunc) error {
	dst := filepath.Join(destRoot, filepath.FromSlash(f.Name))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	w, err := archivefmt.CreateTracked(dst, f.FileInfo().Mode(), onProgress)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	_, err = io.Copy(w, rc)
	return err
}
