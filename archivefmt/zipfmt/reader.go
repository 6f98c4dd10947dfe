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

// Package zipfmt binds the stdlib archive/zip package to archivefmt.Reader.
// ZIP's central directory gives both sub-linear enumeration and true
// random-access selective extraction, so this is the one member-archive
// binding that reports RandomAccess true.
package zipfmt

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/pathnorm"
)

type rdr struct {
	f *os.File
	z *zip.Reader
}

// Open binds a zip.Reader over the central directory at path. ZIP's central
// directory makes Enumerate and random-access ExtractSelective both
// sub-linear in payload size.
func Open(path string) (archivefmt.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	z, err := zip.NewReader(f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &rdr{f: f, z: z}, nil
}

func (o *rdr) Close() error {
	return o.f.Close()
}

func (o *rdr) RandomAccess() bool { return true }

func (o *rdr) Enumerate(fn archivefmt.FuncEnumerate) error {
	for _, f := range o.z.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !fn(archivefmt.Entry{Path: f.Name, Size: int64(f.UncompressedSize64)}) {
			return nil
		}
	}
	return nil
}

func (o *rdr) ExtractSelective(wanted map[string]struct{}, destRoot string, onSkip archivefmt.SkipFunc, onProgress archivefmt.ProgressFunc) error {
	for _, f := range o.z.File {
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
	for _, f := range o.z.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractOne(f, destRoot, onProgress); err != nil {
			onSkip(f.Name, err)
		}
	}
	return nil
}

func extractOne(f *zip.File, destRoot string, onProgress archivefmt.ProgressFunc) error {
	dst := filepath.Join(destRoot, filepath.FromSlash(f.Name))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	w, err := archivefmt.CreateTracked(dst, f.Mode(), onProgress)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	_, err = io.Copy(w, rc)
	return err
}
