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

package ba2

import (
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/pathnorm"
)

// ErrUnsupportedRecordType is returned by Open when the archive's type field
// is DX10 rather than GNRL.
var ErrUnsupportedRecordType = errors.New("ba2: DX10 texture archives are not supported")

type entry struct {
	path       string
	offset     uint64
	packedSize uint32
	rawSize    uint32
}

func (e entry) compressed() bool { return e.packedSize != 0 }

type rdr struct {
	f       *os.File
	entries []entry
}

// Open reads the GNRL file-record table and trailing name table, resolving
// each record to a path. DX10 (texture-chunk) archives are rejected rather
// than misread.
func Open(path string) (archivefmt.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	h, err := readHeader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if h.Type == typeTexture {
		_ = f.Close()
		return nil, ErrUnsupportedRecordType
	}
	if h.Type != typeGeneral {
		_ = f.Close()
		return nil, fmt.Errorf("ba2: unrecognized archive type %q", h.Type)
	}

	entries, err := readEntries(f, h)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &rdr{f: f, entries: entries}, nil
}

func readEntries(f *os.File, h header) ([]entry, error) {
	recBuf := make([]byte, int(h.FileCount)*generalRecordSize)
	if _, err := f.ReadAt(recBuf, headerSize); err != nil {
		return nil, fmt.Errorf("ba2: reading general record table: %w", err)
	}

	le := binary.LittleEndian
	entries := make([]entry, h.FileCount)
	for i := range entries {
		base := i * generalRecordSize
		entries[i] = entry{
			offset:     le.Uint64(recBuf[base+16 : base+24]),
			packedSize: le.Uint32(recBuf[base+24 : base+28]),
			rawSize:    le.Uint32(recBuf[base+28 : base+32]),
		}
	}

	if err := attachNames(f, h, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// attachNames reads the name table: per file, a uint16 length prefix
// followed by that many bytes of path, in file-record order.
func attachNames(f *os.File, h header, entries []entry) error {
	r := io.NewSectionReader(f, int64(h.NameTableOffset), 1<<31-1)

	for i := range entries {
		var ln uint16
		if err := binary.Read(r, binary.LittleEndian, &ln); err != nil {
			return fmt.Errorf("ba2: reading name table entry %d: %w", i, err)
		}
		buf := make([]byte, ln)
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		entries[i].path = filepath.ToSlash(string(buf))
	}

	return nil
}

func (o *rdr) Close() error { return o.f.Close() }

// RandomAccess is true: every record carries its own absolute offset.
func (o *rdr) RandomAccess() bool { return true }

func (o *rdr) Enumerate(fn archivefmt.FuncEnumerate) error {
	for _, e := range o.entries {
		if !fn(archivefmt.Entry{Path: e.path, Size: int64(e.rawSize)}) {
			return nil
		}
	}
	return nil
}

func (o *rdr) ExtractSelective(wanted map[string]struct{}, destRoot string, onSkip archivefmt.SkipFunc, onProgress archivefmt.ProgressFunc) error {
	for _, e := range o.entries {
		if _, ok := wanted[pathnorm.Normalize(e.path)]; !ok {
			continue
		}
		if err := o.extractOne(e, destRoot, onProgress); err != nil {
			onSkip(e.path, err)
		}
	}
	return nil
}

func (o *rdr) ExtractAll(destRoot string, onSkip archivefmt.SkipFunc, onProgress archivefmt.ProgressFunc) error {
	for _, e := range o.entries {
		if err := o.extractOne(e, destRoot, onProgress); err != nil {
			onSkip(e.path, err)
		}
	}
	return nil
}

func (o *rdr) extractOne(e entry, destRoot string, onProgress archivefmt.ProgressFunc) error {
	dst := filepath.Join(destRoot, filepath.FromSlash(e.path))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	w, err := archivefmt.CreateTracked(dst, 0o644, onProgress)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	size := e.packedSize
	if !e.compressed() {
		size = e.rawSize
	}
	var src io.Reader = io.NewSectionReader(o.f, int64(e.offset), int64(size))

	if e.compressed() {
		zr, err := zlib.NewReader(src)
		if err != nil {
			return err
		}
		defer func() { _ = zr.Close() }()
		src = zr
	}

	_, err = io.Copy(w, src)
	return err
}
