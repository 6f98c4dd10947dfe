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

package bsa

import (
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/pathnorm"
)

type entry struct {
	folder     string
	path       string
	size       uint32
	offset     uint32
	compressed bool
}

type rdr struct {
	f       *os.File
	h       header
	entries []entry
}

// Open reads the folder table, every folder's file-record block, and (if
// present) the name block, resolving each file record to a full
// "folder/file" path. The header's own FolderRecOffset/FolderCount/FileCount
// fields make this sub-linear relative to the archive's payload.
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

	entries, err := readEntries(f, h)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &rdr{f: f, h: h, entries: entries}, nil
}

// folderRecordSize is 16 bytes in the BSA104/105 layouts this binding
// targets (hash uint64, file count uint32, offset uint32); archives using
// the older 8-byte folder record (no offset field) are out of scope.
const folderRecordSize = 16

func readEntries(f *os.File, h header) ([]entry, error) {
	folderBuf := make([]byte, int(h.FolderCount)*folderRecordSize)
	if _, err := f.ReadAt(folderBuf, int64(h.FolderRecOffset)); err != nil {
		return nil, fmt.Errorf("bsa: reading folder table: %w", err)
	}

	le := binary.LittleEndian

	type folder struct {
		fileCount uint32
		offset    uint32
	}
	folders := make([]folder, h.FolderCount)
	for i := range folders {
		base := i * folderRecordSize
		folders[i] = folder{
			fileCount: le.Uint32(folderBuf[base+8 : base+12]),
			offset:    le.Uint32(folderBuf[base+12 : base+16]),
		}
	}

	entries := make([]entry, 0, h.FileCount)

	for _, fo := range folders {
		// Each folder's file-record block is preceded by a BSTRING folder
		// name (1-byte length prefix) when flagHasNames is set.
		off := int64(fo.offset)
		var folderName string
		if h.hasNames() {
			lenBuf := make([]byte, 1)
			if _, err := f.ReadAt(lenBuf, off); err != nil {
				return nil, err
			}
			nameBuf := make([]byte, lenBuf[0])
			if _, err := f.ReadAt(nameBuf, off+1); err != nil {
				return nil, err
			}
			folderName = strings.TrimRight(string(nameBuf), "\x00")
			off += 1 + int64(lenBuf[0])
		}

		recBuf := make([]byte, int(fo.fileCount)*16)
		if _, err := f.ReadAt(recBuf, off); err != nil {
			return nil, err
		}

		for i := uint32(0); i < fo.fileCount; i++ {
			base := int(i) * 16
			sizeField := le.Uint32(recBuf[base+8 : base+12])
			entries = append(entries, entry{
				folder:     folderName,
				size:       sizeField &^ (3 << 30),
				compressed: h.compressedByDefault() != (sizeField&(1<<30) != 0),
				offset:     le.Uint32(recBuf[base+12 : base+16]),
			})
		}
	}

	if h.hasNames() {
		if err := attachNames(f, h, entries); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// attachNames reads the trailing file-name block (NUL-terminated strings,
// one per file record in folder-then-file order) and assigns entries[i].path.
// The block sits after the folder table, the interleaved folder-name
// prefixes (TotalFolderLen bytes in all) and every folder's 16-byte file
// records.
func attachNames(f *os.File, h header, entries []entry) error {
	nameBlockOff := int64(h.FolderRecOffset) +
		int64(h.FolderCount)*folderRecordSize +
		int64(h.TotalFolderLen) +
		int64(h.FileCount)*16
	buf := make([]byte, h.TotalFileLen)
	if _, err := f.ReadAt(buf, nameBlockOff); err != nil {
		return fmt.Errorf("bsa: reading name block: %w", err)
	}

	names := strings.Split(strings.TrimRight(string(buf), "\x00"), "\x00")
	for i := range entries {
		if i < len(names) {
			entries[i].path = filepath.ToSlash(names[i])
		} else {
			entries[i].path = fmt.Sprintf("unnamed_%d.bin", i)
		}
		if entries[i].folder != "" {
			entries[i].path = filepath.ToSlash(entries[i].folder) + "/" + entries[i].path
		}
	}

	return nil
}

func (o *rdr) Close() error { return o.f.Close() }

// RandomAccess is true: every file record carries its own offset, so a
// single entry can be seeked to directly without decoding its neighbors.
func (o *rdr) RandomAccess() bool { return true }

func (o *rdr) Enumerate(fn archivefmt.FuncEnumerate) error {
	for _, e := range o.entries {
		if !fn(archivefmt.Entry{Path: e.path, Size: int64(e.size)}) {
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

	var src io.Reader = io.NewSectionReader(o.f, int64(e.offset), int64(e.size))

	if e.compressed {
		// Compressed entries are prefixed by a uint32 uncompressed size,
		// then a zlib stream. LZ4-compressed payloads are not decoded here
		// or by the ba2 package, which also reads zlib only.
		sizeBuf := make([]byte, 4)
		if _, err := io.ReadFull(src, sizeBuf); err != nil {
			return err
		}
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
