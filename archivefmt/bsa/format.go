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

// Package bsa hand-rolls a reader (and a synthetic-archive writer) for the
// Bethesda Softworks Archive container used by the nested-archive handler.
// No ecosystem Go library covers this game-specific container, so this
// binding is the one archivefmt family built without a third-party
// dependency. The layout below follows the documented BSA folder-record /
// file-record / name-block structure, read field-by-field with
// encoding/binary rather than via a single binary.Read(&struct{}) call
// (the header mixes fixed fields with a variable-length name block that a
// single struct read cannot express).
package bsa

import (
	"encoding/binary"
	"errors"
)

var magic = [4]byte{'B', 'S', 'A', 0}

// flags on header.archiveFlags
const (
	flagHasNames     = 0x02
	flagCompressed   = 0x04
	flagRetainNames  = 0x10
)

type header struct {
	Magic           [4]byte
	Version         uint32
	FolderRecOffset uint32
	ArchiveFlags    uint32
	FolderCount     uint32
	FileCount       uint32
	TotalFolderLen  uint32
	TotalFileLen    uint32
	FileFlags       uint16
	Padding         uint16
}

const headerSize = 36

func readHeader(r readerAtOffset) (header, error) {
	var h header
	buf := make([]byte, headerSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return h, err
	}

	copy(h.Magic[:], buf[0:4])
	if h.Magic != magic {
		return h, errors.New("bsa: bad magic")
	}

	le := binary.LittleEndian
	h.Version = le.Uint32(buf[4:8])
	h.FolderRecOffset = le.Uint32(buf[8:12])
	h.ArchiveFlags = le.Uint32(buf[12:16])
	h.FolderCount = le.Uint32(buf[16:20])
	h.FileCount = le.Uint32(buf[20:24])
	h.TotalFolderLen = le.Uint32(buf[24:28])
	h.TotalFileLen = le.Uint32(buf[28:32])
	h.FileFlags = le.Uint16(buf[32:34])
	h.Padding = le.Uint16(buf[34:36])

	return h, nil
}

func (h header) hasNames() bool {
	return h.ArchiveFlags&flagHasNames != 0
}

func (h header) compressedByDefault() bool {
	return h.ArchiveFlags&flagCompressed != 0
}

type readerAtOffset interface {
	ReadAt(p []byte, off int64) (int, error)
}

// fileRecord is one entry in a folder's file-record block.
type fileRecord struct {
	NameHash uint64
	Size     uint32 // low 30 bits = size; bit 30 = compression-flip; bit 31 = checked
	Offset   uint32
}

func (f fileRecord) compressedFlip() bool { return f.Size&(1<<30) != 0 }
func (f fileRecord) rawSize() uint32      { return f.Size &^ (3 << 30) }
