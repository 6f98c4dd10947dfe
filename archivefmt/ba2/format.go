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

// Package ba2 hand-rolls a reader and synthetic-archive writer for the
// Fallout 4-era BA2 ("General" type) container, the other half of the
// nested-archive family alongside package bsa. No ecosystem library covers
// this format either.
//
// Only the GNRL (general-purpose) record type is implemented; DX10
// (tiled texture chunk) records require mip-chain reconstruction that a
// compatible-superset repacker does not need — Open rejects a DX10 archive
// with ErrUnsupportedRecordType rather than silently producing a corrupt
// texture.
package ba2

import (
	"encoding/binary"
	"errors"
)

var magic = [4]byte{'B', 'T', 'D', 'X'}

var (
	typeGeneral = [4]byte{'G', 'N', 'R', 'L'}
	typeTexture = [4]byte{'D', 'X', '1', '0'}
)

type header struct {
	Magic           [4]byte
	Version         uint32
	Type            [4]byte
	FileCount       uint32
	NameTableOffset uint64
}

const headerSize = 24

func readHeader(r readerAtOffset) (header, error) {
	var h header
	buf := make([]byte, headerSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return h, err
	}

	copy(h.Magic[:], buf[0:4])
	if h.Magic != magic {
		return h, errors.New("ba2: bad magic")
	}

	le := binary.LittleEndian
	h.Version = le.Uint32(buf[4:8])
	copy(h.Type[:], buf[8:12])
	h.FileCount = le.Uint32(buf[12:16])
	h.NameTableOffset = le.Uint64(buf[16:24])

	return h, nil
}

type readerAtOffset interface {
	ReadAt(p []byte, off int64) (int, error)
}

// generalRecord is one GNRL file record, 36 bytes.
type generalRecord struct {
	NameHash     uint32
	Ext          [4]byte
	DirHash      uint32
	Flags        uint32
	Offset       uint64
	PackedSize   uint32
	UnpackedSize uint32
	Sentinel     uint32
}

const generalRecordSize = 36
