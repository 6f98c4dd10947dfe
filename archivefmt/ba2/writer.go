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
	"encoding/binary"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/sabouaram/modforge/archivefmt"
)

type pendingMember struct {
	relPath string
	size    uint32
	spool   *os.File
}

// wtr assembles a synthetic BA2 (GNRL type) from staged members, spooling
// each to a temp file exactly as the bsa writer does, then laying out the
// record table, name table and data block in a final sequential pass.
type wtr struct {
	dst     *os.File
	tmpDir  string
	pending []*pendingMember
}

func NewWriter(dst string) (archivefmt.MemberWriter, error) {
	f, err := os.Create(dst)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp(path.Dir(dst), "ba2-build-*")
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &wtr{dst: f, tmpDir: tmp}, nil
}

func (w *wtr) Add(relPath string, info fs.FileInfo, src io.Reader) error {
	spool, err := os.CreateTemp(w.tmpDir, "member-*")
	if err != nil {
		return err
	}

	n, err := io.Copy(spool, src)
	if err != nil {
		_ = spool.Close()
		return err
	}

	w.pending = append(w.pending, &pendingMember{
		relPath: filepath.ToSlash(relPath),
		size:    uint32(n),
		spool:   spool,
	})

	return nil
}

type laidOutMember struct {
	*pendingMember
	offset uint64
}

// Close writes members uncompressed (PackedSize 0 means "store", a valid
// GNRL encoding real archives also use for incompressible content), so no
// compression pass is needed before the layout is fixed.
func (w *wtr) Close() error {
	defer func() {
		_ = os.RemoveAll(w.tmpDir)
		_ = w.dst.Close()
	}()

	recTableSize := uint32(len(w.pending)) * generalRecordSize
	cursor := uint64(headerSize) + uint64(recTableSize)

	laid := make([]laidOutMember, len(w.pending))
	for i, m := range w.pending {
		laid[i] = laidOutMember{pendingMember: m, offset: cursor}
		cursor += uint64(m.size)
	}
	nameTableOffset := cursor

	if err := writeHeader(w.dst, header{
		Magic:           magic,
		Version:         1,
		Type:            typeGeneral,
		FileCount:       uint32(len(w.pending)),
		NameTableOffset: nameTableOffset,
	}); err != nil {
		return err
	}

	if err := writeRecordTable(w.dst, laid); err != nil {
		return err
	}

	for _, lf := range laid {
		if _, err := lf.spool.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if _, err := io.Copy(w.dst, lf.spool); err != nil {
			return err
		}
		_ = lf.spool.Close()
	}

	return writeNameTable(w.dst, laid)
}

func writeHeader(w io.Writer, h header) error {
	buf := make([]byte, headerSize)
	le := binary.LittleEndian

	copy(buf[0:4], h.Magic[:])
	le.PutUint32(buf[4:8], h.Version)
	copy(buf[8:12], h.Type[:])
	le.PutUint32(buf[12:16], h.FileCount)
	le.PutUint64(buf[16:24], h.NameTableOffset)

	_, err := w.Write(buf)
	return err
}

func writeRecordTable(w io.Writer, laid []laidOutMember) error {
	for _, lf := range laid {
		buf := make([]byte, generalRecordSize)
		le := binary.LittleEndian
		copy(buf[4:8], []byte(ext(lf.relPath)))
		le.PutUint64(buf[16:24], lf.offset)
		// PackedSize (buf[24:28]) stays zero: members are stored
		// uncompressed, matching how real GNRL archives mark stored entries.
		le.PutUint32(buf[28:32], lf.size)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func writeNameTable(w io.Writer, laid []laidOutMember) error {
	for _, lf := range laid {
		le := binary.LittleEndian
		lenBuf := make([]byte, 2)
		le.PutUint16(lenBuf, uint16(len(lf.relPath)))
		if _, err := w.Write(lenBuf); err != nil {
			return err
		}
		if _, err := io.WriteString(w, lf.relPath); err != nil {
			return err
		}
	}
	return nil
}

// ext extracts the up-to-4-byte extension BA2 records store alongside the
// name table, matching what real GNRL archives place in the Ext field.
func ext(relPath string) string {
	e := path.Ext(relPath)
	e = trimLeadingDot(e)
	if len(e) > 4 {
		e = e[:4]
	}
	return e
}

func trimLeadingDot(s string) string {
	if len(s) > 0 && s[0] == '.' {
		return s[1:]
	}
	return s
}
