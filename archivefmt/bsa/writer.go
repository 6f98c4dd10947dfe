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
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/sabouaram/modforge/archivefmt"
)

type pendingMember struct {
	folder string
	name   string
	size   uint32
	spool  *os.File
}

// wtr assembles a synthetic BSA from staged members for the CreateBSA
// phase. Each Add call spools its source to an individual temp file
// instead of an in-memory buffer, so resident memory stays bounded by one
// copy buffer no matter how large the member set grows.
type wtr struct {
	dst     *os.File
	tmpDir  string
	pending []*pendingMember
}

// NewWriter creates a synthetic archive at dst, spooling member data under
// a sibling temp directory until Close assembles the final layout.
func NewWriter(dst string) (archivefmt.MemberWriter, error) {
	f, err := os.Create(dst)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp(path.Dir(dst), "bsa-build-*")
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

	folder := path.Dir(path.Clean(strings.ReplaceAll(relPath, `\`, "/")))
	if folder == "." {
		folder = ""
	}

	w.pending = append(w.pending, &pendingMember{
		folder: folder,
		name:   path.Base(relPath),
		size:   uint32(n),
		spool:  spool,
	})

	return nil
}

// Close lays out header, folder table, per-folder file records, name
// block, then member data, in that order, matching the layout Open parses.
func (w *wtr) Close() error {
	defer func() {
		_ = os.RemoveAll(w.tmpDir)
		_ = w.dst.Close()
	}()

	folders := groupByFolder(w.pending)

	folderRecOffset := uint32(headerSize)
	folderTableSize := uint32(len(folders)) * folderRecordSize
	cursor := folderRecOffset + folderTableSize

	perFolderFiles := make([][]laidOutFile, len(folders))
	folderOffsets := make([]uint32, len(folders))
	var totalFileLen, totalFolderLen uint32

	// File-record blocks come right after the folder table, one block per
	// folder, each preceded by the folder's own name (hasNames is always
	// on for synthetic archives so extraction can round-trip paths).
	for fi, fo := range folders {
		folderOffsets[fi] = cursor
		totalFolderLen += 1 + uint32(len(fo.name))
		cursor += 1 + uint32(len(fo.name))
		block := make([]laidOutFile, 0, len(fo.members))
		for _, m := range fo.members {
			block = append(block, laidOutFile{pendingMember: m})
			cursor += 16
			totalFileLen += uint32(len(m.name)) + 1
		}
		perFolderFiles[fi] = block
	}

	cursor += totalFileLen

	var fileCount uint32
	for _, fo := range folders {
		fileCount += uint32(len(fo.members))
	}

	for fi := range perFolderFiles {
		for i := range perFolderFiles[fi] {
			perFolderFiles[fi][i].offset = cursor
			cursor += perFolderFiles[fi][i].size
		}
	}

	if err := writeHeader(w.dst, header{
		Magic:           magic,
		Version:         105,
		FolderRecOffset: folderRecOffset,
		ArchiveFlags:    flagHasNames,
		FolderCount:     uint32(len(folders)),
		FileCount:       fileCount,
		TotalFolderLen:  totalFolderLen,
		TotalFileLen:    totalFileLen,
	}); err != nil {
		return err
	}

	if err := writeFolderTable(w.dst, folders, folderOffsets); err != nil {
		return err
	}

	for fi, fo := range folders {
		if err := writeFolderNameAndRecords(w.dst, fo.name, perFolderFiles[fi]); err != nil {
			return err
		}
	}

	for _, fo := range folders {
		for _, m := range fo.members {
			if _, err := io.WriteString(w.dst, m.name+"\x00"); err != nil {
				return err
			}
		}
	}

	for _, block := range perFolderFiles {
		for _, lf := range block {
			if _, err := lf.spool.Seek(0, io.SeekStart); err != nil {
				return err
			}
			if _, err := io.Copy(w.dst, lf.spool); err != nil {
				return err
			}
			_ = lf.spool.Close()
		}
	}

	return nil
}

type folderGroup struct {
	name    string
	members []*pendingMember
}

// laidOutFile is a pendingMember with its final data offset resolved.
type laidOutFile struct {
	*pendingMember
	offset uint32
}

func groupByFolder(pending []*pendingMember) []folderGroup {
	byName := map[string][]*pendingMember{}
	for _, m := range pending {
		byName[m.folder] = append(byName[m.folder], m)
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	groups := make([]folderGroup, 0, len(names))
	for _, n := range names {
		groups = append(groups, folderGroup{name: n, members: byName[n]})
	}
	return groups
}

func writeHeader(w io.Writer, h header) error {
	buf := make([]byte, headerSize)
	le := binary.LittleEndian

	copy(buf[0:4], h.Magic[:])
	le.PutUint32(buf[4:8], h.Version)
	le.PutUint32(buf[8:12], h.FolderRecOffset)
	le.PutUint32(buf[12:16], h.ArchiveFlags)
	le.PutUint32(buf[16:20], h.FolderCount)
	le.PutUint32(buf[20:24], h.FileCount)
	le.PutUint32(buf[24:28], h.TotalFolderLen)
	le.PutUint32(buf[28:32], h.TotalFileLen)
	le.PutUint16(buf[32:34], h.FileFlags)

	_, err := w.Write(buf)
	return err
}

func writeFolderTable(w io.Writer, folders []folderGroup, offsets []uint32) error {
	for i, fo := range folders {
		buf := make([]byte, folderRecordSize)
		binary.LittleEndian.PutUint32(buf[8:12], uint32(len(fo.members)))
		binary.LittleEndian.PutUint32(buf[12:16], offsets[i])
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("bsa: writing folder table: %w", err)
		}
	}
	return nil
}

func writeFolderNameAndRecords(w io.Writer, name string, files []laidOutFile) error {
	if _, err := w.Write([]byte{byte(len(name))}); err != nil {
		return err
	}
	if _, err := io.WriteString(w, name); err != nil {
		return err
	}

	for _, f := range files {
		buf := make([]byte, 16)
		binary.LittleEndian.PutUint32(buf[8:12], f.size)
		binary.LittleEndian.PutUint32(buf[12:16], f.offset)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
