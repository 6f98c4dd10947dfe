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

package archivefmt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a container kind: the three member-archive formats
// plus the two Bethesda-specific nested-archive containers.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatZip
	FormatSevenZip
	FormatRar
	FormatBSA
	FormatBA2
)

func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatSevenZip:
		return "7z"
	case FormatRar:
		return "rar"
	case FormatBSA:
		return "bsa"
	case FormatBA2:
		return "ba2"
	default:
		return "unknown"
	}
}

// typeBase orders formats for the admission priority formula: zip < bsa <
// rar < 7z < unknown, cheapest-to-extract first.
func (f Format) typeBase() int {
	switch f {
	case FormatZip:
		return 0
	case FormatBSA:
		return 1000
	case FormatRar:
		return 2000
	case FormatSevenZip:
		return 3000
	default:
		return 4000
	}
}

// TypeBase exposes typeBase for the pipeline's priority formula
// (priority = type_base(format) + min(size_mb, 99)).
func (f Format) TypeBase() int { return f.typeBase() }

var (
	zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}
	sevenMagic = []byte{0x37, 0x7a, 0xbc, 0xaf, 0x27, 0x1c}
	rar5Magic  = []byte{0x52, 0x61, 0x72, 0x21, 0x1a, 0x07, 0x01, 0x00}
	rar4Magic  = []byte{0x52, 0x61, 0x72, 0x21, 0x1a, 0x07, 0x00}
	ba2Magic   = []byte("BTDX")
)

// Detect peeks at header (the archive's first bytes) and dispatches by
// magic number; when the magic is ambiguous (BSA has no stable cross-game
// magic — some generations use "BSA\x00", others vary by version field
// only), the extension hint breaks the tie.
func Detect(header []byte, extHint string) Format {
	switch {
	case bytes.HasPrefix(header, zipMagic):
		return FormatZip
	case bytes.HasPrefix(header, sevenMagic):
		return FormatSevenZip
	case bytes.HasPrefix(header, rar5Magic), bytes.HasPrefix(header, rar4Magic):
		return FormatRar
	case bytes.HasPrefix(header, ba2Magic):
		return FormatBA2
	case len(header) >= 4 && header[0] == 'B' && header[1] == 'S' && header[2] == 'A' && header[3] == 0:
		return FormatBSA
	}

	switch strings.ToLower(extHint) {
	case ".zip":
		return FormatZip
	case ".7z":
		return FormatSevenZip
	case ".rar":
		return FormatRar
	case ".bsa":
		return FormatBSA
	case ".ba2":
		return FormatBA2
	}

	return FormatUnknown
}

// DetectFile peeks at path's header bytes and extension to resolve its
// Format, the shared two-signal strategy every caller that only has a path
// (rather than already-read bytes) should use instead of re-deriving its
// own header-read logic.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, 16)
	n, _ := f.Read(header)
	return Detect(header[:n], filepath.Ext(path)), nil
}

// ParseFormat resolves a bundle-manifest archive-type name (CreateBSA's
// ArchiveType field) to a Format, case-insensitively.
func ParseFormat(name string) Format {
	switch strings.ToLower(name) {
	case "zip":
		return FormatZip
	case "7z", "sevenzip":
		return FormatSevenZip
	case "rar":
		return FormatRar
	case "bsa":
		return FormatBSA
	case "ba2":
		return FormatBA2
	default:
		return FormatUnknown
	}
}
