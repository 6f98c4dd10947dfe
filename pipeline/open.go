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

package pipeline

import (
	"fmt"

	"github.com/sabouaram/modforge/archivefmt"
	"github.com/sabouaram/modforge/archivefmt/ba2"
	"github.com/sabouaram/modforge/archivefmt/bsa"
	"github.com/sabouaram/modforge/archivefmt/rarfmt"
	"github.com/sabouaram/modforge/archivefmt/sevenzipfmt"
	"github.com/sabouaram/modforge/archivefmt/zipfmt"
)

// OpenArchive dispatches to the format binding matching format, the single
// place the pipeline (and the nested-archive handler, which reuses it for
// inner BSA/BA2 containers) needs to know about every concrete reader.
func OpenArchive(format archivefmt.Format, path string) (archivefmt.Reader, error) {
	switch format {
	case archivefmt.FormatZip:
		return zipfmt.Open(path)
	case archivefmt.FormatSevenZip:
		return sevenzipfmt.Open(path)
	case archivefmt.FormatRar:
		return rarfmt.Open(path)
	case archivefmt.FormatBSA:
		return bsa.Open(path)
	case archivefmt.FormatBA2:
		return ba2.Open(path)
	default:
		return nil, fmt.Errorf("pipeline: unrecognized archive format for %s", path)
	}
}

// OpenWriter dispatches to the synthetic-archive writer for format, used
// by the CreateBSA build phase.
func OpenWriter(format archivefmt.Format, dst string) (archivefmt.MemberWriter, error) {
	switch format {
	case archivefmt.FormatBSA:
		return bsa.NewWriter(dst)
	case archivefmt.FormatBA2:
		return ba2.NewWriter(dst)
	default:
		return nil, fmt.Errorf("pipeline: unsupported synthetic archive format %s", format)
	}
}
