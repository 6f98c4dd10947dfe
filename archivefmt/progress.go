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
	"io"
	"os"

	libprg "github.com/sabouaram/modforge/file/progress"
)

// ProgressFunc receives the byte count of each write to one extracted
// entry's destination file (an increment, not a running total). Format bindings call it from the io.Copy that
// materializes each member so the pipeline's progress reporter can tally
// extraction bytes across every format. A nil ProgressFunc disables
// tracking entirely rather than being called with zero values.
type ProgressFunc func(n int64)

// CreateTracked opens dst for writing exactly as the format bindings'
// previous bare os.OpenFile(O_CREATE|O_TRUNC|O_WRONLY) call did, except that
// a non-nil onProgress wraps the handle with file/progress so every Write
// the extraction loop performs reports its length upward. Kept in this
// package, rather than duplicated per binding, so zip/7z/rar/bsa/ba2 share
// one wrapping policy instead of five slightly different ones.
func CreateTracked(dst string, perm os.FileMode, onProgress ProgressFunc) (io.WriteCloser, error) {
	if onProgress == nil {
		return os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	}

	w, err := libprg.New(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return nil, err
	}
	w.RegisterFctIncrement(libprg.FctIncrement(onProgress))
	return w, nil
}
