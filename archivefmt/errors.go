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
	"fmt"

	liberr "github.com/sabouaram/modforge/errors"
)

const MinPkgArchiveFmt = liberr.MinAvailable + 200

const (
	ErrorUnknownFormat liberr.CodeError = iota + MinPkgArchiveFmt
	ErrorOpenArchive
	ErrorEnumerate
	ErrorExtract
	ErrorWriteArchive
)

func init() {
	if liberr.ExistInMapMessage(ErrorUnknownFormat) {
		panic(fmt.Errorf("error code collision modforge/archivefmt"))
	}
	liberr.RegisterIdFctMessage(ErrorUnknownFormat, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorUnknownFormat:
		return "archive format could not be detected"
	case ErrorOpenArchive:
		return "cannot open archive"
	case ErrorEnumerate:
		return "cannot enumerate archive entries"
	case ErrorExtract:
		return "cannot extract archive entries"
	case ErrorWriteArchive:
		return "cannot write synthetic archive"
	}

	return liberr.NullMessage
}
