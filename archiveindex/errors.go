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

package archiveindex

import (
	"fmt"

	liberr "github.com/sabouaram/modforge/errors"
)

const MinPkgArchiveIndex = liberr.MinAvailable + 100

const (
	ErrorOpenStore liberr.CodeError = iota + MinPkgArchiveIndex
	ErrorMigrate
	ErrorIndexFiles
	ErrorLookup
	ErrorGetStatus
	ErrorSetStatus
	ErrorNotIndexed
)

func init() {
	if liberr.ExistInMapMessage(ErrorOpenStore) {
		panic(fmt.Errorf("error code collision modforge/archiveindex"))
	}
	liberr.RegisterIdFctMessage(ErrorOpenStore, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorOpenStore:
		return "cannot open archive index store"
	case ErrorMigrate:
		return "cannot migrate archive index schema"
	case ErrorIndexFiles:
		return "cannot index archive file entries"
	case ErrorLookup:
		return "archive index lookup failed"
	case ErrorGetStatus:
		return "cannot read directive status"
	case ErrorSetStatus:
		return "cannot write directive status"
	case ErrorNotIndexed:
		return "archive has not been indexed yet"
	}

	return liberr.NullMessage
}
