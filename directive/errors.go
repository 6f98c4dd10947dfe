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

package directive

import (
	"fmt"

	liberr "github.com/sabouaram/modforge/errors"
)

// MinPkgDirective is this package's error-code range floor, taken from the
// shared liberr.MinAvailable floor the same way every golib sub-package
// claims its own 100-wide band.
const MinPkgDirective = liberr.MinAvailable

const (
	ErrorEmptyArchiveHashPath liberr.CodeError = iota + MinPkgDirective
	ErrorEmptyDestination
	ErrorInvalidTransition
	ErrorMissingArchive
	ErrorDestinationConflict
	ErrorSizeMismatch
	ErrorHashMismatch
)

func init() {
	if liberr.ExistInMapMessage(ErrorEmptyArchiveHashPath) {
		panic(fmt.Errorf("error code collision modforge/directive"))
	}
	liberr.RegisterIdFctMessage(ErrorEmptyArchiveHashPath, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorEmptyArchiveHashPath:
		return "directive has an empty archive hash path"
	case ErrorEmptyDestination:
		return "directive has an empty destination path"
	case ErrorInvalidTransition:
		return "directive status transition is not allowed"
	case ErrorMissingArchive:
		return "directive references an archive that is not present"
	case ErrorDestinationConflict:
		return "directive destination collides with another directive"
	case ErrorSizeMismatch:
		return "directive output size does not match the declared size"
	case ErrorHashMismatch:
		return "directive output hash does not match the declared hash"
	}

	return liberr.NullMessage
}
