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

package bundle

import (
	"fmt"

	liberr "github.com/sabouaram/modforge/errors"
)

const MinPkgBundle = liberr.MinAvailable + 700

const (
	ErrorDecode liberr.CodeError = iota + MinPkgBundle
	ErrorValidate
	ErrorDuplicateDestination
	ErrorDuplicateDirectiveID
)

func init() {
	if liberr.ExistInMapMessage(ErrorDecode) {
		panic(fmt.Errorf("error code collision modforge/bundle"))
	}
	liberr.RegisterIdFctMessage(ErrorDecode, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorDecode:
		return "cannot decode bundle manifest"
	case ErrorValidate:
		return "bundle manifest failed validation"
	case ErrorDuplicateDestination:
		return "two directives target the same destination"
	case ErrorDuplicateDirectiveID:
		return "two directives share the same id"
	}

	return liberr.NullMessage
}
