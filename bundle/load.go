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
	"encoding/json"
	"fmt"
	"io"

	libval "github.com/go-playground/validator/v10"

	"github.com/sabouaram/modforge/directive"
	liberr "github.com/sabouaram/modforge/errors"
	"github.com/sabouaram/modforge/pathnorm"
)

// Decode parses a bundle manifest from r and validates its struct tags
// with go-playground/validator, the same library database/gorm.Config and
// logger/config already use for this shape of validation.
func Decode(r io.Reader) (*Manifest, liberr.Error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, ErrorDecode.Error(err)
	}

	if err := validateManifest(&m); err != nil {
		return nil, err
	}

	return &m, nil
}

func validateManifest(m *Manifest) liberr.Error {
	e := ErrorValidate.Error(nil)

	if err := libval.New().Struct(m); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		} else if verrs, ok := err.(libval.ValidationErrors); ok {
			for _, er := range verrs {
				//nolint #goerr113
				e.Add(fmt.Errorf("manifest field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
			}
		} else {
			e.Add(err)
		}
	}

	seenID := make(map[uint64]bool, len(m.Directives))
	seenDest := make(map[string]bool, len(m.Directives))
	for _, d := range m.Directives {
		if seenID[d.ID] {
			e.Add(ErrorDuplicateDirectiveID.Error(fmt.Errorf("directive id %d", d.ID)))
		}
		seenID[d.ID] = true

		if d.To == "" {
			continue
		}
		norm := pathnorm.Normalize(pathnorm.StripDataPrefix(d.To))
		if seenDest[norm] {
			e.Add(ErrorDuplicateDestination.Error(fmt.Errorf("destination %q", norm)))
		}
		seenDest[norm] = true
	}

	if !e.HasParent() {
		return nil
	}
	return e
}

// Records converts every DirectiveDoc in m to a *directive.Record, in
// declaration order (the order loadorder.Compute's collection-order ranking
// relies on).
func (m *Manifest) Records() []*directive.Record {
	out := make([]*directive.Record, 0, len(m.Directives))
	for _, d := range m.Directives {
		out = append(out, d.ToRecord())
	}
	return out
}
