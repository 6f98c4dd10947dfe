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

// Package directive models the declarative unit of installation work: the
// Directive record, its Kind, and its Status lifecycle.
package directive

import "strings"

// Kind enumerates the directive kinds recognized by the bundle manifest.
type Kind uint8

const (
	KindNone Kind = iota
	KindFromArchive
	KindPatchedFromArchive
	KindCreateBSA
	KindInline
	KindWholeFile
	KindTransformed
	KindNoOp
)

func (k Kind) String() string {
	switch k {
	case KindFromArchive:
		return "FromArchive"
	case KindPatchedFromArchive:
		return "PatchedFromArchive"
	case KindCreateBSA:
		return "CreateBSA"
	case KindInline:
		return "Inline"
	case KindWholeFile:
		return "WholeFile"
	case KindTransformed:
		return "Transformed"
	case KindNoOp:
		return "NoOp"
	default:
		return "None"
	}
}

// MarshalText implements encoding.TextMarshaler so a Kind round-trips
// through the JSON bundle manifest as its name rather than its ordinal.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}

// ParseKind resolves a manifest kind name to a Kind, case-insensitively.
// An unrecognized name resolves to KindNone.
func ParseKind(s string) Kind {
	switch strings.ToLower(s) {
	case "fromarchive":
		return KindFromArchive
	case "patchedfromarchive":
		return KindPatchedFromArchive
	case "createbsa":
		return KindCreateBSA
	case "inline":
		return KindInline
	case "wholefile":
		return KindWholeFile
	case "transformed":
		return KindTransformed
	case "noop":
		return KindNoOp
	default:
		return KindNone
	}
}

// RequiresArchive reports whether this kind resolves its artifact from a
// source archive (and therefore participates in the streaming extraction
// pipeline rather than being placed directly).
func (k Kind) RequiresArchive() bool {
	switch k {
	case KindFromArchive, KindPatchedFromArchive:
		return true
	default:
		return false
	}
}
