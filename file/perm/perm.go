/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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
 *
 */

// Package perm models an os.FileMode-compatible octal permission value that
// round-trips through JSON/YAML/TOML the same way directive.Kind round-trips
// through text marshaling.
package perm

import (
	"fmt"
	"strconv"
)

// Perm is a POSIX permission bit set, stored as the same bit layout as
// os.FileMode's lower nine bits plus any sticky/setuid/setgid bits.
type Perm uint32

// Parse reads an octal string ("0644", "644", "0755") into a Perm.
func Parse(s string) (Perm, error) {
	if s == "" {
		return 0, fmt.Errorf("perm: empty permission string")
	}

	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("perm: invalid octal permission %q: %w", s, err)
	}

	return Perm(v), nil
}

// String renders the permission in zero-padded four-digit octal form.
func (p Perm) String() string {
	return fmt.Sprintf("%04o", uint32(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Perm) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Perm) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}

	*p = v
	return nil
}
