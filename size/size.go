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

// Package size models a byte count that parses human-readable suffixes
// (KB/MB/GB, binary or decimal) the way buffer-size configuration fields
// are expressed across the ambient stack.
package size

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a byte count.
type Size uint64

const (
	KB Size = 1 << (10 * (iota + 1))
	MB
	GB
	TB
)

var suffixes = []struct {
	suffix string
	unit   Size
}{
	{"TB", TB}, {"GB", GB}, {"MB", MB}, {"KB", KB}, {"B", 1},
}

// Parse reads strings like "32KB", "1MB", "128" (bytes) into a Size.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("size: empty size string")
	}

	upper := strings.ToUpper(s)
	for _, su := range suffixes {
		if strings.HasSuffix(upper, su.suffix) {
			num := strings.TrimSpace(upper[:len(upper)-len(su.suffix)])
			if num == "" {
				continue
			}
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, fmt.Errorf("size: invalid size %q: %w", s, err)
			}
			return Size(v * float64(su.unit)), nil
		}
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("size: invalid size %q: %w", s, err)
	}
	return Size(v), nil
}

// String renders the size using the largest whole unit that divides it evenly.
func (s Size) String() string {
	switch {
	case s >= TB && s%TB == 0:
		return fmt.Sprintf("%dTB", uint64(s/TB))
	case s >= GB && s%GB == 0:
		return fmt.Sprintf("%dGB", uint64(s/GB))
	case s >= MB && s%MB == 0:
		return fmt.Sprintf("%dMB", uint64(s/MB))
	case s >= KB && s%KB == 0:
		return fmt.Sprintf("%dKB", uint64(s/KB))
	default:
		return strconv.FormatUint(uint64(s), 10)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Size) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}

	*s = v
	return nil
}
