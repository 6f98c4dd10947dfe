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

// Package pathnorm provides the single canonical path-normalization routine
// used throughout the installer core for intra-archive lookups and
// destination-uniqueness checks.
//
// Every component that compares two archive-internal paths, or checks a
// destination path against the set of already-placed destinations, must
// route the comparison through Normalize so that case and separator
// differences never cause a spurious mismatch or a spurious collision.
package pathnorm

import "strings"

// Normalize folds a path to its canonical comparison form: backslashes
// become forward slashes, the result is lower-cased, and any leading or
// trailing slash is trimmed.
//
// The original (unfolded) path must still be used for the actual
// extraction/placement call so that case-sensitive host filesystems receive
// the archive's real entry name; Normalize exists only for lookups and
// equality checks.
func Normalize(path string) string {
	return TrimSlashes(strings.ToLower(strings.ReplaceAll(path, `\`, "/")))
}

// TrimSlashes removes leading and trailing '/' characters without altering
// anything else about the path.
func TrimSlashes(path string) string {
	return strings.Trim(path, "/")
}

// StripDataPrefix removes a single leading "Data/" segment
// (case-insensitive) from a destination path. The prefix is stripped at
// parse time for every directive, not only installer-choice-expanded ones;
// bundle destinations are always expressed relative to the game's Data
// folder.
func StripDataPrefix(path string) string {
	n := strings.ReplaceAll(path, `\`, "/")
	n = strings.TrimPrefix(n, "/")

	const prefix = "data/"
	if len(n) >= len(prefix) && strings.EqualFold(n[:len(prefix)], prefix) {
		return n[len(prefix):]
	}

	return n
}

// Base returns the final path segment (the "basename"), used by the
// recovery lookup (lookup_by_size_and_name) and by synthetic-archive member
// addressing.
func Base(path string) string {
	n := strings.ReplaceAll(path, `\`, "/")
	n = strings.TrimRight(n, "/")

	if i := strings.LastIndexByte(n, '/'); i >= 0 {
		return n[i+1:]
	}

	return n
}
