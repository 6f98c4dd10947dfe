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

package pipeline

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// VerifyPlacement checks a placed file against its directive's declared
// size and, when present, its declared content hash (xxh3-64, hex): a Done
// directive must have produced an output whose size equals the directive's
// size, hash check if one is present. A zero size skips the size check
// (directives with no declared size, such as inline ones, carry nothing to
// compare against). The returned error is a DestinationConflict: the
// destination exists but holds the wrong content after placement.
func VerifyPlacement(dst string, size int64, hash string) error {
	fi, err := os.Stat(dst)
	if err != nil {
		return ErrorDestinationConflict.Error(err)
	}

	if size > 0 && fi.Size() != size {
		return ErrorDestinationConflict.Error(fmt.Errorf("destination %s is %d bytes, directive declares %d", dst, fi.Size(), size))
	}

	if hash == "" {
		return nil
	}

	sum, err := hashFile(dst)
	if err != nil {
		return ErrorDestinationConflict.Error(err)
	}

	want := strings.TrimPrefix(strings.ToLower(hash), "0x")
	if !strings.EqualFold(sum, want) {
		return ErrorDestinationConflict.Error(fmt.Errorf("destination %s hashes to %s, directive declares %s", dst, sum, want))
	}

	return nil
}

// HashFile returns the xxh3-64 digest of the file at path as a lowercase
// hex string, the content-hash scheme the archive identifier and directive
// hash fields use.
func HashFile(path string) (string, error) {
	return hashFile(path)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}
