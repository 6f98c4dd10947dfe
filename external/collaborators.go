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

// Package external declares the two collaborator boundaries of the core:
// a DownloadCollaborator that stages archives on disk before the pipeline
// starts, and a PluginSorter the load-order generator treats as a pure
// function. Neither is implemented here: both are provided by the
// embedding application, the same way database/gorm's Database capability
// is consumed behind an interface rather than constructed by its users.
package external

// VerifyResult is a DownloadCollaborator.Verify outcome.
type VerifyResult struct {
	OK   bool
	Size int64
	Hash string
}

// DownloadCollaborator presents archives on disk at a stable path before
// the pipeline starts.
type DownloadCollaborator interface {
	// Verify reports whether archiveID is present and intact, along with its
	// on-disk size and hash.
	Verify(archiveID string) (VerifyResult, error)

	// Locate resolves archiveID to its stable on-disk path.
	Locate(archiveID string) (string, error)
}

// PluginSorter orders a game's plugin list. Game and dataSearchPaths are
// passed verbatim from the bundle manifest; the core never inspects them.
type PluginSorter interface {
	Sort(game string, dataSearchPaths []string, plugins []string) ([]string, error)
}
