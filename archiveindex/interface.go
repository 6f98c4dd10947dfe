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
	"context"

	liberr "github.com/sabouaram/modforge/errors"

	"github.com/sabouaram/modforge/directive"
)

// FileEntry is the in-memory view of an archive-file entry: Path keeps the
// original (host-filesystem-correct) case; IndexFiles derives the
// normalized form used for lookups from it.
type FileEntry struct {
	Path     string
	Size     int64
}

// Index is the persistent, crash-safe archive index capability. A single
// Index instance is shared by every extractor and
// mover worker: reads are lock-free/many-reader, writes are serialized by
// the underlying store.
type Index interface {
	// IsIndexed reports whether archive-id has already been enumerated into
	// the store by a prior IndexFiles call.
	IsIndexed(archiveID string) (bool, liberr.Error)

	// IndexFiles atomically replaces the stored entries for archive-id with
	// entries. Safe to call once per archive; a repeat call fully replaces
	// the prior set rather than appending to it.
	IndexFiles(archiveID string, entries []FileEntry) liberr.Error

	// Lookup resolves an arbitrary (possibly differently-cased,
	// differently-separated) path to the entry's original-case path.
	// Returns ("", false, nil) when no entry matches.
	Lookup(archiveID, path string) (string, bool, liberr.Error)

	// LookupBySizeAndName implements the misclassified-whole-file recovery
	// path: find the one entry in archive-id
	// whose size and basename match, used when a length-1 directive's
	// declared size disagrees with the archive's own size.
	LookupBySizeAndName(archiveID string, size int64, filename string) (string, bool, liberr.Error)

	// GetStatus returns the persisted status for directiveID, and the
	// attempt count alongside it.
	GetStatus(directiveID uint64) (directive.Status, int, liberr.Error)

	// SetStatus persists a new status/attempt-count/fail-reason for
	// directiveID. Durable: the caller may crash immediately after this
	// call returns and a rerun will observe the new status.
	SetStatus(directiveID uint64, status directive.Status, attemptCount int, failReason liberr.CodeError) liberr.Error

	// Close releases the underlying store handle.
	Close() error
}

// Options configures Open.
type Options struct {
	// DSN is the sqlite DSN for the index database file, e.g.
	// "file:/out/.install-index.db?_journal_mode=WAL&_synchronous=NORMAL".
	DSN string

	// CacheContext scopes the read-through lookup cache's lifetime;
	// cancelling it drains the cache's background expiry sweep.
	CacheContext context.Context
}
