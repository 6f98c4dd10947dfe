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
	"os"

	"github.com/sabouaram/modforge/archiveindex"
	"github.com/sabouaram/modforge/directive"
	"github.com/sabouaram/modforge/pathnorm"
)

// Disposition is the mover's verdict for one directive.
type Disposition int

const (
	// DispositionAlreadyPlaced means the destination already has the right
	// size; the directive is marked Skipped without touching the source.
	DispositionAlreadyPlaced Disposition = iota
	// DispositionWholeArchive means the archive file itself is the artifact
	// (length-1 path, archive size == directive size).
	DispositionWholeArchive
	// DispositionRecoveredEntry means a length-1 directive whose declared
	// size disagreed with the archive's own size, resolved via
	// LookupBySizeAndName to a concrete archive entry.
	DispositionRecoveredEntry
	// DispositionSimpleExtraction means a length-2 path: rename/reflink the
	// resolved host path from the temp tree.
	DispositionSimpleExtraction
	// DispositionDeferredNested means a length->2 path: the directive is not
	// placed yet; its staged inner-archive source is queued for
	// copy-not-move and the directive itself is deferred to phase 2.
	DispositionDeferredNested
)

// Classification is the mover's resolved plan for one directive.
type Classification struct {
	Disposition Disposition
	// SourcePath is the resolved host path to rename/copy from, valid for
	// every disposition except DispositionAlreadyPlaced.
	SourcePath string
	// NestedContainerPath is the staged outer-archive host path that must be
	// preserved (copied, not moved) for phase 2 to open, valid only for
	// DispositionDeferredNested.
	NestedContainerPath string
}

// Classify resolves a directive to one of the five dispositions. archiveSize
// is the size of the outer archive file on disk (used for the whole-archive
// test); batch is the ExtractedBatch the directive was consumed from.
func Classify(rec *directive.Record, archiveSize int64, archivePath string, batch ExtractedBatch, idx archiveindex.Index) (Classification, error) {
	if existingSize, ok := destinationAlreadyPlaced(rec.To); ok && existingSize == rec.Size {
		return Classification{Disposition: DispositionAlreadyPlaced}, nil
	}

	switch rec.NestingDepth() {
	case 1:
		if archiveSize == rec.Size {
			return Classification{Disposition: DispositionWholeArchive, SourcePath: archivePath}, nil
		}

		resolved, found, err := idx.LookupBySizeAndName(rec.ArchiveID(), rec.Size, pathnorm.Base(rec.To))
		if err != nil {
			return Classification{}, err
		}
		if !found {
			return Classification{}, ErrorMissingArchive.Error(nil)
		}

		host, ok := batch.FileIndex[pathnorm.Normalize(resolved)]
		if !ok {
			return Classification{}, ErrorMissingArchive.Error(nil)
		}
		return Classification{Disposition: DispositionRecoveredEntry, SourcePath: host}, nil

	case 2:
		host, ok := batch.FileIndex[pathnorm.Normalize(rec.ArchiveHashPath[1])]
		if !ok {
			return Classification{}, ErrorMissingArchive.Error(nil)
		}
		return Classification{Disposition: DispositionSimpleExtraction, SourcePath: host}, nil

	default:
		host, ok := batch.FileIndex[pathnorm.Normalize(rec.InnerArchiveEntry())]
		if !ok {
			return Classification{}, ErrorMissingArchive.Error(nil)
		}
		return Classification{Disposition: DispositionDeferredNested, NestedContainerPath: host}, nil
	}
}

// destinationAlreadyPlaced stats the destination; a zero-value size with
// ok=false means "does not exist", distinguishing it from a legitimately
// empty file.
func destinationAlreadyPlaced(to string) (size int64, ok bool) {
	fi, err := os.Stat(to)
	if err != nil {
		return 0, false
	}
	return fi.Size(), true
}
