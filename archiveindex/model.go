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

// Package archiveindex is the persistent, crash-safe content-addressed
// lookup for files inside source archives plus per-directive status.
//
// The previous generation of this codebase carried three near-duplicated
// "archive file entry" record types and two near-identical database
// wrappers, one per consumer. This package collapses both into the one
// canonical row pair below, fronted by a single Index capability shared by
// every caller.
package archiveindex

import "time"

// ArchiveFileRow is the persisted form of an archive-file entry:
// {archive-id, file-path (original case), normalized-path, size}.
type ArchiveFileRow struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	ArchiveID      string `gorm:"index:idx_archive_norm,priority:1;not null"`
	Path           string `gorm:"not null"`
	NormalizedPath string `gorm:"index:idx_archive_norm,priority:2;not null"`
	Basename       string `gorm:"index:idx_archive_size_name,priority:2"`
	Size           int64  `gorm:"index:idx_archive_size_name,priority:3"`
	IndexedAt      time.Time
}

func (ArchiveFileRow) TableName() string { return "archive_file_entries" }

// DirectiveStatusRow is the persisted form of a directive's status:
// status and attempt_count, keyed by the directive's stable 64-bit id.
type DirectiveStatusRow struct {
	DirectiveID  uint64 `gorm:"primaryKey"`
	Status       uint8  `gorm:"not null"`
	AttemptCount int    `gorm:"not null;default:0"`
	FailReason   uint16 `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}

func (DirectiveStatusRow) TableName() string { return "directive_status" }

// ArchiveIndexedRow marks an archive-id as fully enumerated, so
// IsIndexed can answer without scanning ArchiveFileRow.
type ArchiveIndexedRow struct {
	ArchiveID  string `gorm:"primaryKey"`
	EntryCount int
	IndexedAt  time.Time
}

func (ArchiveIndexedRow) TableName() string { return "archive_indexed" }
