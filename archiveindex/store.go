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
	"strconv"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm/clause"

	libcch "github.com/sabouaram/modforge/cache"
	libgrm "github.com/sabouaram/modforge/database/gorm"
	libdur "github.com/sabouaram/modforge/duration"
	liberr "github.com/sabouaram/modforge/errors"

	"github.com/sabouaram/modforge/directive"
	"github.com/sabouaram/modforge/pathnorm"
)

// lookupCacheTTL bounds how long a hot lookup()/lookup_by_size_and_name()
// answer is trusted without a SQL round trip. IndexFiles invalidates the
// whole cache for its archive-id since entries are replaced wholesale, not
// incrementally, so a short TTL is a safety margin rather than the primary
// invalidation mechanism.
var lookupCacheTTL = libdur.Minutes(5).Time()

type store struct {
	db  libgrm.Database
	mu  sync.Mutex // single-writer: every mutation path takes this lock
	lru libcch.Cache[string, string]
}

// Open creates (or reuses) a sqlite-backed archive index at opt.DSN, with
// WAL durability expected to already be encoded in the DSN's query string
// (the DSN, not a hard-coded PRAGMA list, is the knob: callers running
// against mysql/postgres in a shared-infra deployment pass that DSN
// instead, and the durability contract still holds because gorm's
// transaction boundaries are format-agnostic).
func Open(opt Options) (Index, liberr.Error) {
	cfg := libgrm.ArchiveIndexConfig(opt.DSN)

	db, err := libgrm.New(cfg)
	if err != nil {
		return nil, ErrorOpenStore.Error(err)
	}

	conn := db.GetDB()
	if e := conn.AutoMigrate(&ArchiveFileRow{}, &DirectiveStatusRow{}, &ArchiveIndexedRow{}); e != nil {
		return nil, ErrorMigrate.Error(e)
	}

	ctx := opt.CacheContext
	if ctx == nil {
		ctx = context.Background()
	}

	return &store{
		db:  db,
		lru: libcch.New[string, string](ctx, lookupCacheTTL),
	}, nil
}

func lookupCacheKey(archiveID, normalized string) string {
	return archiveID + "\x00" + normalized
}

func (s *store) IsIndexed(archiveID string) (bool, liberr.Error) {
	var row ArchiveIndexedRow
	res := s.db.GetDB().Where("archive_id = ?", archiveID).First(&row)
	if res.Error != nil {
		if strings.Contains(res.Error.Error(), "record not found") {
			return false, nil
		}
		return false, ErrorLookup.Error(res.Error)
	}
	return true, nil
}

func (s *store) IndexFiles(archiveID string, entries []FileEntry) liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]ArchiveFileRow, 0, len(entries))
	now := time.Now()

	for _, e := range entries {
		rows = append(rows, ArchiveFileRow{
			ArchiveID:      archiveID,
			Path:           e.Path,
			NormalizedPath: pathnorm.Normalize(e.Path),
			Basename:       pathnorm.Base(e.Path),
			Size:           e.Size,
			IndexedAt:      now,
		})
	}

	tx := s.db.GetDB().Begin()
	if tx.Error != nil {
		return ErrorIndexFiles.Error(tx.Error)
	}

	if e := tx.Where("archive_id = ?", archiveID).Delete(&ArchiveFileRow{}).Error; e != nil {
		tx.Rollback()
		return ErrorIndexFiles.Error(e)
	}

	if len(rows) > 0 {
		if e := tx.CreateInBatches(rows, 500).Error; e != nil {
			tx.Rollback()
			return ErrorIndexFiles.Error(e)
		}
	}

	if e := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&ArchiveIndexedRow{
		ArchiveID:  archiveID,
		EntryCount: len(rows),
		IndexedAt:  now,
	}).Error; e != nil {
		tx.Rollback()
		return ErrorIndexFiles.Error(e)
	}

	if e := tx.Commit().Error; e != nil {
		return ErrorIndexFiles.Error(e)
	}

	s.invalidateArchive(archiveID)
	return nil
}

// invalidateArchive drops every cached lookup (hit or miss) keyed under
// archiveID, so answers from a replaced entry set are not served again.
func (s *store) invalidateArchive(archiveID string) {
	prefix := archiveID + "\x00"
	var stale []string
	s.lru.Walk(func(key, _ string, _ time.Duration) bool {
		if strings.HasPrefix(key, prefix) {
			stale = append(stale, key)
		}
		return true
	})
	for _, key := range stale {
		s.lru.Delete(key)
	}
}

func (s *store) Lookup(archiveID, path string) (string, bool, liberr.Error) {
	norm := pathnorm.Normalize(path)
	key := lookupCacheKey(archiveID, norm)

	if v, _, ok := s.lru.Load(key); ok {
		if v == "" {
			return "", false, nil
		}
		return v, true, nil
	}

	var row ArchiveFileRow
	res := s.db.GetDB().Where("archive_id = ? AND normalized_path = ?", archiveID, norm).First(&row)
	if res.Error != nil {
		if strings.Contains(res.Error.Error(), "record not found") {
			s.lru.Store(key, "")
			return "", false, nil
		}
		return "", false, ErrorLookup.Error(res.Error)
	}

	s.lru.Store(key, row.Path)
	return row.Path, true, nil
}

func (s *store) LookupBySizeAndName(archiveID string, size int64, filename string) (string, bool, liberr.Error) {
	base := pathnorm.Base(filename)
	key := lookupCacheKey(archiveID, "size:"+base+":"+strconv.FormatInt(size, 10))

	if v, _, ok := s.lru.Load(key); ok {
		if v == "" {
			return "", false, nil
		}
		return v, true, nil
	}

	var rows []ArchiveFileRow
	res := s.db.GetDB().
		Where("archive_id = ? AND size = ? AND basename = ?", archiveID, size, base).
		Limit(2).
		Find(&rows)
	if res.Error != nil {
		return "", false, ErrorLookup.Error(res.Error)
	}

	// Recovery only succeeds when the candidate is unique; two entries
	// sharing a size and basename make the lookup ambiguous, not a match.
	if len(rows) != 1 {
		s.lru.Store(key, "")
		return "", false, nil
	}

	s.lru.Store(key, rows[0].Path)
	return rows[0].Path, true, nil
}

func (s *store) GetStatus(directiveID uint64) (directive.Status, int, liberr.Error) {
	var row DirectiveStatusRow
	res := s.db.GetDB().Where("directive_id = ?", directiveID).First(&row)
	if res.Error != nil {
		if strings.Contains(res.Error.Error(), "record not found") {
			return directive.StatusPending, 0, nil
		}
		return directive.StatusPending, 0, ErrorGetStatus.Error(res.Error)
	}
	return directive.Status(row.Status), row.AttemptCount, nil
}

func (s *store) SetStatus(directiveID uint64, status directive.Status, attemptCount int, failReason liberr.CodeError) liberr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := DirectiveStatusRow{
		DirectiveID:  directiveID,
		Status:       uint8(status),
		AttemptCount: attemptCount,
		FailReason:   failReason.Uint16(),
		UpdatedAt:    time.Now(),
	}

	e := s.db.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "directive_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "attempt_count", "fail_reason", "updated_at"}),
	}).Create(&row).Error

	if e != nil {
		return ErrorSetStatus.Error(e)
	}
	return nil
}

func (s *store) Close() error {
	s.db.Close()
	return nil
}
