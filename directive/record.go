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

package directive

import (
	"sync"

	liberr "github.com/sabouaram/modforge/errors"
	"github.com/sabouaram/modforge/pathnorm"
)

// Member describes one file that must exist under the CreateBSA staging
// directory before the synthetic-archive build phase runs.
type Member struct {
	RelPath     string `json:"path"`
	Compress    bool   `json:"compress"`
	UncompSize  int64  `json:"uncompressed_size"`
}

// Record is one declarative installation action. It is safe for concurrent
// status reads; SetStatus, SetFailed and Retry serialize writes with an
// internal mutex so a single directive is never torn between the mover
// worker that owns it and a concurrent progress-reporter read.
type Record struct {
	mu sync.Mutex

	ID              uint64
	Kind            Kind
	ArchiveHashPath []string
	To              string
	Size            int64
	Hash            string

	// CreateBSA-only fields.
	Members       []Member
	ArchiveType   string
	Compression   string

	// InlineData carries the literal bytes of a KindInline directive: small
	// files (config overrides, patches) the bundle manifest embeds directly
	// instead of pointing at a source archive.
	InlineData []byte

	status       Status
	attemptCount int
	failReason   liberr.CodeError
}

// NewRecord constructs a Record with destination prefix normalization
// applied: the destination is stripped of a leading Data/ segment
// unconditionally, see pathnorm.StripDataPrefix.
func NewRecord(id uint64, kind Kind, archiveHashPath []string, to string, size int64, hash string) *Record {
	return &Record{
		ID:              id,
		Kind:            kind,
		ArchiveHashPath: archiveHashPath,
		To:              pathnorm.StripDataPrefix(to),
		Size:            size,
		Hash:            hash,
		status:          StatusPending,
	}
}

// Validate checks the structural invariants that do not require external
// state (the archive index, the destination set).
func (r *Record) Validate() liberr.Error {
	if r.Kind.RequiresArchive() && len(r.ArchiveHashPath) < 1 {
		return ErrorEmptyArchiveHashPath.Error(nil)
	}
	if r.Kind != KindCreateBSA && r.To == "" {
		return ErrorEmptyDestination.Error(nil)
	}
	return nil
}

// ArchiveID returns the first element of ArchiveHashPath, or "" if this
// directive does not source from an archive.
func (r *Record) ArchiveID() string {
	if len(r.ArchiveHashPath) == 0 {
		return ""
	}
	return r.ArchiveHashPath[0]
}

// NestingDepth classifies the directive for the mover's dispatch: 1 means
// the whole archive is the artifact (possibly misclassified, see
// IsWholeArchive), 2 means a simple single-level extraction, and >2 means a
// nested BSA/BA2 extraction handled by phase 2.
func (r *Record) NestingDepth() int {
	return len(r.ArchiveHashPath)
}

// InnerArchiveEntry returns archive_hash_path[1], the nested BSA/BA2 member
// path inside the outer archive, for directives with NestingDepth() > 1.
func (r *Record) InnerArchiveEntry() string {
	if len(r.ArchiveHashPath) < 2 {
		return ""
	}
	return r.ArchiveHashPath[1]
}

// Status returns the current status under the record's lock.
func (r *Record) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// AttemptCount returns the number of placement attempts made so far.
func (r *Record) AttemptCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attemptCount
}

// FailReason returns the structured reason code recorded by the last
// SetFailed call, or 0 if the directive never failed.
func (r *Record) FailReason() liberr.CodeError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failReason
}

// SetStatus enforces the monotonic transition graph. A non-monotonic
// transition (other than the explicit Retry path) returns
// ErrorInvalidTransition and leaves the record unchanged.
func (r *Record) SetStatus(to Status) liberr.Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !CanTransition(r.status, to) {
		return ErrorInvalidTransition.Error(nil)
	}

	r.status = to
	return nil
}

// Retry resets a Failed directive back to Pending for an operator-driven
// rerun; it is the one allowed exception to the monotonic graph and must be
// invoked explicitly rather than through SetStatus.
func (r *Record) Retry() liberr.Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !CanRetry(r.status) {
		return ErrorInvalidTransition.Error(nil)
	}

	r.status = StatusPending
	r.failReason = 0
	return nil
}

// SetFailed marks the directive Failed, bumps its attempt counter, and
// records the structured reason.
func (r *Record) SetFailed(reason liberr.CodeError) liberr.Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !CanTransition(r.status, StatusFailed) {
		return ErrorInvalidTransition.Error(nil)
	}

	r.status = StatusFailed
	r.attemptCount++
	r.failReason = reason
	return nil
}
