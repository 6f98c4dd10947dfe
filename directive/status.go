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

import "strings"

// Status is the lifecycle state of a Directive.
type Status uint8

const (
	StatusPending Status = iota
	StatusInFlight
	StatusDone
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInFlight:
		return "InFlight"
	case StatusDone:
		return "Done"
	case StatusSkipped:
		return "Skipped"
	case StatusFailed:
		return "Failed"
	default:
		return "Pending"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}

func (s Status) Terminal() bool {
	switch s {
	case StatusDone, StatusSkipped, StatusFailed:
		return true
	default:
		return false
	}
}

// ParseStatus resolves a status name, case-insensitively; an unrecognized
// name resolves to StatusPending.
func ParseStatus(s string) Status {
	switch strings.ToLower(s) {
	case "inflight":
		return StatusInFlight
	case "done":
		return StatusDone
	case "skipped":
		return StatusSkipped
	case "failed":
		return StatusFailed
	default:
		return StatusPending
	}
}

// allowedTransition is the monotonic status graph: Pending -> {InFlight,
// Skipped, Failed}, InFlight -> {Done, Failed, Skipped}. Leaving Failed
// (back to Pending) is allowed only through the explicit operator Retry
// path (CanRetry), never through SetStatus directly.
var allowedTransition = map[Status]map[Status]bool{
	StatusPending:  {StatusInFlight: true, StatusSkipped: true, StatusFailed: true},
	StatusInFlight: {StatusDone: true, StatusFailed: true, StatusSkipped: true},
	StatusDone:     {},
	StatusSkipped:  {},
	StatusFailed:   {},
}

// CanTransition reports whether moving from 'from' to 'to' is a monotonic
// transition allowed without an explicit operator Retry.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return allowedTransition[from][to]
}

// CanRetry reports whether an operator Retry is allowed from the given
// status: only a Failed directive may be reset back to Pending.
func CanRetry(from Status) bool {
	return from == StatusFailed
}
