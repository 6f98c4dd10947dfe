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

package errors

import "fmt"

// Subject names the unit of work a CodeError is attached to in a structured
// run summary — an archive-id, a directive-id, or any other stable string
// the caller already has at hand. It exists so pipeline.PhaseSummary's
// per-directive failure list renders every phase's failures through one
// shared formatter instead of each phase hand-rolling fmt.Sprintf calls.
type Subject string

// ReportLine formats one failed-unit line for a structured run summary:
// "<subject>: [<code>] <message>". A zero CodeError (no failure) renders as
// "<subject>: ok" so the same helper covers both branches a caller walking a
// mixed done/failed list needs.
func ReportLine(subject Subject, reason CodeError) string {
	if reason == UnknownError {
		return fmt.Sprintf("%s: ok", subject)
	}
	return fmt.Sprintf("%s: [%d] %s", subject, reason.Uint16(), reason.Message())
}
