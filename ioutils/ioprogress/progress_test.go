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

// Specs for the progress-tracking reader and writer wrappers.

package ioprogress_test

import (
	"bytes"
	"io"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libiop "github.com/sabouaram/modforge/ioutils/ioprogress"
)

type nopReadCloser struct{ *bytes.Reader }

func (nopReadCloser) Close() error { return nil }

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

// The placement copy path wraps its source with one of these readers so
// every byte a move transfers reports into the pipeline's running total.
var _ = Describe("Reader", func() {
	It("reports every chunk read through the increment callback", func() {
		payload := bytes.Repeat([]byte("x"), 4096)
		r := libiop.NewReadCloser(nopReadCloser{bytes.NewReader(payload)})

		var total int64
		r.RegisterFctIncrement(func(n int64) { atomic.AddInt64(&total, n) })

		n, err := io.Copy(io.Discard, r)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(int64(len(payload))))
		Expect(atomic.LoadInt64(&total)).To(Equal(int64(len(payload))))
		Expect(r.Close()).To(Succeed())
	})

	It("fires the EOF callback once the source is exhausted", func() {
		r := libiop.NewReadCloser(nopReadCloser{bytes.NewReader([]byte("tail"))})

		var sawEOF atomic.Bool
		r.RegisterFctEOF(func() { sawEOF.Store(true) })

		_, err := io.Copy(io.Discard, r)
		Expect(err).ToNot(HaveOccurred())
		Expect(sawEOF.Load()).To(BeTrue())
	})
})

var _ = Describe("Writer", func() {
	It("reports every chunk written through the increment callback", func() {
		var sink bytes.Buffer
		w := libiop.NewWriteCloser(nopWriteCloser{&sink})

		var total int64
		w.RegisterFctIncrement(func(n int64) { atomic.AddInt64(&total, n) })

		for _, chunk := range []string{"part-one", "part-two"} {
			n, err := w.Write([]byte(chunk))
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(len(chunk)))
		}

		Expect(atomic.LoadInt64(&total)).To(Equal(int64(len("part-onepart-two"))))
		Expect(sink.String()).To(Equal("part-onepart-two"))
	})
})
