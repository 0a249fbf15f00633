// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package seekstream

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type errReader struct {
	err error
}

func (er *errReader) Read([]byte) (int, error) { return 0, er.err }

// reservingReader reserves space in its Stream with Seek before reading.
type reservingReader struct {
	s       *Stream
	reserve int
	r       io.Reader
}

func (rr *reservingReader) Read(b []byte) (int, error) {
	if err := rr.s.Seek(rr.reserve, FromEnd); err != nil {
		return 0, err
	}
	return rr.r.Read(b)
}

var _ = Describe("Stream I/O adapters", func() {
	var s *Stream
	BeforeEach(func() {
		s = mustNew(8)
	})

	Context("Reader", func() {
		var r *Reader
		BeforeEach(func() {
			r = s.Reader()
			Expect(s.Write([]byte("abcde"))).To(Succeed())
		})

		It("reads partially, then returns EOF", func() {
			buf := make([]byte, 3)
			amt, err := r.Read(buf)
			Expect(err).ToNot(HaveOccurred())
			Expect(buf[:amt]).To(Equal([]byte("abc")))

			amt, err = r.Read(buf)
			Expect(err).ToNot(HaveOccurred())
			Expect(buf[:amt]).To(Equal([]byte("de")))

			amt, err = r.Read(buf)
			Expect(err).To(Equal(io.EOF))
			Expect(amt).To(Equal(0))
		})

		It("reads bytes", func() {
			b, err := r.ReadByte()
			Expect(err).ToNot(HaveOccurred())
			Expect(b).To(Equal(byte('a')))

			Expect(s.Drop(4)).To(Succeed())
			_, err = r.ReadByte()
			Expect(err).To(Equal(io.EOF))
		})

		It("seeks, returning the read position", func() {
			Expect(r.Seek(2, io.SeekStart)).To(Equal(int64(2)))
			Expect(r.ReadByte()).To(Equal(byte('c')))

			Expect(r.Seek(-1, io.SeekEnd)).To(Equal(int64(4)))
			Expect(r.ReadByte()).To(Equal(byte('e')))

			Expect(r.Seek(-10, io.SeekCurrent)).To(Equal(int64(0)))
			Expect(r.ReadByte()).To(Equal(byte('a')))
		})

		It("fails to seek past the free space", func() {
			Expect(r.Seek(1, io.SeekStart)).To(Equal(int64(1)))

			pos, err := r.Seek(4, io.SeekEnd)
			expectCause(err, ErrInsufficientSpace)
			Expect(pos).To(Equal(int64(1)))
		})

		It("can be drained with io.ReadAll", func() {
			Expect(io.ReadAll(r)).To(Equal([]byte("abcde")))
			Expect(s.Status().Stale).To(Equal(5))
		})
	})

	Context("Writer", func() {
		It("writes all or nothing", func() {
			w := s.Writer()
			Expect(w.Write([]byte("abcdef"))).To(Equal(6))

			amt, err := w.Write([]byte("ghi"))
			expectCause(err, ErrInsufficientSpace)
			Expect(amt).To(Equal(0))

			Expect(w.WriteByte('g')).To(Succeed())
			Expect(w.WriteByte('h')).To(Succeed())
			expectCause(w.WriteByte('i'), ErrInsufficientSpace)

			Expect(s.Next(8)).To(Equal([]byte("abcdefgh")))
		})
	})

	Context("Fill", func() {
		It("fills up to the free space", func() {
			src := strings.NewReader("0123456789abc")

			Expect(s.Fill(src)).To(Equal(8))
			Expect(s.Status().Free).To(Equal(0))

			By("doing nothing while the stream is full")
			Expect(s.Fill(src)).To(Equal(0))

			By("filling the space released by a dump")
			Expect(s.Dump(nil, 8)).To(Succeed())
			Expect(s.Fill(src)).To(Equal(5))
			Expect(s.Next(5)).To(Equal([]byte("89abc")))

			By("returning EOF at the end of the source")
			amt, err := s.Fill(src)
			Expect(err).To(Equal(io.EOF))
			Expect(amt).To(Equal(0))
		})

		It("writes what still fits when space is reserved during the read", func() {
			rr := reservingReader{s: s, reserve: 4, r: strings.NewReader("abcdefgh")}

			amt, err := s.Fill(&rr)
			expectCause(err, ErrInsufficientSpace)
			Expect(err.Error()).To(ContainSubstring("4 byte(s) read but not written"))
			Expect(amt).To(Equal(4))

			Expect(s.Status()).To(Equal(Status{Size: 16, Capacity: 8, Used: 8, Stale: 4, Fresh: 4}))
			Expect(s.Next(4)).To(Equal([]byte("abcd")))
		})

		It("returns the source's error", func() {
			testErr := errors.New("test error")
			_, err := s.Fill(&errReader{testErr})
			Expect(err).To(Equal(testErr))
		})

		It("fails on a closed stream", func() {
			Expect(s.Close()).To(Succeed())
			_, err := s.Fill(strings.NewReader("a"))
			expectCause(err, ErrBadArgument)
		})
	})
})
