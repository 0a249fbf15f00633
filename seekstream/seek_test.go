// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package seekstream

import (
	"bytes"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Seek", func() {
	// Capacity 16, with "0123456789" written and 4 bytes read.
	var s *Stream
	BeforeEach(func() {
		s = mustNew(16)
		Expect(s.Write([]byte(dataNumeric))).To(Succeed())
		Expect(s.Drop(4)).To(Succeed())
	})

	DescribeTable("seeking from a partially-read stream",
		func(delta int, whence Whence, offset, used int, cause error) {
			err := s.Seek(delta, whence)
			if cause != nil {
				expectCause(err, cause)
			} else {
				Expect(err).ToNot(HaveOccurred())
			}

			st := s.Status()
			Expect(st.Stale).To(Equal(offset))
			Expect(st.Used).To(Equal(used))
			expectInvariants(s)
		},

		Entry("to the start", 0, FromStart, 0, 10, nil),
		Entry("forwards from the start", 7, FromStart, 7, 10, nil),
		Entry("before the start, clamping", -5, FromStart, 0, 10, nil),
		Entry("forwards from the current position", 2, FromCurrent, 6, 10, nil),
		Entry("nowhere from the current position", 0, FromCurrent, 4, 10, nil),
		Entry("far backwards from the current position, clamping", -100, FromCurrent, 0, 10, nil),
		Entry("to the end", 0, FromEnd, 10, 10, nil),
		Entry("backwards from the end", -3, FromEnd, 7, 10, nil),
		Entry("past the end, filling the stream", 6, FromEnd, 16, 16, nil),
		Entry("past the end, without enough space", 7, FromEnd, 4, 10, ErrInsufficientSpace),
		Entry("far past the end", math.MaxInt, FromEnd, 4, 10, ErrInsufficientSpace),
		Entry("far past the start", math.MaxInt, FromStart, 4, 10, ErrInsufficientSpace),
		Entry("with an unknown whence", 3, Whence(9), 4, 10, nil),
	)

	It("leaves no fresh data when seeking to the end, and no stale data at the start", func() {
		Expect(s.Seek(0, FromEnd)).To(Succeed())
		Expect(s.Status().Fresh).To(Equal(0))

		Expect(s.Seek(0, FromStart)).To(Succeed())
		Expect(s.Status().Stale).To(Equal(0))
	})

	It("peeks and seeks through a stream", func() {
		s := mustNew(64)
		Expect(s.Write([]byte(dataNumeric))).To(Succeed())
		Expect(s.PeekN(len(dataNumeric))).To(Equal([]byte(dataNumeric)))

		Expect(s.Write([]byte(dataAlphaLower))).To(Succeed())
		Expect(s.Seek(len(dataNumeric), FromCurrent)).To(Succeed())
		Expect(s.Write([]byte(dataAlphaUpper))).To(Succeed())
		Expect(s.Status()).To(Equal(Status{Size: 72, Capacity: 64, Used: 62, Free: 2, Stale: 10, Fresh: 52}))

		By("seeking backwards from the end")
		Expect(s.Seek(-len(dataAlphaUpper), FromEnd)).To(Succeed())
		Expect(s.Status().Stale).To(Equal(len(dataNumeric) + len(dataAlphaLower)))
		Expect(s.PeekN(len(dataAlphaUpper))).To(Equal([]byte(dataAlphaUpper)))

		By("seeking past the end to fill the stream")
		Expect(s.Seek(2, FromEnd)).To(Succeed())
		Expect(s.Status()).To(Equal(Status{Size: 72, Capacity: 64, Used: 64, Stale: 64}))

		By("failing to seek further")
		expectCause(s.Seek(10, FromEnd), ErrInsufficientSpace)
		Expect(s.Status()).To(Equal(Status{Size: 72, Capacity: 64, Used: 64, Stale: 64}))
	})

	It("extends the stream when there is enough free space", func() {
		s := mustNew(64)
		Expect(s.Write([]byte(dataNumeric))).To(Succeed())
		Expect(s.Write([]byte(dataAlphaLower))).To(Succeed())
		Expect(s.Status()).To(Equal(Status{Size: 72, Capacity: 64, Used: 36, Free: 28, Fresh: 36}))

		Expect(s.Seek(10, FromEnd)).To(Succeed())
		Expect(s.Status()).To(Equal(Status{Size: 72, Capacity: 64, Used: 46, Free: 18, Stale: 46}))

		expectCause(s.Seek(100, FromEnd), ErrInsufficientSpace)
		Expect(s.Status()).To(Equal(Status{Size: 72, Capacity: 64, Used: 46, Free: 18, Stale: 46}))
	})

	It("zero-fills space reserved past the end, across the wrap point", func() {
		s := mustNew(8)
		Expect(s.Write([]byte("abcdefgh"))).To(Succeed())
		Expect(s.Dump(nil, 8)).To(Succeed())
		Expect(s.tail).To(Equal(8))

		Expect(s.Seek(4, FromStart)).To(Succeed())
		Expect(s.tail).To(Equal(3))
		Expect(s.Status()).To(Equal(Status{Size: 16, Capacity: 8, Used: 4, Free: 4, Stale: 4}))

		By("writing after the reserved space")
		Expect(s.Write([]byte("xy"))).To(Succeed())
		Expect(s.Seek(0, FromStart)).To(Succeed())
		Expect(s.Next(6)).To(Equal([]byte{0, 0, 0, 0, 'x', 'y'}))
	})
})

// streamModel is a straightforward reference implementation of Stream.
type streamModel struct {
	capacity int
	data     []byte
	offset   int
}

func (m *streamModel) status() (used, stale int) { return len(m.data), m.offset }

func (m *streamModel) write(p []byte) bool {
	if len(p) > m.capacity-len(m.data) {
		return false
	}
	m.data = append(m.data, p...)
	return true
}

func (m *streamModel) read(n int, consume bool) ([]byte, bool) {
	if n > len(m.data)-m.offset {
		return nil, false
	}
	v := append([]byte(nil), m.data[m.offset:m.offset+n]...)
	if consume {
		m.offset += n
	}
	return v, true
}

func (m *streamModel) dump(n int) ([]byte, bool) {
	if n > len(m.data) {
		return nil, false
	}
	v := append([]byte(nil), m.data[:n]...)
	m.data = append([]byte(nil), m.data[n:]...)
	if n <= m.offset {
		m.offset -= n
	} else {
		m.offset = 0
	}
	return v, true
}

func (m *streamModel) seek(delta int, whence Whence) bool {
	var pos int
	switch whence {
	case FromStart:
		pos = delta
	case FromCurrent:
		pos = m.offset + delta
	case FromEnd:
		pos = len(m.data) + delta
	default:
		return true
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(m.data) {
		if pos-len(m.data) > m.capacity-len(m.data) {
			return false
		}
		m.data = append(m.data, make([]byte, pos-len(m.data))...)
	}
	m.offset = pos
	return true
}

var _ = Describe("Stream against a reference model", func() {
	for _, capacity := range []int{1, 7, 8, 13, 64} {
		capacity := capacity

		It("matches the model under random operations", func() {
			rng := rand.New(rand.NewSource(int64(capacity)))
			s := mustNew(capacity)
			m := streamModel{capacity: capacity}

			// Each operation's size ranges a little beyond capacity, so that
			// failures are exercised.
			size := func() int { return rng.Intn(capacity + 3) }

			for i := 0; i < 5000; i++ {
				switch op := rng.Intn(6); op {
				case 0:
					p := make([]byte, size())
					rng.Read(p)
					ok := m.write(p)
					Expect(s.Write(p) == nil).To(Equal(ok), "write %d", len(p))

				case 1, 2:
					n := size()
					expected, ok := m.read(n, op == 1)
					buf := make([]byte, n)
					var err error
					if op == 1 {
						err = s.Read(buf)
					} else {
						err = s.Peek(buf)
					}
					Expect(err == nil).To(Equal(ok), "read/peek %d", n)
					if ok {
						Expect(buf).To(Equal(expected))
					}

				case 3:
					n := size()
					_, ok := m.read(n, true)
					Expect(s.Drop(n) == nil).To(Equal(ok), "drop %d", n)

				case 4:
					n := size()
					expected, ok := m.dump(n)
					buf := make([]byte, n)
					Expect(s.Dump(buf, n) == nil).To(Equal(ok), "dump %d", n)
					if ok {
						Expect(buf).To(Equal(expected))
					}

				case 5:
					delta, whence := rng.Intn(2*capacity+5)-capacity-2, Whence(rng.Intn(4))
					ok := m.seek(delta, whence)
					Expect(s.Seek(delta, whence) == nil).To(Equal(ok), "seek %d from %d", delta, whence)
				}

				used, stale := m.status()
				st := s.Status()
				Expect(st.Used).To(Equal(used))
				Expect(st.Stale).To(Equal(stale))
				expectInvariants(s)

				if idx := bytes.IndexByte(m.data[m.offset:], 0x42); idx != s.IndexByte(0x42) {
					Fail("IndexByte mismatch")
				}
			}
		})
	}
})
