// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package seekstream

import (
	"fmt"

	"github.com/danjacques/goseekstream/support/fmtutil"
	"github.com/danjacques/goseekstream/support/logging"

	"github.com/pkg/errors"
)

// Whence is the reference point of a Seek delta. Its values match io.SeekStart,
// io.SeekCurrent, and io.SeekEnd.
type Whence int

const (
	// FromStart seeks relative to the head of the used region.
	FromStart Whence = iota
	// FromCurrent seeks relative to the current read position.
	FromCurrent
	// FromEnd seeks relative to the end of the used region.
	FromEnd
)

// Status is a snapshot of a Stream's region sizes.
type Status struct {
	// Size is the size of the Stream's physical buffer.
	Size int
	// Capacity is the maximum number of bytes that the Stream can hold.
	Capacity int

	// Used is the number of bytes retained by the Stream (Stale + Fresh).
	Used int
	// Free is the number of bytes available for writing (Capacity - Used).
	Free int
	// Stale is the number of retained bytes that have already been consumed.
	Stale int
	// Fresh is the number of retained bytes that have not been consumed.
	Fresh int
}

func (st Status) String() string {
	return fmt.Sprintf("used=%d (stale=%d, fresh=%d) free=%d cap=%d",
		st.Used, st.Stale, st.Fresh, st.Free, st.Capacity)
}

// Stream is a bounded, seekable byte ring buffer.
//
// A Stream must be created with New.
type Stream struct {
	lock Locker
	log  logging.L
	mon  *monitor

	ring
	capacity int

	// head is the ring index of the oldest retained byte.
	head int
	// tail is the ring index of the next byte to be written.
	tail int
	// offset is the distance from head to the read position.
	offset int

	stat Status
}

// New creates a new Stream configured by cfg.
func New(cfg Config) (*Stream, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	lock := cfg.Locker
	if lock == nil {
		var err error
		if lock, err = cfg.Locking.newLocker(); err != nil {
			return nil, err
		}
	}

	r, err := makeRing(cfg.Capacity)
	if err != nil {
		return nil, err
	}

	s := Stream{
		lock:     lock,
		log:      logging.Must(cfg.Logger),
		mon:      newMonitor(cfg.Name),
		ring:     r,
		capacity: cfg.Capacity,
	}
	s.stat.Size = len(r.buf)
	s.stat.Capacity = cfg.Capacity
	s.refresh()
	return &s, nil
}

// Close releases the Stream's buffer. Any subsequent operation, including
// another Close, fails with ErrBadArgument.
func (s *Stream) Close() error {
	return s.do("close", func() error {
		s.ring = ring{}
		s.head, s.tail, s.offset = 0, 0, 0
		s.stat = Status{}
		s.mon.update(s.stat)
		return nil
	})
}

// Status returns a snapshot of the Stream's region sizes.
//
// If s is nil or closed, or if its Locker refuses access, Status returns the
// zero Status.
func (s *Stream) Status() (st Status) {
	if s == nil {
		return
	}
	_ = s.lock.WithExclusiveAccess(func() error {
		st = s.stat
		return nil
	})
	return
}

// Write appends p to the Stream. If there is not enough free space for all of
// p, Write fails with ErrInsufficientSpace and writes nothing.
func (s *Stream) Write(p []byte) error {
	return s.do("write", func() error {
		if len(p) == 0 {
			return nil
		}
		if s.stat.Free < len(p) {
			return errors.Wrapf(ErrInsufficientSpace, "need %d bytes, %d free", len(p), s.stat.Free)
		}

		s.write(p)
		return nil
	})
}

// write appends p, which must fit in the free space, at the tail.
func (s *Stream) write(p []byte) {
	if len(p) == 0 {
		return
	}
	s.copyIn(s.tail, p)
	s.tail = s.advance(s.tail, len(p))
	s.refresh()
	s.mon.written(len(p))
}

// Read consumes exactly len(p) fresh bytes into p. If fewer fresh bytes are
// available, Read fails with ErrInsufficientData and consumes nothing.
//
// Read does not release space; see Dump.
func (s *Stream) Read(p []byte) error {
	return s.do("read", func() error {
		if err := s.checkFresh(len(p)); err != nil {
			return err
		}
		s.consume(p, len(p))
		return nil
	})
}

// Next is like Read, but returns the consumed bytes in a new slice.
func (s *Stream) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrBadArgument, "negative size (%d)", n)
	}
	p := make([]byte, n)
	if err := s.Read(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Peek copies exactly len(p) fresh bytes into p without consuming them.
func (s *Stream) Peek(p []byte) error {
	return s.do("peek", func() error {
		if err := s.checkFresh(len(p)); err != nil {
			return err
		}
		if len(p) > 0 {
			s.copyOut(p, s.readPos())
		}
		return nil
	})
}

// PeekN is like Peek, but returns the peeked bytes in a new slice.
func (s *Stream) PeekN(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrBadArgument, "negative size (%d)", n)
	}
	p := make([]byte, n)
	if err := s.Peek(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Drop consumes n fresh bytes without copying them.
func (s *Stream) Drop(n int) error {
	return s.do("drop", func() error {
		if n < 0 {
			return errors.Wrapf(ErrBadArgument, "negative size (%d)", n)
		}
		if err := s.checkFresh(n); err != nil {
			return err
		}
		s.consume(nil, n)
		return nil
	})
}

// Dump evicts n bytes from the head of the Stream, releasing their space. If p
// is not nil, the evicted bytes are copied into it; it must be at least n bytes
// long.
//
// Dump may evict bytes that have not been read. If the read position is
// evicted, it moves to the new head.
func (s *Stream) Dump(p []byte, n int) error {
	return s.do("dump", func() error {
		if n < 0 {
			return errors.Wrapf(ErrBadArgument, "negative size (%d)", n)
		}
		return s.dump(p, n)
	})
}

// DumpStale evicts every stale byte, returning the number of bytes evicted.
func (s *Stream) DumpStale() (n int, err error) {
	err = s.do("dump stale", func() error {
		n = s.offset
		return s.dump(nil, n)
	})
	return
}

// Seek moves the read position delta bytes relative to whence.
//
// A position before the head of the Stream is clamped to the head. A position
// past the end of the used region reserves the intervening free space, which
// becomes zero-filled used space; if there is not enough free space, Seek
// fails with ErrInsufficientSpace.
//
// An unknown whence is ignored.
func (s *Stream) Seek(delta int, whence Whence) error {
	return s.do("seek", func() error {
		_, err := s.seek(delta, whence)
		return err
	})
}

// do runs fn with exclusive access to an open s.
func (s *Stream) do(op string, fn func() error) error {
	if s == nil {
		return errors.Wrapf(ErrBadArgument, "%s: nil stream", op)
	}

	err := s.lock.WithExclusiveAccess(func() error {
		if s.buf == nil {
			return errors.Wrap(ErrBadArgument, "stream is closed")
		}
		return fn()
	})
	if err != nil {
		if errors.Cause(err) == ErrLockFailure {
			s.log.Warnf("Stream %s failed: %s", op, err)
		}
		s.mon.failed(err)
		return errors.Wrap(err, op)
	}
	return nil
}

// refresh recomputes the cached Status from the cursors.
func (s *Stream) refresh() {
	used := s.distance(s.head, s.tail)
	s.stat.Used = used
	s.stat.Free = s.capacity - used
	s.stat.Stale = s.offset
	s.stat.Fresh = used - s.offset
	s.mon.update(s.stat)
}

func (s *Stream) readPos() int { return s.advance(s.head, s.offset) }

func (s *Stream) checkFresh(n int) error {
	if s.stat.Fresh < n {
		return errors.Wrapf(ErrInsufficientData, "need %d bytes, %d fresh", n, s.stat.Fresh)
	}
	return nil
}

// consume advances the read position by n bytes, copying them into p if p is
// not nil. The caller must ensure that n bytes are fresh.
func (s *Stream) consume(p []byte, n int) {
	if n == 0 {
		return
	}
	if p != nil {
		s.copyOut(p[:n], s.readPos())
	}
	s.offset += n
	s.refresh()
	s.mon.read(n)
}

func (s *Stream) dump(p []byte, n int) error {
	if n == 0 {
		return nil
	}
	if s.stat.Used < n {
		return errors.Wrapf(ErrInsufficientData, "need %d bytes, %d used", n, s.stat.Used)
	}
	if p != nil && len(p) < n {
		return errors.Wrapf(ErrBadArgument, "buffer (%d) is smaller than dump size (%d)", len(p), n)
	}

	if p != nil {
		p = p[:n]
		s.copyOut(p, s.head)
	}
	s.head = s.advance(s.head, n)

	// Keep the read position in place unless it was evicted.
	if n <= s.offset {
		s.offset -= n
	} else {
		s.offset = 0
	}
	s.refresh()
	s.mon.dumped(n)

	if p != nil {
		s.log.Debugf("Dumped %d bytes (%s):\n%s", n, s.stat, fmtutil.Hex(p))
	} else {
		s.log.Debugf("Dumped %d bytes (%s).", n, s.stat)
	}
	return nil
}

// seek implements Seek, returning the new read position.
func (s *Stream) seek(delta int, whence Whence) (int, error) {
	// Any delta beyond capacity fails the same way; bounding it avoids
	// overflow below.
	if delta > s.capacity {
		delta = s.capacity + 1
	}

	var pos int
	switch whence {
	case FromStart:
		pos = delta
	case FromCurrent:
		pos = s.offset + delta
	case FromEnd:
		pos = s.stat.Used + delta
	default:
		return s.offset, nil
	}

	if pos < 0 {
		pos = 0
	}
	if pos == s.offset {
		return s.offset, nil
	}

	if extra := pos - s.stat.Used; extra > 0 {
		if extra > s.stat.Free {
			return s.offset, errors.Wrapf(ErrInsufficientSpace, "seek needs %d bytes, %d free", extra, s.stat.Free)
		}
		s.zero(s.tail, extra)
		s.tail = s.advance(s.tail, extra)
		s.log.Debugf("Seek reserved %d bytes past the end of the stream.", extra)
	}

	s.offset = pos
	s.refresh()
	return s.offset, nil
}
