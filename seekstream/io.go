// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package seekstream

import (
	"io"
	"math"

	"github.com/danjacques/goseekstream/support/bufferpool"
	"github.com/danjacques/goseekstream/support/dataio"

	"github.com/pkg/errors"
)

// fillChunkSize is the maximum number of bytes that Fill reads at once.
const fillChunkSize = 32 * 1024

var fillPool = bufferpool.Pool{Size: fillChunkSize}

// Fill performs a single Read from r of up to the Stream's free space, and
// writes the result to the Stream. It returns the number of bytes written and
// the error returned by r, including io.EOF.
//
// The Stream is not locked while reading from r. If the free space shrinks
// during the read (e.g., the reader reserved it with Seek), Fill writes the
// prefix that still fits and returns an error wrapping ErrInsufficientSpace
// that names the number of bytes taken from r but not written.
//
// If the Stream is full, Fill returns immediately without reading.
func (s *Stream) Fill(r io.Reader) (int, error) {
	var free int
	if err := s.do("fill", func() error {
		free = s.stat.Free
		return nil
	}); err != nil {
		return 0, err
	}
	if free == 0 {
		return 0, nil
	}

	buf := fillPool.Get()
	defer buf.Release()

	chunk := buf.Bytes()
	if len(chunk) > free {
		chunk = chunk[:free]
	}

	amt, err := r.Read(chunk)
	if amt <= 0 {
		return 0, err
	}

	written := 0
	if werr := s.do("fill", func() error {
		if written = s.stat.Free; written > amt {
			written = amt
		}
		s.write(chunk[:written])

		if lost := amt - written; lost > 0 {
			return errors.Wrapf(ErrInsufficientSpace, "%d byte(s) read but not written", lost)
		}
		return nil
	}); werr != nil {
		return written, werr
	}
	return written, err
}

// Reader exposes a Stream as an io.Reader, io.ByteReader, and io.Seeker.
//
// Unlike Stream.Read, Reader's Read is partial: it consumes as many fresh
// bytes as are available, and returns io.EOF when there are none.
type Reader struct {
	s *Stream
}

var _ interface {
	dataio.Reader
	io.Seeker
} = (*Reader)(nil)

// Reader returns a Reader view of s.
func (s *Stream) Reader() *Reader { return &Reader{s} }

// Read implements io.Reader.
func (r *Reader) Read(b []byte) (amt int, err error) {
	eof := false
	err = r.s.do("read", func() error {
		if len(b) == 0 {
			return nil
		}
		if amt = r.s.stat.Fresh; amt == 0 {
			eof = true
			return nil
		}

		if amt > len(b) {
			amt = len(b)
		}
		r.s.consume(b, amt)
		return nil
	})
	if err == nil && eof {
		err = io.EOF
	}
	return
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	var d [1]byte
	if _, err := r.Read(d[:]); err != nil {
		return 0, err
	}
	return d[0], nil
}

// Seek implements io.Seeker. It returns the read position, relative to the
// head of the Stream.
func (r *Reader) Seek(offset int64, whence int) (pos int64, err error) {
	err = r.s.do("seek", func() error {
		p, serr := r.s.seek(clampInt(offset), Whence(whence))
		pos = int64(p)
		return serr
	})
	return
}

// Writer exposes a Stream as an io.Writer and io.ByteWriter.
//
// Writes remain all-or-nothing: if p does not fit, Write returns 0 and an
// error wrapping ErrInsufficientSpace.
type Writer struct {
	s *Stream
}

var _ dataio.Writer = (*Writer)(nil)

// Writer returns a Writer view of s.
func (s *Stream) Writer() *Writer { return &Writer{s} }

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.s.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (w *Writer) WriteByte(c byte) error {
	d := [1]byte{c}
	return w.s.Write(d[:])
}

func clampInt(v int64) int {
	switch {
	case v > math.MaxInt:
		return math.MaxInt
	case v < math.MinInt:
		return math.MinInt
	default:
		return int(v)
	}
}
