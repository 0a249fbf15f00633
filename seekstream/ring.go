// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package seekstream

import (
	"math"

	"github.com/pkg/errors"
)

// ringAlignment is the granularity of the physical ring buffer size.
const ringAlignment = 8

// ring is a byte region addressed as a modulo space of width capacity+1.
//
// The physical region may be longer than width; slots at or beyond width are
// never addressed.
type ring struct {
	buf   []byte
	width int
}

// ringSize returns the physical buffer size for a capacity: the smallest
// multiple of ringAlignment strictly greater than capacity.
func ringSize(capacity int) (int, error) {
	if capacity > math.MaxInt-ringAlignment {
		return 0, errors.Wrapf(ErrNoMemory, "capacity is too large (%d)", capacity)
	}
	return (capacity/ringAlignment + 1) * ringAlignment, nil
}

// makeRing allocates a ring holding capacity bytes.
//
// An allocation that the runtime refuses (e.g., exceeding the maximum slice
// size) is reported as ErrNoMemory.
func makeRing(capacity int) (r ring, err error) {
	size, err := ringSize(capacity)
	if err != nil {
		return
	}

	defer func() {
		if rv := recover(); rv != nil {
			r, err = ring{}, errors.Wrapf(ErrNoMemory, "allocating %d bytes: %v", size, rv)
		}
	}()
	r = ring{
		buf:   make([]byte, size),
		width: capacity + 1,
	}
	return
}

// advance returns the ring index n bytes past i.
func (r *ring) advance(i, n int) int { return (i + n) % r.width }

// distance returns the number of bytes from ring index from to ring index to.
func (r *ring) distance(from, to int) int { return (to - from + r.width) % r.width }

// copyOut fills dst with the bytes starting at ring index i, wrapping around
// the end of the ring at most once.
func (r *ring) copyOut(dst []byte, i int) {
	if amt := copy(dst, r.buf[i:r.width]); amt < len(dst) {
		copy(dst[amt:], r.buf[:len(dst)-amt])
	}
}

// copyIn writes src into the ring starting at ring index i, wrapping around
// the end of the ring at most once.
func (r *ring) copyIn(i int, src []byte) {
	if amt := copy(r.buf[i:r.width], src); amt < len(src) {
		copy(r.buf, src[amt:])
	}
}

// zero clears n bytes starting at ring index i.
func (r *ring) zero(i, n int) {
	if first := r.width - i; n > first {
		clear(r.buf[i:r.width])
		clear(r.buf[:n-first])
		return
	}
	clear(r.buf[i : i+n])
}

// segments returns the (at most two) contiguous slices of the ring holding n
// bytes starting at ring index i. The second slice is empty unless the region
// wraps.
func (r *ring) segments(i, n int) (first, second []byte) {
	if end := i + n; end > r.width {
		return r.buf[i:r.width], r.buf[:end-r.width]
	}
	return r.buf[i : i+n], nil
}
