// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package seekstream implements a bounded, seekable byte ring buffer.
//
// A Stream is a classic circular buffer with a logical read cursor layered on
// top of it. Bytes between the oldest retained byte (the head) and the next
// write position (the tail) are "used". The read cursor splits the used region
// in two:
//
//	- "stale" bytes have been consumed, but are still retained and can be
//	  re-read by seeking backwards.
//	- "fresh" bytes have been written but not yet consumed.
//
// Everything outside of the used region is "free", and is available to
// subsequent writes.
//
// Reading (Read, Drop) only moves the stale/fresh boundary forward; it never
// releases space. Space is reclaimed exclusively by Dump, which evicts bytes
// from the head of the stream regardless of whether they have been read.
//
// Seek repositions the read cursor anywhere within the used region. Seeking
// past the end of the used region reserves free space, extending the used
// region forwards. Reserved bytes are zero-filled.
//
// Every operation is all-or-nothing: it either completes fully or returns an
// error and leaves the Stream unchanged.
//
// A Stream can optionally guard its operations with a Locker. Without one, a
// Stream must not be used by more than one goroutine at a time.
package seekstream
