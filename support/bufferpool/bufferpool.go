// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package bufferpool offers pooled, fixed-size scratch buffers.
package bufferpool

import (
	"sync"
	"sync/atomic"
)

// Pool maintains a pool of buffers. It offers a new buffer when one is
// unavailable.
//
// The zero value is ready to use once Size is set. A Pool must not be copied
// after first use.
type Pool struct {
	// Size is the size of the buffers in this pool.
	Size int

	base sync.Pool
}

// Get returns a buffer of the pool's Size, allocating one if none is
// available. The returned buffer has a reference count of 1.
//
// The caller should return the buffer to the pool by calling its Release method
// when done with it.
func (bp *Pool) Get() *Buffer {
	b, ok := bp.base.Get().(*Buffer)
	if !ok || len(b.bytes) != bp.Size {
		b = &Buffer{
			bytes: make([]byte, bp.Size),
		}
	}

	b.pool = bp
	b.refcount = 1
	return b
}

// Buffer is a byte buffer that returns to its Pool when released.
//
// Failure to release a Buffer will not leak memory, but prevents its reuse.
type Buffer struct {
	refcount int64

	bytes []byte
	pool  *Pool
}

// Bytes returns this buffer's byte slice.
//
// The slice must not be used after the Buffer is released.
func (b *Buffer) Bytes() []byte { return b.bytes }

// Release returns the Buffer to its Pool. Releasing a Buffer more than once
// panics.
//
// Release is safe for concurrent use.
func (b *Buffer) Release() {
	switch v := atomic.AddInt64(&b.refcount, -1); {
	case v > 0:
		return
	case v < 0:
		panic("bufferpool: Buffer released too many times")
	}

	var pool *Pool
	pool, b.pool = b.pool, nil
	pool.base.Put(b)
}
