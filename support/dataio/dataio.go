// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package dataio offers byte-capable Reader and Writer interfaces, and a shim
// that supplies a Writer for plain io.Writer values.
package dataio

import (
	"io"
)

// Reader can read both individual bytes and sequences of bytes.
type Reader interface {
	io.Reader
	io.ByteReader
}

// Writer can write both individual bytes and sequences of bytes.
type Writer interface {
	io.Writer
	io.ByteWriter
}

// MakeWriter returns w as a Writer. If w does not implement io.ByteWriter,
// WriteByte is simulated with single-byte writes.
func MakeWriter(w io.Writer) Writer {
	if dw, ok := w.(Writer); ok {
		return dw
	}
	return &simulatedWriter{w}
}

// ReadFull reads from r until buf is full, or until an error is encountered.
//
// Unlike io.ReadFull, an io.EOF returned alongside the final bytes of buf is
// not an error.
func ReadFull(r io.Reader, buf []byte) error {
	for remaining := buf; len(remaining) > 0; {
		amt, err := r.Read(remaining)
		remaining = remaining[amt:]
		if err != nil {
			if err == io.EOF && len(remaining) == 0 {
				return nil
			}
			return err
		}
	}
	return nil
}

type simulatedWriter struct {
	io.Writer
}

func (w *simulatedWriter) WriteByte(c byte) error {
	d := [1]byte{c}
	switch amt, err := w.Write(d[:]); {
	case err != nil:
		return err
	case amt != 1:
		return io.ErrShortWrite
	default:
		return nil
	}
}
