// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package linescan

import (
	"fmt"
	"io"

	"github.com/danjacques/goseekstream/seekstream"
	"github.com/danjacques/goseekstream/support/dataio"
	"github.com/danjacques/goseekstream/support/fmtutil"
	"github.com/danjacques/goseekstream/support/logging"

	"github.com/pkg/errors"
)

// Splitter splits input into lines, buffering it through a Stream.
//
// Lines longer than the Stream's capacity are split at the capacity boundary.
type Splitter struct {
	// Stream buffers input. It must be empty when Run is called.
	Stream *seekstream.Stream

	// SkipBlank, if true, drops empty lines instead of emitting them.
	SkipBlank bool
	// Number, if true, prefixes each emitted line with its line number.
	Number bool

	// Logger, if not nil, receives debug logs.
	Logger logging.L

	// Lines is the number of lines emitted.
	Lines int
	// Blank is the number of blank lines skipped.
	Blank int
	// Split is the number of times a line was split because it did not fit in
	// the Stream.
	Split int

	// split is true if the last emitted line was cut at the capacity boundary.
	split bool
}

// Run reads all of r and writes its lines to w.
func (sp *Splitter) Run(r io.Reader, w io.Writer) error {
	dw := dataio.MakeWriter(w)
	log := logging.Must(sp.Logger)

	for eof := false; ; {
		// Emit every complete line that we have buffered.
		for {
			idx := sp.Stream.IndexByte('\n')
			if idx < 0 {
				break
			}
			if err := sp.emit(dw, idx+1); err != nil {
				return err
			}
		}

		// Reclaim the space held by emitted lines.
		if _, err := sp.Stream.DumpStale(); err != nil {
			return errors.Wrap(err, "reclaiming stream space")
		}

		st := sp.Stream.Status()
		switch {
		case eof:
			// Emit the final, unterminated line.
			if st.Fresh > 0 {
				if err := sp.emit(dw, st.Fresh); err != nil {
					return err
				}
			}
			_, err := sp.Stream.DumpStale()
			return err

		case st.Free == 0:
			head, err := sp.Stream.PeekN(minInt(st.Fresh, 8))
			if err != nil {
				return err
			}
			log.Debugf("Line exceeds stream capacity (%s), splitting; starts with %s.", st, fmtutil.HexSlice(head))
			sp.Split++
			if err := sp.emit(dw, st.Fresh); err != nil {
				return err
			}
			sp.split = true
			continue
		}

		switch _, err := sp.Stream.Fill(r); err {
		case nil:
		case io.EOF:
			eof = true
		default:
			return errors.Wrap(err, "reading input")
		}
	}
}

// emit consumes the next n fresh bytes from the Stream as a single line.
//
// A line terminator directly following a split line ends that line, and is
// dropped.
func (sp *Splitter) emit(w dataio.Writer, n int) error {
	afterSplit := sp.split
	sp.split = false

	if (sp.SkipBlank || afterSplit) && n <= 2 {
		var head [2]byte
		if err := sp.Stream.Peek(head[:n]); err != nil {
			return err
		}
		if isBlank(head[:n]) {
			if !afterSplit {
				sp.Blank++
			}
			return sp.Stream.Drop(n)
		}
	}

	line := make([]byte, n)
	if err := dataio.ReadFull(sp.Stream.Reader(), line); err != nil {
		return errors.Wrap(err, "reading line from stream")
	}
	sp.Lines++

	if sp.Number {
		if _, err := fmt.Fprintf(w, "%6d\t", sp.Lines); err != nil {
			return err
		}
	}
	if _, err := w.Write(line); err != nil {
		return err
	}
	if line[n-1] != '\n' {
		return w.WriteByte('\n')
	}
	return nil
}

func isBlank(v []byte) bool {
	switch string(v) {
	case "\n", "\r\n":
		return true
	default:
		return false
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
