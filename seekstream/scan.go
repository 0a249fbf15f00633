// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package seekstream

import (
	"bytes"
)

// IndexByte returns the index of the first instance of c in the fresh region,
// relative to the read position, or -1 if c is not present.
//
// IndexByte does not consume anything. It can be used to find a delimiter
// before deciding how much to Read.
//
// IndexByte returns -1 if s is nil or closed, or if its Locker refuses access.
func (s *Stream) IndexByte(c byte) (idx int) {
	idx = -1
	_ = s.do("index", func() error {
		first, second := s.segments(s.readPos(), s.stat.Fresh)
		if i := bytes.IndexByte(first, c); i >= 0 {
			idx = i
		} else if i = bytes.IndexByte(second, c); i >= 0 {
			idx = len(first) + i
		}
		return nil
	})
	return
}
