// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package fmtutil contains lazy formatting helpers for logging byte data.
package fmtutil

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex is a byte slice that renders as a hex dump.
//
// Formatting is deferred until the value is rendered, so it costs nothing when
// passed to a disabled log level.
type Hex []byte

func (h Hex) String() string { return hex.Dump([]byte(h)) }

// HexSlice is a byte slice that renders as a sequence of hex bytes, instead
// of the default decimal bytes.
//
// Output as: "[4]byte{0x10, 0x20, 0x30, 0x40}"
type HexSlice []byte

func (hs HexSlice) String() string {
	var sb strings.Builder
	sb.Grow((6 * len(hs)) + 16)
	fmt.Fprintf(&sb, "[%d]byte{", len(hs))
	for i, b := range hs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "0x%02X", b)
	}
	sb.WriteString("}")
	return sb.String()
}
