// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package seekstream

import (
	"github.com/pkg/errors"
)

// Errors returned by Stream operations are wrapped around one of these
// sentinels. Use errors.Cause to classify them.
var (
	// ErrBadArgument is returned when a required reference is missing, or when
	// an operation is performed on a nil or closed Stream.
	ErrBadArgument = errors.New("bad argument")

	// ErrBadConfig is returned by New when its Config is invalid.
	ErrBadConfig = errors.New("bad stream configuration")

	// ErrNoMemory is returned by New when the stream buffer could not be
	// allocated.
	ErrNoMemory = errors.New("could not allocate stream buffer")

	// ErrInsufficientData is returned when a read, peek, drop, or dump requests
	// more bytes than the relevant region holds.
	ErrInsufficientData = errors.New("insufficient stream data")

	// ErrInsufficientSpace is returned when a write, or a seek past the end of
	// the used region, needs more free space than is available.
	ErrInsufficientSpace = errors.New("insufficient stream space")

	// ErrLockFailure is returned when the Stream's Locker could not grant
	// exclusive access.
	ErrLockFailure = errors.New("could not acquire stream lock")
)

// errorKind returns a short metric label for err's sentinel.
func errorKind(err error) string {
	switch errors.Cause(err) {
	case ErrBadArgument:
		return "bad_argument"
	case ErrBadConfig:
		return "bad_config"
	case ErrNoMemory:
		return "no_memory"
	case ErrInsufficientData:
		return "insufficient_data"
	case ErrInsufficientSpace:
		return "insufficient_space"
	case ErrLockFailure:
		return "lock_failure"
	default:
		return "unknown"
	}
}
