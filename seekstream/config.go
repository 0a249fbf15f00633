// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package seekstream

import (
	"strings"

	"github.com/danjacques/goseekstream/support/logging"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// DefaultCapacity is the capacity used by DefaultConfig.
const DefaultCapacity = 1024

// Locking selects a built-in Locker for a Stream.
type Locking int

const (
	// LockNone performs no locking.
	LockNone Locking = iota
	// LockMutex blocks on a mutex.
	LockMutex
	// LockTry fails with ErrLockFailure instead of blocking.
	LockTry
)

var lockingNames = []string{
	LockNone:  "none",
	LockMutex: "mutex",
	LockTry:   "try",
}

func (l Locking) String() string {
	if l < 0 || int(l) >= len(lockingNames) {
		return "unknown"
	}
	return lockingNames[l]
}

func (l Locking) newLocker() (Locker, error) {
	switch l {
	case LockNone:
		return NopLocker{}, nil
	case LockMutex:
		return &MutexLocker{}, nil
	case LockTry:
		return &TryLocker{}, nil
	default:
		return nil, errors.Wrapf(ErrBadConfig, "unknown locking mode (%d)", int(l))
	}
}

// LockingFlag is a pflag.Value implementation that stores a Locking value.
type LockingFlag Locking

var _ pflag.Value = (*LockingFlag)(nil)

func (lf *LockingFlag) String() string { return Locking(*lf).String() }

// Set implements pflag.Value.
func (lf *LockingFlag) Set(v string) error {
	for i, name := range lockingNames {
		if name == v {
			*lf = LockingFlag(i)
			return nil
		}
	}
	return errors.Errorf("unknown locking mode: %q", v)
}

// Type implements pflag.Value.
func (lf *LockingFlag) Type() string { return "seekstream.Locking" }

// Value returns the Locking value held by this flag.
func (lf LockingFlag) Value() Locking { return Locking(lf) }

// LockingFlagValues returns the list of possible values for a LockingFlag.
func LockingFlagValues() string { return strings.Join(lockingNames, ", ") }

// Config configures a new Stream.
type Config struct {
	// Name identifies the Stream in metrics. If empty, the Stream is not
	// monitored.
	Name string

	// Capacity is the maximum number of bytes that the Stream can hold. It must
	// be positive.
	Capacity int

	// Locking selects a built-in Locker. It is ignored if Locker is not nil.
	Locking Locking

	// Locker, if not nil, guards the Stream's operations.
	Locker Locker

	// Logger, if not nil, receives debug logs about the Stream.
	Logger logging.L
}

// DefaultConfig returns a Config with DefaultCapacity and no locking.
func DefaultConfig() Config {
	return Config{
		Capacity: DefaultCapacity,
		Locking:  LockNone,
	}
}

// AddFlags registers flags for c's capacity and locking mode on fs.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.Capacity, "stream-capacity", c.Capacity,
		"Capacity of the stream buffer, in bytes.")
	fs.Var((*LockingFlag)(&c.Locking), "stream-locking",
		"Stream locking mode. Options are: "+LockingFlagValues())
}

func (c *Config) validate() error {
	if c.Capacity <= 0 {
		return errors.Wrapf(ErrBadConfig, "capacity must be positive (%d)", c.Capacity)
	}
	return nil
}
