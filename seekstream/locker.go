// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package seekstream

import (
	"sync"

	"github.com/pkg/errors"
)

// Locker grants exclusive access to a Stream's state.
//
// WithExclusiveAccess runs fn while holding exclusive access, and releases it
// before returning, regardless of fn's outcome. If access cannot be granted,
// fn is not run and an error wrapping ErrLockFailure is returned.
type Locker interface {
	WithExclusiveAccess(fn func() error) error
}

// NopLocker is a Locker that performs no synchronization. Streams using it must
// not be shared between goroutines.
type NopLocker struct{}

// WithExclusiveAccess implements Locker.
func (NopLocker) WithExclusiveAccess(fn func() error) error { return fn() }

// MutexLocker is a Locker that blocks until exclusive access is available.
type MutexLocker struct {
	mu sync.Mutex
}

// WithExclusiveAccess implements Locker.
func (ml *MutexLocker) WithExclusiveAccess(fn func() error) error {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return fn()
}

// TryLocker is a Locker that never blocks. If another caller holds the lock,
// WithExclusiveAccess fails with ErrLockFailure.
type TryLocker struct {
	mu sync.Mutex
}

// WithExclusiveAccess implements Locker.
func (tl *TryLocker) WithExclusiveAccess(fn func() error) error {
	if !tl.mu.TryLock() {
		return errors.Wrap(ErrLockFailure, "lock is held")
	}
	defer tl.mu.Unlock()
	return fn()
}
