// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package logging defines the logger interface accepted by this module's
// packages.
package logging

// L accepts logging data.
//
// L's method set is a subset of zap's zap.SugaredLogger, so a
// *zap.SugaredLogger can be used directly. Any other leveled logger can be
// adapted to it.
type L interface {
	// Error emits an error-level log.
	Error(args ...interface{})
	// Warn emits a warning-level log.
	Warn(args ...interface{})
	// Info emits an info-level log.
	Info(args ...interface{})
	// Debug emits a debug-level log.
	Debug(args ...interface{})

	// Errorf emits a formatted error-level log.
	Errorf(fmt string, args ...interface{})
	// Warnf emits a formatted warning-level log.
	Warnf(fmt string, args ...interface{})
	// Infof emits a formatted info-level log.
	Infof(fmt string, args ...interface{})
	// Debugf emits a formatted debug-level log.
	Debugf(fmt string, args ...interface{})
}

// Nop is an L that discards everything.
var Nop L = nopLogger{}

// Must returns l, or Nop if l is nil.
func Must(l L) L {
	if l != nil {
		return l
	}
	return Nop
}

type nopLogger struct{}

func (nopLogger) Error(args ...interface{}) {}
func (nopLogger) Warn(args ...interface{})  {}
func (nopLogger) Info(args ...interface{})  {}
func (nopLogger) Debug(args ...interface{}) {}

func (nopLogger) Errorf(fmt string, args ...interface{}) {}
func (nopLogger) Warnf(fmt string, args ...interface{})  {}
func (nopLogger) Infof(fmt string, args ...interface{})  {}
func (nopLogger) Debugf(fmt string, args ...interface{}) {}
