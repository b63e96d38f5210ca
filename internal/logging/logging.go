/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package logging provides a generic, module-scoped logger with a
// fmt-style Debugf/Infof/Warnf/Errorf surface, backed directly by an
// injected zap.Logger instead of a process-wide provider -- every
// component that logs takes a Logger explicitly, and there is no global
// mutable state to configure.
package logging

import (
	"go.uber.org/zap"
)

// Logger is the fmt-style logging surface every component accepts.
type Logger interface {
	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})
}

// Log implements Logger over a module-tagged zap.SugaredLogger.
type Log struct {
	sugar  *zap.SugaredLogger
	module string
}

// New returns a Log for module backed by base. A nil base uses
// zap.NewNop(), handy for tests that
// want logging calls to be no-ops without a special-cased Logger.
func New(module string, base *zap.Logger) *Log {
	if base == nil {
		base = zap.NewNop()
	}

	return &Log{sugar: base.Sugar().Named(module), module: module}
}

// NewProduction returns a Log for module backed by zap's standard
// production encoder, the default a caller gets when it does not
// wire in its own zap.Logger.
func NewProduction(module string) (*Log, error) {
	base, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	return New(module, base), nil
}

func (l *Log) Debugf(msg string, args ...interface{}) { l.sugar.Debugf(msg, args...) }
func (l *Log) Infof(msg string, args ...interface{})  { l.sugar.Infof(msg, args...) }
func (l *Log) Warnf(msg string, args ...interface{})  { l.sugar.Warnf(msg, args...) }
func (l *Log) Errorf(msg string, args ...interface{}) { l.sugar.Errorf(msg, args...) }

// Sync flushes any buffered log entries.
func (l *Log) Sync() error { return l.sugar.Sync() }

// NopLogger returns a Logger that discards everything, for callers
// that do not want logging wired in at all.
func NopLogger() Logger { return New("noop", zap.NewNop()) }
