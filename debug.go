// go-evpilot
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-evpilot.
//
// go-evpilot is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-evpilot is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-evpilot; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package evpilot

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	debugEnabled atomic.Bool
	customLogger atomic.Bool
	logger       atomic.Pointer[zap.Logger]

	devOnce   sync.Once
	devLogger *zap.Logger
)

func init() {
	logger.Store(zap.NewNop())
}

// SetDebugEnabled turns debug logging on or off. When enabled and no logger
// has been installed with SetLogger, a development console logger is used.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
	if !enabled || customLogger.Load() {
		return
	}
	logger.Store(developmentLogger())
}

// developmentLogger builds the console logger once per process
func developmentLogger() *zap.Logger {
	devOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			l = zap.NewNop()
		}
		devLogger = l.Named("evpilot")
	})
	return devLogger
}

// SetLogger installs the logger used for debug output. Passing nil restores
// the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		customLogger.Store(false)
		logger.Store(zap.NewNop())
		return
	}
	customLogger.Store(true)
	logger.Store(l)
}

// Logger returns the package debug logger. Other packages in this module log
// through it so a single -debug switch covers every layer.
func Logger() *zap.Logger {
	if !debugEnabled.Load() {
		return zap.NewNop()
	}
	return logger.Load()
}

func debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	logger.Load().Sugar().Debugf(format, args...)
}

func debugln(msg string, fields ...zap.Field) {
	if !debugEnabled.Load() {
		return
	}
	logger.Load().Debug(msg, fields...)
}
