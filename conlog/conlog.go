// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

var (
	logger    atomic.Pointer[slog.Logger]
	developer atomic.Bool
)

func init() {
	logger.Store(slog.Default())
}

func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func Logger() *slog.Logger {
	return logger.Load()
}

// SetDeveloper toggles output of DPrintf.
func SetDeveloper(b bool) {
	developer.Store(b)
}

func Printf(format string, v ...interface{}) {
	Logger().Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...interface{}) {
	Logger().Warn(fmt.Sprintf(format, v...))
}

// DPrintf only prints in developer mode.
func DPrintf(format string, v ...interface{}) {
	if !developer.Load() {
		return
	}
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		// developer mode overrides the handler level
		l.Info(fmt.Sprintf(format, v...), slog.Bool("developer", true))
		return
	}
	l.Debug(fmt.Sprintf(format, v...))
}
