// Package vireolog provides opt-in leveled debug logging. Logging is a
// no-op unless Enabled is set, matching the teacher runtime's opt-in
// DebugMode philosophy rather than an always-on structured logger.
package vireolog

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// Enabled gates all logging in this package. Off by default so a
// production runtime pays no logging cost.
var Enabled atomic.Bool

var handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
var logger = slog.New(handler)

// Debugf logs at debug level when Enabled.
func Debugf(format string, args ...any) {
	if !Enabled.Load() {
		return
	}
	logger.Debug(fmt.Sprintf(format, args...))
}

// Warnf logs at warn level when Enabled. Reported errors (spec §7) log
// here before being returned to the caller.
func Warnf(format string, args ...any) {
	if !Enabled.Load() {
		return
	}
	logger.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs at error level when Enabled. Fatal errors (spec §7) log
// here before panicking.
func Errorf(format string, args ...any) {
	if !Enabled.Load() {
		return
	}
	logger.Error(fmt.Sprintf(format, args...))
}
