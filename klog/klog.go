// Copyright 2016 The Go Kernel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package klog provides the kernel's leveled logger: an llog-backed
// logger with a LoggingOpts option pattern, trimmed to what a
// single-process kernel core needs
// (no per-file/per-module verbosity, no RPC-runtime flag prefixing).
//
// The scheduler uses klog.Fatalf to implement the "abort the kernel"
// behavior a contract violation requires: a failed internal assertion
// calls llog's FatalLog path, which here logs and then panics, since a Go
// process cannot otherwise halt the "CPU" the way a kernel panic would.
package klog

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/cosmosnicolaou/llog"
)

const initialMaxStackBufSize = 128 * 1024

// Level controls V-leveled logging verbosity.
type Level llog.Level

// Set implements flag.Value.
func (l *Level) Set(v string) error { return (*llog.Level)(l).Set(v) }

// String implements flag.Value.
func (l *Level) String() string { return (*llog.Level)(l).String() }

// StderrThreshold identifies the severity at/above which lines are also
// written to stderr.
type StderrThreshold llog.Severity

// Set implements flag.Value.
func (s *StderrThreshold) Set(v string) error { return (*llog.Severity)(s).Set(v) }

// String implements flag.Value.
func (s *StderrThreshold) String() string { return (*llog.Severity)(s).String() }

// Opt configures a logger via ConfigureLogger.
type Opt interface{ loggingOpt() }

type (
	AutoFlush       bool
	AlsoLogToStderr bool
	LogDir          string
	LogToStderr     bool
	MaxStackBufSize int
)

func (AutoFlush) loggingOpt()       {}
func (AlsoLogToStderr) loggingOpt() {}
func (LogDir) loggingOpt()          {}
func (LogToStderr) loggingOpt()     {}
func (MaxStackBufSize) loggingOpt() {}
func (Level) loggingOpt()           {}
func (StderrThreshold) loggingOpt() {}

// ErrConfigured is returned by ConfigureLogger if the logger has already
// been configured and OverridePriorConfiguration was not supplied.
var ErrConfigured = errors.New("klog: logger has already been configured")

// OverridePriorConfiguration allows a later ConfigureLogger call to
// replace an earlier one.
type OverridePriorConfiguration bool

func (OverridePriorConfiguration) loggingOpt() {}

// Logger is the kernel's logging facade.
type Logger struct {
	log             *llog.Log
	mu              sync.Mutex
	autoFlush       bool
	maxStackBufSize int
	logDir          string
	configured      bool
}

// Default is the kernel-wide logger used by package kernel.
var Default = New("kernel")

// New creates a new, independently configured Logger.
func New(name string) *Logger {
	return &Logger{log: llog.NewLogger(name, 1), maxStackBufSize: initialMaxStackBufSize}
}

func (l *Logger) maybeFlush() {
	if l.autoFlush {
		l.log.Flush()
	}
}

// ConfigureLogger applies opts to l.
func (l *Logger) ConfigureLogger(opts ...Opt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	override := false
	for _, o := range opts {
		if v, ok := o.(OverridePriorConfiguration); ok {
			override = bool(v)
		}
	}
	if l.configured && !override {
		return ErrConfigured
	}
	for _, o := range opts {
		switch v := o.(type) {
		case AlsoLogToStderr:
			l.log.SetAlsoLogToStderr(bool(v))
		case Level:
			l.log.SetV(llog.Level(v))
		case LogDir:
			l.logDir = string(v)
			l.log.SetLogDir(l.logDir)
		case LogToStderr:
			l.log.SetLogToStderr(bool(v))
		case MaxStackBufSize:
			if int(v) > initialMaxStackBufSize {
				l.maxStackBufSize = int(v)
				l.log.SetMaxStackBufSize(int(v))
			}
		case StderrThreshold:
			l.log.SetStderrThreshold(llog.Severity(v))
		case AutoFlush:
			l.autoFlush = bool(v)
		}
	}
	l.configured = true
	return nil
}

// LogDir returns the directory log files are written to.
func (l *Logger) LogDir() string {
	if l.logDir != "" {
		return l.logDir
	}
	return os.TempDir()
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log.Printf(llog.InfoLog, format, args...)
	l.maybeFlush()
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.log.Printf(llog.WarningLog, format, args...)
	l.maybeFlush()
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log.Printf(llog.ErrorLog, format, args...)
	l.maybeFlush()
}

// Fatalf logs to the FATAL, ERROR and INFO logs and then panics: the
// scheduler has no OS underneath it to halt, so a kernel "panic" here is a
// Go panic (callers that want process-exit semantics should recover at
// main and call os.Exit).
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log.Printf(llog.FatalLog, format, args...)
	panic(fmt.Sprintf(format, args...))
}

// V reports whether level is enabled.
func (l *Logger) V(level Level) bool { return l.log.V(llog.Level(level)) }

// InfoStack logs the calling goroutine's stack (or all goroutines', if all).
func (l *Logger) InfoStack(all bool) {
	n := initialMaxStackBufSize
	var trace []byte
	for n <= l.maxStackBufSize {
		trace = make([]byte, n)
		nbytes := runtime.Stack(trace, all)
		if nbytes < len(trace) {
			l.log.Printf(llog.InfoLog, "%s", trace[:nbytes])
			return
		}
		n *= 2
	}
	l.log.Printf(llog.InfoLog, "%s", trace)
	l.maybeFlush()
}

// Flush flushes all pending log I/O.
func (l *Logger) Flush() { l.log.Flush() }

// Package-level convenience wrappers over Default.
func Infof(format string, args ...interface{})    { Default.Infof(format, args...) }
func Warningf(format string, args ...interface{}) { Default.Warningf(format, args...) }
func Errorf(format string, args ...interface{})   { Default.Errorf(format, args...) }
func Fatalf(format string, args ...interface{})   { Default.Fatalf(format, args...) }
func V(level Level) bool                          { return Default.V(level) }
