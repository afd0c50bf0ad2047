/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package logger is the driver's structured logging façade: a small,
// level-filtered wrapper over logrus with a default-fields map that every
// Entry inherits. It exists so the protocol engine can emit its pre-send
// (masked) and pre-write (unmasked) log events through the same interface
// without ever sharing storage between the two (see Entry in entry.go).
package logger

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the interface every driver component logs through.
type Logger interface {
	SetLevel(lvl Level)
	GetLevel() Level

	SetFields(fields Fields)
	GetFields() Fields

	Clone() Logger

	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warning(message string, args ...interface{})
	Error(message string, args ...interface{})

	// Entry returns a new Entry pre-bound to this logger's backend, ready
	// for field/error attachment before Log() is called.
	Entry(lvl Level, message string, args ...interface{}) *Entry
}

type logger struct {
	mu  sync.RWMutex
	lvl Level
	fld Fields
	log *logrus.Logger
}

// New returns a Logger writing to a fresh logrus.Logger at InfoLevel.
func New() Logger {
	l := logrus.New()
	l.SetFormatter(defaultFormatter())

	return &logger{
		lvl: InfoLevel,
		fld: NewFields(),
		log: l,
	}
}

// NewFrom wraps an existing *logrus.Logger, e.g. one shared with host
// application code.
func NewFrom(backend *logrus.Logger) Logger {
	if backend == nil {
		return New()
	}

	return &logger{
		lvl: InfoLevel,
		fld: NewFields(),
		log: backend,
	}
}

func (l *logger) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lvl = lvl
	if lvl == NilLevel {
		l.log.SetLevel(logrus.PanicLevel + 1)
	} else {
		l.log.SetLevel(lvl.Logrus())
	}
}

func (l *logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.lvl
}

func (l *logger) SetFields(fields Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fld = fields
}

func (l *logger) GetFields() Fields {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.fld
}

func (l *logger) Clone() Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &logger{
		lvl: l.lvl,
		fld: l.fld.clone(),
		log: l.log,
	}
}

func (l *logger) getBackend() *logrus.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.log
}

func (l *logger) Entry(lvl Level, message string, args ...interface{}) *Entry {
	if len(args) > 0 {
		message = sprintf(message, args...)
	}

	return &Entry{
		log:     l.getBackend,
		Level:   lvl,
		Message: message,
		Fields:  l.GetFields(),
	}
}

func (l *logger) Debug(message string, args ...interface{}) {
	l.Entry(DebugLevel, message, args...).Log()
}

func (l *logger) Info(message string, args ...interface{}) {
	l.Entry(InfoLevel, message, args...).Log()
}

func (l *logger) Warning(message string, args ...interface{}) {
	l.Entry(WarnLevel, message, args...).Log()
}

func (l *logger) Error(message string, args ...interface{}) {
	l.Entry(ErrorLevel, message, args...).Log()
}
