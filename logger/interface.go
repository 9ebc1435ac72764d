/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package logger

import (
	"context"
	"io"
)

// Logger is the facade every component in htcore is constructed with.
// Implementations are safe for concurrent use.
type Logger interface {
	io.WriteCloser

	SetLevel(lvl Level)
	GetLevel() Level

	SetFields(f Fields)
	GetFields() Fields

	// Clone returns an independent Logger seeded with this one's level
	// and fields, letting a component layer on request-scoped fields
	// without mutating the parent.
	Clone() Logger

	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
	Panic(msg string, args ...interface{})

	// Entry emits a single record at an explicit level, used by callers
	// that already computed the level dynamically (e.g. CheckError).
	Entry(lvl Level, msg string, args ...interface{}) Entry

	// CheckError logs err at lvl if non-nil and returns it unchanged,
	// letting call sites wrap log-and-return-error in one expression.
	CheckError(lvl Level, msg string, err error) error

	// Access emits an HTTP access-log line built from a completed
	// request/response exchange.
	Access(a AccessEntry)

	GetStdLogger() StdLogger
}

// StdLogger is the minimal subset of *log.Logger that callers needing
// stdlib-shaped logging (third-party libraries expecting *log.Logger)
// can use against a Logger-backed writer.
type StdLogger interface {
	Print(args ...interface{})
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

// New returns a Logger at InfoLevel with no ambient fields, writing
// through logrus to ctx's lifetime (Close is a no-op).
func New(ctx context.Context) Logger {
	return newLogrusLogger(ctx)
}
