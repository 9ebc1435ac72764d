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
	"time"
)

// Entry is a single emitted log record, as returned by Logger.Entry.
type Entry interface {
	Level() Level
	Message() string
	Fields() Fields
	Time() time.Time
}

type entry struct {
	lvl Level
	msg string
	fld Fields
	tme time.Time
}

func newEntry(lvl Level, msg string, fld Fields) Entry {
	return &entry{lvl: lvl, msg: msg, fld: fld, tme: time.Now()}
}

func (e *entry) Level() Level     { return e.lvl }
func (e *entry) Message() string  { return e.msg }
func (e *entry) Fields() Fields   { return e.fld }
func (e *entry) Time() time.Time  { return e.tme }

// AccessEntry carries the fixed set of fields an HTTP access-log line
// always has, in addition to whatever ambient Fields the Logger holds.
type AccessEntry struct {
	Method     string
	Path       string
	RemoteAddr string
	StatusCode int
	BytesSent  int64
	Duration   time.Duration
}

func (a AccessEntry) Fields() Fields {
	return Fields{
		"method":      a.Method,
		"path":        a.Path,
		"remote_addr": a.RemoteAddr,
		"status":      a.StatusCode,
		"bytes_sent":  a.BytesSent,
		"duration_ms": a.Duration.Milliseconds(),
	}
}
